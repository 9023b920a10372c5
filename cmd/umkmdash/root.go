package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/config"
	"github.com/umkm-jabar/umkmdash-cli/internal/manifest"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "umkmdash",
	Short: "Aggregate, score and export West Java UMKM regional data",
	Long:  longDescription,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
	},

	// When invoked without a subcommand, show help (with banner) instead of
	// printing a plain usage output.
	RunE: func(cmd *cobra.Command, args []string) error {
		initUIAndBanner(cmd)
		return cmd.Help()
	},
}

var (
	cfgFile     string
	catalogFile string
	version     string
)

// SetVersion sets the version for the CLI and the manifest tool entry.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
	if manifest.Version == "" {
		manifest.Version = v
	}
}

// GetRootCmd returns the root command for use with fang
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.umkmdash.yaml or ./config/defaults.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "Policy catalog YAML (default: built-in catalog)")
	viper.BindPFlag(config.KeyCatalog, rootCmd.PersistentFlags().Lookup("catalog"))

	// Ensure `--help` (and help subcommands) show the banner consistently.
	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initUIAndBanner(cmd)
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(summaryCmd, aggregateCmd, rankCmd, exportCmd, convertCmd, serveCmd, browseCmd, manifestCmd, verifyCmd)
}

func initConfig() {
	// Environment variables override the config file, e.g.
	// scoring.weights.poverty -> UMKMDASH_SCORING_WEIGHTS_POVERTY
	viper.SetEnvPrefix("UMKMDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		cobra.CheckErr(viper.ReadInConfig())
		printConfigUsed()
		return
	}

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")
	viper.AddConfigPath(home)
	viper.AddConfigPath("./config")

	// Try .umkmdash first
	viper.SetConfigName(".umkmdash")
	err = viper.ReadInConfig()

	// If not found, try defaults.yaml
	notFound := viper.ConfigFileNotFoundError{}
	if err != nil && errors.As(err, &notFound) {
		viper.SetConfigName("defaults")
		err = viper.ReadInConfig()
	}

	switch {
	case err != nil && !errors.As(err, &notFound):
		cobra.CheckErr(err)
	case err != nil:
		// The config file is optional.
	default:
		printConfigUsed()
	}
}

func printConfigUsed() {
	configMsg := ui.Dim.Render("Using config file: ") + ui.Secondary.Render(viper.ConfigFileUsed())
	fmt.Fprintln(os.Stderr, configMsg)
}

const longDescription = "Regional dashboard pipeline for West Java micro, small and medium enterprises (UMKM). Aggregates sub-district observations, scores intervention priority, ranks policy alternatives and exports the results."

func initUIAndBanner(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	ui.Init(os.Getenv("NO_COLOR") != "")
	cmd.Root().Long = ui.RenderBanner(ui.BannerASCII) + "\n" + longDescription
}
