package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/config"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the top-priority sub-districts interactively",
	Long:  "Opens a terminal table of the top-priority sub-districts for the selected filter. Press enter to show the indicators behind a score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("browse")
		if err != nil {
			return err
		}
		wireLogging(cmd, level)

		opts, err := config.ViewOptions(viper.GetViper())
		if err != nil {
			return err
		}
		if n := viper.GetInt("browse.top"); n > 0 {
			opts.TopN = n
		}
		filter, err := readFilter("browse")
		if err != nil {
			return err
		}

		doc, err := loadInput(cmd, "browse", dataset.Options{}, level == "quiet")
		if err != nil {
			return err
		}

		vm := insight.Build(doc.Data, doc.Meta, filter, opts)
		title := fmt.Sprintf("Top %d Prioritas Kecamatan · %s", len(vm.TopPriority), scopeLabel(filter))
		return ui.RunBrowser(title, priorityRows(vm.TopPriority))
	},
}

func init() {
	addInputFlags(browseCmd, "browse")
	addFilterFlags(browseCmd, "browse")
	addLogFlags(browseCmd, "browse")

	browseCmd.Flags().Int("top", 0, "Number of sub-districts to browse (default: insight.top or 10)")
	viper.BindPFlag("browse.top", browseCmd.Flags().Lookup("top"))
}
