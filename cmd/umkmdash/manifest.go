package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/manifest"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write a CycloneDX manifest describing the dataset",
	Long:  "Builds a CycloneDX BOM whose metadata component is the dataset (type data) with row, year, district, sub-district and sector statistics, the file hash and the umkmdash tool entry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("manifest")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		outPath := strings.TrimSpace(viper.GetString("manifest.output"))
		if outPath == "" {
			return apperr.User("--output is required")
		}
		format := viper.GetString("manifest.format")
		if format == "" {
			format = "auto"
		}
		spec := viper.GetString("manifest.spec")

		// Fail fast on format/extension mismatch
		if format != "auto" {
			ext := strings.ToLower(filepath.Ext(outPath))
			if (format == "xml" && ext == ".json") || (format == "json" && ext == ".xml") {
				return apperr.Userf("output path extension %q does not match format %q", ext, format)
			}
		}

		doc, err := loadInput(cmd, "manifest", dataset.Options{}, quiet)
		if err != nil {
			return err
		}
		sum, err := manifest.HashFile(viper.GetString("manifest.input"))
		if err != nil {
			return err
		}

		bom := manifest.Build(doc, manifest.Options{
			SHA256:      sum,
			Custodian:   viper.GetString("manifest.custodian"),
			ToolVersion: manifest.ToolVersion(),
		})
		if err := manifest.Write(bom, outPath, format, spec); err != nil {
			return err
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.GetCheckMark(),
				ui.Dim.Render(fmt.Sprintf("Manifest for %s (%d rows) written to", doc.Meta.Source, doc.Meta.Rows)),
				ui.Secondary.Render(outPath))
		}
		return nil
	},
}

func init() {
	addInputFlags(manifestCmd, "manifest")
	addLogFlags(manifestCmd, "manifest")

	manifestCmd.Flags().StringP("output", "o", "", "Output manifest path (required)")
	manifestCmd.Flags().StringP("format", "f", "", "Manifest format: json|xml|auto (default auto, by extension)")
	manifestCmd.Flags().String("spec", "", "CycloneDX spec version (default latest)")
	manifestCmd.Flags().String("custodian", "", "Organisation responsible for the dataset")

	viper.BindPFlag("manifest.output", manifestCmd.Flags().Lookup("output"))
	viper.BindPFlag("manifest.format", manifestCmd.Flags().Lookup("format"))
	viper.BindPFlag("manifest.spec", manifestCmd.Flags().Lookup("spec"))
	viper.BindPFlag("manifest.custodian", manifestCmd.Flags().Lookup("custodian"))
}
