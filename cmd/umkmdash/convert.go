package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an XLSX or CSV dataset into the JSON document",
	Long:  "Reads a dataset through the validating loader and writes the JSON document {meta, summary, data} with computed statistics. Use --output - to write to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("convert")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		outPath := strings.TrimSpace(viper.GetString("convert.output"))
		if outPath == "" {
			return apperr.User("--output is required")
		}

		doc, err := loadInput(cmd, "convert", dataset.Options{Source: viper.GetString("convert.source")}, quiet)
		if err != nil {
			return err
		}

		if outPath == "-" {
			return dataset.WriteJSON(cmd.OutOrStdout(), doc)
		}

		if err := writeFile(outPath, func(w io.Writer) error { return dataset.WriteJSON(w, doc) }); err != nil {
			return err
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.GetCheckMark(),
				ui.Dim.Render(fmt.Sprintf("Converted %d row(s) (%d year(s), %d kecamatan) to", doc.Meta.Rows, len(doc.Meta.Years), doc.Meta.SubDistrictCount)),
				ui.Secondary.Render(outPath))
		}
		return nil
	},
}

func init() {
	addInputFlags(convertCmd, "convert")
	addLogFlags(convertCmd, "convert")

	convertCmd.Flags().StringP("output", "o", "", "Output JSON path, or - for stdout (required)")
	convertCmd.Flags().String("source", "", "Source name recorded in meta (default: input file name)")

	viper.BindPFlag("convert.output", convertCmd.Flags().Lookup("output"))
	viper.BindPFlag("convert.source", convertCmd.Flags().Lookup("source"))
}
