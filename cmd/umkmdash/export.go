package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/export"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dataset or a summary table as CSV or XLSX",
	Long:  "Writes the full dataset (--type full), the per-district summary (--type kabkota) or the per-sector summary (--type sektor). Unknown types fall back to full. Use --output - to write to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("export")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		typ := export.ParseType(strings.ToLower(strings.TrimSpace(viper.GetString("export.type"))))
		format, err := export.ParseFormat(strings.ToLower(strings.TrimSpace(viper.GetString("export.format"))))
		if err != nil {
			return err
		}

		doc, err := loadInput(cmd, "export", dataset.Options{}, quiet)
		if err != nil {
			return err
		}
		tbl := export.Build(typ, doc.Data)

		outPath := strings.TrimSpace(viper.GetString("export.output"))
		if outPath == "" {
			outPath = export.FileName(typ, format)
		}
		if outPath == "-" {
			return export.Write(cmd.OutOrStdout(), tbl, format)
		}

		if err := writeFile(outPath, func(w io.Writer) error { return export.Write(w, tbl, format) }); err != nil {
			return err
		}

		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.GetCheckMark(),
				ui.Dim.Render(fmt.Sprintf("Exported %d row(s) to", len(tbl.Rows))), ui.Secondary.Render(outPath))
		}
		return nil
	},
}

func init() {
	addInputFlags(exportCmd, "export")
	addLogFlags(exportCmd, "export")

	exportCmd.Flags().StringP("type", "t", "", "Export type: full|kabkota|sektor (default full)")
	exportCmd.Flags().StringP("format", "f", "", "Output format: csv|xlsx (default csv)")
	exportCmd.Flags().StringP("output", "o", "", "Output path, or - for stdout (default: <type name>.<format>)")

	viper.BindPFlag("export.type", exportCmd.Flags().Lookup("type"))
	viper.BindPFlag("export.format", exportCmd.Flags().Lookup("format"))
	viper.BindPFlag("export.output", exportCmd.Flags().Lookup("output"))
}
