package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/manifest"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that a CycloneDX manifest still describes a dataset",
	Long:  "Reads a manifest written by 'umkmdash manifest' and compares its component, statistics and SHA-256 hash with the dataset. --strict also fails on missing facts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("verify")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		manifestPath := strings.TrimSpace(viper.GetString("verify.manifest"))
		if manifestPath == "" {
			return apperr.User("--manifest is required")
		}
		bom, err := manifest.Read(manifestPath, viper.GetString("verify.manifest-format"))
		if err != nil {
			return apperr.Userf("read manifest: %v", err)
		}

		doc, err := loadInput(cmd, "verify", dataset.Options{}, quiet)
		if err != nil {
			return err
		}
		sum, err := manifest.HashFile(viper.GetString("verify.input"))
		if err != nil {
			return err
		}

		res := manifest.Verify(bom, doc, manifest.VerifyOptions{Strict: viper.GetBool("verify.strict"), SHA256: sum})

		out := cmd.OutOrStdout()
		switch {
		case viper.GetBool("verify.plain-summary"):
			fmt.Fprintln(out, res.Summary())
		case !quiet:
			printVerifyResult(out, res)
		}

		if !res.Valid {
			return errors.New("verification failed")
		}
		return nil
	},
}

func printVerifyResult(w io.Writer, res manifest.VerifyResult) {
	var sb strings.Builder
	if res.Valid {
		sb.WriteString(ui.GetCheckMark() + " " + ui.Success.Bold(true).Render("Manifest matches the dataset"))
	} else {
		sb.WriteString(ui.GetCrossMark() + " " + ui.Error.Bold(true).Render("Manifest does not match the dataset"))
	}
	for _, e := range res.Errors {
		sb.WriteString("\n  " + ui.GetCrossMark() + " " + e)
	}
	for _, warn := range res.Warnings {
		sb.WriteString("\n  " + ui.GetWarnMark() + " " + ui.Dim.Render(warn))
	}

	if res.Valid && len(res.Warnings) == 0 {
		fmt.Fprintln(w, ui.SuccessBox.Render(sb.String()))
		return
	}
	fmt.Fprintln(w, ui.WarningBox.Render(sb.String()))
}

func init() {
	addInputFlags(verifyCmd, "verify")
	addLogFlags(verifyCmd, "verify")

	verifyCmd.Flags().StringP("manifest", "m", "", "Path to the CycloneDX manifest (required)")
	verifyCmd.Flags().String("manifest-format", "", "Manifest format: json|xml|auto")
	verifyCmd.Flags().Bool("strict", false, "Fail on missing hash, serial number or statistics")
	verifyCmd.Flags().Bool("plain-summary", false, "Print a single-line plain summary (no styling)")

	viper.BindPFlag("verify.manifest", verifyCmd.Flags().Lookup("manifest"))
	viper.BindPFlag("verify.manifest-format", verifyCmd.Flags().Lookup("manifest-format"))
	viper.BindPFlag("verify.strict", verifyCmd.Flags().Lookup("strict"))
	viper.BindPFlag("verify.plain-summary", verifyCmd.Flags().Lookup("plain-summary"))
}
