package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/export"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
	"github.com/umkm-jabar/umkmdash-cli/internal/manifest"
	"github.com/umkm-jabar/umkmdash-cli/internal/priority"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

// maxWarnings caps the per-row warnings printed before a count is shown.
const maxWarnings = 10

// resolveLogLevel reads <key>.log-level (from config, env, or flag).
func resolveLogLevel(key string) (string, error) {
	level := strings.ToLower(strings.TrimSpace(viper.GetString(key + ".log-level")))
	if level == "" {
		level = "standard"
	}
	switch level {
	case "quiet", "standard", "debug":
		return level, nil
	default:
		return "", apperr.Userf("invalid --log-level %q (expected quiet|standard|debug)", level)
	}
}

// wireLogging points package loggers at stderr. Standard level logs
// dataset loading only; debug logs every pipeline stage.
func wireLogging(cmd *cobra.Command, level string) {
	if level == "quiet" {
		return
	}
	lw := cmd.ErrOrStderr()
	dataset.SetLogger(lw)
	export.SetLogger(lw)
	manifest.SetLogger(lw)
	if level == "debug" {
		aggregate.SetLogger(lw)
		priority.SetLogger(lw)
		decision.SetLogger(lw)
		insight.SetLogger(lw)
	}
}

// addLogFlags registers --log-level and binds it to <key>.log-level.
func addLogFlags(c *cobra.Command, key string) {
	c.Flags().String("log-level", "", "Log level: quiet|standard|debug")
	viper.BindPFlag(key+".log-level", c.Flags().Lookup("log-level"))
}

// addInputFlags registers the dataset input flags of a command.
func addInputFlags(c *cobra.Command, key string) {
	c.Flags().StringP("input", "i", "", "Path to the UMKM dataset (json, csv or xlsx)")
	c.Flags().String("input-format", "", "Input dataset format: json|csv|xlsx|auto")
	c.Flags().String("sheet", "", "Worksheet to read from an xlsx input (default: first sheet)")
	viper.BindPFlag(key+".input", c.Flags().Lookup("input"))
	viper.BindPFlag(key+".input-format", c.Flags().Lookup("input-format"))
	viper.BindPFlag(key+".sheet", c.Flags().Lookup("sheet"))
}

// addFilterFlags registers --tahun, --kab-kota and --sektor.
func addFilterFlags(c *cobra.Command, key string) {
	c.Flags().Int("tahun", 0, "Only rows of this year (default: all years)")
	c.Flags().String("kab-kota", "", "Only rows of this district (kabupaten/kota)")
	c.Flags().String("sektor", "", "Only rows of this sector")
	viper.BindPFlag(key+".tahun", c.Flags().Lookup("tahun"))
	viper.BindPFlag(key+".kab-kota", c.Flags().Lookup("kab-kota"))
	viper.BindPFlag(key+".sektor", c.Flags().Lookup("sektor"))
}

// loadInput loads the dataset named by <key>.input and prints its warnings
// unless quiet.
func loadInput(cmd *cobra.Command, key string, opts dataset.Options, quiet bool) (dataset.Document, error) {
	path := strings.TrimSpace(viper.GetString(key + ".input"))
	if path == "" {
		return dataset.Document{}, apperr.User("--input is required")
	}
	if opts.Format == "" {
		opts.Format = viper.GetString(key + ".input-format")
	}
	if opts.Sheet == "" {
		opts.Sheet = viper.GetString(key + ".sheet")
	}

	doc, warnings, err := dataset.Load(path, opts)
	if !quiet {
		printWarnings(cmd.ErrOrStderr(), warnings)
	}
	if err != nil {
		return dataset.Document{}, err
	}
	return doc, nil
}

func printWarnings(w io.Writer, warnings []dataset.Warning) {
	for i, wr := range warnings {
		if i == maxWarnings {
			fmt.Fprintf(w, "%s %s\n", ui.GetWarnMark(), ui.Dim.Render(fmt.Sprintf("... and %d more warning(s)", len(warnings)-maxWarnings)))
			return
		}
		fmt.Fprintf(w, "%s %s\n", ui.GetWarnMark(), ui.Warning.Render(wr.String()))
	}
}

// readFilter builds the row filter from <key>.tahun, <key>.kab-kota and
// <key>.sektor.
func readFilter(key string) (aggregate.Filter, error) {
	f := aggregate.Filter{
		Year:     viper.GetInt(key + ".tahun"),
		District: strings.TrimSpace(viper.GetString(key + ".kab-kota")),
		Sector:   dataset.Sector(strings.TrimSpace(viper.GetString(key + ".sektor"))),
	}
	if f.Year < 0 {
		return f, apperr.Userf("invalid --tahun %d", f.Year)
	}
	return f, nil
}

// filterOptions lists the years, districts and sectors present in rows.
func filterOptions(doc dataset.Document) ui.FilterOptions {
	seen := map[string]bool{}
	var districts []string
	for _, r := range doc.Data {
		if !seen[r.District] {
			seen[r.District] = true
			districts = append(districts, r.District)
		}
	}
	sort.Strings(districts)

	sectors := make([]string, 0, len(doc.Meta.Sectors))
	for _, s := range doc.Meta.Sectors {
		sectors = append(sectors, string(s))
	}
	return ui.FilterOptions{Years: doc.Meta.Years, Districts: districts, Sectors: sectors}
}

// writeFile creates path and streams write into it through a buffer.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Userf("create %s: %v", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
