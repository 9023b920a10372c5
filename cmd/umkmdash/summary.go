package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/config"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard summary for a dataset",
	Long:  "Loads a UMKM dataset and prints KPIs, year-over-year change, the top-priority sub-districts, insights, the recommendation and the policy decision. Use --interactive to pick the filters from a form.",
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	level, err := resolveLogLevel("summary")
	if err != nil {
		return err
	}
	quiet := level == "quiet"
	wireLogging(cmd, level)

	opts, err := config.ViewOptions(viper.GetViper())
	if err != nil {
		return err
	}
	if n := viper.GetInt("summary.top"); n > 0 {
		opts.TopN = n
	}

	filter, err := readFilter("summary")
	if err != nil {
		return err
	}

	doc, err := loadInput(cmd, "summary", dataset.Options{}, quiet)
	if err != nil {
		return err
	}

	if viper.GetBool("summary.interactive") {
		choice, err := ui.PromptFilters(filterOptions(doc), ui.FilterChoice{
			Year:     filter.Year,
			District: filter.District,
			Sector:   string(filter.Sector),
		})
		if err != nil {
			return err
		}
		filter = aggregate.Filter{Year: choice.Year, District: choice.District, Sector: dataset.Sector(choice.Sector)}
	}

	vm := insight.Build(doc.Data, doc.Meta, filter, opts)
	return printSummary(cmd, vm, quiet)
}

func printSummary(cmd *cobra.Command, vm insight.ViewModel, quiet bool) error {
	out := cmd.OutOrStdout()
	switch {
	case viper.GetBool("summary.json"):
		return writeJSON(out, vm, "view model")
	case viper.GetBool("summary.plain-summary"):
		ui.NewSummaryUI(out, quiet).PrintPlain(summaryReport(vm))
	default:
		ui.NewSummaryUI(out, quiet).PrintReport(summaryReport(vm))
	}
	return nil
}

func init() {
	addInputFlags(summaryCmd, "summary")
	addFilterFlags(summaryCmd, "summary")
	addLogFlags(summaryCmd, "summary")

	summaryCmd.Flags().Int("top", 0, "Number of top-priority sub-districts (default: insight.top or 10)")
	summaryCmd.Flags().Bool("interactive", false, "Pick year, district and sector from a form")
	summaryCmd.Flags().Bool("plain-summary", false, "Print plain summary lines (no styling)")
	summaryCmd.Flags().Bool("json", false, "Print the full view model as JSON")

	viper.BindPFlag("summary.top", summaryCmd.Flags().Lookup("top"))
	viper.BindPFlag("summary.interactive", summaryCmd.Flags().Lookup("interactive"))
	viper.BindPFlag("summary.plain-summary", summaryCmd.Flags().Lookup("plain-summary"))
	viper.BindPFlag("summary.json", summaryCmd.Flags().Lookup("json"))
}
