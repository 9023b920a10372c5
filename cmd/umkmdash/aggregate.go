package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate the dataset by sub-district, district or sector",
	Long:  "Groups dataset rows by kecamatan, kabkota or sektor (per year) and prints totals, averages and the dominant sector of each group.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("aggregate")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		by := strings.ToLower(strings.TrimSpace(viper.GetString("aggregate.by")))
		if by == "" {
			by = "kabkota"
		}
		dim, ok := aggregate.ParseDimension(by)
		if !ok {
			return apperr.Userf("invalid --by %q (expected kecamatan|kabkota|sektor)", by)
		}

		filter, err := readFilter("aggregate")
		if err != nil {
			return err
		}

		doc, err := loadInput(cmd, "aggregate", dataset.Options{}, quiet)
		if err != nil {
			return err
		}

		// The year is the grouping restriction of By; district and sector
		// narrow the rows first.
		rows := aggregate.Filter{District: filter.District, Sector: filter.Sector}.Apply(doc.Data)
		groups := aggregate.By(dim, rows, filter.Year)

		out := cmd.OutOrStdout()
		switch {
		case viper.GetBool("aggregate.json"):
			return writeJSON(out, groups, "groups")
		case viper.GetBool("aggregate.plain-summary"):
			ui.NewAggregateUI(out, quiet).PrintPlain(aggregateReport(dim, groups))
		default:
			ui.NewAggregateUI(out, quiet).PrintReport(aggregateReport(dim, groups))
		}
		return nil
	},
}

func init() {
	addInputFlags(aggregateCmd, "aggregate")
	addFilterFlags(aggregateCmd, "aggregate")
	addLogFlags(aggregateCmd, "aggregate")

	aggregateCmd.Flags().String("by", "", "Grouping dimension: kecamatan|kabkota|sektor (default kabkota)")
	aggregateCmd.Flags().Bool("plain-summary", false, "Print tab-separated lines (no styling)")
	aggregateCmd.Flags().Bool("json", false, "Print the groups as JSON")

	viper.BindPFlag("aggregate.by", aggregateCmd.Flags().Lookup("by"))
	viper.BindPFlag("aggregate.plain-summary", aggregateCmd.Flags().Lookup("plain-summary"))
	viper.BindPFlag("aggregate.json", aggregateCmd.Flags().Lookup("json"))
}
