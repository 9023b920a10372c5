package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/config"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank sub-districts or policy alternatives",
	Long:  "Explains a ranking: 'rank priority' scores sub-district aggregates, 'rank policy' runs the Weighted Sum Model over the policy catalog.",
}

var rankPriorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Rank sub-districts by intervention priority with a score breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("rank.priority")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		opts, err := config.ViewOptions(viper.GetViper())
		if err != nil {
			return err
		}
		if n := viper.GetInt("rank.priority.top"); n > 0 {
			opts.TopN = n
		}
		filter, err := readFilter("rank.priority")
		if err != nil {
			return err
		}

		doc, err := loadInput(cmd, "rank.priority", dataset.Options{}, quiet)
		if err != nil {
			return err
		}

		groups := aggregate.BySubDistrict(filter.Apply(doc.Data), aggregate.AllYears)
		scored := opts.Priority.Rank(groups, opts.TopN)

		out := cmd.OutOrStdout()
		switch {
		case viper.GetBool("rank.priority.json"):
			return writeJSON(out, scored, "priority ranking")
		case viper.GetBool("rank.priority.plain-summary"):
			ui.NewRankingUI(out, quiet).PrintPlain(priorityRanking(scored, opts.Priority))
		default:
			ui.NewRankingUI(out, quiet).PrintReport(priorityRanking(scored, opts.Priority))
		}
		return nil
	},
}

var rankPolicyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Rank policy alternatives with the Weighted Sum Model",
	Long:  "Scores the policy catalog (built-in or --catalog) on impact, feasibility, risk and time to value and prints the decision trace.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := resolveLogLevel("rank.policy")
		if err != nil {
			return err
		}
		quiet := level == "quiet"
		wireLogging(cmd, level)

		opts, err := config.ViewOptions(viper.GetViper())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if viper.GetBool("rank.policy.write-catalog") {
			return decision.WriteCatalog(out, opts.Catalog)
		}
		trace := decision.Evaluate(opts.Catalog, opts.Weights)

		switch {
		case viper.GetBool("rank.policy.json"):
			return writeJSON(out, trace, "decision trace")
		case viper.GetBool("rank.policy.plain-summary"):
			ui.NewRankingUI(out, quiet).PrintPlain(policyRanking(trace))
		default:
			ui.NewRankingUI(out, quiet).PrintReport(policyRanking(trace))
		}
		return nil
	},
}

func writeJSON(w io.Writer, v any, what string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", what, err)
	}
	return nil
}

func init() {
	addInputFlags(rankPriorityCmd, "rank.priority")
	addFilterFlags(rankPriorityCmd, "rank.priority")
	addLogFlags(rankPriorityCmd, "rank.priority")
	rankPriorityCmd.Flags().Int("top", 0, "Number of sub-districts to list (default: insight.top or 10)")
	rankPriorityCmd.Flags().Bool("plain-summary", false, "Print one line per sub-district (no styling)")
	rankPriorityCmd.Flags().Bool("json", false, "Print the scored groups as JSON")
	viper.BindPFlag("rank.priority.top", rankPriorityCmd.Flags().Lookup("top"))
	viper.BindPFlag("rank.priority.plain-summary", rankPriorityCmd.Flags().Lookup("plain-summary"))
	viper.BindPFlag("rank.priority.json", rankPriorityCmd.Flags().Lookup("json"))

	addLogFlags(rankPolicyCmd, "rank.policy")
	rankPolicyCmd.Flags().Bool("plain-summary", false, "Print one line per alternative (no styling)")
	rankPolicyCmd.Flags().Bool("json", false, "Print the decision trace as JSON")
	rankPolicyCmd.Flags().Bool("write-catalog", false, "Print the effective catalog as YAML, as a starting point for --catalog")
	viper.BindPFlag("rank.policy.plain-summary", rankPolicyCmd.Flags().Lookup("plain-summary"))
	viper.BindPFlag("rank.policy.json", rankPolicyCmd.Flags().Lookup("json"))
	viper.BindPFlag("rank.policy.write-catalog", rankPolicyCmd.Flags().Lookup("write-catalog"))

	rankCmd.AddCommand(rankPriorityCmd, rankPolicyCmd)
}
