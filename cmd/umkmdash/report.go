package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
	"github.com/umkm-jabar/umkmdash-cli/internal/priority"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

// scopeLabel describes a filter for report headers.
func scopeLabel(f aggregate.Filter) string {
	if f.IsZero() {
		return "Semua wilayah"
	}
	var parts []string
	if f.District != "" {
		parts = append(parts, f.District)
	}
	if f.Sector != "" {
		parts = append(parts, string(f.Sector))
	}
	if f.Year != 0 {
		parts = append(parts, strconv.Itoa(f.Year))
	}
	return strings.Join(parts, " · ")
}

func summaryReport(vm insight.ViewModel) ui.SummaryReport {
	r := ui.SummaryReport{
		Source:       vm.Meta.Source,
		Scope:        scopeLabel(vm.Filters.Filter),
		SelectedYear: vm.Filters.SelectedYear,
		KPI: ui.KPIView{
			Rows:              vm.KPI.Rows,
			TotalBusinesses:   vm.KPI.TotalBusinesses,
			TotalWorkforce:    vm.KPI.TotalWorkforce,
			AvgFormalPct:      vm.KPI.AvgFormalPct,
			AvgDigitalPct:     vm.KPI.AvgDigitalPct,
			AvgFinancingPct:   vm.KPI.AvgFinancingPct,
			TotalRevenue:      vm.KPI.TotalRevenue,
			AvgMonthlyRevenue: vm.KPI.AvgMonthlyRevenue,
		},
		YoY: ui.YoYView{
			Available:      vm.YoY.Available,
			PreviousYear:   vm.YoY.PreviousYear,
			CurrentYear:    vm.YoY.CurrentYear,
			BusinessGrowth: vm.YoY.BusinessGrowth,
			FormalGrowth:   vm.YoY.FormalGrowth,
			DigitalGrowth:  vm.YoY.DigitalGrowth,
			RevenueGrowth:  vm.YoY.RevenueGrowth,
		},
		Top:        priorityRows(vm.TopPriority),
		Insights:   vm.Insights,
		Choice:     vm.Recommendation.Choice,
		Reason:     vm.Recommendation.Reason,
		FocusAreas: vm.Recommendation.FocusAreas,
		Decision: ui.DecisionView{
			Method:     vm.Decision.Trace.Method,
			Selected:   vm.Decision.Selected.AlternativeName,
			Score:      vm.Decision.Selected.WeightedScore,
			Confidence: vm.Decision.Confidence,
			KeyInsight: vm.Decision.KeyInsight,
		},
	}
	for _, k := range vm.RoleKPIs {
		r.Roles = append(r.Roles, ui.RoleCard{Role: k.Role, Label: k.Label, Display: k.Display})
	}
	return r
}

func priorityRows(scored []priority.Scored) []ui.PriorityRow {
	rows := make([]ui.PriorityRow, 0, len(scored))
	for i, s := range scored {
		rows = append(rows, ui.PriorityRow{
			Rank:           i + 1,
			SubDistrict:    s.Key.SubDistrict,
			District:       s.Key.District,
			Year:           s.Key.Year,
			DominantSector: string(s.DominantSector),
			Score:          s.Score,
			Poverty:        s.AvgPovertyPct,
			Unemployment:   s.AvgUnemploymentPct,
			Density:        s.AvgDensity,
			Readiness:      s.Breakdown.Readiness,
		})
	}
	return rows
}

func aggregateReport(dim aggregate.Dimension, groups []aggregate.Group) ui.AggregateReport {
	r := ui.AggregateReport{Dimension: dim.String(), Groups: make([]ui.GroupRow, 0, len(groups))}
	for _, g := range groups {
		r.Groups = append(r.Groups, ui.GroupRow{
			Label:           g.Label(),
			Year:            g.Key.Year,
			Rows:            g.Rows,
			SubDistricts:    g.SubDistricts,
			TotalBusinesses: g.TotalBusinesses,
			TotalWorkforce:  g.TotalWorkforce,
			AvgDensity:      g.AvgDensity,
			AvgFormalPct:    g.AvgFormalPct,
			AvgDigitalPct:   g.AvgDigitalPct,
			TotalRevenue:    g.TotalAnnualRevenue,
			DominantSector:  string(g.DominantSector),
		})
	}
	return r
}

func priorityRanking(scored []priority.Scored, cfg priority.Config) ui.RankingReport {
	w := cfg.Weights
	r := ui.RankingReport{
		Title: "Prioritas Intervensi Kecamatan",
		Method: fmt.Sprintf("bobot kemiskinan %.2f · pengangguran %.2f · kepadatan %.2f · kesiapan %.2f",
			w.Poverty, w.Unemployment, w.Density, w.Readiness),
	}
	for i, s := range scored {
		b := s.Breakdown
		r.Entries = append(r.Entries, ui.RankingRow{
			Rank:   i + 1,
			Label:  fmt.Sprintf("%s (%d)", s.Label(), s.Key.Year),
			Score:  s.Score,
			Detail: fmt.Sprintf("sektor dominan %s", dominantOrDash(string(s.DominantSector))),
			Notes: []string{
				fmt.Sprintf("kemiskinan %.1f → %.2f", b.PovertyNormalized, b.PovertyWeighted),
				fmt.Sprintf("pengangguran %.1f → %.2f", b.UnemploymentNormalized, b.UnemploymentWeighted),
				fmt.Sprintf("kepadatan %.1f → %.2f", b.DensityNormalized, b.DensityWeighted),
				fmt.Sprintf("kesiapan %.1f → %.2f", b.Readiness, b.ReadinessWeighted),
			},
		})
	}
	return r
}

func policyRanking(t decision.Trace) ui.RankingReport {
	w := t.Weights
	r := ui.RankingReport{
		Title: "Peringkat Alternatif Kebijakan",
		Method: fmt.Sprintf("%s · dampak %.2f · kelayakan %.2f · risiko %.2f · waktu %.2f",
			t.Method, w.Impact, w.Feasibility, w.Risk, w.TimeToValue),
	}
	for i, item := range t.Ranking {
		s := item.Scores
		r.Entries = append(r.Entries, ui.RankingRow{
			Rank:  i + 1,
			Label: item.AlternativeName,
			Score: item.WeightedScore,
			Detail: fmt.Sprintf("dampak %g · kelayakan %g · risiko %g · waktu %g",
				s.Impact, s.Feasibility, s.Risk, s.TimeToValue),
			Notes: item.Notes,
		})
	}
	return r
}

func dominantOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
