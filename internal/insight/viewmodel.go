// Package insight assembles the dashboard view model: KPI summary,
// year-over-year deltas, the three aggregations, the top-priority
// sub-districts, template insights and the policy decision.
//
// Build is a pure function of its inputs. Two calls with the same rows, meta,
// filter and options return equal view models.
package insight

import (
	"fmt"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/priority"
)

// FallbackYear is selected when neither the filter nor the meta names a year.
const FallbackYear = 2025

// DefaultTopN is the length of the top-priority list.
const DefaultTopN = 10

// Options carries the injected configuration of a build.
type Options struct {
	TopN       int
	Priority   priority.Config
	Catalog    []decision.Alternative
	Weights    decision.Weights
	Thresholds Thresholds
	Roles      []RoleSpec
}

// DefaultOptions returns the built-in configuration.
func DefaultOptions() Options {
	return Options{
		TopN:       DefaultTopN,
		Priority:   priority.DefaultConfig(),
		Catalog:    decision.DefaultCatalog(),
		Weights:    decision.DefaultWeights(),
		Thresholds: DefaultThresholds(),
		Roles:      DefaultRoles(),
	}
}

// Filters echoes the active filter and the year the dashboard shows.
type Filters struct {
	aggregate.Filter
	SelectedYear int `json:"selectedTahun"`
}

// PolicyDecision is the ranked policy recommendation.
type PolicyDecision struct {
	Trace      decision.Trace     `json:"decisionTrace"`
	Selected   decision.TraceItem `json:"selectedPolicy"`
	Confidence string             `json:"confidenceLevel"`
	KeyInsight string             `json:"keyInsight"`
}

// highConfidenceDigitalPct is the average digital adoption above which the
// decision is reported with high confidence.
const highConfidenceDigitalPct = 30

// ViewModel is everything the presentation layer renders for one filter.
type ViewModel struct {
	Meta           dataset.Meta      `json:"meta"`
	Filters        Filters           `json:"filters"`
	KPI            KPISummary        `json:"kpi"`
	BySubDistrict  []aggregate.Group `json:"byKecamatan"`
	ByDistrict     []aggregate.Group `json:"byKabKota"`
	BySector       []aggregate.Group `json:"bySektor"`
	TopPriority    []priority.Scored `json:"topPriority"`
	YoY            YoYComparison     `json:"yoy"`
	Insights       []string          `json:"insights"`
	Recommendation Recommendation    `json:"recommendation"`
	Decision       PolicyDecision    `json:"decision"`
	RoleKPIs       []RoleKPI         `json:"roleKpis"`
	Analytics      Analytics         `json:"analytics"`
}

// Build assembles the view model for rows under filter f. Zero-valued scoring
// settings in opts fall back to their defaults; a nil catalog or role list
// stays empty.
func Build(rows []dataset.Observation, meta dataset.Meta, f aggregate.Filter, opts Options) ViewModel {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.Priority == (priority.Config{}) {
		opts.Priority = priority.DefaultConfig()
	}
	if opts.Weights == (decision.Weights{}) {
		opts.Weights = decision.DefaultWeights()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}

	filtered := f.Apply(rows)
	logf(filterScope(f), "%d of %d row(s) match", len(filtered), len(rows))

	vm := ViewModel{
		Meta:    meta,
		Filters: Filters{Filter: f, SelectedYear: selectedYear(f, meta)},
		KPI:     Summarize(filtered),
		YoY:     CompareYears(rows),
	}
	vm.BySubDistrict = aggregate.BySubDistrict(filtered, aggregate.AllYears)
	vm.ByDistrict = aggregate.ByDistrict(filtered, aggregate.AllYears)
	vm.BySector = aggregate.BySector(filtered, aggregate.AllYears)
	vm.TopPriority = opts.Priority.Rank(vm.BySubDistrict, opts.TopN)

	sectors := aggregate.SectorTotals(filtered)
	districts := aggregate.ByDistrict(filtered, disparityYear(f, filtered))
	vm.Insights = Insights(vm.KPI, vm.YoY, sectors, districts, vm.TopPriority, opts.Thresholds)
	vm.Recommendation = Recommend(vm.TopPriority)
	vm.Decision = decide(vm.KPI, len(vm.BySubDistrict), opts)
	vm.RoleKPIs = EvaluateRoles(opts.Roles, vm.KPI, meta, aggregate.Dominant(sectors))
	vm.Analytics = AssessAnalytics(filtered)
	return vm
}

func decide(kpi KPISummary, areas int, opts Options) PolicyDecision {
	d := PolicyDecision{
		Trace:      decision.Evaluate(opts.Catalog, opts.Weights),
		Confidence: "medium",
	}
	if len(d.Trace.Ranking) > 0 {
		d.Selected = d.Trace.Ranking[0]
	}
	if kpi.AvgDigitalPct > highConfidenceDigitalPct {
		d.Confidence = "high"
	}
	d.KeyInsight = fmt.Sprintf("Rata-rata adopsi digital %.1f%% dan formalisasi %.1f%% pada %d kelompok kecamatan terpilih.",
		kpi.AvgDigitalPct, kpi.AvgFormalPct, areas)
	return d
}

func selectedYear(f aggregate.Filter, meta dataset.Meta) int {
	if f.Year != 0 {
		return f.Year
	}
	if y, ok := meta.LatestYear(); ok {
		return y
	}
	return FallbackYear
}

// disparityYear is the filter year, else the latest year present in rows.
// Meta is not consulted so a stale meta block cannot hide the comparison.
func disparityYear(f aggregate.Filter, rows []dataset.Observation) int {
	if f.Year != 0 {
		return f.Year
	}
	latest := 0
	for _, r := range rows {
		if r.Valid() && r.Year > latest {
			latest = r.Year
		}
	}
	return latest
}

func filterScope(f aggregate.Filter) string {
	if f.IsZero() {
		return "all"
	}
	return fmt.Sprintf("tahun=%d kabKota=%q sektor=%q", f.Year, f.District, f.Sector)
}
