package insight

import (
	"fmt"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// MetricKey names a value a role card can show.
type MetricKey string

const (
	MetricTotalBusinesses   MetricKey = "total_businesses"
	MetricWorkforce         MetricKey = "workforce"
	MetricAvgDigitalPct     MetricKey = "avg_digital_pct"
	MetricAvgFormalPct      MetricKey = "avg_formal_pct"
	MetricAvgFinancingPct   MetricKey = "avg_financing_pct"
	MetricAnnualRevenue     MetricKey = "annual_revenue"
	MetricAvgMonthlyRevenue MetricKey = "avg_monthly_revenue"
	MetricDistrictCount     MetricKey = "district_count"
	MetricSubDistrictCount  MetricKey = "subdistrict_count"
	MetricTopSector         MetricKey = "top_sector"
)

// RoleSpec declares one KPI card for a stakeholder role.
type RoleSpec struct {
	Role   string    `yaml:"role" json:"role"`
	Label  string    `yaml:"label" json:"label"`
	Metric MetricKey `yaml:"metric" json:"metric"`
}

// RoleKPI is an evaluated card.
type RoleKPI struct {
	Role    string    `json:"role"`
	Label   string    `json:"label"`
	Metric  MetricKey `json:"metric"`
	Value   float64   `json:"value"`
	Display string    `json:"display"`
}

// metricInput is what role metrics are computed from.
type metricInput struct {
	kpi       KPISummary
	meta      dataset.Meta
	topSector dataset.Sector
}

type metricFunc func(in metricInput) (float64, string)

var metricRegistry = map[MetricKey]metricFunc{
	MetricTotalBusinesses: func(in metricInput) (float64, string) {
		return float64(in.kpi.TotalBusinesses), formatThousands(in.kpi.TotalBusinesses)
	},
	MetricWorkforce: func(in metricInput) (float64, string) {
		return float64(in.kpi.TotalWorkforce), formatThousands(in.kpi.TotalWorkforce)
	},
	MetricAvgDigitalPct:   pct(func(k KPISummary) float64 { return k.AvgDigitalPct }),
	MetricAvgFormalPct:    pct(func(k KPISummary) float64 { return k.AvgFormalPct }),
	MetricAvgFinancingPct: pct(func(k KPISummary) float64 { return k.AvgFinancingPct }),
	MetricAnnualRevenue: func(in metricInput) (float64, string) {
		return in.kpi.TotalRevenue, fmt.Sprintf("Rp %.1f M", in.kpi.TotalRevenue)
	},
	MetricAvgMonthlyRevenue: func(in metricInput) (float64, string) {
		return in.kpi.AvgMonthlyRevenue, fmt.Sprintf("Rp %.1f jt", in.kpi.AvgMonthlyRevenue)
	},
	MetricDistrictCount: func(in metricInput) (float64, string) {
		return float64(in.meta.DistrictCount), fmt.Sprintf("%d", in.meta.DistrictCount)
	},
	MetricSubDistrictCount: func(in metricInput) (float64, string) {
		return float64(in.meta.SubDistrictCount), fmt.Sprintf("%d", in.meta.SubDistrictCount)
	},
	MetricTopSector: func(in metricInput) (float64, string) {
		if in.topSector == "" {
			return 0, "-"
		}
		return 0, string(in.topSector)
	},
}

func pct(get func(KPISummary) float64) metricFunc {
	return func(in metricInput) (float64, string) {
		v := get(in.kpi)
		return v, fmt.Sprintf("%.1f%%", v)
	}
}

// DefaultRoles returns the built-in cards for the four stakeholder roles.
func DefaultRoles() []RoleSpec {
	return []RoleSpec{
		{Role: "waliKota", Label: "Total UMKM", Metric: MetricTotalBusinesses},
		{Role: "waliKota", Label: "Tenaga Kerja Terserap", Metric: MetricWorkforce},
		{Role: "waliKota", Label: "Omzet Tahunan", Metric: MetricAnnualRevenue},
		{Role: "dinasKoperasi", Label: "UMKM Formal", Metric: MetricAvgFormalPct},
		{Role: "dinasKoperasi", Label: "Akses Pembiayaan", Metric: MetricAvgFinancingPct},
		{Role: "dinasKoperasi", Label: "Adopsi Digital", Metric: MetricAvgDigitalPct},
		{Role: "camat", Label: "Kecamatan Tercakup", Metric: MetricSubDistrictCount},
		{Role: "camat", Label: "Adopsi Digital", Metric: MetricAvgDigitalPct},
		{Role: "investor", Label: "Rata-rata Omzet Bulanan", Metric: MetricAvgMonthlyRevenue},
		{Role: "investor", Label: "Sektor Terbesar", Metric: MetricTopSector},
		{Role: "investor", Label: "Kabupaten/Kota", Metric: MetricDistrictCount},
	}
}

// EvaluateRoles computes every card. Specs naming an unknown metric are
// skipped and logged.
func EvaluateRoles(specs []RoleSpec, kpi KPISummary, meta dataset.Meta, topSector dataset.Sector) []RoleKPI {
	in := metricInput{kpi: kpi, meta: meta, topSector: topSector}
	out := make([]RoleKPI, 0, len(specs))
	for _, s := range specs {
		fn, ok := metricRegistry[s.Metric]
		if !ok {
			logf(s.Role, "unknown metric %q, card skipped", s.Metric)
			continue
		}
		v, display := fn(in)
		out = append(out, RoleKPI{Role: s.Role, Label: s.Label, Metric: s.Metric, Value: v, Display: display})
	}
	return out
}
