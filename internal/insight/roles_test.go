package insight

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

func TestEvaluateRoles(t *testing.T) {
	kpi := KPISummary{TotalBusinesses: 12500, AvgDigitalPct: 41.3, TotalRevenue: 812.3}
	meta := dataset.Meta{DistrictCount: 27, SubDistrictCount: 120}
	specs := []RoleSpec{
		{Role: "waliKota", Label: "Total UMKM", Metric: MetricTotalBusinesses},
		{Role: "camat", Label: "Adopsi Digital", Metric: MetricAvgDigitalPct},
		{Role: "waliKota", Label: "Omzet", Metric: MetricAnnualRevenue},
		{Role: "investor", Label: "Kabupaten/Kota", Metric: MetricDistrictCount},
		{Role: "investor", Label: "Sektor Terbesar", Metric: MetricTopSector},
	}

	got := EvaluateRoles(specs, kpi, meta, dataset.SectorCulinary)
	want := []RoleKPI{
		{Role: "waliKota", Label: "Total UMKM", Metric: MetricTotalBusinesses, Value: 12500, Display: "12.500"},
		{Role: "camat", Label: "Adopsi Digital", Metric: MetricAvgDigitalPct, Value: 41.3, Display: "41.3%"},
		{Role: "waliKota", Label: "Omzet", Metric: MetricAnnualRevenue, Value: 812.3, Display: "Rp 812.3 M"},
		{Role: "investor", Label: "Kabupaten/Kota", Metric: MetricDistrictCount, Value: 27, Display: "27"},
		{Role: "investor", Label: "Sektor Terbesar", Metric: MetricTopSector, Value: 0, Display: "Kuliner"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("EvaluateRoles mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateRoles_UnknownMetricSkipped(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(&buf)
	t.Cleanup(func() { SetLogger(nil) })

	specs := []RoleSpec{
		{Role: "camat", Label: "Rahasia", Metric: "secret_metric"},
		{Role: "camat", Label: "Kecamatan", Metric: MetricSubDistrictCount},
	}
	got := EvaluateRoles(specs, KPISummary{}, dataset.Meta{SubDistrictCount: 3}, "")
	if len(got) != 1 || got[0].Metric != MetricSubDistrictCount {
		t.Fatalf("EvaluateRoles = %+v, want only the known metric", got)
	}
	if !strings.Contains(buf.String(), "secret_metric") {
		t.Fatalf("log output = %q, want unknown metric mentioned", buf.String())
	}
}

func TestEvaluateRoles_EmptyTopSector(t *testing.T) {
	got := EvaluateRoles([]RoleSpec{{Role: "investor", Metric: MetricTopSector}}, KPISummary{}, dataset.Meta{}, "")
	if got[0].Display != "-" {
		t.Fatalf("Display = %q, want -", got[0].Display)
	}
}

func TestDefaultRoles_AllMetricsKnown(t *testing.T) {
	roles := map[string]int{}
	for _, r := range DefaultRoles() {
		if _, ok := metricRegistry[r.Metric]; !ok {
			t.Fatalf("default role %s uses unknown metric %q", r.Role, r.Metric)
		}
		roles[r.Role]++
	}
	for _, role := range []string{"waliKota", "dinasKoperasi", "camat", "investor"} {
		if roles[role] == 0 {
			t.Fatalf("no cards for role %s", role)
		}
	}
}
