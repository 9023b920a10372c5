package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
	"github.com/umkm-jabar/umkmdash-cli/internal/ui"
)

func fixtureRows() []dataset.Observation {
	return []dataset.Observation{
		{
			Year: 2024, Province: "Jawa Barat", District: "Kab. Bogor", SubDistrict: "Cibinong",
			Sector: dataset.SectorCulinary, Population: 100000, Businesses: 1000, Density: 10,
			FormalPct: 40, DigitalPct: 30, FinancingPct: 20, MonthlyRevenue: 15, AnnualRevenue: 180,
			Workforce: 2500, InternetIndex: 70, LogisticsIndex: 60, EaseIndex: 65,
			UnemploymentPct: 8, PovertyPct: 7,
		},
		{
			Year: 2024, Province: "Jawa Barat", District: "Kab. Garut", SubDistrict: "Cikajang",
			Sector: dataset.SectorProcessedAgri, Population: 80000, Businesses: 400, Density: 5,
			FormalPct: 20, DigitalPct: 15, FinancingPct: 10, MonthlyRevenue: 8, AnnualRevenue: 40,
			Workforce: 900, InternetIndex: 40, LogisticsIndex: 75, EaseIndex: 50,
			UnemploymentPct: 9, PovertyPct: 12,
		},
	}
}

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "umkm.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := dataset.WriteJSON(f, dataset.Document{Data: fixtureRows()}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScopeLabel(t *testing.T) {
	tests := []struct {
		name string
		f    aggregate.Filter
		want string
	}{
		{"zero", aggregate.Filter{}, "Semua wilayah"},
		{"district", aggregate.Filter{District: "Kab. Bogor"}, "Kab. Bogor"},
		{"all fields", aggregate.Filter{Year: 2024, District: "Kab. Bogor", Sector: dataset.SectorCulinary}, "Kab. Bogor · Kuliner · 2024"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scopeLabel(tt.f); got != tt.want {
				t.Fatalf("scopeLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSummaryReport(t *testing.T) {
	rows := fixtureRows()
	meta := dataset.ComputeMeta("umkm.json", rows)
	vm := insight.Build(rows, meta, aggregate.Filter{}, insight.DefaultOptions())

	r := summaryReport(vm)
	if r.Source != "umkm.json" || r.Scope != "Semua wilayah" || r.SelectedYear != 2024 {
		t.Fatalf("header = %q/%q/%d", r.Source, r.Scope, r.SelectedYear)
	}
	if r.KPI.TotalBusinesses != 1400 || r.KPI.Rows != 2 {
		t.Fatalf("KPI = %+v", r.KPI)
	}
	if len(r.Top) != len(vm.TopPriority) {
		t.Fatalf("len(Top) = %d, want %d", len(r.Top), len(vm.TopPriority))
	}
	for i, p := range r.Top {
		want := vm.TopPriority[i]
		if p.Rank != i+1 || p.SubDistrict != want.Key.SubDistrict || p.Score != want.Score {
			t.Errorf("Top[%d] = %+v, want rank %d %s %.2f", i, p, i+1, want.Key.SubDistrict, want.Score)
		}
		if p.Readiness != want.Breakdown.Readiness || p.Poverty != want.AvgPovertyPct {
			t.Errorf("Top[%d] detail = %+v", i, p)
		}
	}
	if r.Decision.Selected != vm.Decision.Selected.AlternativeName || r.Decision.Method != decision.Method {
		t.Errorf("Decision = %+v", r.Decision)
	}
	if len(r.Roles) != len(vm.RoleKPIs) {
		t.Errorf("len(Roles) = %d, want %d", len(r.Roles), len(vm.RoleKPIs))
	}
	if diff := cmp.Diff(vm.Insights, r.Insights); diff != "" {
		t.Errorf("Insights mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateReport(t *testing.T) {
	groups := aggregate.ByDistrict(fixtureRows(), aggregate.AllYears)
	r := aggregateReport(aggregate.ByDistrictDim, groups)

	want := []ui.GroupRow{
		{Label: "Kab. Bogor", Year: 2024, Rows: 1, SubDistricts: 1, TotalBusinesses: 1000, TotalWorkforce: 2500,
			AvgDensity: 10, AvgFormalPct: 40, AvgDigitalPct: 30, TotalRevenue: 180, DominantSector: "Kuliner"},
		{Label: "Kab. Garut", Year: 2024, Rows: 1, SubDistricts: 1, TotalBusinesses: 400, TotalWorkforce: 900,
			AvgDensity: 5, AvgFormalPct: 20, AvgDigitalPct: 15, TotalRevenue: 40, DominantSector: "Pertanian Olahan"},
	}
	if r.Dimension != "kabkota" {
		t.Errorf("Dimension = %q, want kabkota", r.Dimension)
	}
	if diff := cmp.Diff(want, r.Groups); diff != "" {
		t.Fatalf("Groups mismatch (-want +got):\n%s", diff)
	}
}

func TestPolicyRanking(t *testing.T) {
	trace := decision.Evaluate(decision.DefaultCatalog(), decision.DefaultWeights())
	r := policyRanking(trace)

	if len(r.Entries) != len(trace.Ranking) {
		t.Fatalf("len(Entries) = %d, want %d", len(r.Entries), len(trace.Ranking))
	}
	for i, e := range r.Entries {
		if e.Rank != i+1 || e.Label != trace.Ranking[i].AlternativeName || e.Score != trace.Ranking[i].WeightedScore {
			t.Errorf("Entries[%d] = %+v", i, e)
		}
	}
	if !strings.HasPrefix(r.Method, decision.Method) {
		t.Errorf("Method = %q", r.Method)
	}
}

func TestFilterOptions(t *testing.T) {
	rows := append(fixtureRows(), dataset.Observation{Year: 2025, District: "Kab. Bogor", SubDistrict: "Citeureup", Sector: dataset.SectorTrade})
	doc := dataset.Document{Meta: dataset.ComputeMeta("x", rows), Data: rows}

	got := filterOptions(doc)
	if diff := cmp.Diff([]int{2024, 2025}, got.Years); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Kab. Bogor", "Kab. Garut"}, got.Districts); diff != "" {
		t.Errorf("Districts mismatch (-want +got):\n%s", diff)
	}
	if len(got.Sectors) != 3 {
		t.Errorf("Sectors = %v, want 3 entries", got.Sectors)
	}
}

func TestPrintWarnings_Caps(t *testing.T) {
	var warnings []dataset.Warning
	for i := 1; i <= maxWarnings+3; i++ {
		warnings = append(warnings, dataset.Warning{Row: i, Message: "kecamatan kosong"})
	}
	var buf bytes.Buffer
	printWarnings(&buf, warnings)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != maxWarnings+1 {
		t.Fatalf("printed %d lines, want %d", len(lines), maxWarnings+1)
	}
	if !strings.Contains(lines[maxWarnings], "and 3 more warning(s)") {
		t.Errorf("last line = %q", lines[maxWarnings])
	}
}

func TestExportCommand_DistrictCSV(t *testing.T) {
	input := writeDataset(t)
	output := filepath.Join(t.TempDir(), "kabkota.csv")

	if _, err := execute(t, "export", "--input", input, "--type", "kabkota", "--output", output, "--log-level", "quiet"); err != nil {
		t.Fatalf("export: %v", err)
	}
	b, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 districts:\n%s", len(lines), b)
	}
	if !strings.HasPrefix(lines[0], `"kab_kota","tahun","total_kecamatan"`) {
		t.Errorf("header = %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], `"Kab. Bogor","2024","1","1000"`) {
		t.Errorf("first record = %s", lines[1])
	}
}

func TestConvertCommand(t *testing.T) {
	input := writeDataset(t)
	output := filepath.Join(t.TempDir(), "out.json")

	out, err := execute(t, "convert", "--input", input, "--output", output, "--source", "uji")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, output) {
		t.Errorf("output does not name the written file:\n%s", out)
	}

	doc, warnings, err := dataset.Load(output, dataset.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if doc.Meta.Source != "uji" || doc.Meta.Rows != 2 || doc.Meta.SubDistrictCount != 2 {
		t.Errorf("Meta = %+v", doc.Meta)
	}
}

func TestCommands_UserErrors(t *testing.T) {
	input := writeDataset(t)
	tests := []struct {
		name string
		args []string
	}{
		{"bad log level", []string{"aggregate", "--input", input, "--log-level", "loud"}},
		{"bad dimension", []string{"aggregate", "--input", input, "--by", "provinsi", "--log-level", "quiet"}},
		{"missing convert output", []string{"convert", "--input", input, "--output", ""}},
		{"bad export format", []string{"export", "--input", input, "--format", "pdf", "--output", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !apperr.IsUser(err) {
				t.Fatalf("err = %v (%T), want a UserError", err, err)
			}
		})
	}
}

func TestManifestAndVerifyCommands(t *testing.T) {
	input := writeDataset(t)
	bomPath := filepath.Join(t.TempDir(), "umkm.cdx.json")

	if _, err := execute(t, "manifest", "--input", input, "--output", bomPath, "--log-level", "quiet"); err != nil {
		t.Fatalf("manifest: %v", err)
	}

	out, err := execute(t, "verify", "--input", input, "--manifest", bomPath, "--plain-summary", "--log-level", "quiet")
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Verification: PASSED") {
		t.Errorf("verify output = %q", out)
	}

	// Drop a row so the recorded statistics and hash no longer match.
	f, err := os.Create(input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := dataset.WriteJSON(f, dataset.Document{Data: fixtureRows()[:1]}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	f.Close()

	out, err = execute(t, "verify", "--input", input, "--manifest", bomPath, "--plain-summary", "--log-level", "quiet")
	if err == nil {
		t.Fatalf("verify accepted a changed dataset:\n%s", out)
	}
	if !strings.Contains(out, "Verification: FAILED") {
		t.Errorf("verify output = %q", out)
	}
}
