package aggregate

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

func cibinongRows() []dataset.Observation {
	return []dataset.Observation{
		{
			Year: 2024, Province: "Jawa Barat", District: "Kabupaten Bogor", SubDistrict: "Cibinong", Sector: dataset.SectorCulinary,
			Businesses: 1000, Density: 10, FormalPct: 50, DigitalPct: 60, FinancingPct: 40, MonthlyRevenue: 15, AnnualRevenue: 180,
			Workforce: 3000, InternetIndex: 80, LogisticsIndex: 40, Training: 5, Budget: 1, EaseIndex: 70,
			UnemploymentPct: 5, PovertyPct: 6, Disruptions: 2,
		},
		{
			Year: 2024, Province: "Jawa Barat", District: "Kabupaten Bogor", SubDistrict: "Cibinong", Sector: dataset.SectorFashion,
			Businesses: 500, Density: 5, FormalPct: 40, DigitalPct: 50, FinancingPct: 30, MonthlyRevenue: 12, AnnualRevenue: 72,
			Workforce: 1500, InternetIndex: 80, LogisticsIndex: 40, Training: 3, Budget: 0.5, EaseIndex: 70,
			UnemploymentPct: 5, PovertyPct: 6, Disruptions: 1,
		},
	}
}

func mixedRows() []dataset.Observation {
	rows := cibinongRows()
	rows = append(rows,
		dataset.Observation{Year: 2025, District: "Kabupaten Bogor", SubDistrict: "Cibinong", Sector: dataset.SectorCulinary, Businesses: 1100, FormalPct: 55, DigitalPct: 65},
		dataset.Observation{Year: 2024, District: "Kota Bandung", SubDistrict: "Coblong", Sector: dataset.SectorTechnology, Businesses: 900, FormalPct: 70, DigitalPct: 90},
		dataset.Observation{Year: 2024, District: "Kota Bandung", SubDistrict: "Cibinong", Sector: dataset.SectorCulinary, Businesses: 300, FormalPct: 20, DigitalPct: 10},
		dataset.Observation{Year: 2025, District: "Kota Bandung", SubDistrict: "Coblong", Sector: dataset.SectorTechnology, Businesses: 950, FormalPct: 100, DigitalPct: 0},
	)
	return rows
}

func TestBySubDistrict_MergesSectorsOfOnePlace(t *testing.T) {
	got := BySubDistrict(cibinongRows(), AllYears)
	if len(got) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(got))
	}
	g := got[0]
	if g.TotalBusinesses != 1500 {
		t.Fatalf("TotalBusinesses = %d, want 1500", g.TotalBusinesses)
	}
	if g.DominantSector != dataset.SectorCulinary {
		t.Fatalf("DominantSector = %q, want Kuliner", g.DominantSector)
	}
	wantKey := GroupKey{District: "Kabupaten Bogor", SubDistrict: "Cibinong", Year: 2024}
	if g.Key != wantKey {
		t.Fatalf("Key = %+v, want %+v", g.Key, wantKey)
	}
	wantShares := []SectorShare{{dataset.SectorCulinary, 1000}, {dataset.SectorFashion, 500}}
	if diff := cmp.Diff(wantShares, g.SectorBreakdown); diff != "" {
		t.Fatalf("SectorBreakdown mismatch (-want +got):\n%s", diff)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"AvgFormalPct", g.AvgFormalPct, 45},
		{"AvgDigitalPct", g.AvgDigitalPct, 55},
		{"AvgFinancingPct", g.AvgFinancingPct, 35},
		{"AvgDensity", g.AvgDensity, 7.5},
		{"AvgMonthlyRevenue", g.AvgMonthlyRevenue, 13.5},
		{"TotalAnnualRevenue", g.TotalAnnualRevenue, 252},
		{"TotalBudget", g.TotalBudget, 1.5},
		{"AvgPovertyPct", g.AvgPovertyPct, 6},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if g.TotalWorkforce != 4500 || g.TotalTraining != 8 || g.TotalDisruptions != 3 || g.Rows != 2 {
		t.Fatalf("sums = %+v", g)
	}
}

func TestBySector_OneGroupPerSector(t *testing.T) {
	got := BySector(cibinongRows(), AllYears)
	if len(got) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(got))
	}
	if got[0].Key.Sector != dataset.SectorCulinary || got[0].TotalBusinesses != 1000 {
		t.Fatalf("first group = %+v, want Kuliner with 1000", got[0])
	}
	if got[0].SectorBreakdown != nil || got[0].DominantSector != "" {
		t.Fatalf("sector groups carry no breakdown, got %+v", got[0])
	}
}

func TestBySubDistrict_YearFilterWithoutMatches(t *testing.T) {
	got := BySubDistrict(cibinongRows(), 2025)
	if got == nil || len(got) != 0 {
		t.Fatalf("groups = %#v, want empty non-nil slice", got)
	}
}

func TestBy_EmptyInput(t *testing.T) {
	for _, dim := range []Dimension{BySubDistrictDim, ByDistrictDim, BySectorDim} {
		got := By(dim, nil, AllYears)
		if got == nil || len(got) != 0 {
			t.Fatalf("By(%v, nil) = %#v, want empty non-nil slice", dim, got)
		}
	}
}

func TestBySubDistrict_SameNameInTwoDistricts(t *testing.T) {
	got := BySubDistrict(mixedRows(), 2024)
	var labels []string
	for _, g := range got {
		labels = append(labels, g.Label())
	}
	want := []string{"Cibinong, Kabupaten Bogor", "Coblong, Kota Bandung", "Cibinong, Kota Bandung"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBySubDistrict_DelimiterInNames(t *testing.T) {
	rows := []dataset.Observation{
		{Year: 2024, District: "A|B", SubDistrict: "C", Businesses: 1},
		{Year: 2024, District: "A", SubDistrict: "B|C", Businesses: 2},
	}
	if got := BySubDistrict(rows, AllYears); len(got) != 2 {
		t.Fatalf("len(groups) = %d, want 2 distinct keys", len(got))
	}
}

func TestDominantSector_TieGoesToFirstSeen(t *testing.T) {
	rows := []dataset.Observation{
		{Year: 2024, District: "Kota Bogor", SubDistrict: "Bogor Tengah", Sector: dataset.SectorTrade, Businesses: 200},
		{Year: 2024, District: "Kota Bogor", SubDistrict: "Bogor Tengah", Sector: dataset.SectorCrafts, Businesses: 200},
		{Year: 2024, District: "Kota Bogor", SubDistrict: "Bogor Tengah", Sector: dataset.SectorCulinary, Businesses: 150},
	}
	g := BySubDistrict(rows, AllYears)[0]
	if g.DominantSector != dataset.SectorTrade {
		t.Fatalf("DominantSector = %q, want Perdagangan", g.DominantSector)
	}
}

func TestByDistrict_CountsUniqueSubDistricts(t *testing.T) {
	got := ByDistrict(mixedRows(), 2024)
	if len(got) != 2 {
		t.Fatalf("len(groups) = %d, want 2", len(got))
	}
	bandung := got[1]
	if bandung.Key.District != "Kota Bandung" || bandung.SubDistricts != 2 {
		t.Fatalf("Kota Bandung group = %+v, want 2 sub-districts", bandung)
	}
	if bandung.DominantSector != dataset.SectorTechnology {
		t.Fatalf("DominantSector = %q, want Teknologi", bandung.DominantSector)
	}
}

func TestBySector_CountsPlacesNotNames(t *testing.T) {
	// Cibinong exists in both districts; the culinary group must count both.
	got := BySector(mixedRows(), 2024)
	for _, g := range got {
		if g.Key.Sector == dataset.SectorCulinary && g.SubDistricts != 2 {
			t.Fatalf("Kuliner SubDistricts = %d, want 2", g.SubDistricts)
		}
	}
}

func TestProperties(t *testing.T) {
	rows := mixedRows()

	t.Run("grouping completeness", func(t *testing.T) {
		total := 0
		for _, g := range BySubDistrict(rows, AllYears) {
			total += g.Rows
		}
		if total != len(rows) {
			t.Fatalf("sum(Rows) = %d, want %d", total, len(rows))
		}
	})

	t.Run("sum conservation", func(t *testing.T) {
		for _, year := range []int{2024, 2025} {
			want := 0
			for _, r := range rows {
				if r.Year == year {
					want += r.Businesses
				}
			}
			got := 0
			for _, g := range ByDistrict(rows, year) {
				got += g.TotalBusinesses
			}
			if got != want {
				t.Fatalf("year %d: sum = %d, want %d", year, got, want)
			}
		}
	})

	t.Run("average bounds", func(t *testing.T) {
		for _, dim := range []Dimension{BySubDistrictDim, ByDistrictDim, BySectorDim} {
			for _, g := range By(dim, rows, AllYears) {
				for _, v := range []float64{g.AvgFormalPct, g.AvgDigitalPct, g.AvgFinancingPct, g.AvgUnemploymentPct, g.AvgPovertyPct} {
					if v < 0 || v > 100 {
						t.Fatalf("%v %s: average %v outside [0,100]", dim, g.Label(), v)
					}
				}
			}
		}
	})
}

func TestBy_SkipsInvalidRowsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(&buf)
	t.Cleanup(func() { SetLogger(nil) })

	rows := append(cibinongRows(), dataset.Observation{Year: 2024, SubDistrict: "Tanpa Kabupaten"})
	got := BySubDistrict(rows, AllYears)
	if len(got) != 1 || got[0].Rows != 2 {
		t.Fatalf("groups = %+v, want the invalid row skipped", got)
	}
	if !strings.Contains(buf.String(), "skipped 1 row(s)") {
		t.Fatalf("log = %q, want skip notice", buf.String())
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want Dimension
		ok   bool
	}{
		{"kecamatan", BySubDistrictDim, true},
		{"district", ByDistrictDim, true},
		{"sektor", BySectorDim, true},
		{"provinsi", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDimension(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseDimension(%q) = (%v,%v), want (%v,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSectorTotals_AcrossYears(t *testing.T) {
	got := SectorTotals(mixedRows())
	want := []SectorShare{
		{dataset.SectorCulinary, 2400},
		{dataset.SectorFashion, 500},
		{dataset.SectorTechnology, 1850},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("SectorTotals mismatch (-want +got):\n%s", diff)
	}
	if Dominant(got) != dataset.SectorCulinary {
		t.Fatalf("Dominant = %q, want Kuliner", Dominant(got))
	}
	if Dominant(nil) != "" {
		t.Fatalf("Dominant(nil) = %q, want empty", Dominant(nil))
	}
}

func TestDominantSector_SkipsEmptyLabel(t *testing.T) {
	rows := []dataset.Observation{
		{Year: 2024, District: "Kota Bandung", SubDistrict: "Coblong", Businesses: 900},
		{Year: 2024, District: "Kota Bandung", SubDistrict: "Coblong", Sector: dataset.SectorCrafts, Businesses: 100},
	}
	got := BySubDistrict(rows, AllYears)
	if len(got) != 1 {
		t.Fatalf("len(groups) = %d, want 1", len(got))
	}
	if got[0].DominantSector != dataset.SectorCrafts {
		t.Fatalf("DominantSector = %q, want Kerajinan", got[0].DominantSector)
	}
	if got[0].TotalBusinesses != 1000 {
		t.Fatalf("TotalBusinesses = %d, want the unlabelled row counted", got[0].TotalBusinesses)
	}
	if Dominant([]SectorShare{{"", 5}}) != "" {
		t.Fatalf("Dominant of only unlabelled shares should be empty")
	}
}
