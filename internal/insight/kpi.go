package insight

import (
	"sort"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// KPISummary is the headline block of the view model.
type KPISummary struct {
	Rows              int     `json:"jumlahBaris"`
	TotalBusinesses   int     `json:"totalUmkm"`
	TotalWorkforce    int     `json:"totalTenagaKerja"`
	AvgFormalPct      float64 `json:"avgPersenFormal"`
	AvgDigitalPct     float64 `json:"avgPersenDigital"`
	AvgFinancingPct   float64 `json:"avgPersenAksesPembiayaan"`
	TotalRevenue      float64 `json:"totalOmzetMiliar"`
	AvgMonthlyRevenue float64 `json:"avgOmzetBulananJuta"`
}

// Summarize computes KPIs over rows. An empty set yields all zeros.
func Summarize(rows []dataset.Observation) KPISummary {
	k := KPISummary{Rows: len(rows)}
	if len(rows) == 0 {
		return k
	}
	var formal, digital, financing, monthly float64
	for _, r := range rows {
		k.TotalBusinesses += r.Businesses
		k.TotalWorkforce += r.Workforce
		k.TotalRevenue += r.AnnualRevenue
		formal += r.FormalPct
		digital += r.DigitalPct
		financing += r.FinancingPct
		monthly += r.MonthlyRevenue
	}
	n := float64(len(rows))
	k.AvgFormalPct = formal / n
	k.AvgDigitalPct = digital / n
	k.AvgFinancingPct = financing / n
	k.AvgMonthlyRevenue = monthly / n
	return k
}

// YoYComparison compares the two most recent years of the dataset.
// When fewer than two years exist, Available is false and the rest is zero.
type YoYComparison struct {
	Available      bool    `json:"available"`
	PreviousYear   int     `json:"previousYear"`
	CurrentYear    int     `json:"currentYear"`
	BusinessGrowth float64 `json:"umkmGrowth"`
	FormalGrowth   float64 `json:"formalGrowth"`
	DigitalGrowth  float64 `json:"digitalGrowth"`
	RevenueGrowth  float64 `json:"omzetGrowth"`
}

// CompareYears builds the YoY block from unfiltered rows. The comparison
// always spans the two latest years in the data.
func CompareYears(rows []dataset.Observation) YoYComparison {
	byYear := map[int][]dataset.Observation{}
	for _, r := range rows {
		if r.Year > 0 {
			byYear[r.Year] = append(byYear[r.Year], r)
		}
	}
	if len(byYear) < 2 {
		return YoYComparison{}
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	prevYear, curYear := years[len(years)-2], years[len(years)-1]
	prev, cur := Summarize(byYear[prevYear]), Summarize(byYear[curYear])

	return YoYComparison{
		Available:      true,
		PreviousYear:   prevYear,
		CurrentYear:    curYear,
		BusinessGrowth: Growth(float64(prev.TotalBusinesses), float64(cur.TotalBusinesses)),
		FormalGrowth:   Growth(prev.AvgFormalPct, cur.AvgFormalPct),
		DigitalGrowth:  Growth(prev.AvgDigitalPct, cur.AvgDigitalPct),
		RevenueGrowth:  Growth(prev.TotalRevenue, cur.TotalRevenue),
	}
}

// Growth returns (cur-prev)/prev*100. A zero previous value yields exactly 0,
// never Inf or NaN.
func Growth(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}
