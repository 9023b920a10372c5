package insight

import (
	"fmt"
	"math"
	"testing"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// growthRows builds n sub-districts observed in 2024 and 2025, with business
// counts up 10% and revenue proportional to business count.
func growthRows(n int) []dataset.Observation {
	rows := make([]dataset.Observation, 0, 2*n)
	for year, factor := range map[int]int{2024: 100, 2025: 110} {
		for i := 1; i <= n; i++ {
			b := factor * i
			rows = append(rows, dataset.Observation{
				Year:          year,
				District:      "Kabupaten Bandung",
				SubDistrict:   fmt.Sprintf("Kecamatan %02d", i),
				Sector:        dataset.SectorTrade,
				Businesses:    b,
				AnnualRevenue: 0.2 * float64(b),
			})
		}
	}
	return rows
}

func TestAssessAnalytics_SmallDataset(t *testing.T) {
	a := AssessAnalytics(cibinongRows())
	if a.HistoricalData || a.Predictive {
		t.Fatalf("Analytics = %+v, want no history and no predictive", a)
	}
	if a.DataPoints != 2 || len(a.Models) != 4 {
		t.Fatalf("DataPoints = %d, models = %d", a.DataPoints, len(a.Models))
	}
	for _, m := range a.Models {
		if m.Applicable {
			t.Fatalf("model %s applicable on 2 rows", m.ID)
		}
		if m.Evaluation != nil {
			t.Fatalf("model %s has evaluation %v on 2 rows", m.ID, *m.Evaluation)
		}
	}
}

func TestAssessAnalytics_Threshold(t *testing.T) {
	tests := []struct {
		subDistricts int
		want         bool
	}{
		{50, false}, // exactly 100 rows
		{51, true},
	}
	for _, tt := range tests {
		a := AssessAnalytics(growthRows(tt.subDistricts))
		if !a.HistoricalData {
			t.Fatalf("HistoricalData = false for two years")
		}
		if a.Predictive != tt.want {
			t.Fatalf("Predictive with %d rows = %v, want %v", a.DataPoints, a.Predictive, tt.want)
		}
	}
}

func TestAssessAnalytics_Evaluations(t *testing.T) {
	a := AssessAnalytics(growthRows(60))

	byID := map[string]ModelDescriptor{}
	for _, m := range a.Models {
		byID[m.ID] = m
	}
	reg := byID["ml-1"]
	if reg.Evaluation == nil || reg.Evaluation.Metric != MetricR2 || math.Abs(reg.Evaluation.Value-1) > 1e-9 {
		t.Fatalf("ml-1 evaluation = %+v, want r2 = 1", reg.Evaluation)
	}
	fc := byID["ml-2"]
	if fc.Evaluation == nil || fc.Evaluation.Metric != MetricMAPE || math.Abs(fc.Evaluation.Value-100.0/11) > 1e-9 {
		t.Fatalf("ml-2 evaluation = %+v, want mape = %v", fc.Evaluation, 100.0/11)
	}
	if !fc.Applicable || fc.Kind != KindTimeSeries {
		t.Fatalf("ml-2 = %+v", fc)
	}
}

func TestEvaluationSummary_String(t *testing.T) {
	tests := []struct {
		in   EvaluationSummary
		want string
	}{
		{EvaluationSummary{Metric: MetricR2, Value: 0.8731}, "R² 0.873"},
		{EvaluationSummary{Metric: MetricSilhouette, Value: 0.42}, "Silhouette 0.420"},
		{EvaluationSummary{Metric: MetricAccuracy, Value: 87.3}, "Akurasi 87.3%"},
		{EvaluationSummary{Metric: MetricMAPE, Value: 9.09}, "MAPE 9.1%"},
		{EvaluationSummary{Metric: "rmse", Value: 2}, "rmse 2"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
