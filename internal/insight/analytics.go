package insight

import (
	"fmt"
	"math"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// minPredictiveRows is the smallest row count for which predictive models are
// offered.
const minPredictiveRows = 100

// ModelKind is the family of an analytics model.
type ModelKind string

const (
	KindRegression     ModelKind = "regression"
	KindClustering     ModelKind = "clustering"
	KindClassification ModelKind = "classification"
	KindTimeSeries     ModelKind = "time_series"
)

// MetricName is the closed set of evaluation metrics a model may report.
type MetricName string

const (
	MetricR2         MetricName = "r2"
	MetricSilhouette MetricName = "silhouette"
	MetricAccuracy   MetricName = "accuracy"
	MetricMAPE       MetricName = "mape"
)

// EvaluationSummary is a single evaluation figure. Metric selects how Value
// is read: r2 and silhouette are ratios, accuracy and mape are percentages.
type EvaluationSummary struct {
	Metric MetricName `json:"metric"`
	Value  float64    `json:"value"`
}

// String formats the value the way the dashboard labels it.
func (e EvaluationSummary) String() string {
	switch e.Metric {
	case MetricR2:
		return fmt.Sprintf("R² %.3f", e.Value)
	case MetricSilhouette:
		return fmt.Sprintf("Silhouette %.3f", e.Value)
	case MetricAccuracy:
		return fmt.Sprintf("Akurasi %.1f%%", e.Value)
	case MetricMAPE:
		return fmt.Sprintf("MAPE %.1f%%", e.Value)
	default:
		return fmt.Sprintf("%s %g", e.Metric, e.Value)
	}
}

// ModelDescriptor describes an analytics model and whether the loaded data
// supports it. No model is trained here.
type ModelDescriptor struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Kind       ModelKind          `json:"kind"`
	Purpose    string             `json:"purpose"`
	Applicable bool               `json:"applicable"`
	Reason     string             `json:"reason"`
	Evaluation *EvaluationSummary `json:"evaluation,omitempty"`
}

// Analytics is the readiness block of the view model.
type Analytics struct {
	HistoricalData bool              `json:"hasHistoricalData"`
	DataPoints     int               `json:"dataPoints"`
	Predictive     bool              `json:"canUsePredictive"`
	Models         []ModelDescriptor `json:"models"`
}

// AssessAnalytics reports which models the rows can support. Baseline
// evaluations are computed directly from the data: R² of annual revenue
// against business count, and the MAPE of a previous-year forecast of
// sub-district business counts.
func AssessAnalytics(rows []dataset.Observation) Analytics {
	years := map[int]bool{}
	for _, r := range rows {
		years[r.Year] = true
	}
	a := Analytics{
		HistoricalData: len(years) >= 2,
		DataPoints:     len(rows),
	}
	enough := len(rows) > minPredictiveRows
	a.Predictive = a.HistoricalData && enough

	rowsReason := fmt.Sprintf("membutuhkan lebih dari %d baris data (tersedia %d)", minPredictiveRows, len(rows))
	reason := func(ok bool, why string) string {
		if ok {
			return "data mencukupi"
		}
		return why
	}

	regression := ModelDescriptor{
		ID:         "ml-1",
		Name:       "Regresi Omzet UMKM",
		Kind:       KindRegression,
		Purpose:    "Memperkirakan omzet tahunan dari jumlah UMKM",
		Applicable: enough,
		Reason:     reason(enough, rowsReason),
	}
	if r2, ok := revenueR2(rows); ok {
		regression.Evaluation = &EvaluationSummary{Metric: MetricR2, Value: r2}
	}

	forecast := ModelDescriptor{
		ID:         "ml-2",
		Name:       "Proyeksi Tren UMKM",
		Kind:       KindTimeSeries,
		Purpose:    "Memproyeksikan jumlah UMKM per kecamatan tahun berikutnya",
		Applicable: a.Predictive,
		Reason:     reason(a.Predictive, "membutuhkan minimal 2 tahun data dan "+rowsReason),
	}
	if mape, ok := naiveForecastMAPE(rows); ok {
		forecast.Evaluation = &EvaluationSummary{Metric: MetricMAPE, Value: mape}
	}

	a.Models = []ModelDescriptor{
		regression,
		forecast,
		{
			ID:         "ml-3",
			Name:       "Segmentasi Kecamatan",
			Kind:       KindClustering,
			Purpose:    "Mengelompokkan kecamatan berdasarkan profil UMKM",
			Applicable: enough,
			Reason:     reason(enough, rowsReason),
		},
		{
			ID:         "ml-4",
			Name:       "Klasifikasi Prioritas",
			Kind:       KindClassification,
			Purpose:    "Menandai kecamatan prioritas intervensi",
			Applicable: enough,
			Reason:     reason(enough, rowsReason),
		},
	}
	return a
}

// revenueR2 fits annual revenue = a + b*businesses by least squares.
func revenueR2(rows []dataset.Observation) (float64, bool) {
	if len(rows) < 3 {
		return 0, false
	}
	n := float64(len(rows))
	var sx, sy float64
	for _, r := range rows {
		sx += float64(r.Businesses)
		sy += r.AnnualRevenue
	}
	mx, my := sx/n, sy/n
	var sxx, sxy, syy float64
	for _, r := range rows {
		dx, dy := float64(r.Businesses)-mx, r.AnnualRevenue-my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return (sxy * sxy) / (sxx * syy), true
}

// naiveForecastMAPE scores "next year equals this year" over sub-districts
// present in both of the two latest years.
func naiveForecastMAPE(rows []dataset.Observation) (float64, bool) {
	yoy := CompareYears(rows)
	if !yoy.Available {
		return 0, false
	}
	type place struct{ district, subDistrict string }
	prev := map[place]int{}
	cur := map[place]int{}
	var order []place
	for _, r := range rows {
		p := place{r.District, r.SubDistrict}
		switch r.Year {
		case yoy.PreviousYear:
			prev[p] += r.Businesses
		case yoy.CurrentYear:
			if _, seen := cur[p]; !seen {
				order = append(order, p)
			}
			cur[p] += r.Businesses
		}
	}
	var sum float64
	n := 0
	for _, p := range order {
		actual := cur[p]
		forecast, ok := prev[p]
		if !ok || actual == 0 {
			continue
		}
		sum += math.Abs(float64(actual-forecast)) / float64(actual)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n) * 100, true
}
