package insight

import (
	"fmt"
	"strings"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/priority"
)

// Thresholds gate the template sentences about the top-priority area.
type Thresholds struct {
	LowFormalPct        float64 `mapstructure:"low-formal" json:"lowFormalPct"`
	LowDigitalPct       float64 `mapstructure:"low-digital" json:"lowDigitalPct"`
	VeryLowFinancingPct float64 `mapstructure:"very-low-financing" json:"veryLowFinancingPct"`
	LowFinancingPct     float64 `mapstructure:"low-financing" json:"lowFinancingPct"`
	HighLogisticsIndex  float64 `mapstructure:"high-logistics" json:"highLogisticsIndex"`
	HighDensity         float64 `mapstructure:"high-density" json:"highDensity"`
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowFormalPct:        35,
		LowDigitalPct:       40,
		VeryLowFinancingPct: 15,
		LowFinancingPct:     30,
		HighLogisticsIndex:  70,
		HighDensity:         30,
	}
}

// Insights renders the observation sentences in a fixed order: YoY trend,
// sector dominance, digital/formal gap, regional disparity, priority area
// and the threshold sentences about the top-priority area.
func Insights(kpi KPISummary, yoy YoYComparison, sectors []aggregate.SectorShare, districts []aggregate.Group, top []priority.Scored, th Thresholds) []string {
	out := make([]string, 0, 10)

	if yoy.Available {
		out = append(out, fmt.Sprintf("Jumlah UMKM %s %.1f%% dari %d ke %d, dengan adopsi digital %s %.1f%%.",
			direction(yoy.BusinessGrowth), abs(yoy.BusinessGrowth), yoy.PreviousYear, yoy.CurrentYear,
			direction(yoy.DigitalGrowth), abs(yoy.DigitalGrowth)))
	}

	if lead := aggregate.Dominant(sectors); lead != "" && kpi.TotalBusinesses > 0 {
		count := 0
		for _, s := range sectors {
			if s.Sector == lead {
				count = s.Businesses
			}
		}
		share := float64(count) / float64(kpi.TotalBusinesses) * 100
		out = append(out, fmt.Sprintf("Sektor %s mendominasi dengan %s UMKM (%.1f%% dari total).", lead, formatThousands(count), share))
	}

	if kpi.AvgDigitalPct > kpi.AvgFormalPct {
		out = append(out, fmt.Sprintf("Adopsi digital (%.1f%%) lebih tinggi dari tingkat formalisasi (%.1f%%), peluang untuk program formalisasi berbasis platform digital.",
			kpi.AvgDigitalPct, kpi.AvgFormalPct))
	}

	if len(districts) >= 2 {
		hi, lo := districts[0], districts[0]
		for _, d := range districts[1:] {
			if d.AvgDensity > hi.AvgDensity {
				hi = d
			}
			if d.AvgDensity < lo.AvgDensity {
				lo = d
			}
		}
		out = append(out, fmt.Sprintf("Kepadatan UMKM tertinggi di %s (%.1f per 1.000 penduduk) dan terendah di %s (%.1f per 1.000 penduduk).",
			hi.Key.District, hi.AvgDensity, lo.Key.District, lo.AvgDensity))
	}

	if len(top) == 0 {
		return out
	}
	p := top[0]
	out = append(out, fmt.Sprintf("Wilayah prioritas utama adalah %s, %s dengan skor prioritas %.2f.", p.Key.SubDistrict, p.Key.District, p.Score))
	return append(out, thresholdSentences(p, th)...)
}

func thresholdSentences(p priority.Scored, th Thresholds) []string {
	var out []string

	if p.AvgFormalPct < th.LowFormalPct {
		out = append(out, fmt.Sprintf("Tingkat formalisasi UMKM di %s masih rendah (%.1f%%).", p.Key.SubDistrict, p.AvgFormalPct))
	} else {
		out = append(out, fmt.Sprintf("Tingkat formalisasi UMKM di %s cukup baik (%.1f%%).", p.Key.SubDistrict, p.AvgFormalPct))
	}

	if p.AvgDigitalPct < th.LowDigitalPct {
		out = append(out, fmt.Sprintf("Adopsi digital UMKM perlu ditingkatkan (%.1f%%).", p.AvgDigitalPct))
	} else {
		out = append(out, fmt.Sprintf("Adopsi digital UMKM berkembang (%.1f%%).", p.AvgDigitalPct))
	}

	switch {
	case p.AvgFinancingPct < th.VeryLowFinancingPct:
		out = append(out, fmt.Sprintf("Akses pembiayaan UMKM sangat terbatas (%.1f%%).", p.AvgFinancingPct))
	case p.AvgFinancingPct < th.LowFinancingPct:
		out = append(out, fmt.Sprintf("Akses pembiayaan UMKM masih perlu ditingkatkan (%.1f%%).", p.AvgFinancingPct))
	default:
		out = append(out, fmt.Sprintf("Akses pembiayaan UMKM memadai (%.1f%%).", p.AvgFinancingPct))
	}

	if p.AvgLogisticsIndex > th.HighLogisticsIndex {
		out = append(out, fmt.Sprintf("Indeks biaya logistik tinggi (%.1f) dapat menghambat distribusi produk UMKM.", p.AvgLogisticsIndex))
	}
	if p.AvgDensity > th.HighDensity {
		out = append(out, fmt.Sprintf("Kepadatan UMKM tinggi (%.1f per 1.000 penduduk) menandakan persaingan usaha yang ketat.", p.AvgDensity))
	}
	return out
}

// Recommendation is the headline decision of the view model.
type Recommendation struct {
	Choice     string   `json:"pilihanUtama"`
	Reason     string   `json:"alasan"`
	FocusAreas []string `json:"wilayahFokus"`
}

const (
	noDataChoice = "Belum ada data"
	noDataReason = "Data tidak cukup untuk mengambil keputusan."
	focusAreas   = 3
)

// Recommend names a program for the highest-priority area.
func Recommend(top []priority.Scored) Recommendation {
	if len(top) == 0 {
		return Recommendation{Choice: noDataChoice, Reason: noDataReason, FocusAreas: []string{}}
	}
	p := top[0]
	sector := string(p.DominantSector)
	if sector == "" {
		sector = "UMKM"
	}
	r := Recommendation{
		Choice: fmt.Sprintf("Program Pemberdayaan %s di %s", sector, p.Key.SubDistrict),
		Reason: fmt.Sprintf("%s, %s memiliki skor prioritas tertinggi (%.2f) dengan sektor %s sebagai sektor dominan.",
			p.Key.SubDistrict, p.Key.District, p.Score, sector),
		FocusAreas: make([]string, 0, focusAreas),
	}
	for i := 0; i < len(top) && i < focusAreas; i++ {
		r.FocusAreas = append(r.FocusAreas, top[i].Key.SubDistrict+", "+top[i].Key.District)
	}
	return r
}

func direction(v float64) string {
	if v < 0 {
		return "turun"
	}
	return "tumbuh"
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// formatThousands groups digits with dots, the Indonesian convention.
func formatThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
