// Package aggregate groups observations by sub-district, district or sector.
//
// Group keys are structs, so names containing any delimiter are safe.
// Averages are plain arithmetic means over the rows of a group; they are not
// weighted by population or business count.
package aggregate

import (
	"fmt"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// AllYears disables the year restriction of By.
const AllYears = 0

// Dimension selects the grouping key.
type Dimension int

const (
	BySubDistrictDim Dimension = iota
	ByDistrictDim
	BySectorDim
)

func (d Dimension) String() string {
	switch d {
	case BySubDistrictDim:
		return "kecamatan"
	case ByDistrictDim:
		return "kabkota"
	case BySectorDim:
		return "sektor"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// ParseDimension accepts the dimension names used on the command line.
func ParseDimension(s string) (Dimension, bool) {
	switch s {
	case "kecamatan", "subdistrict", "sub-district":
		return BySubDistrictDim, true
	case "kabkota", "district":
		return ByDistrictDim, true
	case "sektor", "sector":
		return BySectorDim, true
	default:
		return 0, false
	}
}

// GroupKey identifies a group. Fields outside the dimension are empty.
type GroupKey struct {
	District    string         `json:"kabKota,omitempty"`
	SubDistrict string         `json:"kecamatan,omitempty"`
	Sector      dataset.Sector `json:"sektor,omitempty"`
	Year        int            `json:"tahun"`
}

func keyFor(d Dimension, r dataset.Observation) GroupKey {
	switch d {
	case ByDistrictDim:
		return GroupKey{District: r.District, Year: r.Year}
	case BySectorDim:
		return GroupKey{Sector: r.Sector, Year: r.Year}
	default:
		return GroupKey{District: r.District, SubDistrict: r.SubDistrict, Year: r.Year}
	}
}

// SectorShare is the summed business count of one sector within a group.
type SectorShare struct {
	Sector     dataset.Sector `json:"sektor"`
	Businesses int            `json:"jumlahUmkm"`
}

// Group is the aggregate of the rows sharing one key.
type Group struct {
	Key  GroupKey `json:"key"`
	Rows int      `json:"jumlahBaris"`

	TotalBusinesses    int     `json:"totalUmkm"`
	TotalPopulation    int     `json:"totalPenduduk"`
	TotalWorkforce     int     `json:"totalTenagaKerja"`
	TotalAnnualRevenue float64 `json:"totalOmzetTahunanMiliar"`
	TotalBudget        float64 `json:"totalAnggaranMiliar"`
	TotalTraining      int     `json:"totalPelatihan"`
	TotalDisruptions   int     `json:"totalGangguanDistribusi"`

	AvgDensity         float64 `json:"avgUmkmPer1000Penduduk"`
	AvgFormalPct       float64 `json:"avgPersenFormal"`
	AvgDigitalPct      float64 `json:"avgPersenDigital"`
	AvgFinancingPct    float64 `json:"avgPersenAksesPembiayaan"`
	AvgMonthlyRevenue  float64 `json:"avgOmzetBulananJuta"`
	AvgInternetIndex   float64 `json:"avgIndeksInfrastrukturInternet"`
	AvgLogisticsIndex  float64 `json:"avgIndeksBiayaLogistik"`
	AvgEaseIndex       float64 `json:"avgIndeksKemudahanBerusaha"`
	AvgUnemploymentPct float64 `json:"avgTingkatPengangguran"`
	AvgPovertyPct      float64 `json:"avgTingkatKemiskinan"`

	// SubDistricts counts unique (district, sub-district) pairs.
	SubDistricts int `json:"totalKecamatan"`

	SectorBreakdown []SectorShare  `json:"sektorBreakdown,omitempty"`
	DominantSector  dataset.Sector `json:"sektorDominan,omitempty"`
}

// Label is a human readable name for the group key.
func (g Group) Label() string {
	switch {
	case g.Key.SubDistrict != "":
		return g.Key.SubDistrict + ", " + g.Key.District
	case g.Key.District != "":
		return g.Key.District
	default:
		return string(g.Key.Sector)
	}
}

type place struct{ district, subDistrict string }

// accumulator collects running sums for one group.
type accumulator struct {
	group  Group
	places map[place]bool

	density, formal, digital, financing, monthly float64
	internet, logistics, ease, unemployment, poverty float64

	sectorIdx map[dataset.Sector]int
}

func newAccumulator(key GroupKey) *accumulator {
	return &accumulator{
		group:     Group{Key: key},
		places:    map[place]bool{},
		sectorIdx: map[dataset.Sector]int{},
	}
}

func (a *accumulator) add(r dataset.Observation, withSectors bool) {
	g := &a.group
	g.Rows++
	g.TotalBusinesses += r.Businesses
	g.TotalPopulation += r.Population
	g.TotalWorkforce += r.Workforce
	g.TotalAnnualRevenue += r.AnnualRevenue
	g.TotalBudget += r.Budget
	g.TotalTraining += r.Training
	g.TotalDisruptions += r.Disruptions

	a.density += r.Density
	a.formal += r.FormalPct
	a.digital += r.DigitalPct
	a.financing += r.FinancingPct
	a.monthly += r.MonthlyRevenue
	a.internet += r.InternetIndex
	a.logistics += r.LogisticsIndex
	a.ease += r.EaseIndex
	a.unemployment += r.UnemploymentPct
	a.poverty += r.PovertyPct

	a.places[place{r.District, r.SubDistrict}] = true

	if !withSectors {
		return
	}
	if i, ok := a.sectorIdx[r.Sector]; ok {
		g.SectorBreakdown[i].Businesses += r.Businesses
		return
	}
	a.sectorIdx[r.Sector] = len(g.SectorBreakdown)
	g.SectorBreakdown = append(g.SectorBreakdown, SectorShare{Sector: r.Sector, Businesses: r.Businesses})
}

func (a *accumulator) finish() Group {
	g := a.group
	n := float64(g.Rows)
	g.AvgDensity = mean(a.density, n)
	g.AvgFormalPct = mean(a.formal, n)
	g.AvgDigitalPct = mean(a.digital, n)
	g.AvgFinancingPct = mean(a.financing, n)
	g.AvgMonthlyRevenue = mean(a.monthly, n)
	g.AvgInternetIndex = mean(a.internet, n)
	g.AvgLogisticsIndex = mean(a.logistics, n)
	g.AvgEaseIndex = mean(a.ease, n)
	g.AvgUnemploymentPct = mean(a.unemployment, n)
	g.AvgPovertyPct = mean(a.poverty, n)
	g.SubDistricts = len(a.places)
	g.DominantSector = Dominant(g.SectorBreakdown)
	return g
}

func mean(sum, n float64) float64 {
	if n == 0 {
		return 0
	}
	return sum / n
}

// Dominant returns the sector with the highest count. Shares are expected in
// first-seen order and only a strictly greater count replaces the leader, so
// ties go to the sector seen first. An empty sector label never wins.
func Dominant(shares []SectorShare) dataset.Sector {
	var (
		best  dataset.Sector
		count = -1
	)
	for _, s := range shares {
		if s.Sector == "" {
			continue
		}
		if s.Businesses > count {
			best, count = s.Sector, s.Businesses
		}
	}
	return best
}

// By groups rows along dim. A non-zero year keeps only rows of that year.
// Rows without identity fields are skipped. Groups are returned in the order
// their key first appears; the result is never nil.
func By(dim Dimension, rows []dataset.Observation, year int) []Group {
	withSectors := dim != BySectorDim
	index := map[GroupKey]*accumulator{}
	order := make([]GroupKey, 0)

	skipped := 0
	for _, r := range rows {
		if !r.Valid() {
			skipped++
			continue
		}
		if year != AllYears && r.Year != year {
			continue
		}
		key := keyFor(dim, r)
		acc, ok := index[key]
		if !ok {
			acc = newAccumulator(key)
			index[key] = acc
			order = append(order, key)
		}
		acc.add(r, withSectors)
	}

	out := make([]Group, 0, len(order))
	for _, k := range order {
		out = append(out, index[k].finish())
	}
	if skipped > 0 {
		logf(dim.String(), "skipped %d row(s) without identity fields", skipped)
	}
	logf(dim.String(), "%d group(s) from %d row(s)", len(out), len(rows))
	return out
}

// BySubDistrict groups by (district, sub-district, year).
func BySubDistrict(rows []dataset.Observation, year int) []Group {
	return By(BySubDistrictDim, rows, year)
}

// ByDistrict groups by (district, year).
func ByDistrict(rows []dataset.Observation, year int) []Group {
	return By(ByDistrictDim, rows, year)
}

// BySector groups by (sector, year).
func BySector(rows []dataset.Observation, year int) []Group {
	return By(BySectorDim, rows, year)
}

// SectorTotals sums business counts per sector over rows of every year, in
// first-seen order.
func SectorTotals(rows []dataset.Observation) []SectorShare {
	idx := map[dataset.Sector]int{}
	out := make([]SectorShare, 0)
	for _, r := range rows {
		if !r.Valid() {
			continue
		}
		if i, ok := idx[r.Sector]; ok {
			out[i].Businesses += r.Businesses
			continue
		}
		idx[r.Sector] = len(out)
		out = append(out, SectorShare{Sector: r.Sector, Businesses: r.Businesses})
	}
	return out
}
