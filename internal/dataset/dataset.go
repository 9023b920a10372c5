// Package dataset holds the regional small-business (UMKM) observation model
// and the readers that turn spreadsheet, CSV and JSON inputs into it.
//
// Rows are validated and coerced once, at load time. Everything downstream
// treats a loaded []Observation as read-only.
package dataset

import "time"

// Sector is the primary business category of a sub-district observation.
type Sector string

const (
	SectorCulinary      Sector = "Kuliner"
	SectorFashion       Sector = "Fashion"
	SectorCrafts        Sector = "Kerajinan"
	SectorServices      Sector = "Jasa"
	SectorProcessedAgri Sector = "Pertanian Olahan"
	SectorTrade         Sector = "Perdagangan"
	SectorTechnology    Sector = "Teknologi"
)

// Sectors returns the seven known sectors in their canonical order.
func Sectors() []Sector {
	return []Sector{
		SectorCulinary, SectorFashion, SectorCrafts, SectorServices,
		SectorProcessedAgri, SectorTrade, SectorTechnology,
	}
}

// Known reports whether s is one of the seven dataset sectors.
func (s Sector) Known() bool {
	for _, k := range Sectors() {
		if s == k {
			return true
		}
	}
	return false
}

func (s Sector) String() string { return string(s) }

// Observation is one (year, sub-district) row of the dataset.
type Observation struct {
	Year        int    `json:"tahun"`
	Province    string `json:"provinsi"`
	District    string `json:"kabKota"`
	SubDistrict string `json:"kecamatan"`
	Sector      Sector `json:"sektorUtama"`

	Population      int     `json:"penduduk"`
	Businesses      int     `json:"jumlahUmkm"`
	Density         float64 `json:"umkmPer1000Penduduk"`
	FormalPct       float64 `json:"persenUmkmFormal"`
	DigitalPct      float64 `json:"persenUmkmDigital"`
	FinancingPct    float64 `json:"persenAksesPembiayaan"`
	MonthlyRevenue  float64 `json:"rataOmzetBulananJuta"`
	AnnualRevenue   float64 `json:"omzetTahunanMiliar"`
	Workforce       int     `json:"tenagaKerjaUmkm"`
	InternetIndex   float64 `json:"indeksInfrastrukturInternet"`
	LogisticsIndex  float64 `json:"indeksBiayaLogistik"`
	Training        int     `json:"jumlahPelatihanInkubasi"`
	Budget          float64 `json:"anggaranPemberdayaanMiliar"`
	EaseIndex       float64 `json:"indeksKemudahanBerusaha"`
	UnemploymentPct float64 `json:"tingkatPengangguranPersen"`
	PovertyPct      float64 `json:"tingkatKemiskinanPersen"`
	Disruptions     int     `json:"gangguanDistribusiTahun"`
}

// Valid reports whether the row carries the identity fields every grouping
// pass relies on.
func (o Observation) Valid() bool {
	return o.Year > 0 && o.District != "" && o.SubDistrict != ""
}

// Meta describes the dataset as a whole.
type Meta struct {
	Source           string    `json:"sumber"`
	Rows             int       `json:"jumlahBaris"`
	Years            []int     `json:"tahun"`
	DistrictCount    int       `json:"kabKotaCount"`
	SubDistrictCount int       `json:"kecamatanCount"`
	Sectors          []Sector  `json:"sektorList"`
	GeneratedAt      time.Time `json:"generatedAt"`
	MethodologyNotes []string  `json:"catatanMetodologi,omitempty"`
}

// LatestYear returns the most recent year listed in the meta block.
func (m Meta) LatestYear() (int, bool) {
	if len(m.Years) == 0 {
		return 0, false
	}
	latest := m.Years[0]
	for _, y := range m.Years[1:] {
		if y > latest {
			latest = y
		}
	}
	return latest, true
}

// Summary carries the headline totals stored next to the data.
type Summary struct {
	TotalBusinesses int `json:"totalUmkm"`
	TotalWorkforce  int `json:"totalTenagaKerja"`
}

// Document is the converted dataset file: {meta, summary, data}.
type Document struct {
	Meta    Meta          `json:"meta"`
	Summary Summary       `json:"summary"`
	Data    []Observation `json:"data"`
}
