package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind describes how a column's cells are parsed and formatted.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDecimal
)

// Column maps one dataset field to its spreadsheet header and JSON key.
type Column struct {
	Name string // snake_case header used in spreadsheets and CSV
	Key  string // camelCase key used in the JSON document
	Kind Kind

	// Aliases are older JSON keys still accepted on read.
	Aliases []string

	// Identity columns must be present for a row to be usable.
	Identity bool

	text    func(*Observation) *string
	integer func(*Observation) *int
	decimal func(*Observation) *float64
}

// Format renders the column value of o the way exports write it.
func (c Column) Format(o Observation) string {
	switch c.Kind {
	case KindInteger:
		return strconv.Itoa(*c.integer(&o))
	case KindDecimal:
		return strconv.FormatFloat(*c.decimal(&o), 'f', -1, 64)
	default:
		return *c.text(&o)
	}
}

// Value returns the typed column value of o: string, int or float64.
func (c Column) Value(o Observation) any {
	switch c.Kind {
	case KindInteger:
		return *c.integer(&o)
	case KindDecimal:
		return *c.decimal(&o)
	default:
		return *c.text(&o)
	}
}

func (c Column) setText(o *Observation, v string) { *c.text(o) = v }

func (c Column) setNumber(o *Observation, v float64) {
	switch c.Kind {
	case KindInteger:
		*c.integer(o) = int(math.Round(v))
	case KindDecimal:
		*c.decimal(o) = v
	}
}

// lookup returns the JSON cell of c, trying Key before the aliases.
func (c Column) lookup(cells map[string]json.RawMessage) (json.RawMessage, bool) {
	if msg, ok := cells[c.Key]; ok {
		return msg, true
	}
	for _, a := range c.Aliases {
		if msg, ok := cells[a]; ok {
			return msg, true
		}
	}
	return nil, false
}

func (c Column) alias(keys ...string) Column {
	c.Aliases = keys
	return c
}

func textCol(name, key string, identity bool, f func(*Observation) *string) Column {
	return Column{Name: name, Key: key, Kind: KindText, Identity: identity, text: f}
}

func intCol(name, key string, identity bool, f func(*Observation) *int) Column {
	return Column{Name: name, Key: key, Kind: KindInteger, Identity: identity, integer: f}
}

func decCol(name, key string, f func(*Observation) *float64) Column {
	return Column{Name: name, Key: key, Kind: KindDecimal, decimal: f}
}

// Columns returns the dataset column registry in file order.
func Columns() []Column {
	return []Column{
		intCol("tahun", "tahun", true, func(o *Observation) *int { return &o.Year }),
		textCol("provinsi", "provinsi", false, func(o *Observation) *string { return &o.Province }),
		textCol("kab_kota", "kabKota", true, func(o *Observation) *string { return &o.District }),
		textCol("kecamatan", "kecamatan", true, func(o *Observation) *string { return &o.SubDistrict }),
		textCol("sektor_umkm_utama", "sektorUtama", false, func(o *Observation) *string { return (*string)(&o.Sector) }).alias("sektorUmkmUtama"),
		intCol("penduduk", "penduduk", false, func(o *Observation) *int { return &o.Population }),
		intCol("jumlah_umkm", "jumlahUmkm", false, func(o *Observation) *int { return &o.Businesses }),
		decCol("umkm_per_1000_penduduk", "umkmPer1000Penduduk", func(o *Observation) *float64 { return &o.Density }),
		decCol("persen_umkm_formal", "persenUmkmFormal", func(o *Observation) *float64 { return &o.FormalPct }),
		decCol("persen_umkm_digital", "persenUmkmDigital", func(o *Observation) *float64 { return &o.DigitalPct }),
		decCol("persen_umkm_akses_pembiayaan", "persenAksesPembiayaan", func(o *Observation) *float64 { return &o.FinancingPct }).alias("persenUmkmAksesPembiayaan"),
		decCol("rata2_omzet_bulanan_juta", "rataOmzetBulananJuta", func(o *Observation) *float64 { return &o.MonthlyRevenue }).alias("rata2OmzetBulananJuta"),
		decCol("omzet_tahunan_miliar", "omzetTahunanMiliar", func(o *Observation) *float64 { return &o.AnnualRevenue }),
		intCol("tenaga_kerja_umkm", "tenagaKerjaUmkm", false, func(o *Observation) *int { return &o.Workforce }),
		decCol("indeks_infrastruktur_internet", "indeksInfrastrukturInternet", func(o *Observation) *float64 { return &o.InternetIndex }),
		decCol("indeks_biaya_logistik", "indeksBiayaLogistik", func(o *Observation) *float64 { return &o.LogisticsIndex }),
		intCol("jumlah_pelatihan_inkubasi", "jumlahPelatihanInkubasi", false, func(o *Observation) *int { return &o.Training }),
		decCol("anggaran_pemberdayaan_umkm_miliar", "anggaranPemberdayaanMiliar", func(o *Observation) *float64 { return &o.Budget }).alias("anggaranPemberdayaanUmkmMiliar"),
		decCol("indeks_kemudahan_berusaha", "indeksKemudahanBerusaha", func(o *Observation) *float64 { return &o.EaseIndex }),
		decCol("tingkat_pengangguran_terbuka_persen", "tingkatPengangguranPersen", func(o *Observation) *float64 { return &o.UnemploymentPct }).alias("tingkatPengangguranTerbukaPersen"),
		decCol("tingkat_kemiskinan_persen", "tingkatKemiskinanPersen", func(o *Observation) *float64 { return &o.PovertyPct }),
		intCol("kejadian_gangguan_distribusi_tahun", "gangguanDistribusiTahun", false, func(o *Observation) *int { return &o.Disruptions }).alias("kejadianGangguanDistribusiTahun"),
	}
}

// percentColumns are range-checked to [0, 100] at load time.
var percentColumns = map[string]bool{
	"persen_umkm_formal":                  true,
	"persen_umkm_digital":                 true,
	"persen_umkm_akses_pembiayaan":        true,
	"indeks_infrastruktur_internet":       true,
	"indeks_biaya_logistik":               true,
	"indeks_kemudahan_berusaha":           true,
	"tingkat_pengangguran_terbuka_persen": true,
	"tingkat_kemiskinan_persen":           true,
}
