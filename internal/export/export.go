// Package export renders the dataset and its district and sector summaries
// as CSV or XLSX tables.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/umkm-jabar/umkmdash-cli/internal/aggregate"
	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// Type selects which table is exported.
type Type string

const (
	TypeFull     Type = "full"
	TypeDistrict Type = "kabkota"
	TypeSector   Type = "sektor"
)

// ParseType maps a request value to a Type. Anything unrecognised, including
// the empty string, selects the full dataset.
func ParseType(s string) Type {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case TypeDistrict:
		return TypeDistrict
	case TypeSector:
		return TypeSector
	default:
		return TypeFull
	}
}

// BaseName is the download file name without extension.
func (t Type) BaseName() string {
	switch t {
	case TypeDistrict:
		return "summary-umkm-jabar-per-kabkota"
	case TypeSector:
		return "summary-umkm-jabar-per-sektor"
	default:
		return "dataset-lengkap-umkm-jabar"
	}
}

// Format is the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx; the empty string means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", apperr.Userf("unsupported export format %q (use csv or xlsx)", s)
	}
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName is the attachment name for a table of type t in format f.
func FileName(t Type, f Format) string {
	return t.BaseName() + "." + string(f)
}

// Table is a header row plus records of typed cells (string, int or float64).
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Build produces the table of type t over rows. Summaries span every year
// present in rows, one record per (group, year).
func Build(t Type, rows []dataset.Observation) Table {
	var tbl Table
	switch t {
	case TypeDistrict:
		tbl = groupTable(string(t), districtColumns, aggregate.ByDistrict(rows, aggregate.AllYears))
	case TypeSector:
		tbl = groupTable(string(t), sectorColumns, aggregate.BySector(rows, aggregate.AllYears))
	default:
		tbl = fullTable(rows)
	}
	logf(string(t), "%d record(s), %d column(s)", len(tbl.Rows), len(tbl.Header))
	return tbl
}

// Write encodes tbl to w in format f.
func Write(w io.Writer, tbl Table, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, tbl)
	case FormatCSV:
		return WriteCSV(w, tbl)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

func fullTable(rows []dataset.Observation) Table {
	cols := dataset.Columns()
	tbl := Table{Name: string(TypeFull), Header: make([]string, len(cols)), Rows: make([][]any, 0, len(rows))}
	for i, c := range cols {
		tbl.Header[i] = c.Name
	}
	for _, r := range rows {
		rec := make([]any, len(cols))
		for i, c := range cols {
			rec[i] = c.Value(r)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl
}

// groupColumn is one column of a summary table.
type groupColumn struct {
	name  string
	value func(g aggregate.Group) any
}

var districtColumns = []groupColumn{
	{"kab_kota", func(g aggregate.Group) any { return g.Key.District }},
	{"tahun", func(g aggregate.Group) any { return g.Key.Year }},
	{"total_kecamatan", func(g aggregate.Group) any { return g.SubDistricts }},
	{"total_umkm", func(g aggregate.Group) any { return g.TotalBusinesses }},
	{"total_penduduk", func(g aggregate.Group) any { return g.TotalPopulation }},
	{"avg_umkm_per_1000", func(g aggregate.Group) any { return round2(g.AvgDensity) }},
	{"avg_persen_formal", func(g aggregate.Group) any { return round2(g.AvgFormalPct) }},
	{"avg_persen_digital", func(g aggregate.Group) any { return round2(g.AvgDigitalPct) }},
	{"avg_persen_akses_pembiayaan", func(g aggregate.Group) any { return round2(g.AvgFinancingPct) }},
	{"total_omzet_miliar", func(g aggregate.Group) any { return round2(g.TotalAnnualRevenue) }},
	{"total_tenaga_kerja", func(g aggregate.Group) any { return g.TotalWorkforce }},
	{"sektor_dominan", func(g aggregate.Group) any { return string(g.DominantSector) }},
}

var sectorColumns = []groupColumn{
	{"sektor", func(g aggregate.Group) any { return string(g.Key.Sector) }},
	{"tahun", func(g aggregate.Group) any { return g.Key.Year }},
	{"total_umkm", func(g aggregate.Group) any { return g.TotalBusinesses }},
	{"total_kecamatan", func(g aggregate.Group) any { return g.SubDistricts }},
	{"avg_persen_formal", func(g aggregate.Group) any { return round2(g.AvgFormalPct) }},
	{"avg_persen_digital", func(g aggregate.Group) any { return round2(g.AvgDigitalPct) }},
	{"avg_omzet_bulanan_juta", func(g aggregate.Group) any { return round2(g.AvgMonthlyRevenue) }},
	{"total_tenaga_kerja", func(g aggregate.Group) any { return g.TotalWorkforce }},
}

func groupTable(name string, cols []groupColumn, groups []aggregate.Group) Table {
	tbl := Table{Name: name, Header: make([]string, len(cols)), Rows: make([][]any, 0, len(groups))}
	for i, c := range cols {
		tbl.Header[i] = c.name
	}
	for _, g := range groups {
		rec := make([]any, len(cols))
		for i, c := range cols {
			rec[i] = c.value(g)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl
}
