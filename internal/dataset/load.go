package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
)

// Warning reports a problem with one input row. Row is 1-based over the data
// rows (the header of a CSV or sheet is not counted).
type Warning struct {
	Row     int
	Column  string
	Message string
}

func (w Warning) String() string {
	if w.Column == "" {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return fmt.Sprintf("row %d: %s: %s", w.Row, w.Column, w.Message)
}

// ResolveFormat maps "auto" (or "") to a concrete format by file extension.
func ResolveFormat(path, format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" || f == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			return "json", nil
		case ".csv":
			return "csv", nil
		case ".xlsx", ".xlsm":
			return "xlsx", nil
		default:
			return "", apperr.Userf("cannot detect dataset format of %q (use --format json|csv|xlsx)", path)
		}
	}
	switch f {
	case "json", "csv", "xlsx":
		return f, nil
	default:
		return "", apperr.Userf("unsupported dataset format %q (expected auto|json|csv|xlsx)", format)
	}
}

// Options tunes Load.
type Options struct {
	Format string // auto|json|csv|xlsx
	Sheet  string // xlsx only; first sheet when empty
	Source string // meta source name when the input carries none
}

// Load reads a dataset file and returns the validated document. Rows that
// cannot be identified are dropped and reported as warnings. Missing meta
// is computed from the rows.
func Load(path string, opts Options) (Document, []Warning, error) {
	format, err := ResolveFormat(path, opts.Format)
	if err != nil {
		return Document{}, nil, err
	}
	logf(path, "loading dataset (format=%s)", format)

	var (
		doc      Document
		warnings []Warning
	)
	switch format {
	case "json":
		f, err := os.Open(path)
		if err != nil {
			return Document{}, nil, apperr.Userf("open dataset: %v", err)
		}
		defer f.Close()
		doc, warnings, err = ReadJSON(f)
		if err != nil {
			return Document{}, nil, err
		}
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return Document{}, nil, apperr.Userf("open dataset: %v", err)
		}
		defer f.Close()
		doc.Data, warnings, err = ReadCSV(f)
		if err != nil {
			return Document{}, nil, err
		}
	case "xlsx":
		doc.Data, warnings, err = ReadXLSX(path, opts.Sheet)
		if err != nil {
			return Document{}, nil, err
		}
	}

	if len(doc.Data) == 0 {
		return Document{}, warnings, fmt.Errorf("load %s: %w", path, apperr.ErrEmptyDataset)
	}

	source := doc.Meta.Source
	if source == "" {
		source = opts.Source
	}
	if source == "" {
		source = filepath.Base(path)
	}
	if doc.Meta.Rows == 0 || len(doc.Meta.Years) == 0 {
		doc.Meta = ComputeMeta(source, doc.Data)
	}
	if doc.Summary == (Summary{}) {
		doc.Summary = ComputeSummary(doc.Data)
	}

	logf(path, "loaded %d rows (%d warnings)", len(doc.Data), len(warnings))
	return doc, warnings, nil
}

// ReadJSON decodes a dataset document. Numeric cells are coerced through
// Number; rows are validated the same way as spreadsheet rows.
func ReadJSON(r io.Reader) (Document, []Warning, error) {
	var raw struct {
		Meta    *Meta                        `json:"meta"`
		Summary *Summary                     `json:"summary"`
		Data    []map[string]json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil, fmt.Errorf("decode dataset: %w", apperr.ErrEmptyDataset)
		}
		return Document{}, nil, fmt.Errorf("decode dataset: %w", err)
	}

	cols := Columns()
	var (
		doc      Document
		warnings []Warning
	)
	// absent counts, per column, the kept rows that lack a numeric key.
	type absence struct{ first, count int }
	absent := make([]absence, len(cols))

	doc.Data = make([]Observation, 0, len(raw.Data))
	for i, cells := range raw.Data {
		row := i + 1
		var o Observation
		var rowWarnings []Warning
		var lacking []int
		for ci, c := range cols {
			msg, ok := c.lookup(cells)
			if !ok {
				if c.Kind != KindText {
					lacking = append(lacking, ci)
				}
				continue
			}
			if c.Kind == KindText {
				c.setText(&o, jsonText(msg))
				continue
			}
			var n Number
			_ = n.UnmarshalJSON(msg)
			v, ok := n.Float()
			if !ok {
				rowWarnings = append(rowWarnings, Warning{Row: row, Column: c.Name, Message: fmt.Sprintf("not a number (%s), using 0", strings.TrimSpace(string(msg)))})
			}
			rowWarnings = append(rowWarnings, checkRange(row, c, v)...)
			c.setNumber(&o, v)
		}
		warnings = append(warnings, rowWarnings...)
		if w, ok := checkIdentity(row, o); !ok {
			warnings = append(warnings, w)
			continue
		}
		warnings = append(warnings, checkSector(row, o)...)
		for _, ci := range lacking {
			if absent[ci].count == 0 {
				absent[ci].first = row
			}
			absent[ci].count++
		}
		doc.Data = append(doc.Data, o)
	}
	for ci, a := range absent {
		if a.count > 0 {
			warnings = append(warnings, Warning{Row: a.first, Column: cols[ci].Name, Message: fmt.Sprintf("missing in %d row(s), using 0", a.count)})
		}
	}
	if raw.Meta != nil {
		doc.Meta = *raw.Meta
	}
	if raw.Summary != nil {
		doc.Summary = *raw.Summary
	}
	return doc, warnings, nil
}

func jsonText(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return strings.TrimSpace(s)
	}
	t := strings.TrimSpace(string(msg))
	if t == "null" {
		return ""
	}
	return t
}

// ReadCSV reads a CSV file whose header uses the snake_case column names.
func ReadCSV(r io.Reader) ([]Observation, []Warning, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	return FromRecords(records)
}

// ReadXLSX reads one sheet of a workbook whose first row is the header.
func ReadXLSX(path, sheet string) ([]Observation, []Warning, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperr.Userf("open workbook: %v", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, nil, apperr.Userf("workbook %s has no sheet %q", filepath.Base(path), sheet)
	}
	logf(path, "reading sheet %q", sheet)

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return FromRecords(rows)
}

// FromRecords turns a header row plus data records into observations.
// Missing numeric columns read as zero; missing identity columns are an error.
func FromRecords(records [][]string) ([]Observation, []Warning, error) {
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read records: %w", apperr.ErrEmptyDataset)
	}

	header := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := Columns()
	var missing []string
	for _, c := range cols {
		if _, ok := header[c.Name]; !ok && c.Identity {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, apperr.Userf("dataset header is missing required column(s): %s", strings.Join(missing, ", "))
	}

	var warnings []Warning
	out := make([]Observation, 0, len(records)-1)
	for i, rec := range records[1:] {
		row := i + 1
		if blankRecord(rec) {
			continue
		}
		var o Observation
		for _, c := range cols {
			idx, ok := header[c.Name]
			if !ok {
				continue
			}
			cell := ""
			if idx < len(rec) {
				cell = strings.TrimSpace(rec[idx])
			}
			if c.Kind == KindText {
				c.setText(&o, cell)
				continue
			}
			v, ok := ParseNumber(cell)
			if !ok {
				warnings = append(warnings, Warning{Row: row, Column: c.Name, Message: fmt.Sprintf("not a number (%q), using 0", cell)})
			}
			warnings = append(warnings, checkRange(row, c, v)...)
			c.setNumber(&o, v)
		}
		if w, ok := checkIdentity(row, o); !ok {
			warnings = append(warnings, w)
			continue
		}
		warnings = append(warnings, checkSector(row, o)...)
		out = append(out, o)
	}
	return out, warnings, nil
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func checkIdentity(row int, o Observation) (Warning, bool) {
	if o.Valid() {
		return Warning{}, true
	}
	var missing []string
	if o.Year <= 0 {
		missing = append(missing, "tahun")
	}
	if o.District == "" {
		missing = append(missing, "kab_kota")
	}
	if o.SubDistrict == "" {
		missing = append(missing, "kecamatan")
	}
	return Warning{Row: row, Message: "skipped, missing " + strings.Join(missing, ", ")}, false
}

// checkSector flags rows whose sector is empty or outside the seven known
// labels. Such rows are kept.
func checkSector(row int, o Observation) []Warning {
	switch {
	case o.Sector == "":
		return []Warning{{Row: row, Column: "sektor_umkm_utama", Message: "missing sector"}}
	case !o.Sector.Known():
		return []Warning{{Row: row, Column: "sektor_umkm_utama", Message: fmt.Sprintf("unknown sector %q", string(o.Sector))}}
	}
	return nil
}

func checkRange(row int, c Column, v float64) []Warning {
	if v < 0 {
		return []Warning{{Row: row, Column: c.Name, Message: fmt.Sprintf("negative value %g", v)}}
	}
	if percentColumns[c.Name] && v > 100 {
		return []Warning{{Row: row, Column: c.Name, Message: fmt.Sprintf("value %g outside 0-100", v)}}
	}
	return nil
}

// WriteJSON writes doc as an indented JSON document.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
