package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// WriteCSV writes tbl with every field double-quoted and inner quotes
// doubled. Records end with "\n"; newlines inside a field stay quoted.
func WriteCSV(w io.Writer, tbl Table) error {
	bw := bufio.NewWriter(w)
	writeRecord(bw, tbl.Header)
	for _, rec := range tbl.Rows {
		fields := make([]string, len(rec))
		for i, v := range rec {
			fields[i] = FormatCell(v)
		}
		writeRecord(bw, fields)
	}
	return bw.Flush()
}

func writeRecord(bw *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('"')
		bw.WriteString(strings.ReplaceAll(f, `"`, `""`))
		bw.WriteByte('"')
	}
	bw.WriteByte('\n')
}

// FormatCell renders a table cell as text. Floats use the shortest
// representation without exponent.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
