package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a permissive numeric cell. It accepts JSON numbers, numeric
// strings, null and the empty string. Anything else decodes to NaN so the
// loader can report it and coerce it to zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*n = Number(math.NaN())
			return nil
		}
		v, ok := ParseNumber(s)
		if !ok {
			*n = Number(math.NaN())
			return nil
		}
		*n = Number(v)
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		*n = Number(math.NaN())
		return nil
	}
	*n = Number(v)
	return nil
}

// Float returns the value and whether it was well formed.
func (n Number) Float() (float64, bool) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseNumber parses a spreadsheet-style cell. Blank cells are zero.
// A single decimal comma ("12,5") is accepted as used in Indonesian exports.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
