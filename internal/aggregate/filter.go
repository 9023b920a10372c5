package aggregate

import "github.com/umkm-jabar/umkmdash-cli/internal/dataset"

// Filter narrows a row set. Zero-valued fields match everything and the set
// fields are combined with AND.
type Filter struct {
	Year     int            `json:"tahun,omitempty"`
	District string         `json:"kabKota,omitempty"`
	Sector   dataset.Sector `json:"sektor,omitempty"`
}

// IsZero reports whether the filter matches every row.
func (f Filter) IsZero() bool { return f == Filter{} }

// Match reports whether r passes every set predicate.
func (f Filter) Match(r dataset.Observation) bool {
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	if f.District != "" && r.District != f.District {
		return false
	}
	if f.Sector != "" && r.Sector != f.Sector {
		return false
	}
	return true
}

// Apply returns the matching rows in input order. The input is not modified
// and the result is never nil.
func (f Filter) Apply(rows []dataset.Observation) []dataset.Observation {
	out := make([]dataset.Observation, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
