package dataset

import (
	"sort"
	"time"
)

// now is swapped in tests.
var now = time.Now

// ComputeMeta derives the meta block from rows. Sub-districts are counted as
// unique (district, sub-district) pairs since names repeat across districts.
func ComputeMeta(source string, rows []Observation) Meta {
	years := map[int]bool{}
	districts := map[string]bool{}
	type place struct{ district, subDistrict string }
	places := map[place]bool{}
	sectors := map[Sector]bool{}

	for _, r := range rows {
		years[r.Year] = true
		districts[r.District] = true
		places[place{r.District, r.SubDistrict}] = true
		if r.Sector != "" {
			sectors[r.Sector] = true
		}
	}

	m := Meta{
		Source:           source,
		Rows:             len(rows),
		Years:            make([]int, 0, len(years)),
		DistrictCount:    len(districts),
		SubDistrictCount: len(places),
		Sectors:          make([]Sector, 0, len(sectors)),
		GeneratedAt:      now().UTC(),
		MethodologyNotes: []string{
			"Skor prioritas: kemiskinan 30%, pengangguran 20%, kepadatan UMKM 20%, kesiapan (internet, logistik, kemudahan berusaha) 30%.",
			"Peringkat kebijakan: Weighted Sum Model (dampak 40%, kelayakan 25%, risiko 20%, waktu 15%).",
			"Rata-rata kelompok adalah rata-rata aritmetika per baris, tanpa pembobotan penduduk.",
		},
	}
	for y := range years {
		m.Years = append(m.Years, y)
	}
	sort.Ints(m.Years)
	for s := range sectors {
		m.Sectors = append(m.Sectors, s)
	}
	sort.Slice(m.Sectors, func(i, j int) bool { return m.Sectors[i] < m.Sectors[j] })
	return m
}

// ComputeSummary totals business counts and workforce over rows.
func ComputeSummary(rows []Observation) Summary {
	var s Summary
	for _, r := range rows {
		s.TotalBusinesses += r.Businesses
		s.TotalWorkforce += r.Workforce
	}
	return s
}
