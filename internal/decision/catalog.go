package decision

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "go.yaml.in/yaml/v3"
)

// Catalog is the on-disk shape of a policy catalog file.
type Catalog struct {
	Alternatives []Alternative `yaml:"alternatives"`
}

func ptr(v float64) *float64 { return &v }

// DefaultCatalog returns a fresh copy of the built-in alternatives.
func DefaultCatalog() []Alternative {
	return []Alternative{
		{
			ID:          "alt-1",
			Name:        "Pelatihan Kewirausahaan Massal",
			Description: "Program pelatihan kewirausahaan dasar untuk calon dan pelaku UMKM baru di kecamatan prioritas.",
			Pros:        []string{"Biaya per peserta rendah", "Menjangkau banyak peserta dalam waktu singkat", "Mudah direplikasi antar kecamatan"},
			Cons:        []string{"Dampak per peserta terbatas", "Tingkat konversi ke usaha nyata belum pasti", "Perlu tindak lanjut pendampingan"},
			Impact:      Impact{Metric: "UMKM baru", Value: "+150 unit"},
			Cost:        CostLow,
			Timeframe:   TimeShort,
			ImpactScore: ptr(95),
			Risk:        RiskLow,
		},
		{
			ID:          "alt-2",
			Name:        "Subsidi Bunga Kredit UMKM",
			Description: "Subsidi bunga kredit usaha untuk memperluas akses pembiayaan UMKM formal.",
			Pros:        []string{"Langsung menambah modal kerja", "Mendorong formalisasi usaha", "Skema penyaluran melalui bank sudah tersedia"},
			Cons:        []string{"Memerlukan anggaran besar", "Risiko kredit macet", "Tidak menjangkau UMKM informal"},
			Impact:      Impact{Metric: "Akses pembiayaan", Value: "+35%"},
			Cost:        CostHigh,
			Timeframe:   TimeMedium,
			ImpactScore: ptr(70),
			Risk:        RiskLow,
		},
		{
			ID:          "alt-3",
			Name:        "Pendampingan Teknis 1-on-1",
			Description: "Pendampingan intensif oleh konsultan bisnis untuk UMKM dengan potensi tumbuh.",
			Pros:        []string{"Solusi sesuai kebutuhan tiap usaha", "Dampak omzet terukur", "Membangun kapasitas jangka panjang"},
			Cons:        []string{"Jangkauan terbatas (biaya per unit tinggi)", "Bergantung pada ketersediaan konsultan"},
			Impact:      Impact{Metric: "Peningkatan omzet", Value: "+45%"},
			Cost:        CostMedium,
			Timeframe:   TimeLong,
			ImpactScore: ptr(90),
			Risk:        RiskHigh,
		},
	}
}

// ParseCatalog decodes and validates a YAML catalog. Unknown keys and
// duplicate ids are rejected.
func ParseCatalog(r io.Reader) ([]Alternative, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("decode catalog: file is empty")
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Alternatives) == 0 {
		return nil, errors.New("catalog lists no alternatives")
	}

	seen := map[string]bool{}
	for _, a := range c.Alternatives {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if seen[a.ID] {
			return nil, fmt.Errorf("catalog lists alternative %s twice", a.ID)
		}
		seen[a.ID] = true
	}
	return c.Alternatives, nil
}

// LoadCatalog reads a catalog file. An empty path returns DefaultCatalog.
func LoadCatalog(path string) ([]Alternative, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	alts, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logf(path, "loaded %d alternative(s)", len(alts))
	return alts, nil
}

// WriteCatalog encodes alts as a YAML catalog.
func WriteCatalog(w io.Writer, alts []Alternative) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Catalog{Alternatives: alts}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
