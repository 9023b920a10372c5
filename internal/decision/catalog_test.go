package decision

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const legacyCatalog = `
alternatives:
  - id: p-1
    name: Digitalisasi Pasar
    cost: medium
    timeframe: short
    impact:
      metric: UMKM digital
      value: "+40%"
    cons:
      - Risiko adopsi sedang
  - id: p-2
    name: Klinik Ekspor
    cost: high
    timeframe: long
    impactScore: 60
    risk: low
`

func TestParseCatalog_MixedStructuredAndLegacy(t *testing.T) {
	alts, err := ParseCatalog(strings.NewReader(legacyCatalog))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if len(alts) != 2 {
		t.Fatalf("len(alts) = %d, want 2", len(alts))
	}
	got := Rank(alts, DefaultWeights())
	// p-1: 80*.4 + 70*.25 + 70*.2 + 90*.15 = 77
	// p-2: 60*.4 + 45*.25 + 85*.2 + 55*.15 = 60.5
	if got[0].AlternativeID != "p-1" || got[0].WeightedScore != 77 {
		t.Fatalf("first = %+v, want p-1 at 77", got[0])
	}
	if got[1].WeightedScore != 60.5 {
		t.Fatalf("second = %+v, want 60.5", got[1])
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty", "", "empty"},
		{"no alternatives", "alternatives: []\n", "no alternatives"},
		{"unknown key", "alternatives:\n  - id: a\n    cost: low\n    timeframe: short\n    budget: 3\n", "budget"},
		{"bad tier", "alternatives:\n  - id: a\n    cost: free\n    timeframe: short\n", "cost tier"},
		{"duplicate", "alternatives:\n  - {id: a, cost: low, timeframe: short}\n  - {id: a, cost: high, timeframe: long}\n", "twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog(strings.NewReader(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ParseCatalog() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestWriteCatalog_LoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	var buf bytes.Buffer
	if err := WriteCatalog(&buf, DefaultCatalog()); err != nil {
		t.Fatalf("WriteCatalog: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if diff := cmp.Diff(DefaultCatalog(), got); diff != "" {
		t.Fatalf("catalog mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCatalog_EmptyPathAndMissingFile(t *testing.T) {
	got, err := LoadCatalog("")
	if err != nil || len(got) != 3 {
		t.Fatalf("LoadCatalog(\"\") = %d alts, %v", len(got), err)
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultCatalog_IsFreshCopy(t *testing.T) {
	a := DefaultCatalog()
	a[0].Name = "changed"
	*a[0].ImpactScore = 1
	b := DefaultCatalog()
	if b[0].Name == "changed" || *b[0].ImpactScore != 95 {
		t.Fatalf("DefaultCatalog shares state between calls")
	}
}
