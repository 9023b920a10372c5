package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/umkm-jabar/umkmdash-cli/internal/apperr"
	"github.com/umkm-jabar/umkmdash-cli/internal/decision"
	"github.com/umkm-jabar/umkmdash-cli/internal/insight"
	"github.com/umkm-jabar/umkmdash-cli/internal/priority"
)

func fromYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(doc)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	return v
}

func TestViewOptions_Defaults(t *testing.T) {
	got, err := ViewOptions(viper.New())
	if err != nil {
		t.Fatalf("ViewOptions: %v", err)
	}
	if diff := cmp.Diff(insight.DefaultOptions(), got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestViewOptions_Overrides(t *testing.T) {
	v := fromYAML(t, `
scoring:
  weights:
    poverty: 0.4
    readiness: 0.2
  ceilings:
    density: 80
ranking:
  weights:
    impact: 0.5
    time-to-value: 0.05
insight:
  top: 5
  thresholds:
    low-digital: 25
  roles:
    - role: camat
      label: Total UMKM
      metric: total_businesses
`)
	got, err := ViewOptions(v)
	if err != nil {
		t.Fatalf("ViewOptions: %v", err)
	}

	wantPriority := priority.DefaultConfig()
	wantPriority.Weights.Poverty = 0.4
	wantPriority.Weights.Readiness = 0.2
	wantPriority.Ceilings.Density = 80
	if diff := cmp.Diff(wantPriority, got.Priority); diff != "" {
		t.Fatalf("Priority mismatch (-want +got):\n%s", diff)
	}

	wantWeights := decision.DefaultWeights()
	wantWeights.Impact = 0.5
	wantWeights.TimeToValue = 0.05
	if got.Weights != wantWeights {
		t.Fatalf("Weights = %+v, want %+v", got.Weights, wantWeights)
	}

	if got.TopN != 5 {
		t.Fatalf("TopN = %d, want 5", got.TopN)
	}
	if got.Thresholds.LowDigitalPct != 25 || got.Thresholds.LowFormalPct != insight.DefaultThresholds().LowFormalPct {
		t.Fatalf("Thresholds = %+v", got.Thresholds)
	}
	wantRoles := []insight.RoleSpec{{Role: "camat", Label: "Total UMKM", Metric: insight.MetricTotalBusinesses}}
	if diff := cmp.Diff(wantRoles, got.Roles); diff != "" {
		t.Fatalf("Roles mismatch (-want +got):\n%s", diff)
	}
}

func TestViewOptions_Catalog(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `alternatives:
  - id: pelatihan
    name: Pelatihan Digital
    cost: low
    timeframe: short
    impact:
      metric: adopsi digital
      value: "+20%"
`
	if err := os.WriteFile(p, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	v := viper.New()
	v.Set(KeyCatalog, p)

	got, err := ViewOptions(v)
	if err != nil {
		t.Fatalf("ViewOptions: %v", err)
	}
	if len(got.Catalog) != 1 || got.Catalog[0].ID != "pelatihan" {
		t.Fatalf("Catalog = %+v", got.Catalog)
	}
}

func TestViewOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"priority weights sum", "scoring:\n  weights:\n    poverty: 0.9\n"},
		{"negative ceiling", "scoring:\n  ceilings:\n    poverty: -1\n"},
		{"ranking weights sum", "ranking:\n  weights:\n    risk: 0.9\n"},
		{"missing catalog", "ranking:\n  catalog: /nonexistent/catalog.yaml\n"},
		{"top zero", "insight:\n  top: 0\n"},
		{"weights not numeric", "scoring:\n  weights:\n    poverty: banyak\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ViewOptions(fromYAML(t, tt.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !apperr.IsUser(err) {
				t.Fatalf("error %v is not a UserError", err)
			}
		})
	}
}
