package manifest

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

func fixtureDoc() dataset.Document {
	return dataset.Document{
		Meta: dataset.Meta{
			Source:           "umkm-jabar-full.json",
			Rows:             4,
			Years:            []int{2024, 2025},
			DistrictCount:    2,
			SubDistrictCount: 3,
			Sectors:          []dataset.Sector{dataset.SectorFashion, dataset.SectorCulinary},
			GeneratedAt:      time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			MethodologyNotes: []string{"Catatan satu.", "Catatan dua."},
		},
		Summary: dataset.Summary{TotalBusinesses: 3550, TotalWorkforce: 9000},
	}
}

func pinClock(t *testing.T) {
	t.Helper()
	prevNow, prevUUID := now, newUUID
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	n := 0
	newUUID = func() string {
		n++
		return "00000000-0000-4000-8000-00000000000" + string(rune('0'+n))
	}
	t.Cleanup(func() { now, newUUID = prevNow, prevUUID })
}

func TestBuild_Metadata(t *testing.T) {
	pinClock(t)
	bom := Build(fixtureDoc(), Options{SHA256: "ABCDEF", Custodian: "Dinas KUKM Jabar", ToolVersion: "v1.2.3"})

	if bom.SerialNumber != "urn:uuid:00000000-0000-4000-8000-000000000002" {
		t.Fatalf("SerialNumber = %q", bom.SerialNumber)
	}
	if bom.Metadata.Timestamp != "2026-01-02T03:04:05Z" {
		t.Fatalf("Timestamp = %q", bom.Metadata.Timestamp)
	}

	comp := bom.Metadata.Component
	if comp.Type != cdx.ComponentTypeData || comp.Name != "umkm-jabar-full.json" || comp.Version != "2025" {
		t.Fatalf("component = %+v", comp)
	}
	if comp.BOMRef != "urn:uuid:00000000-0000-4000-8000-000000000001" {
		t.Fatalf("BOMRef = %q", comp.BOMRef)
	}
	if comp.Hashes == nil || (*comp.Hashes)[0].Algorithm != cdx.HashAlgoSHA256 || (*comp.Hashes)[0].Value != "abcdef" {
		t.Fatalf("Hashes = %+v", comp.Hashes)
	}

	data := (*comp.Data)[0]
	if data.Type != cdx.ComponentDataTypeDataset || data.Description != "Catatan satu. Catatan dua." {
		t.Fatalf("data = %+v", data)
	}
	if data.Governance == nil || (*data.Governance.Custodians)[0].Organization.Name != "Dinas KUKM Jabar" {
		t.Fatalf("Governance = %+v", data.Governance)
	}

	tools := *bom.Metadata.Tools.Components
	if len(tools) != 1 || tools[0].Name != ToolName || tools[0].Version != "v1.2.3" {
		t.Fatalf("tools = %+v", tools)
	}
}

func TestBuild_Properties(t *testing.T) {
	bom := Build(fixtureDoc(), Options{})
	tests := map[string]string{
		"rows":            "4",
		"years":           "2024,2025",
		"districts":       "2",
		"subdistricts":    "3",
		"sectors":         "Fashion,Kuliner",
		"totalBusinesses": "3550",
		"generatedAt":     "2025-06-01T08:00:00Z",
	}
	for name, want := range tests {
		got, ok := Property(bom, name)
		if !ok || got != want {
			t.Fatalf("Property(%q) = (%q, %v), want %q", name, got, ok, want)
		}
	}
	if _, ok := Property(bom, "missing"); ok {
		t.Fatalf("Property(missing) reported present")
	}
	if _, ok := Property(nil, "rows"); ok {
		t.Fatalf("Property(nil) reported present")
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	bom := Build(dataset.Document{}, Options{})
	comp := bom.Metadata.Component
	if comp.Name != "dataset" || comp.Version != "" || comp.Hashes != nil {
		t.Fatalf("component = %+v", comp)
	}
	if (*comp.Data)[0].Governance != nil {
		t.Fatalf("unexpected governance")
	}
	if !strings.HasPrefix(bom.SerialNumber, "urn:uuid:") {
		t.Fatalf("SerialNumber = %q", bom.SerialNumber)
	}
}

func TestParseSpecVersion(t *testing.T) {
	tcs := []struct {
		in   string
		want cdx.SpecVersion
		ok   bool
	}{
		{"1.0", cdx.SpecVersion1_0, true},
		{"1.4", cdx.SpecVersion1_4, true},
		{" 1.5 ", cdx.SpecVersion1_5, true},
		{"1.6", cdx.SpecVersion1_6, true},
		{"1.7", cdx.SpecVersion1_6, false},
		{"", cdx.SpecVersion1_6, false},
		{"nope", cdx.SpecVersion1_6, false},
	}
	for _, tc := range tcs {
		got, ok := ParseSpecVersion(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseSpecVersion(%q) = (%v,%v), want (%v,%v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		file, format, spec string
	}{
		{"dataset.cdx.json", "auto", ""},
		{"dataset.cdx.json", "json", "1.5"},
		{"dataset.cdx.xml", "auto", "1.6"},
	} {
		t.Run(tc.file+"/"+tc.spec, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), tc.file)
			if err := Write(Build(fixtureDoc(), Options{}), out, tc.format, tc.spec); err != nil {
				t.Fatalf("Write: %v", err)
			}
			got, err := Read(out, "auto")
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if got.Metadata == nil || got.Metadata.Component == nil || got.Metadata.Component.Name != "umkm-jabar-full.json" {
				t.Fatalf("round trip lost metadata.component")
			}
			if v, ok := Property(got, "rows"); !ok || v != "4" {
				t.Fatalf("rows property = (%q, %v)", v, ok)
			}
		})
	}
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()
	bom := Build(fixtureDoc(), Options{})
	tests := []struct {
		name, path, format, spec string
	}{
		{"extension mismatch", filepath.Join(dir, "bom.json"), "xml", ""},
		{"unknown format", filepath.Join(dir, "bom.json"), "yaml", ""},
		{"unknown spec", filepath.Join(dir, "bom.json"), "json", "9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Write(bom, tt.path, tt.format, tt.spec); err == nil {
				t.Fatalf("Write(%q, %q, %q) succeeded, want error", tt.path, tt.format, tt.spec)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "bom.json")); !os.IsNotExist(err) {
		t.Fatalf("failed writes must not create the file")
	}
}

func TestRead_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Read(filepath.Join(dir, "missing.json"), "auto"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(p, []byte(`{`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Read(p, "json"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestHashFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(p, []byte("abc"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := HashFile(p)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("HashFile = %s, want %s", got, want)
	}
}

func TestToolVersion(t *testing.T) {
	prevVersion, prevCommit, prevRead := Version, Commit, readBuildInfo
	t.Cleanup(func() { Version, Commit, readBuildInfo = prevVersion, prevCommit, prevRead })

	noInfo := func() (*debug.BuildInfo, bool) { return nil, false }
	withInfo := func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, true
	}

	tests := []struct {
		name, version, commit string
		read                  func() (*debug.BuildInfo, bool)
		want                  string
	}{
		{"ldflags", "v1.0.0", "abc", withInfo, "v1.0.0"},
		{"build info", "", "abc", withInfo, "v0.4.0"},
		{"dev ignored", "dev", "", withInfo, "v0.4.0"},
		{"commit", "", "abc123", noInfo, "commit-abc123"},
		{"devel", "", "", noInfo, "devel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, readBuildInfo = tt.version, tt.commit, tt.read
			if got := ToolVersion(); got != tt.want {
				t.Fatalf("ToolVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
