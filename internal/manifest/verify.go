package manifest

import (
	"fmt"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

// VerifyOptions tunes Verify.
type VerifyOptions struct {
	// Strict turns missing optional facts (hash, serial number, statistics)
	// into errors.
	Strict bool
	// SHA256 is the digest of the dataset file being checked, if known.
	SHA256 string
}

// VerifyResult is the outcome of Verify.
type VerifyResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Summary returns a one-line status for command output.
func (r VerifyResult) Summary() string {
	status := "PASSED"
	if !r.Valid {
		status = "FAILED"
	}
	return fmt.Sprintf("Verification: %s | Errors: %d | Warnings: %d", status, len(r.Errors), len(r.Warnings))
}

// verifiedProperties are compared against statistics recomputed from the
// dataset. generatedAt is informational and skipped.
var verifiedProperties = []string{"rows", "years", "districts", "subdistricts", "sectors", "totalBusinesses"}

// Verify checks that bom is a dataset manifest and that it describes doc.
func Verify(bom *cdx.BOM, doc dataset.Document, opts VerifyOptions) VerifyResult {
	var r VerifyResult
	// missing is an error in strict mode and a warning otherwise.
	missing := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		if opts.Strict {
			r.Errors = append(r.Errors, msg)
		} else {
			r.Warnings = append(r.Warnings, msg)
		}
	}

	if bom == nil {
		r.Errors = append(r.Errors, "manifest is nil")
		return r
	}
	if bom.Metadata == nil || bom.Metadata.Component == nil {
		r.Errors = append(r.Errors, "manifest has no metadata component")
		return r
	}
	if bom.SerialNumber == "" {
		missing("manifest has no serial number")
	}

	comp := bom.Metadata.Component
	if comp.Type != cdx.ComponentTypeData {
		r.Errors = append(r.Errors, fmt.Sprintf("metadata component type is %q, want %q", comp.Type, cdx.ComponentTypeData))
	}
	if comp.Name == "" {
		r.Errors = append(r.Errors, "metadata component has no name")
	} else if src := strings.TrimSpace(doc.Meta.Source); src != "" && comp.Name != src {
		r.Warnings = append(r.Warnings, fmt.Sprintf("component name %q differs from dataset source %q", comp.Name, src))
	}

	want := map[string]string{}
	for _, p := range *properties(doc) {
		want[strings.TrimPrefix(p.Name, propertyPrefix)] = p.Value
	}
	for _, name := range verifiedProperties {
		got, ok := Property(bom, name)
		switch {
		case !ok:
			missing("property %s%s is missing", propertyPrefix, name)
		case got != want[name]:
			r.Errors = append(r.Errors, fmt.Sprintf("property %s%s = %q, dataset has %q", propertyPrefix, name, got, want[name]))
		}
	}

	verifyHash(comp, opts.SHA256, &r, missing)

	r.Valid = len(r.Errors) == 0
	logf(comp.Name, "%s", r.Summary())
	return r
}

func verifyHash(comp *cdx.Component, sum string, r *VerifyResult, missing func(string, ...any)) {
	var recorded string
	if comp.Hashes != nil {
		for _, h := range *comp.Hashes {
			if h.Algorithm == cdx.HashAlgoSHA256 {
				recorded = strings.ToLower(h.Value)
				break
			}
		}
	}
	switch {
	case recorded == "":
		missing("metadata component has no SHA-256 hash")
	case sum == "":
		r.Warnings = append(r.Warnings, "dataset file hash not checked")
	case recorded != strings.ToLower(sum):
		r.Errors = append(r.Errors, fmt.Sprintf("SHA-256 mismatch: manifest %s, file %s", recorded, strings.ToLower(sum)))
	}
}
