package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

// resolveFormat turns "auto", "", "json" or "xml" into a concrete format,
// picking by extension for auto. Anything that is not .xml is JSON.
func resolveFormat(path, format string) (string, error) {
	actual := strings.ToLower(strings.TrimSpace(format))
	switch actual {
	case "", "auto":
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			return "xml", nil
		}
		return "json", nil
	case "json", "xml":
		return actual, nil
	default:
		return "", fmt.Errorf("unsupported manifest format: %q", format)
	}
}

func fileFormat(f string) cdx.BOMFileFormat {
	if f == "xml" {
		return cdx.BOMFileFormatXML
	}
	return cdx.BOMFileFormatJSON
}

// Read decodes a manifest from path. format is "json", "xml" or "auto".
func Read(path string, format string) (*cdx.BOM, error) {
	actual, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bom := new(cdx.BOM)
	if err := cdx.NewBOMDecoder(f, fileFormat(actual)).Decode(bom); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return bom, nil
}

// Write encodes bom to outputPath. The extension must agree with the
// resolved format. A non-empty spec selects the CycloneDX version to emit.
func Write(bom *cdx.BOM, outputPath string, format string, spec string) error {
	actual, err := resolveFormat(outputPath, format)
	if err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(outputPath)); ext != "."+actual {
		return fmt.Errorf("output path extension %q does not match format %q", ext, actual)
	}

	var sv cdx.SpecVersion
	if spec != "" {
		v, ok := ParseSpecVersion(spec)
		if !ok {
			return fmt.Errorf("unsupported CycloneDX spec version: %q", spec)
		}
		sv = v
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := cdx.NewBOMEncoder(f, fileFormat(actual))
	enc.SetPretty(true)
	if spec == "" {
		return enc.Encode(bom)
	}
	return enc.EncodeVersion(bom, sv)
}

// ParseSpecVersion maps "1.0" through "1.6" to a SpecVersion. Unknown
// values return 1.6 and false.
func ParseSpecVersion(s string) (cdx.SpecVersion, bool) {
	versions := map[string]cdx.SpecVersion{
		"1.0": cdx.SpecVersion1_0,
		"1.1": cdx.SpecVersion1_1,
		"1.2": cdx.SpecVersion1_2,
		"1.3": cdx.SpecVersion1_3,
		"1.4": cdx.SpecVersion1_4,
		"1.5": cdx.SpecVersion1_5,
		"1.6": cdx.SpecVersion1_6,
	}
	if v, ok := versions[strings.TrimSpace(s)]; ok {
		return v, true
	}
	return cdx.SpecVersion1_6, false
}
