// Package manifest describes a loaded UMKM dataset as a CycloneDX BOM with a
// single data component, so exports and conversions can be traced back to
// their source file.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/umkm-jabar/umkmdash-cli/internal/dataset"
)

const (
	ToolVendor = "umkm-jabar"
	ToolName   = "umkmdash"

	propertyPrefix = "umkmdash:"
)

var (
	now     = time.Now
	newUUID = uuid.NewString
)

// Options carries what Build cannot derive from the document.
type Options struct {
	// SHA256 is the hex digest of the source file, if known.
	SHA256 string
	// Custodian names the organisation responsible for the data.
	Custodian   string
	ToolVersion string
}

// Build returns a BOM whose metadata component is the dataset described by
// doc.Meta.
func Build(doc dataset.Document, opts Options) *cdx.BOM {
	bom := cdx.NewBOM()
	bom.Metadata = &cdx.Metadata{Component: dataComponent(doc, opts)}
	addSerialNumber(bom)
	addTimestamp(bom)
	addTool(bom, opts.ToolVersion)
	logf(bom.Metadata.Component.Name, "manifest %s with %d properties", bom.SerialNumber, len(*bom.Metadata.Component.Properties))
	return bom
}

func dataComponent(doc dataset.Document, opts Options) *cdx.Component {
	m := doc.Meta
	name := strings.TrimSpace(m.Source)
	if name == "" {
		name = "dataset"
	}

	comp := &cdx.Component{
		BOMRef:      "urn:uuid:" + newUUID(),
		Type:        cdx.ComponentTypeData,
		Name:        name,
		Description: fmt.Sprintf("Data UMKM Jawa Barat: %d baris, %d kab/kota, %d kecamatan.", m.Rows, m.DistrictCount, m.SubDistrictCount),
		Properties:  properties(doc),
	}
	if y, ok := m.LatestYear(); ok {
		comp.Version = strconv.Itoa(y)
	}
	if opts.SHA256 != "" {
		comp.Hashes = &[]cdx.Hash{{Algorithm: cdx.HashAlgoSHA256, Value: strings.ToLower(opts.SHA256)}}
	}

	data := cdx.ComponentData{
		Type:        cdx.ComponentDataTypeDataset,
		Name:        name,
		Description: strings.Join(m.MethodologyNotes, " "),
	}
	if c := strings.TrimSpace(opts.Custodian); c != "" {
		data.Governance = &cdx.DataGovernance{
			Custodians: &[]cdx.ComponentDataGovernanceResponsibleParty{{
				Organization: &cdx.OrganizationalEntity{Name: c},
			}},
		}
	}
	comp.Data = &[]cdx.ComponentData{data}
	return comp
}

func properties(doc dataset.Document) *[]cdx.Property {
	m := doc.Meta
	years := make([]string, len(m.Years))
	for i, y := range m.Years {
		years[i] = strconv.Itoa(y)
	}
	sectors := make([]string, len(m.Sectors))
	for i, s := range m.Sectors {
		sectors[i] = string(s)
	}
	props := []cdx.Property{
		{Name: propertyPrefix + "rows", Value: strconv.Itoa(m.Rows)},
		{Name: propertyPrefix + "years", Value: strings.Join(years, ",")},
		{Name: propertyPrefix + "districts", Value: strconv.Itoa(m.DistrictCount)},
		{Name: propertyPrefix + "subdistricts", Value: strconv.Itoa(m.SubDistrictCount)},
		{Name: propertyPrefix + "sectors", Value: strings.Join(sectors, ",")},
		{Name: propertyPrefix + "totalBusinesses", Value: strconv.Itoa(doc.Summary.TotalBusinesses)},
	}
	if !m.GeneratedAt.IsZero() {
		props = append(props, cdx.Property{Name: propertyPrefix + "generatedAt", Value: m.GeneratedAt.UTC().Format(time.RFC3339)})
	}
	return &props
}

// Property returns the value of the named umkmdash property on the metadata
// component, if present.
func Property(bom *cdx.BOM, name string) (string, bool) {
	if bom == nil || bom.Metadata == nil || bom.Metadata.Component == nil || bom.Metadata.Component.Properties == nil {
		return "", false
	}
	for _, p := range *bom.Metadata.Component.Properties {
		if p.Name == propertyPrefix+name {
			return p.Value, true
		}
	}
	return "", false
}

func addSerialNumber(bom *cdx.BOM) {
	if bom.SerialNumber == "" {
		bom.SerialNumber = "urn:uuid:" + newUUID()
	}
}

func addTimestamp(bom *cdx.BOM) {
	if bom.Metadata.Timestamp == "" {
		bom.Metadata.Timestamp = now().Format(time.RFC3339)
	}
}

func addTool(bom *cdx.BOM, version string) {
	if version == "" {
		version = ToolVersion()
	}
	if bom.Metadata.Tools == nil {
		bom.Metadata.Tools = &cdx.ToolsChoice{}
	}
	tool := cdx.Component{
		Type:         cdx.ComponentTypeApplication,
		Manufacturer: &cdx.OrganizationalEntity{Name: ToolVendor},
		Name:         ToolName,
		Version:      version,
	}
	if bom.Metadata.Tools.Components == nil {
		bom.Metadata.Tools.Components = &[]cdx.Component{tool}
		return
	}
	comps := append(*bom.Metadata.Tools.Components, tool)
	bom.Metadata.Tools.Components = &comps
}

// HashFile returns the hex SHA-256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
