package sbom

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/repobom/pkg/manifest"
)

// CycloneDX is a CycloneDX 1.4 JSON BOM carrying one component per record.
type CycloneDX struct {
	BOMFormat    string         `json:"bomFormat"`
	SpecVersion  string         `json:"specVersion"`
	SerialNumber string         `json:"serialNumber"`
	Version      int            `json:"version"`
	Metadata     CDXMetadata    `json:"metadata"`
	Components   []CDXComponent `json:"components"`
}

// CDXMetadata describes the scan that produced the BOM.
type CDXMetadata struct {
	Timestamp string        `json:"timestamp"`
	Tools     []CDXTool     `json:"tools"`
	Component *CDXComponent `json:"component,omitempty"`
}

// CDXTool identifies the generating tool.
type CDXTool struct {
	Vendor  string `json:"vendor,omitempty"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CDXComponent is a single BOM component.
type CDXComponent struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Version    string `json:"version,omitempty"`
	PackageURL string `json:"purl,omitempty"`
}

// NewCycloneDX builds a BOM for records scanned under root. The timestamp
// is injected by the caller; everything else derives from record content,
// so the serial number is stable across scans of an unchanged tree.
func NewCycloneDX(root, toolVersion string, records []Record, now time.Time) *CycloneDX {
	components := make([]CDXComponent, len(records))
	for i, r := range records {
		components[i] = CDXComponent{
			Type:       "library",
			Name:       r.Name,
			Version:    r.Version,
			PackageURL: purl(r),
		}
	}

	return &CycloneDX{
		BOMFormat:    "CycloneDX",
		SpecVersion:  "1.4",
		SerialNumber: serialNumber(records),
		Version:      1,
		Metadata: CDXMetadata{
			Timestamp: now.UTC().Format(time.RFC3339),
			Tools:     []CDXTool{{Name: "repobom", Version: toolVersion}},
			Component: &CDXComponent{Type: "application", Name: root},
		},
		Components: components,
	}
}

// serialNumber derives a urn:uuid from record content. Identical ledgers
// produce identical serials.
func serialNumber(records []Record) string {
	h := sha256.New()
	for _, r := range records {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\n", r.Name, r.Version, r.Type, r.Path, r.Revision)
	}
	return "urn:uuid:" + uuid.NewSHA1(uuid.NameSpaceURL, h.Sum(nil)).String()
}

// purl builds a package URL for the record. Name segments are escaped
// individually so scoped npm names keep their namespace slash.
func purl(r Record) string {
	name := r.Name
	var ptype string

	switch r.Type {
	case manifest.EcosystemPip:
		ptype = "pypi"
		name = strings.ToLower(name)
	case manifest.EcosystemNPM:
		ptype = "npm"
		// Lockfile entries carry install paths; the package name is the
		// part after the last node_modules/ segment.
		if i := strings.LastIndex(name, "node_modules/"); i >= 0 {
			name = name[i+len("node_modules/"):]
		}
	default:
		return ""
	}
	if name == "" {
		return ""
	}

	segs := strings.Split(name, "/")
	for i, s := range segs {
		// PathEscape leaves @ alone, but canonical purls encode scopes.
		segs[i] = strings.ReplaceAll(url.PathEscape(s), "@", "%40")
	}
	p := "pkg:" + ptype + "/" + strings.Join(segs, "/")
	if r.Version != "" {
		p += "@" + url.PathEscape(r.Version)
	}
	return p
}

// WriteCycloneDX encodes the BOM as indented JSON.
func WriteCycloneDX(w io.Writer, bom *CycloneDX) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bom); err != nil {
		return fmt.Errorf("encode bom: %w", err)
	}
	return nil
}

// ExportCycloneDX writes the BOM to a file at path.
func ExportCycloneDX(path string, bom *CycloneDX) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCycloneDX(f, bom)
}
