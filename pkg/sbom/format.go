package sbom

import (
	"fmt"
	"strings"
)

// Format identifies an output encoding.
type Format string

const (
	// FormatCSV is the tabular output with the fixed five-column header.
	FormatCSV Format = "csv"
	// FormatJSON is the indented JSON array output.
	FormatJSON Format = "json"
	// FormatCycloneDX is a CycloneDX 1.4 JSON BOM.
	FormatCycloneDX Format = "cyclonedx"
)

// Formats lists every supported output format.
var Formats = []Format{FormatCSV, FormatJSON, FormatCycloneDX}

// DefaultFormats are the formats written when none are requested.
var DefaultFormats = []Format{FormatCSV, FormatJSON}

// ParseFormat converts a format name into a Format, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCycloneDX, "cdx":
		return FormatCycloneDX, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: csv, json, cyclonedx)", s)
	}
}

// Filename returns the conventional output filename for the format.
func (f Format) Filename() string {
	switch f {
	case FormatCycloneDX:
		return "sbom.cdx.json"
	case FormatJSON:
		return "sbom.json"
	default:
		return "sbom.csv"
	}
}
