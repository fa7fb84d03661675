package sbom

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/repobom/pkg/manifest"
)

func TestNewCycloneDX(t *testing.T) {
	records := []Record{
		{Name: "alpha", Version: "1.0", Type: manifest.EcosystemPip, Path: "r/requirements.txt", Revision: "abc"},
		{Name: "node_modules/gamma", Version: "3.1.4", Type: manifest.EcosystemNPM, Path: "r/package-lock.json", Revision: "abc"},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	bom := NewCycloneDX("/scan/root", "v1.2.3", records, now)

	if bom.BOMFormat != "CycloneDX" || bom.SpecVersion != "1.4" {
		t.Errorf("header = %s/%s, want CycloneDX/1.4", bom.BOMFormat, bom.SpecVersion)
	}
	if !strings.HasPrefix(bom.SerialNumber, "urn:uuid:") {
		t.Errorf("SerialNumber = %q, want urn:uuid: prefix", bom.SerialNumber)
	}
	if bom.Metadata.Timestamp != "2025-06-01T12:00:00Z" {
		t.Errorf("Timestamp = %q", bom.Metadata.Timestamp)
	}
	if len(bom.Components) != 2 {
		t.Fatalf("Components = %d, want 2", len(bom.Components))
	}
	if bom.Components[0].PackageURL != "pkg:pypi/alpha@1.0" {
		t.Errorf("pip purl = %q, want %q", bom.Components[0].PackageURL, "pkg:pypi/alpha@1.0")
	}
	if bom.Components[1].PackageURL != "pkg:npm/gamma@3.1.4" {
		t.Errorf("npm purl = %q, want %q", bom.Components[1].PackageURL, "pkg:npm/gamma@3.1.4")
	}
}

func TestSerialNumberDeterministic(t *testing.T) {
	records := []Record{
		{Name: "alpha", Version: "1.0", Type: manifest.EcosystemPip, Path: "p", Revision: "r"},
	}

	first := NewCycloneDX("root", "dev", records, time.Now())
	second := NewCycloneDX("root", "dev", records, time.Now().Add(time.Hour))
	if first.SerialNumber != second.SerialNumber {
		t.Errorf("serial changed for identical records: %q vs %q", first.SerialNumber, second.SerialNumber)
	}

	changed := NewCycloneDX("root", "dev", []Record{
		{Name: "alpha", Version: "2.0", Type: manifest.EcosystemPip, Path: "p", Revision: "r"},
	}, time.Now())
	if first.SerialNumber == changed.SerialNumber {
		t.Error("serial identical for different records")
	}
}

func TestPurl(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "pip lowercased",
			record: Record{Name: "Django", Version: "4.2", Type: manifest.EcosystemPip},
			want:   "pkg:pypi/django@4.2",
		},
		{
			name:   "scoped npm keeps namespace slash",
			record: Record{Name: "@scope/pkg", Version: "1.0.0", Type: manifest.EcosystemNPM},
			want:   "pkg:npm/%40scope/pkg@1.0.0",
		},
		{
			name:   "install path trimmed to package name",
			record: Record{Name: "node_modules/a/node_modules/b", Version: "2.0.0", Type: manifest.EcosystemNPM},
			want:   "pkg:npm/b@2.0.0",
		},
		{
			name:   "no version omits the at suffix",
			record: Record{Name: "node_modules/linked", Version: "", Type: manifest.EcosystemNPM},
			want:   "pkg:npm/linked",
		},
		{
			name:   "unknown ecosystem",
			record: Record{Name: "x", Version: "1", Type: manifest.Ecosystem("cargo")},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := purl(tt.record); got != tt.want {
				t.Errorf("purl() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteCycloneDX(t *testing.T) {
	bom := NewCycloneDX("root", "dev", []Record{
		{Name: "alpha", Version: "1.0", Type: manifest.EcosystemPip, Path: "p", Revision: "r"},
	}, time.Unix(0, 0))

	var buf bytes.Buffer
	if err := WriteCycloneDX(&buf, bom); err != nil {
		t.Fatalf("WriteCycloneDX() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["bomFormat"] != "CycloneDX" {
		t.Errorf("bomFormat = %v", decoded["bomFormat"])
	}
}
