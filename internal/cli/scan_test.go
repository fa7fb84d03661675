package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repobom/pkg/config"
	"github.com/matzehuels/repobom/pkg/manifest"
	"github.com/matzehuels/repobom/pkg/sbom"
	"github.com/matzehuels/repobom/pkg/scan"
)

func newScanTestCmd() (*cobra.Command, *scanFlags) {
	f := &scanFlags{}
	cmd := &cobra.Command{Use: "test"}
	addScanFlags(cmd, f)
	return cmd, f
}

func TestLoadConfigDefaults(t *testing.T) {
	root := t.TempDir()
	cmd, f := newScanTestCmd()

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Root != root {
		t.Errorf("Root = %q", cfg.Root)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[0] != sbom.FormatCSV || cfg.Formats[1] != sbom.FormatJSON {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if cfg.GitTimeout != config.DefaultGitTimeout {
		t.Errorf("GitTimeout = %v", cfg.GitTimeout)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	cmd, f := newScanTestCmd()

	for flag, value := range map[string]string{
		"output":      out,
		"format":      "cyclonedx",
		"ignore":      "dist,build",
		"workers":     "4",
		"git-timeout": "5s",
	} {
		if err := cmd.Flags().Set(flag, value); err != nil {
			t.Fatalf("set --%s: %v", flag, err)
		}
	}

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Output != out {
		t.Errorf("Output = %q", cfg.Output)
	}
	if len(cfg.Formats) != 1 || cfg.Formats[0] != sbom.FormatCycloneDX {
		t.Errorf("Formats = %v", cfg.Formats)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "dist" {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	if cfg.GitTimeout != 5*time.Second {
		t.Errorf("GitTimeout = %v", cfg.GitTimeout)
	}
}

func TestLoadConfigFlagBeatsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.FileName), []byte("workers = 2"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, f := newScanTestCmd()
	if err := cmd.Flags().Set("workers", "8"); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(cmd, root, f)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want flag value 8", cfg.Workers)
	}
}

func TestLoadConfigBadFormat(t *testing.T) {
	root := t.TempDir()
	cmd, f := newScanTestCmd()
	if err := cmd.Flags().Set("format", "yaml"); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(cmd, root, f); err == nil {
		t.Error("loadConfig() expected error for unknown format")
	}
}

func TestLoadConfigMissingRoot(t *testing.T) {
	cmd, f := newScanTestCmd()

	if _, err := loadConfig(cmd, filepath.Join(t.TempDir(), "missing"), f); err == nil {
		t.Error("loadConfig() expected error for missing root")
	}
}

func TestExportAll(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	result := &scan.Result{
		Records: []sbom.Record{
			{Name: "flask", Version: "2.0.1", Type: manifest.EcosystemPip, Path: root + "/a/requirements.txt", Revision: "abc"},
		},
	}

	paths, err := exportAll(cfg, result)
	if err != nil {
		t.Fatalf("exportAll() error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}

	csvData, err := os.ReadFile(filepath.Join(root, "sbom.csv"))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.HasPrefix(string(csvData), "name,version,type,path,commit_hash\n") {
		t.Errorf("csv = %q", csvData)
	}
	if !strings.Contains(string(csvData), "flask,2.0.1,pip,") {
		t.Errorf("csv missing record: %q", csvData)
	}

	var records []sbom.Record
	jsonData, err := os.ReadFile(filepath.Join(root, "sbom.json"))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if err := json.Unmarshal(jsonData, &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(records) != 1 || records[0].Name != "flask" {
		t.Errorf("records = %+v", records)
	}
}

func TestExportAllSeparateOutputDir(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default(root)
	cfg.Output = filepath.Join(t.TempDir(), "reports", "latest")
	cfg.Formats = []sbom.Format{sbom.FormatCycloneDX}

	paths, err := exportAll(cfg, &scan.Result{})
	if err != nil {
		t.Fatalf("exportAll() error: %v", err)
	}
	if len(paths) != 1 || filepath.Base(paths[0]) != "sbom.cdx.json" {
		t.Fatalf("paths = %v", paths)
	}

	data, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read cyclonedx: %v", err)
	}
	var bom sbom.CycloneDX
	if err := json.Unmarshal(data, &bom); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if bom.BOMFormat != "CycloneDX" {
		t.Errorf("bomFormat = %q", bom.BOMFormat)
	}
}

func TestManifestsIn(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"requirements.txt", "package.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := manifestsIn(dir)

	want := []string{"requirements.txt", "package.json"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("manifestsIn() = %v, want %v", got, want)
	}
}

func TestRelPath(t *testing.T) {
	tests := []struct {
		root string
		dir  string
		want string
	}{
		{"/scan", "/scan/alpha", "alpha"},
		{"/scan", "/scan/nested/beta", "nested/beta"},
		{"/scan", "/scan", "scan"},
	}

	for _, tt := range tests {
		if got := relPath(tt.root, tt.dir); got != tt.want {
			t.Errorf("relPath(%q, %q) = %q, want %q", tt.root, tt.dir, got, tt.want)
		}
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8080", "localhost:8080"},
		{"127.0.0.1:9000", "127.0.0.1:9000"},
	}

	for _, tt := range tests {
		if got := displayAddr(tt.addr); got != tt.want {
			t.Errorf("displayAddr(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
