// Package config assembles the effective scan configuration from
// defaults, an optional repobom.toml file, and command-line overrides.
//
// The result is a single immutable value: it is built once at startup and
// passed by value through the scanner and writers, never mutated during a
// run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/repobom/pkg/errors"
	"github.com/matzehuels/repobom/pkg/sbom"
)

// FileName is the conventional configuration filename looked up in the
// scan root when no explicit --config path is given.
const FileName = "repobom.toml"

// DefaultIgnore lists directory names the walker skips. These trees are
// either tool-generated or vendored and never hold repositories worth
// scanning.
var DefaultIgnore = []string{"node_modules", "vendor", ".venv", "venv", "__pycache__"}

// DefaultGitTimeout bounds a single revision lookup.
const DefaultGitTimeout = 10 * time.Second

// Config is the effective configuration of one run.
type Config struct {
	// Root is the directory tree to scan.
	Root string
	// Output is the directory SBOM files are written to. Empty means the
	// scan root.
	Output string
	// Formats lists the output encodings to write.
	Formats []sbom.Format
	// Ignore lists directory names the walker never descends.
	Ignore []string
	// Workers is the repository-level parallelism. Zero lets the scanner
	// pick.
	Workers int
	// GitTimeout bounds each revision lookup.
	GitTimeout time.Duration
}

// Default returns the configuration used when no file and no flags say
// otherwise.
func Default(root string) Config {
	return Config{
		Root:       root,
		Formats:    append([]sbom.Format(nil), sbom.DefaultFormats...),
		Ignore:     append([]string(nil), DefaultIgnore...),
		GitTimeout: DefaultGitTimeout,
	}
}

// OutputDir returns the directory output files land in.
func (c Config) OutputDir() string {
	if c.Output != "" {
		return c.Output
	}
	return c.Root
}

// Validate reports whether the configuration can drive a scan.
func (c Config) Validate() error {
	info, err := os.Stat(c.Root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "scan root %s", c.Root)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "scan root %s is not a directory", c.Root)
	}
	if len(c.Formats) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no output formats requested")
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must not be negative")
	}
	return nil
}

// duration wraps time.Duration so TOML values like "10s" decode.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// fileConfig mirrors the repobom.toml schema. Pointer fields distinguish
// "absent" from zero values so the file only overrides what it names.
type fileConfig struct {
	Output     *string   `toml:"output"`
	Formats    []string  `toml:"formats"`
	Ignore     []string  `toml:"ignore"`
	Workers    *int      `toml:"workers"`
	GitTimeout *duration `toml:"git_timeout"`
}

// Load builds the configuration for a scan rooted at root. When path is
// empty, <root>/repobom.toml is used if it exists; a missing conventional
// file is not an error, a missing explicit path is.
func Load(root, path string) (Config, error) {
	cfg := Default(root)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	if fc.Output != nil {
		cfg.Output = *fc.Output
	}
	if fc.Formats != nil {
		formats, err := ParseFormats(fc.Formats)
		if err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
		}
		cfg.Formats = formats
	}
	if fc.Ignore != nil {
		cfg.Ignore = fc.Ignore
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.GitTimeout != nil {
		cfg.GitTimeout = time.Duration(*fc.GitTimeout)
	}
	return cfg, nil
}

// ParseFormats converts format names into sbom formats, rejecting
// unknown names and duplicates.
func ParseFormats(names []string) ([]sbom.Format, error) {
	seen := make(map[sbom.Format]bool, len(names))
	formats := make([]sbom.Format, 0, len(names))
	for _, name := range names {
		f, err := sbom.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		if seen[f] {
			return nil, fmt.Errorf("format %q requested twice", name)
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}
