// Package manifest defines the contract shared by ecosystem manifest
// parsers.
//
// A parser converts raw manifest bytes into an ordered list of
// (name, version) pairs. Both sides are passed through verbatim: scoped
// names, node_modules install paths, URLs and local-path versions all
// survive untouched, so every downstream record traces back to literal
// text in exactly one manifest file.
package manifest

import (
	"fmt"
	"path/filepath"
)

// Ecosystem identifies the package-management system a manifest belongs to.
type Ecosystem string

const (
	// EcosystemPip marks records extracted from Python requirements files.
	EcosystemPip Ecosystem = "pip"
	// EcosystemNPM marks records extracted from Node manifests and lockfiles.
	EcosystemNPM Ecosystem = "npm"
)

// Pair is one dependency declaration extracted from a manifest.
type Pair struct {
	Name    string
	Version string
}

// Result holds the pairs parsed from one manifest plus any line-level
// warnings. Warnings are recoverable: the rest of the file still parsed.
type Result struct {
	Pairs    []Pair
	Warnings []string
}

// Parser reads dependency declarations from one manifest file kind.
type Parser interface {
	// Parse converts manifest content into dependency pairs. A document
	// that cannot be decoded at all returns an error; recoverable
	// line-level problems are reported in Result.Warnings instead.
	Parse(data []byte) (*Result, error)
	// Supports reports whether this parser handles the given filename.
	Supports(filename string) bool
	// Filename returns the conventional manifest filename probed under a
	// repository root.
	Filename() string
	// Ecosystem returns the package ecosystem this parser extracts.
	Ecosystem() Ecosystem
}

// Detect finds a parser that supports the given file path.
// Returns an error if no parser matches.
func Detect(path string, parsers ...Parser) (Parser, error) {
	name := filepath.Base(path)
	for _, p := range parsers {
		if p.Supports(name) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported manifest: %s", name)
}
