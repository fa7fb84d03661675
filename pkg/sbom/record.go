// Package sbom defines the dependency record model and the output encoders
// for the software bill of materials.
package sbom

import (
	"sort"

	"github.com/matzehuels/repobom/pkg/manifest"
)

// Record is one dependency occurrence extracted from a manifest file.
//
// Records form a provenance ledger, not a package set: the same name and
// version appearing in two manifest files yields two records, and nothing
// is ever merged across source paths. Name and Version hold the literal
// manifest text.
type Record struct {
	Name     string             `json:"name"`
	Version  string             `json:"version"`
	Type     manifest.Ecosystem `json:"type"`
	Path     string             `json:"path"`
	Revision string             `json:"commit_hash"`
}

// Sort orders records by name, then version, byte-wise ascending. The sort
// is stable: records with equal keys keep their discovery order, so output
// bytes never depend on how the scan was parallelized.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Version < records[j].Version
	})
}
