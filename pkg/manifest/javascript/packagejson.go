package javascript

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matzehuels/repobom/pkg/manifest"
)

// PackageJSON parses package.json files. It extracts dependencies,
// devDependencies, peerDependencies, and optionalDependencies, in that
// order, and ignores every other top-level key.
type PackageJSON struct{}

// NewPackageJSON returns a package.json parser.
func NewPackageJSON() *PackageJSON { return &PackageJSON{} }

func (p *PackageJSON) Filename() string              { return "package.json" }
func (p *PackageJSON) Ecosystem() manifest.Ecosystem { return manifest.EcosystemNPM }
func (p *PackageJSON) Supports(name string) bool     { return strings.EqualFold(name, "package.json") }

func (p *PackageJSON) Parse(data []byte) (*manifest.Result, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}

	res := &manifest.Result{}
	for _, section := range sections {
		raw, ok := doc[section]
		if !ok || isNull(raw) {
			continue
		}
		pairs, err := decodeOrderedPairs(raw)
		if err != nil {
			return nil, fmt.Errorf("parse package.json section %q: %w", section, err)
		}
		res.Pairs = append(res.Pairs, pairs...)
	}
	return res, nil
}
