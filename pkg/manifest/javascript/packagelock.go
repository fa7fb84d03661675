package javascript

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/repobom/pkg/manifest"
)

// PackageLock parses package-lock.json files with lockfile schema
// version 2 or newer.
//
// Only the top-level "packages" map is read; the legacy nested
// "dependencies" tree of schema v1 is never consulted, so a v1 lockfile
// yields zero pairs without error. Entry keys are node_modules-relative
// install paths and pass through as names unmodified.
type PackageLock struct{}

// NewPackageLock returns a package-lock.json parser.
func NewPackageLock() *PackageLock { return &PackageLock{} }

func (p *PackageLock) Filename() string              { return "package-lock.json" }
func (p *PackageLock) Ecosystem() manifest.Ecosystem { return manifest.EcosystemNPM }
func (p *PackageLock) Supports(name string) bool     { return name == "package-lock.json" }

// lockEntry is the per-package metadata inside the "packages" map. The
// dependency sections stay raw so their document order survives decoding.
type lockEntry struct {
	Version              string          `json:"version"`
	Dependencies         json.RawMessage `json:"dependencies"`
	DevDependencies      json.RawMessage `json:"devDependencies"`
	PeerDependencies     json.RawMessage `json:"peerDependencies"`
	OptionalDependencies json.RawMessage `json:"optionalDependencies"`
}

// sectionList returns the entry's dependency sections in fixed read order.
func (e *lockEntry) sectionList() [4]json.RawMessage {
	return [4]json.RawMessage{
		e.Dependencies,
		e.DevDependencies,
		e.PeerDependencies,
		e.OptionalDependencies,
	}
}

func (p *PackageLock) Parse(data []byte) (*manifest.Result, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse package-lock.json: %w", err)
	}

	res := &manifest.Result{}
	raw, ok := doc["packages"]
	if !ok || isNull(raw) {
		// Schema v1 has no packages map. Nothing to extract.
		return res, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse package-lock.json packages: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parse package-lock.json: packages is not an object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse package-lock.json packages: %w", err)
		}
		installPath, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse package-lock.json: unexpected token %v", keyTok)
		}

		var entry lockEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("parse package-lock.json entry %q: %w", installPath, err)
		}

		// The ""-keyed entry is the root project; the manifest parser
		// already covers it.
		if installPath == "" {
			continue
		}

		res.Pairs = append(res.Pairs, manifest.Pair{Name: installPath, Version: entry.Version})

		for i, sec := range entry.sectionList() {
			if isNull(sec) {
				continue
			}
			pairs, err := decodeOrderedPairs(sec)
			if err != nil {
				return nil, fmt.Errorf("parse package-lock.json entry %q section %q: %w",
					installPath, sections[i], err)
			}
			res.Pairs = append(res.Pairs, pairs...)
		}
	}

	return res, nil
}
