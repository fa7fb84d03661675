// Package python parses Python dependency manifests.
package python

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/repobom/pkg/manifest"
)

// Requirements parses requirements.txt files.
//
// Each line declares one dependency as name==version, both sides kept
// verbatim. Blank lines and #-comment lines are skipped. Any other line
// that does not fit the name==version shape becomes a warning rather than
// a silently corrupted record.
//
// Dedup policy: pip treats requirements as a name-keyed set, so a
// duplicate name replaces the earlier version while keeping the first
// occurrence's position (last write wins). The npm parsers do the
// opposite and emit every declaration; each ecosystem keeps its own rule.
type Requirements struct{}

// NewRequirements returns a requirements.txt parser.
func NewRequirements() *Requirements { return &Requirements{} }

func (r *Requirements) Filename() string              { return "requirements.txt" }
func (r *Requirements) Ecosystem() manifest.Ecosystem { return manifest.EcosystemPip }

func (r *Requirements) Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

func (r *Requirements) Parse(data []byte) (*manifest.Result, error) {
	res := &manifest.Result{}
	index := make(map[string]int)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if skippable(line) {
			continue
		}

		name, version, ok := strings.Cut(line, "==")
		if !ok || name == "" || version == "" {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("line %d: not a name==version requirement: %q", lineno, line))
			continue
		}

		if i, dup := index[name]; dup {
			res.Pairs[i].Version = version
			continue
		}
		index[name] = len(res.Pairs)
		res.Pairs = append(res.Pairs, manifest.Pair{Name: name, Version: version})
	}

	return res, scanner.Err()
}

// skippable reports whether the line carries no requirement at all.
func skippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
