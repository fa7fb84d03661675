package python

import (
	"testing"

	"github.com/matzehuels/repobom/pkg/manifest"
)

func TestRequirementsSupports(t *testing.T) {
	r := NewRequirements()

	tests := []struct {
		filename string
		want     bool
	}{
		{"requirements.txt", true},
		{"requirements-dev.txt", true},
		{"requirements_test.txt", true},
		{"package.json", false},
		{"requirements", false},
		{"dev-requirements.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := r.Supports(tt.filename); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestRequirementsParse(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantPairs    []manifest.Pair
		wantWarnings int
	}{
		{
			name:    "simple pins",
			content: "alpha==1.0\nbeta==2.0\n",
			wantPairs: []manifest.Pair{
				{Name: "alpha", Version: "1.0"},
				{Name: "beta", Version: "2.0"},
			},
		},
		{
			name:    "no trailing newline",
			content: "alpha==1.0",
			wantPairs: []manifest.Pair{
				{Name: "alpha", Version: "1.0"},
			},
		},
		{
			name:    "crlf line endings",
			content: "alpha==1.0\r\nbeta==2.0\r\n",
			wantPairs: []manifest.Pair{
				{Name: "alpha", Version: "1.0"},
				{Name: "beta", Version: "2.0"},
			},
		},
		{
			name:    "blank lines and comments skipped",
			content: "# pinned deps\n\nalpha==1.0\n\n  # indented comment\nbeta==2.0\n\n",
			wantPairs: []manifest.Pair{
				{Name: "alpha", Version: "1.0"},
				{Name: "beta", Version: "2.0"},
			},
		},
		{
			name:    "version kept verbatim after first delimiter",
			content: "weird==1.0==extra\n",
			wantPairs: []manifest.Pair{
				{Name: "weird", Version: "1.0==extra"},
			},
		},
		{
			name:    "duplicate name keeps first position, last version",
			content: "alpha==1.0\nbeta==2.0\nalpha==3.0\n",
			wantPairs: []manifest.Pair{
				{Name: "alpha", Version: "3.0"},
				{Name: "beta", Version: "2.0"},
			},
		},
		{
			name:         "line without delimiter warned and skipped",
			content:      "alpha==1.0\nnot a requirement\nbeta==2.0\n",
			wantPairs:    []manifest.Pair{{Name: "alpha", Version: "1.0"}, {Name: "beta", Version: "2.0"}},
			wantWarnings: 1,
		},
		{
			name:         "empty name warned",
			content:      "==1.0\n",
			wantPairs:    nil,
			wantWarnings: 1,
		},
		{
			name:         "empty version warned",
			content:      "alpha==\n",
			wantPairs:    nil,
			wantWarnings: 1,
		},
		{
			name:      "empty file",
			content:   "",
			wantPairs: nil,
		},
		{
			name:    "names and versions not trimmed",
			content: " alpha ==1.0\n",
			wantPairs: []manifest.Pair{
				{Name: " alpha ", Version: "1.0"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewRequirements().Parse([]byte(tt.content))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if len(res.Warnings) != tt.wantWarnings {
				t.Errorf("Parse() warnings = %d (%v), want %d", len(res.Warnings), res.Warnings, tt.wantWarnings)
			}
			if len(res.Pairs) != len(tt.wantPairs) {
				t.Fatalf("Parse() pairs = %v, want %v", res.Pairs, tt.wantPairs)
			}
			for i, want := range tt.wantPairs {
				if res.Pairs[i] != want {
					t.Errorf("Parse() pair[%d] = %v, want %v", i, res.Pairs[i], want)
				}
			}
		})
	}
}

func TestRequirementsParseDistinctNames(t *testing.T) {
	// N distinct names on N lines produce exactly N pairs with the literal text.
	content := "a==1\nb==2\nc==3\nd==4\ne==5\n"
	res, err := NewRequirements().Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(res.Pairs) != 5 {
		t.Fatalf("Parse() returned %d pairs, want 5", len(res.Pairs))
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Parse() warnings = %v, want none", res.Warnings)
	}
}
