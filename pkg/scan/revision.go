package scan

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/matzehuels/repobom/pkg/errors"
)

// Resolver reports the current revision of a repository working tree.
// Implementations must be safe for concurrent use; the scanner calls
// Resolve from multiple workers.
type Resolver interface {
	Resolve(ctx context.Context, dir string) (string, error)
}

// GitResolver resolves revisions by invoking the git CLI in the
// repository directory.
//
// The log format argument carries literal quote characters, so a
// well-formed lookup prints "abc123..." and the surrounding quote pair is
// stripped afterwards.
type GitResolver struct {
	// Timeout bounds a single lookup. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration

	run func(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// NewGitResolver returns a resolver shelling out to git, with each lookup
// bounded by timeout.
func NewGitResolver(timeout time.Duration) *GitResolver {
	return &GitResolver{Timeout: timeout, run: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	return cmd.Output()
}

// Resolve returns the full hash of the most recent commit in dir.
func (g *GitResolver) Resolve(ctx context.Context, dir string) (string, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	out, err := g.run(ctx, dir, "log", `--format="%H"`, "-n", "1")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRevisionLookup, err, "git log in %s", dir)
	}
	return trimRevision(string(out)), nil
}

// trimRevision strips surrounding whitespace and one surrounding quote
// pair from git's formatted output.
func trimRevision(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}
