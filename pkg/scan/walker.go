// Package scan discovers git repositories under a root directory and
// extracts their declared dependencies into SBOM records.
package scan

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FindRepositories walks root and returns every directory containing a
// .git metadata directory, in walk order. The walk continues into
// repositories, so nested repositories are found too.
//
// Directories named in ignore are never descended, and .git directories
// themselves are never walked. Unreadable subtrees are skipped rather
// than failing the walk; only a broken root is an error.
func FindRepositories(root string, ignore []string) ([]string, error) {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	var repos []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		if path != root && skip[d.Name()] {
			return filepath.SkipDir
		}
		if isRepoRoot(path) {
			repos = append(repos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// isRepoRoot reports whether dir carries a .git directory. A .git file
// (worktrees, submodules) does not count: the scan wants repositories
// with their own metadata directory.
func isRepoRoot(dir string) bool {
	info, err := os.Lstat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}
