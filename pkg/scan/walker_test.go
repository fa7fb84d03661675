package scan

import (
	"os"
	"path/filepath"
	"testing"
)

// mkRepo creates dir with a .git metadata directory plus the given files.
func mkRepo(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindRepositories(t *testing.T) {
	root := t.TempDir()

	mkRepo(t, filepath.Join(root, "alpha"), nil)
	mkRepo(t, filepath.Join(root, "nested", "beta"), nil)
	if err := os.MkdirAll(filepath.Join(root, "plain", "src"), 0o755); err != nil {
		t.Fatal(err)
	}

	repos, err := FindRepositories(root, nil)
	if err != nil {
		t.Fatalf("FindRepositories() error: %v", err)
	}

	want := []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "nested", "beta"),
	}
	if len(repos) != len(want) {
		t.Fatalf("FindRepositories() = %v, want %v", repos, want)
	}
	for i, w := range want {
		if repos[i] != w {
			t.Errorf("FindRepositories()[%d] = %q, want %q", i, repos[i], w)
		}
	}
}

func TestFindRepositoriesNested(t *testing.T) {
	// A repository inside another repository is still found.
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "outer"), nil)
	mkRepo(t, filepath.Join(root, "outer", "inner"), nil)

	repos, err := FindRepositories(root, nil)
	if err != nil {
		t.Fatalf("FindRepositories() error: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("FindRepositories() = %v, want outer and inner", repos)
	}
}

func TestFindRepositoriesIgnore(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, filepath.Join(root, "app"), nil)
	mkRepo(t, filepath.Join(root, "node_modules", "dep"), nil)
	mkRepo(t, filepath.Join(root, "app", "vendor", "lib"), nil)

	repos, err := FindRepositories(root, []string{"node_modules", "vendor"})
	if err != nil {
		t.Fatalf("FindRepositories() error: %v", err)
	}
	if len(repos) != 1 || repos[0] != filepath.Join(root, "app") {
		t.Errorf("FindRepositories() = %v, want only app", repos)
	}
}

func TestFindRepositoriesRootIsRepo(t *testing.T) {
	root := t.TempDir()
	mkRepo(t, root, nil)

	repos, err := FindRepositories(root, nil)
	if err != nil {
		t.Fatalf("FindRepositories() error: %v", err)
	}
	if len(repos) != 1 || repos[0] != root {
		t.Errorf("FindRepositories() = %v, want the root itself", repos)
	}
}

func TestFindRepositoriesGitFileDoesNotCount(t *testing.T) {
	// Worktrees and submodules carry a .git file, not a directory.
	root := t.TempDir()
	dir := filepath.Join(root, "worktree")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: elsewhere"), 0o644); err != nil {
		t.Fatal(err)
	}

	repos, err := FindRepositories(root, nil)
	if err != nil {
		t.Fatalf("FindRepositories() error: %v", err)
	}
	if len(repos) != 0 {
		t.Errorf("FindRepositories() = %v, want none", repos)
	}
}

func TestFindRepositoriesMissingRoot(t *testing.T) {
	_, err := FindRepositories(filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Error("FindRepositories() expected error for missing root")
	}
}
