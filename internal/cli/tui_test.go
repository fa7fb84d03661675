package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func pickerItems() []repoItem {
	return []repoItem{
		{Dir: "/scan/alpha", Rel: "alpha", Manifests: []string{"requirements.txt"}},
		{Dir: "/scan/beta", Rel: "beta", Manifests: []string{"package.json", "package-lock.json"}},
		{Dir: "/scan/gamma", Rel: "gamma"},
	}
}

func press(t *testing.T, m RepoPickerModel, msg tea.Msg) RepoPickerModel {
	t.Helper()
	next, _ := m.Update(msg)
	picker, ok := next.(RepoPickerModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return picker
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickerStartsAllSelected(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())

	got := m.Selected()
	if len(got) != 3 {
		t.Fatalf("Selected() = %v", got)
	}
	for i, want := range []string{"/scan/alpha", "/scan/beta", "/scan/gamma"} {
		if got[i] != want {
			t.Errorf("Selected()[%d] = %q, want %q", i, got[i], want)
		}
	}
}

func TestPickerToggle(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.Picked[0] {
		t.Error("space should deselect the cursor row")
	}
	if got := m.Selected(); len(got) != 2 || got[0] != "/scan/beta" {
		t.Errorf("Selected() = %v", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.Picked[0] {
		t.Error("space should reselect the cursor row")
	}
}

func TestPickerNavigation(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())

	m = press(t, m, keyRunes("k"))
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top", m.Cursor)
	}

	m = press(t, m, keyRunes("j"))
	m = press(t, m, keyRunes("j"))
	m = press(t, m, keyRunes("j"))
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d after down past bottom", m.Cursor)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d", m.Cursor)
	}
}

func TestPickerScrollKeepsCursorVisible(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())
	m.Height = 2

	m = press(t, m, keyRunes("j"))
	m = press(t, m, keyRunes("j"))
	if m.Offset != 1 {
		t.Errorf("Offset = %d after scrolling down", m.Offset)
	}

	m = press(t, m, keyRunes("k"))
	m = press(t, m, keyRunes("k"))
	if m.Offset != 0 {
		t.Errorf("Offset = %d after scrolling back up", m.Offset)
	}
}

func TestPickerToggleAll(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())

	m = press(t, m, keyRunes("a"))
	if n := m.pickedCount(); n != 0 {
		t.Errorf("pickedCount() = %d after deselect all", n)
	}

	m = press(t, m, keyRunes("a"))
	if n := m.pickedCount(); n != 3 {
		t.Errorf("pickedCount() = %d after reselect all", n)
	}
}

func TestPickerToggleAllMixed(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	// With a mixed selection "a" selects everything first.
	m = press(t, m, keyRunes("a"))
	if n := m.pickedCount(); n != 3 {
		t.Errorf("pickedCount() = %d", n)
	}
}

func TestPickerConfirm(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picker := next.(RepoPickerModel)

	if !picker.Confirmed {
		t.Error("enter should confirm")
	}
	if cmd == nil {
		t.Fatal("enter should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
}

func TestPickerAbort(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		keyRunes("q"),
	} {
		m := NewRepoPickerModel(pickerItems())

		next, cmd := m.Update(key)
		picker := next.(RepoPickerModel)

		if !picker.Aborted {
			t.Errorf("%q should abort", key.String())
		}
		if picker.Confirmed {
			t.Errorf("%q should not confirm", key.String())
		}
		if cmd == nil {
			t.Errorf("%q should quit", key.String())
		}
	}
}

func TestPickerWindowResize(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())

	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	if m.Height != 14 {
		t.Errorf("Height = %d", m.Height)
	}

	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 3})
	if m.Height != 5 {
		t.Errorf("Height = %d, want clamped minimum", m.Height)
	}
}

func TestPickerView(t *testing.T) {
	m := NewRepoPickerModel(pickerItems())
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace})

	view := m.View()

	for _, want := range []string{
		"Select Repositories",
		"alpha",
		"beta",
		"requirements.txt",
		"—", // gamma has no manifests
		"[1/3]",
		"2 selected",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}
