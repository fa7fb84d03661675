package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// repoItem is one discovered repository shown in the picker.
type repoItem struct {
	Dir       string   // absolute repository path
	Rel       string   // path relative to the scan root
	Manifests []string // conventional manifest files present
}

// =============================================================================
// RepoPickerModel - Interactive repository selection
// =============================================================================

// RepoPickerModel is the bubbletea model for selecting which discovered
// repositories to scan. All repositories start selected; space toggles,
// enter confirms, q aborts.
type RepoPickerModel struct {
	Items     []repoItem
	Picked    map[int]bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
	Aborted   bool
}

// NewRepoPickerModel creates a picker with every repository selected.
func NewRepoPickerModel(items []repoItem) RepoPickerModel {
	picked := make(map[int]bool, len(items))
	for i := range items {
		picked[i] = true
	}
	return RepoPickerModel{
		Items:  items,
		Picked: picked,
		Height: 15,
	}
}

func (m RepoPickerModel) Init() tea.Cmd {
	return nil
}

func (m RepoPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Picked[m.Cursor] = !m.Picked[m.Cursor]
		case "a":
			all := m.allPicked()
			for i := range m.Items {
				m.Picked[i] = !all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RepoPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Repositories"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		item := m.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		mark := " "
		if m.Picked[i] {
			mark = iconSuccess
		}

		manifests := "—"
		if len(item.Manifests) > 0 {
			manifests = strings.Join(item.Manifests, ", ")
		}

		rows = append(rows, []string{cursor, mark, item.Rel, manifests})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Repository", "Manifests").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 1 && m.Picked[idx] {
				base = StyleSuccess
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			if !m.Picked[idx] {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Items), m.pickedCount())))

	return b.String()
}

// Selected returns the picked repository paths in discovery order.
func (m RepoPickerModel) Selected() []string {
	var dirs []string
	for i, item := range m.Items {
		if m.Picked[i] {
			dirs = append(dirs, item.Dir)
		}
	}
	return dirs
}

func (m RepoPickerModel) allPicked() bool {
	for i := range m.Items {
		if !m.Picked[i] {
			return false
		}
	}
	return len(m.Items) > 0
}

func (m RepoPickerModel) pickedCount() int {
	n := 0
	for i := range m.Items {
		if m.Picked[i] {
			n++
		}
	}
	return n
}
