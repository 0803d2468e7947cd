package views

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"treedit/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "scroll down"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel lists the editor key bindings by group
type HelpModel struct {
	ViewState
	lines  []string
	offset int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{lines: helpLines()}
}

func helpLines() []string {
	k := EditorKeys
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.Left, k.Right, k.Search}},
		{"Folding", []key.Binding{k.Toggle, k.ExpandTree, k.CollapseTree, k.ExpandAll, k.CollapseAll}},
		{"Editing", []key.Binding{k.InsertAfter, k.InsertBefore, k.InsertChild, k.Rename, k.SetValue, k.EditExternal, k.Delete}},
		{"Registers", []key.Binding{k.Yank, k.Paste, k.PasteBefore, k.Register}},
		{"History and files", []key.Binding{k.Undo, k.Redo, k.Save, k.SaveQuit, k.Quit}},
	}

	var lines []string
	for _, g := range groups {
		lines = append(lines, styles.InputLabel.Render(g.title))
		for _, b := range g.bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %s%s", styles.HelpKey.Render(fmt.Sprintf("%-12s", h.Key)), styles.HelpDesc.Render(h.Desc)))
		}
		lines = append(lines, "")
	}
	return append(lines,
		RenderMuted(`Values are typed like YAML: 42, 1.5, true, null, "quoted text", [], {}.`),
		RenderMuted("The unnamed register is shared with the system clipboard."),
	)
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, HelpKeys.Close):
			m.offset = 0
			return m, func() tea.Msg { return SwitchToEditorMsg{} }
		case key.Matches(msg, HelpKeys.Up):
			m.offset--
		case key.Matches(msg, HelpKeys.Down):
			m.offset++
		}
		m.offset = max(0, min(m.offset, len(m.lines)-m.pageHeight()))
	}
	return m, nil
}

// pageHeight is the number of help lines that fit between title and footer
func (m *HelpModel) pageHeight() int {
	if m.Height <= 0 {
		return len(m.lines)
	}
	return max(1, m.Height-4)
}

// View renders the help view
func (m *HelpModel) View() string {
	v := NewViewBuilder().Title("treedit help")
	end := min(m.offset+m.pageHeight(), len(m.lines))
	for _, line := range m.lines[m.offset:end] {
		v.Line(line)
	}
	return v.Help(HelpKeys.Up, HelpKeys.Down, HelpKeys.Close).String()
}
