package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"treedit/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel is a yes/no question shown in the status area
type ConfirmationModel struct {
	Question string
	Detail   string
	Keys     ConfirmKeyMap
}

// NewConfirmationModel creates a confirmation with default keys
func NewConfirmationModel(question, detail string) *ConfirmationModel {
	return &ConfirmationModel{
		Question: question,
		Detail:   detail,
		Keys:     DefaultConfirmKeys,
	}
}

// HandleKeyMsg reports whether msg answered the question and how.
// Any other key leaves the question open.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg) (answered, confirmed bool) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, false
	case key.Matches(msg, m.Keys.Confirm):
		return true, true
	}
	return false, false
}

// View renders the question with its key hints
func (m *ConfirmationModel) View() string {
	var b strings.Builder
	if m.Detail != "" {
		b.WriteString(RenderMuted(m.Detail))
		b.WriteString("\n")
	}
	b.WriteString(styles.Key.Render(m.Question))
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
