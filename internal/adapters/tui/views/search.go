package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"treedit/internal/adapters/tui/styles"
	"treedit/internal/application"
	"treedit/internal/application/commands"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	Jump   key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Prev: key.NewBinding(
		key.WithKeys("up", "ctrl+k", "shift+tab"),
		key.WithHelp("↑", "previous"),
	),
	Next: key.NewBinding(
		key.WithKeys("down", "ctrl+j", "tab"),
		key.WithHelp("↓", "next"),
	),
	Jump: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "jump"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
}

// SearchModel finds keys and values in the open document as the query is typed
type SearchModel struct {
	ViewState
	session  *application.Session
	input    textinput.Model
	results  []commands.SearchResult
	selected int
	scroll   *Scroller
}

// NewSearchModel creates a new search view model
func NewSearchModel(session *application.Session) *SearchModel {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "key, value or dotted.key.path"
	input.Focus()

	return &SearchModel{
		session: session,
		input:   input,
		scroll:  NewScroller(2),
	}
}

// Init initializes the search view
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results
func (m *SearchModel) Reset() {
	m.input.Reset()
	m.input.Focus()
	m.results = nil
	m.selected = 0
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, func() tea.Msg { return SwitchToEditorMsg{} }
		case key.Matches(msg, SearchKeys.Prev):
			m.selected = max(0, m.selected-1)
			return m, nil
		case key.Matches(msg, SearchKeys.Next):
			m.selected = max(0, min(m.selected+1, len(m.results)-1))
			return m, nil
		case key.Matches(msg, SearchKeys.Jump):
			if m.selected >= len(m.results) {
				return m, nil
			}
			p := m.results[m.selected].Path
			return m, func() tea.Msg { return SearchSelectMsg{Path: p} }
		}
	}
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	query := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != query {
		m.run()
	}
	return m, cmd
}

func (m *SearchModel) run() {
	m.selected = 0
	m.ClearMessage()
	results, err := commands.NewSearchCommand(m.session.Root(), m.input.Value()).Execute(context.Background())
	if err != nil {
		m.SetMessage(err.Error(), true)
	}
	m.results = results
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().Title("Search").Line(m.input.View()).BlankLine()

	switch {
	case len(m.results) > 0:
		v.Line(styles.Subtitle.Render(fmt.Sprintf("%d of %d", m.selected+1, len(m.results))))
		if m.Height > 0 {
			m.scroll.SetHeight(m.Height - 8)
		}
		start, end := m.scroll.Follow(m.selected, len(m.results))
		for i := start; i < end; i++ {
			v.Line(m.resultLine(m.results[i], i == m.selected))
		}
	case len(m.input.Value()) < commands.MinQueryLength:
		v.Muted(fmt.Sprintf("Type at least %d characters", commands.MinQueryLength))
	default:
		v.Muted("No matches")
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(SearchKeys.Prev, SearchKeys.Next, SearchKeys.Jump, SearchKeys.Cancel).
		String()
}

func (m *SearchModel) resultLine(r commands.SearchResult, selected bool) string {
	label := r.KeyPath
	if label == "" {
		label = r.Path.String()
	}
	preview := r.Preview
	if m.Width > 0 {
		room := max(1, m.Width-4-runewidth.StringWidth(label)-2)
		preview = runewidth.Truncate(preview, room, "…")
	}
	if selected {
		return styles.LineSelected.Render(label + "  " + preview)
	}
	return styles.Key.Render(label) + "  " + styles.ValueStyle(r.Kind).Render(preview)
}
