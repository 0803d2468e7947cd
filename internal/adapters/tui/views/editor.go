package views

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"treedit/internal/adapters/tui/styles"
	"treedit/internal/application"
	"treedit/internal/application/commands"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// EditorKeyMap defines key bindings for the tree editor
type EditorKeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Left         key.Binding
	Right        key.Binding
	Toggle       key.Binding
	ExpandTree   key.Binding
	CollapseTree key.Binding
	ExpandAll    key.Binding
	CollapseAll  key.Binding
	InsertAfter  key.Binding
	InsertBefore key.Binding
	InsertChild  key.Binding
	Delete       key.Binding
	Yank         key.Binding
	Paste        key.Binding
	PasteBefore  key.Binding
	Register     key.Binding
	Rename       key.Binding
	SetValue     key.Binding
	EditExternal key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Save         key.Binding
	SaveQuit     key.Binding
	Search       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var EditorKeys = EditorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse/parent"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "toggle"),
	),
	ExpandTree: key.NewBinding(
		key.WithKeys("E"),
		key.WithHelp("E", "expand subtree"),
	),
	CollapseTree: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "collapse subtree"),
	),
	ExpandAll: key.NewBinding(
		key.WithKeys("+"),
		key.WithHelp("+", "expand all"),
	),
	CollapseAll: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "collapse all"),
	),
	InsertAfter: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "insert after"),
	),
	InsertBefore: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "insert before"),
	),
	InsertChild: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add child"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yank"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "paste after"),
	),
	PasteBefore: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "paste before"),
	),
	Register: key.NewBinding(
		key.WithKeys(`"`),
		key.WithHelp(`"x`, "use register x"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	SetValue: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit value"),
	),
	EditExternal: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "edit in $EDITOR"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Save: key.NewBinding(
		key.WithKeys("w", "ctrl+s"),
		key.WithHelp("w", "save"),
	),
	SaveQuit: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "save and quit"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type editorMode int

const (
	modeNormal editorMode = iota
	modePrompt
	modeConfirm
	modeRegister
)

type promptKind int

const (
	promptInsert promptKind = iota
	promptRename
	promptSet
	promptComment
)

// EditorModel is the main tree view: navigation, editing and prompts
type EditorModel struct {
	ViewState
	session   *application.Session
	codec     ports.Codec
	registers ports.Registers
	name      string

	scroller *Scroller
	mode     editorMode

	form   *InputForm
	prompt promptKind
	insert *commands.InsertCommand

	confirm   *ConfirmationModel
	onConfirm func() tea.Cmd

	register rune
}

// NewEditorModel creates the editor view for an open session. name is shown in the title.
func NewEditorModel(session *application.Session, codec ports.Codec, registers ports.Registers, name string) *EditorModel {
	return &EditorModel{
		session:   session,
		codec:     codec,
		registers: registers,
		name:      name,
		scroller:  NewScroller(3),
	}
}

// Init initializes the editor
func (m *EditorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the editor
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case JumpToMsg:
		if err := m.session.SetCursor(msg.Path); err != nil {
			m.SetMessage(err.Error(), true)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m, m.updatePrompt(msg)
		case modeConfirm:
			return m, m.updateConfirm(msg)
		case modeRegister:
			m.selectRegister(msg)
			return m, nil
		}
		m.ClearMessage()
		return m, m.updateNormal(msg)
	}

	if m.mode == modePrompt {
		return m, m.form.Update(msg)
	}
	return m, nil
}

func (m *EditorModel) updateNormal(msg tea.KeyMsg) tea.Cmd {
	s := m.session

	switch {
	case key.Matches(msg, EditorKeys.Quit):
		if s.Dirty() {
			m.ask("Quit without saving?", "The document has unsaved changes.", func() tea.Cmd {
				return func() tea.Msg { return QuitRequestMsg{} }
			})
			return nil
		}
		return func() tea.Msg { return QuitRequestMsg{} }

	case key.Matches(msg, EditorKeys.Up):
		s.MoveUp()
	case key.Matches(msg, EditorKeys.Down):
		s.MoveDown()
	case key.Matches(msg, EditorKeys.Top):
		s.MoveFirst()
	case key.Matches(msg, EditorKeys.Bottom):
		s.MoveLast()

	case key.Matches(msg, EditorKeys.Left):
		if s.Expansion().IsExpanded(s.Cursor()) {
			s.Toggle()
		} else {
			s.MoveParent()
		}

	case key.Matches(msg, EditorKeys.Right):
		n := s.CursorNode()
		if n.IsContainer() && !s.Expansion().IsExpanded(s.Cursor()) {
			s.Toggle()
		} else if n.IsContainer() && n.Len() > 0 {
			s.MoveDown()
		}

	case key.Matches(msg, EditorKeys.Toggle):
		s.Toggle()
	case key.Matches(msg, EditorKeys.ExpandTree):
		s.ExpandSubtree()
	case key.Matches(msg, EditorKeys.CollapseTree):
		s.CollapseSubtree()
	case key.Matches(msg, EditorKeys.ExpandAll):
		s.ExpandAll()
	case key.Matches(msg, EditorKeys.CollapseAll):
		s.CollapseAll()

	case key.Matches(msg, EditorKeys.InsertAfter):
		m.startInsert(application.InsertAfter)
	case key.Matches(msg, EditorKeys.InsertBefore):
		m.startInsert(application.InsertBefore)
	case key.Matches(msg, EditorKeys.InsertChild):
		m.startInsert(application.InsertChild)

	case key.Matches(msg, EditorKeys.Delete):
		m.startDelete()

	case key.Matches(msg, EditorKeys.Yank):
		cmd := commands.NewYankCommand(s, m.registers, m.takeRegister())
		m.report(cmd.Execute(context.Background()))

	case key.Matches(msg, EditorKeys.Paste):
		m.paste(application.InsertAfter)
	case key.Matches(msg, EditorKeys.PasteBefore):
		m.paste(application.InsertBefore)

	case key.Matches(msg, EditorKeys.Register):
		m.mode = modeRegister

	case key.Matches(msg, EditorKeys.Rename):
		m.startRename()
	case key.Matches(msg, EditorKeys.SetValue):
		return m.startSetValue()
	case key.Matches(msg, EditorKeys.EditExternal):
		return m.editExternally()

	case key.Matches(msg, EditorKeys.Undo):
		m.report(commands.NewUndoCommand(s).Execute(context.Background()))
	case key.Matches(msg, EditorKeys.Redo):
		m.report(commands.NewRedoCommand(s).Execute(context.Background()))

	case key.Matches(msg, EditorKeys.Save):
		return func() tea.Msg { return SaveRequestMsg{} }
	case key.Matches(msg, EditorKeys.SaveQuit):
		return func() tea.Msg { return SaveRequestMsg{Quit: true} }

	case key.Matches(msg, EditorKeys.Search):
		return func() tea.Msg { return SwitchToSearchMsg{} }

	case key.Matches(msg, EditorKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }
	}
	return nil
}

// report shows a command outcome in the status line
func (m *EditorModel) report(result any, err error) {
	if err != nil {
		log.Printf("%T: %v", result, err)
		m.SetMessage(err.Error(), true)
		return
	}
	log.Printf("%T at %s", result, m.session.Cursor())
	switch r := result.(type) {
	case *commands.YankResult:
		m.SetMessage(r.Message, false)
	case *commands.DeleteResult:
		m.SetMessage(r.Message, false)
	case *commands.PasteResult:
		m.SetMessage(r.Message, false)
	case *commands.HistoryResult:
		m.SetMessage(r.Message, !r.Applied)
	case *commands.InsertResult:
		m.SetMessage(r.Message, false)
	case *commands.RenameResult:
		m.SetMessage(r.Message, false)
	case *commands.SetValueResult:
		m.SetMessage(r.Message, false)
	}
}

// takeRegister returns the register chosen with ", defaulting to the unnamed one
func (m *EditorModel) takeRegister() rune {
	r := m.register
	m.register = 0
	if r == 0 {
		return ports.UnnamedRegister
	}
	return r
}

func (m *EditorModel) selectRegister(msg tea.KeyMsg) {
	m.mode = modeNormal
	runes := msg.Runes
	if len(runes) != 1 {
		m.SetMessage("register selection cancelled", true)
		return
	}
	if err := application.ValidateRegister(runes[0]); err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.register = runes[0]
	m.SetMessage(fmt.Sprintf("register %q", runes[0]), false)
}

func (m *EditorModel) paste(mode application.InsertMode) {
	cmd := commands.NewPasteCommand(m.session, m.registers, m.takeRegister(), mode)
	m.report(cmd.Execute(context.Background()))
}

func (m *EditorModel) startDelete() {
	n := m.session.CursorNode()
	if n == nil || len(m.session.Cursor()) == 0 {
		m.SetMessage(domain.ErrCannotDeleteRoot.Error(), true)
		return
	}
	register := m.takeRegister()
	run := func() tea.Cmd {
		m.report(commands.NewDeleteCommand(m.session, m.registers, register).Execute(context.Background()))
		return nil
	}
	if n.IsContainer() && n.Len() > 0 {
		count := domain.CountNodes(n) - 1
		m.ask("Delete this "+n.Kind.String()+"?", fmt.Sprintf("%d nested values will be removed.", count), run)
		return
	}
	run()
}

func (m *EditorModel) startInsert(mode application.InsertMode) {
	cmd := commands.NewInsertCommand(m.session, m.codec, mode, "", "")
	if _, err := m.session.InsertContainer(mode); err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.insert = cmd

	title := "Insert " + mode.String()
	value := NewInputField("Value", `42, "text", [], {} or empty for null`, "").WithCheck(m.checkValue)
	if cmd.NeedsKey() {
		m.openPrompt(promptInsert, title, NewInputField("Key", "name", "").WithCheck(checkKey), value)
		return
	}
	m.openPrompt(promptInsert, title, value)
}

// checkValue shows the kind the typed text parses to
func (m *EditorModel) checkValue(text string) (string, bool) {
	n, err := m.codec.ParseScalar(text)
	if err != nil {
		return "not valid YAML", false
	}
	return n.Kind.String(), true
}

func checkKey(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "required", false
	}
	return "", true
}

func (m *EditorModel) startRename() {
	p := m.session.Cursor()
	eligibility := commands.CheckRenameEligibility(m.session, p)
	if !eligibility.CanRename {
		m.SetMessage("Cannot rename: "+eligibility.Reason, true)
		return
	}
	parent, index, _ := p.Parent()
	current, _ := m.session.Get(parent).Key(index)
	m.openPrompt(promptRename, "Rename key", NewInputField("New key", current, current).WithCheck(checkKey))
}

// startSetValue edits a single-line scalar inline; anything else goes to $EDITOR
func (m *EditorModel) startSetValue() tea.Cmd {
	n := m.session.CursorNode()
	if n == nil {
		return nil
	}
	if n.Kind == domain.KindComment {
		m.openPrompt(promptComment, "Edit comment", NewInputField("Text", "", n.Text))
		return nil
	}
	if n.IsContainer() || n.Kind == domain.KindAlias || strings.Contains(n.Text, "\n") {
		return m.editExternally()
	}
	data, err := m.codec.Encode(n, ports.FormatYAML)
	if err != nil {
		m.SetMessage(err.Error(), true)
		return nil
	}
	current := strings.TrimSuffix(string(data), "\n")
	m.openPrompt(promptSet, "Set value", NewInputField("Value", "", current).WithCheck(m.checkValue))
	return nil
}

func (m *EditorModel) editExternally() tea.Cmd {
	if len(m.session.Cursor()) == 0 {
		m.SetMessage("select a value to edit", true)
		return nil
	}
	p := m.session.Cursor()
	return func() tea.Msg { return EditExternallyMsg{Path: p} }
}

func (m *EditorModel) openPrompt(kind promptKind, title string, fields ...InputField) {
	m.prompt = kind
	m.form = NewInputForm(title, fields...)
	m.mode = modePrompt
}

func (m *EditorModel) closePrompt() {
	m.form = nil
	m.insert = nil
	m.mode = modeNormal
}

func (m *EditorModel) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.form.Keys.Cancel):
		m.closePrompt()
		return nil
	case key.Matches(msg, m.form.Keys.Submit):
		if m.submitPrompt() {
			m.closePrompt()
		}
		return nil
	}
	return m.form.Update(msg)
}

// submitPrompt runs the prompted command. It returns false to keep the
// prompt open after a failure.
func (m *EditorModel) submitPrompt() bool {
	ctx := context.Background()
	var (
		result any
		err    error
	)
	switch m.prompt {
	case promptInsert:
		if len(m.form.Fields) == 2 {
			m.insert.Key = strings.TrimSpace(m.form.Value(0))
		}
		m.insert.Value = m.form.Value(len(m.form.Fields) - 1)
		result, err = m.insert.Execute(ctx)
	case promptRename:
		result, err = commands.NewRenameCommand(m.session, strings.TrimSpace(m.form.Value(0))).Execute(ctx)
	case promptSet:
		result, err = commands.NewSetValueCommand(m.session, m.codec, m.form.Value(0)).Execute(ctx)
	case promptComment:
		old := m.session.CursorNode()
		err = m.session.Replace(domain.Comment(m.form.Value(0), old.Position))
		if err == nil {
			m.SetMessage("Updated comment", false)
			return true
		}
	}
	m.report(result, err)
	return err == nil
}

func (m *EditorModel) ask(question, detail string, onConfirm func() tea.Cmd) {
	m.confirm = NewConfirmationModel(question, detail)
	m.onConfirm = onConfirm
	m.mode = modeConfirm
}

func (m *EditorModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	answered, confirmed := m.confirm.HandleKeyMsg(msg)
	if !answered {
		return nil
	}
	onConfirm := m.onConfirm
	m.confirm, m.onConfirm = nil, nil
	m.mode = modeNormal
	if confirmed && onConfirm != nil {
		return onConfirm()
	}
	return nil
}

// Prompting reports whether a prompt or question has the keyboard
func (m *EditorModel) Prompting() bool {
	return m.mode != modeNormal
}

// View renders the editor
func (m *EditorModel) View() string {
	width := m.Width - 2
	header := m.renderHeader()
	footer := m.renderFooter(width)

	bodyHeight := m.Height - lipgloss.Height(header) - lipgloss.Height(footer) - 1
	m.scroller.SetHeight(bodyHeight)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	lines := m.session.Lines()
	if len(lines) == 0 {
		b.WriteString(RenderMuted("single value: "))
		b.WriteString(domain.Preview(m.session.Root(), max(width-14, 8)))
		b.WriteString("\n")
	} else {
		cursor := domain.LineIndex(lines, m.session.Cursor())
		start, end := m.scroller.Follow(max(cursor, 0), len(lines))
		for i := start; i < end; i++ {
			b.WriteString(RenderTreeLine(lines[i], i == cursor, width))
			b.WriteString("\n")
		}
		for i := end - start; i < bodyHeight; i++ {
			b.WriteString("\n")
		}
	}

	b.WriteString(footer)
	return styles.App.Render(b.String())
}

func (m *EditorModel) renderHeader() string {
	title := styles.Title.Render(m.name)
	if m.session.Dirty() {
		title += " " + styles.StatusDirty.Render("modified")
	}
	if m.register != 0 {
		title += " " + styles.StatusKey.Render(fmt.Sprintf(`"%c`, m.register))
	}
	return title
}

func (m *EditorModel) renderFooter(width int) string {
	switch m.mode {
	case modePrompt:
		return RenderMessage(m.Message, m.MessageErr) + "\n" + m.form.View(width)
	case modeConfirm:
		return m.confirm.View()
	}

	status := m.Message
	if status == "" {
		status = m.describeCursor()
	}

	var b strings.Builder
	if m.Message != "" {
		b.WriteString(RenderMessage(status, m.MessageErr))
	} else {
		b.WriteString(styles.StatusText.Render(status))
	}
	b.WriteString("\n")
	b.WriteString(RenderHelpLine(
		EditorKeys.Toggle,
		EditorKeys.InsertAfter,
		EditorKeys.Delete,
		EditorKeys.SetValue,
		EditorKeys.Undo,
		EditorKeys.Save,
		EditorKeys.Help,
		EditorKeys.Quit,
	))
	return b.String()
}

func (m *EditorModel) describeCursor() string {
	n := m.session.CursorNode()
	if n == nil {
		return ""
	}
	h := m.session.History()
	status := fmt.Sprintf("%s  %s", m.session.Cursor(), n.Kind)
	if n.IsContainer() {
		status += fmt.Sprintf(" (%d)", n.Len())
	}
	if branches := h.Branches(); branches > 1 {
		status += fmt.Sprintf("  %d redo branches", branches)
	}
	return status
}
