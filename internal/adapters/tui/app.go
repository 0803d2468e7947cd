package tui

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"treedit/internal/adapters/editor"
	"treedit/internal/adapters/tui/views"
	"treedit/internal/application"
	"treedit/internal/application/commands"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

// Screen is the view currently shown
type Screen int

const (
	ScreenEditor Screen = iota
	ScreenSearch
	ScreenHelp
)

// Document is the file being edited
type Document struct {
	Path    string
	Format  ports.Format
	Session *application.Session
}

// Deps are the adapters the app works through. Store and Editor may be nil.
type Deps struct {
	Codec     ports.Codec
	Repo      ports.DocumentRepository
	Registers ports.Registers
	Store     ports.SessionStore
	Editor    ports.EditorOpener
}

// App is the main TUI application model
type App struct {
	doc  Document
	deps Deps

	screen     Screen
	editorView *views.EditorModel
	search     *views.SearchModel
	help       *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application and restores the stored view of doc
func NewApp(doc Document, deps Deps) *App {
	a := &App{
		doc:        doc,
		deps:       deps,
		screen:     ScreenEditor,
		editorView: views.NewEditorModel(doc.Session, deps.Codec, deps.Registers, doc.Path),
		search:     views.NewSearchModel(doc.Session),
		help:       views.NewHelpModel(),
	}
	a.restoreView()
	return a
}

func (a *App) restoreView() {
	if a.deps.Store == nil {
		return
	}
	state, err := a.deps.Store.Load(a.doc.Path)
	if err != nil {
		log.Printf("restore view state: %v", err)
		a.editorView.SetMessage("Could not restore view state: "+err.Error(), true)
		return
	}
	if state != nil {
		a.doc.Session.RestoreView(state.Expanded, state.Cursor)
	}
}

func (a *App) persistView() {
	if a.deps.Store == nil {
		return
	}
	state := ports.ViewState{
		Expanded: a.doc.Session.Expansion().Paths(),
		Cursor:   a.doc.Session.Cursor(),
	}
	if err := a.deps.Store.Save(a.doc.Path, state); err != nil {
		log.Printf("save view state: %v", err)
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.editorView.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.editorView.SetSize(msg.Width, msg.Height)
		a.search.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToSearchMsg:
		a.screen = ScreenSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.screen = ScreenHelp
		return a, nil

	case views.SwitchToEditorMsg:
		a.screen = ScreenEditor
		return a, nil

	case views.SearchSelectMsg:
		a.screen = ScreenEditor
		_, cmd := a.editorView.Update(views.JumpToMsg{Path: msg.Path})
		return a, cmd

	case views.SaveRequestMsg:
		a.save()
		if msg.Quit && !a.doc.Session.Dirty() {
			a.persistView()
			return a, tea.Quit
		}
		return a, nil

	case views.QuitRequestMsg:
		a.persistView()
		return a, tea.Quit

	case views.EditExternallyMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		a.applyExternalEdit(msg)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.screen {
	case ScreenEditor:
		_, cmd = a.editorView.Update(msg)
	case ScreenSearch:
		_, cmd = a.search.Update(msg)
	case ScreenHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// save writes the document in place. It runs inside Update so the tree
// cannot change while it is being encoded.
func (a *App) save() {
	cmd := commands.NewSaveCommand(a.doc.Session, a.deps.Repo, a.doc.Path, a.doc.Format)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		log.Printf("save %s: %v", a.doc.Path, err)
		a.editorView.SetMessage(err.Error(), true)
		return
	}
	a.editorView.SetMessage(result.Message, false)
}

type editorFinishedMsg struct {
	file *editor.ValueFile
	path domain.Path
	err  error
}

func (a *App) openEditor(p domain.Path) tea.Cmd {
	if a.deps.Editor == nil {
		a.editorView.SetMessage("no external editor configured", true)
		return nil
	}
	n := a.doc.Session.Get(p)
	if n == nil || n.Kind == domain.KindComment {
		a.editorView.SetMessage("nothing to edit here", true)
		return nil
	}

	file, err := editor.WriteValueFile(a.deps.Codec, n)
	if err != nil {
		a.editorView.SetMessage(err.Error(), true)
		return nil
	}
	cmd, err := a.deps.Editor.Command(file.Path)
	if err != nil {
		file.Remove()
		a.editorView.SetMessage(err.Error(), true)
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{file: file, path: p, err: err}
	})
}

func (a *App) applyExternalEdit(msg editorFinishedMsg) {
	defer msg.file.Remove()
	if msg.err != nil {
		a.editorView.SetMessage("editor: "+msg.err.Error(), true)
		return
	}

	value, err := msg.file.Read()
	if err != nil {
		a.editorView.SetMessage(fmt.Sprintf("edited value is not valid: %v", err), true)
		return
	}

	s := a.doc.Session
	if err := s.SetCursor(msg.path); err != nil {
		a.editorView.SetMessage(err.Error(), true)
		return
	}
	if s.CursorNode().Equal(value) {
		a.editorView.SetMessage("No changes", false)
		return
	}
	if err := s.Replace(value); err != nil {
		a.editorView.SetMessage(err.Error(), true)
		return
	}
	a.editorView.SetMessage(fmt.Sprintf("Updated %s", msg.path), false)
}

// View renders the current view
func (a *App) View() string {
	switch a.screen {
	case ScreenSearch:
		return a.search.View()
	case ScreenHelp:
		return a.help.View()
	default:
		return a.editorView.View()
	}
}
