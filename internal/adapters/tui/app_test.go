package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treedit/internal/adapters/codec"
	"treedit/internal/adapters/filesystem"
	"treedit/internal/adapters/tui/views"
	"treedit/internal/application"
	"treedit/internal/domain"
	"treedit/internal/ports"
)

type memStore struct {
	states map[string]ports.ViewState
}

func (s *memStore) Load(docPath string) (*ports.ViewState, error) {
	state, ok := s.states[docPath]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *memStore) Save(docPath string, state ports.ViewState) error {
	s.states[docPath] = state
	return nil
}

func (s *memStore) Close() error { return nil }

type memRegisters map[rune]domain.Entry

func (r memRegisters) Put(name rune, entry domain.Entry) error {
	r[name] = entry
	return nil
}

func (r memRegisters) Get(name rune) (domain.Entry, bool, error) {
	e, ok := r[name]
	return e, ok, nil
}

const sampleDoc = "a: 1\nbox:\n  cat:\n    - 1\n    - 2\n"

func newApp(t *testing.T, store *memStore) (*App, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))

	c := codec.New()
	repo := filesystem.NewRepository(c)
	root, format, err := repo.Load(path)
	require.NoError(t, err)

	doc := Document{
		Path:    path,
		Format:  format,
		Session: application.NewSession(root, application.Options{HistoryLimit: 10}),
	}
	app := NewApp(doc, Deps{Codec: c, Repo: repo, Registers: memRegisters{}, Store: store})
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	return app, path
}

// drain feeds the messages produced by cmd back into the app
func drain(app *App, cmd tea.Cmd) tea.Msg {
	var last tea.Msg
	for i := 0; cmd != nil && i < 10; i++ {
		last = cmd()
		if _, ok := last.(tea.QuitMsg); ok {
			return last
		}
		_, cmd = app.Update(last)
	}
	return last
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_SaveWritesDocument(t *testing.T) {
	app, path := newApp(t, nil)

	app.Update(key("d"))
	_, cmd := app.Update(key("w"))
	drain(app, cmd)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "box:\n  cat:\n    - 1\n    - 2\n", string(data))
	assert.False(t, app.doc.Session.Dirty())
}

func TestApp_ViewStateRoundTrip(t *testing.T) {
	store := &memStore{states: map[string]ports.ViewState{}}
	app, path := newApp(t, store)

	app.Update(key("j"))
	app.Update(key("E"))
	_, cmd := app.Update(key("q"))
	msg := drain(app, cmd)
	_, quit := msg.(tea.QuitMsg)
	require.True(t, quit)

	state := store.states[path]
	assert.True(t, state.Cursor.Equal(domain.Path{1}))
	assert.Len(t, state.Expanded, 2)

	reopened := NewApp(Document{
		Path:    path,
		Format:  ports.FormatYAML,
		Session: application.NewSession(app.doc.Session.Root().Clone(), application.Options{}),
	}, Deps{Codec: codec.New(), Store: store})
	assert.True(t, reopened.doc.Session.Cursor().Equal(domain.Path{1}))
	assert.True(t, reopened.doc.Session.Expansion().IsExpanded(domain.Path{1, 0}))
}

func TestApp_SwitchesScreens(t *testing.T) {
	app, _ := newApp(t, nil)

	_, cmd := app.Update(key("?"))
	drain(app, cmd)
	assert.Equal(t, ScreenHelp, app.screen)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	drain(app, cmd)
	assert.Equal(t, ScreenEditor, app.screen)

	_, cmd = app.Update(key("/"))
	drain(app, cmd)
	assert.Equal(t, ScreenSearch, app.screen)
	for _, r := range "ca" {
		app.Update(key(string(r)))
	}
	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	drain(app, cmd)
	assert.Equal(t, ScreenEditor, app.screen)
	assert.True(t, app.doc.Session.Cursor().Equal(domain.Path{1, 0}))
}

func TestApp_ExternalEditWithoutEditor(t *testing.T) {
	app, _ := newApp(t, nil)
	app.Update(views.EditExternallyMsg{Path: domain.Path{0}})
	assert.Contains(t, app.View(), "no external editor configured")
}
