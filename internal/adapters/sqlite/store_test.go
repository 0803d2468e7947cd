package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treedit/internal/domain"
	"treedit/internal/ports"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoadUnknownDocument(t *testing.T) {
	s := openTestStore(t)
	state, err := s.Load("never-opened.yaml")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := openTestStore(t)
	doc := filepath.Join(t.TempDir(), "config.yaml")

	want := ports.ViewState{
		Expanded: []domain.Path{{}, {1}, {2, 0}},
		Cursor:   domain.Path{2, 0, 1},
	}
	require.NoError(t, s.Save(doc, want))

	got, err := s.Load(doc)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Cursor.Equal(want.Cursor))
	require.Len(t, got.Expanded, 3)

	seen := map[string]bool{}
	for _, p := range got.Expanded {
		seen[p.String()] = true
	}
	assert.True(t, seen["."])
	assert.True(t, seen["1"])
	assert.True(t, seen["2.0"])
}

func TestStore_SaveReplacesPreviousState(t *testing.T) {
	s := openTestStore(t)
	doc := filepath.Join(t.TempDir(), "a.json")

	require.NoError(t, s.Save(doc, ports.ViewState{Expanded: []domain.Path{{0}, {1}}, Cursor: domain.Path{1}}))
	require.NoError(t, s.Save(doc, ports.ViewState{Expanded: []domain.Path{{3}}, Cursor: domain.Path{3}}))

	got, err := s.Load(doc)
	require.NoError(t, err)
	require.Len(t, got.Expanded, 1)
	assert.Equal(t, "3", got.Expanded[0].String())
	assert.Equal(t, "3", got.Cursor.String())
}

func TestStore_DocumentsAreKeyedByAbsolutePath(t *testing.T) {
	s := openTestStore(t)
	dir := t.TempDir()

	require.NoError(t, s.Save(filepath.Join(dir, "a.yaml"), ports.ViewState{Cursor: domain.Path{1}}))
	require.NoError(t, s.Save(filepath.Join(dir, "b.yaml"), ports.ViewState{Cursor: domain.Path{2}}))

	a, err := s.Load(filepath.Join(dir, ".", "a.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "1", a.Cursor.String())

	require.NoError(t, s.Forget(filepath.Join(dir, "a.yaml")))
	a, err = s.Load(filepath.Join(dir, "a.yaml"))
	require.NoError(t, err)
	assert.Nil(t, a)

	b, err := s.Load(filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestStore_ReopenKeepsState(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.yaml")

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(doc, ports.ViewState{Expanded: []domain.Path{{0}}, Cursor: domain.Path{0, 1}}))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(doc)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0.1", got.Cursor.String())
}

func TestStore_OldSchemaIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.yaml")

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(doc, ports.ViewState{Cursor: domain.Path{4}}))
	_, err = s.db.Exec(`UPDATE meta SET value = '0' WHERE key = 'schema_version'`)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(doc)
	require.NoError(t, err)
	assert.Nil(t, got)

	var version string
	require.NoError(t, s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version))
	assert.Equal(t, schemaVersion, version)
}
