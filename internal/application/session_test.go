package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treedit/internal/domain"
)

func sampleDoc() *domain.Node {
	return domain.Object(
		domain.E("name", domain.String("treedit")),
		domain.E("tags", domain.Array(domain.String("a"), domain.String("b"))),
		domain.E("nested", domain.Object(
			domain.E("deep", domain.Array(domain.Int(1), domain.Object(domain.E("x", domain.Null())))),
			domain.E("flag", domain.Bool(true)),
		)),
		domain.E("pi", domain.Float(3.14)),
	)
}

func newSession(root *domain.Node) *Session {
	return NewSession(root, Options{HistoryLimit: 10, PreviewWidth: 60, ExpandOnLoad: true})
}

func keys(n *domain.Node) []string {
	var out []string
	for _, e := range n.Entries {
		out = append(out, e.Key)
	}
	return out
}

func TestNewSession(t *testing.T) {
	s := newSession(sampleDoc())

	assert.True(t, s.Cursor().Equal(domain.Path{0}))
	assert.Equal(t, 1, s.History().Len(), "load state is checkpointed")
	assert.False(t, s.Dirty())
	assert.Len(t, s.Lines(), domain.CountNodes(s.Root())-1)
}

func TestSession_InsertAfterAndBefore(t *testing.T) {
	s := newSession(domain.Object(domain.E("a", domain.Int(1)), domain.E("b", domain.Int(2))))

	p, err := s.Insert(InsertAfter, "c", domain.Int(3))
	require.NoError(t, err)
	assert.True(t, p.Equal(domain.Path{1}))
	assert.Equal(t, []string{"a", "c", "b"}, keys(s.Root()))
	assert.True(t, s.Cursor().Equal(p))
	assert.True(t, s.Dirty())

	p, err = s.Insert(InsertBefore, "d", domain.Int(4))
	require.NoError(t, err)
	assert.True(t, p.Equal(domain.Path{1}))
	assert.Equal(t, []string{"a", "d", "c", "b"}, keys(s.Root()))
}

func TestSession_InsertTranslatesExpansion(t *testing.T) {
	s := newSession(domain.Object(
		domain.E("a", domain.Object(domain.E("x", domain.Int(1)))),
		domain.E("b", domain.Object(domain.E("y", domain.Int(2)))),
	))
	require.True(t, s.Expansion().IsExpanded(domain.Path{1}))

	_, err := s.Insert(InsertBefore, "first", domain.Int(0))
	require.NoError(t, err)

	assert.True(t, s.Expansion().IsExpanded(domain.Path{1}))
	assert.True(t, s.Expansion().IsExpanded(domain.Path{2}))
	assert.False(t, s.Expansion().IsExpanded(domain.Path{0}))
	for _, l := range s.Lines() {
		assert.NotNil(t, s.Get(l.Path))
	}
}

func TestSession_InsertChild(t *testing.T) {
	s := NewSession(domain.Object(domain.E("xs", domain.Array())), Options{})
	require.NoError(t, s.SetCursor(domain.Path{0}))

	p, err := s.Insert(InsertChild, "", domain.Int(1))
	require.NoError(t, err)
	assert.True(t, p.Equal(domain.Path{0, 0}), "empty container gets its first child at 0")
	assert.True(t, s.Expansion().IsExpanded(domain.Path{0}))

	require.NoError(t, s.SetCursor(domain.Path{0}))
	p, err = s.Insert(InsertChild, "", domain.Int(2))
	require.NoError(t, err)
	assert.True(t, p.Equal(domain.Path{0, 1}), "non-empty container appends")
}

func TestSession_InsertIntoScalarFailsWithoutSideEffects(t *testing.T) {
	s := newSession(sampleDoc())
	before := s.Root().Clone()

	_, err := s.Insert(InsertChild, "k", domain.Int(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotAContainer))
	assert.True(t, before.Equal(s.Root()))
	assert.Equal(t, 1, s.History().Len())
	assert.True(t, s.Cursor().Equal(domain.Path{0}))
}

func TestSession_InsertDuplicateKey(t *testing.T) {
	s := newSession(sampleDoc())
	_, err := s.Insert(InsertAfter, "tags", domain.Null())
	assert.True(t, errors.Is(err, domain.ErrDuplicateKey))
}

func TestSession_InsertIntoScalarRoot(t *testing.T) {
	s := newSession(domain.Int(1))
	_, err := s.Insert(InsertAfter, "", domain.Int(2))
	var valErr *ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestSession_DeleteMovesCursor(t *testing.T) {
	tests := []struct {
		name       string
		root       *domain.Node
		cursor     domain.Path
		wantCursor domain.Path
	}{
		{
			name:       "next sibling takes the slot",
			root:       domain.Array(domain.Int(10), domain.Int(20), domain.Int(30)),
			cursor:     domain.Path{0},
			wantCursor: domain.Path{0},
		},
		{
			name:       "last element falls back to previous",
			root:       domain.Array(domain.Int(10), domain.Int(20)),
			cursor:     domain.Path{1},
			wantCursor: domain.Path{0},
		},
		{
			name:       "only child falls back to parent",
			root:       domain.Object(domain.E("xs", domain.Array(domain.Int(1)))),
			cursor:     domain.Path{0, 0},
			wantCursor: domain.Path{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(tt.root)
			require.NoError(t, s.SetCursor(tt.cursor))

			_, err := s.Delete()
			require.NoError(t, err)
			assert.True(t, s.Cursor().Equal(tt.wantCursor), "cursor %s", s.Cursor())
		})
	}
}

func TestSession_DeleteReturnsEntry(t *testing.T) {
	s := newSession(sampleDoc())
	require.NoError(t, s.SetCursor(domain.Path{1}))

	removed, err := s.Delete()
	require.NoError(t, err)
	assert.Equal(t, "tags", removed.Key)
	assert.True(t, s.Expansion().IsExpanded(domain.Path{1}), "nested moved into slot 1")
	assert.True(t, s.Expansion().IsExpanded(domain.Path{1, 0}))
	assert.False(t, s.Expansion().IsExpanded(domain.Path{2}))
}

func TestSession_RenameAndReplace(t *testing.T) {
	s := newSession(sampleDoc())

	require.NoError(t, s.Rename("title"))
	assert.Equal(t, "title", keys(s.Root())[0])

	require.NoError(t, s.SetCursor(domain.Path{2}))
	require.NoError(t, s.Replace(domain.Int(5)))
	assert.Equal(t, domain.KindNumber, s.Get(domain.Path{2}).Kind)
	assert.False(t, s.Expansion().IsExpanded(domain.Path{2}))
	assert.False(t, s.Expansion().IsExpanded(domain.Path{2, 0}))
}

func TestSession_UndoRedo(t *testing.T) {
	s := newSession(domain.Object(domain.E("a", domain.Int(1))))

	require.NoError(t, s.Replace(domain.Object(domain.E("x", domain.Int(1)))))
	assert.True(t, s.Expansion().IsExpanded(domain.Path{0}))

	require.True(t, s.Undo())
	assert.Equal(t, domain.KindNumber, s.Get(domain.Path{0}).Kind)
	assert.False(t, s.Expansion().IsExpanded(domain.Path{0}), "stale expansion is pruned")
	assert.False(t, s.Undo())

	require.True(t, s.Redo())
	assert.Equal(t, domain.KindObject, s.Get(domain.Path{0}).Kind)
	assert.False(t, s.Redo())
}

func TestSession_UndoRedoRestoresExpansionOfEachState(t *testing.T) {
	s := newSession(domain.Object(
		domain.E("a", domain.Object(domain.E("x", domain.Int(1)))),
		domain.E("b", domain.Object(domain.E("y", domain.Int(2)))),
		domain.E("c", domain.Object(domain.E("z", domain.Int(3)))),
	))
	s.CollapseAll()
	s.Expansion().Expand(domain.Path{1})
	require.NoError(t, s.SetCursor(domain.Path{0}))

	_, err := s.Insert(InsertBefore, "new", domain.Object(domain.E("k", domain.Int(0))))
	require.NoError(t, err)
	require.True(t, s.Expansion().IsExpanded(domain.Path{2}), "b moved to index 2")

	require.True(t, s.Undo())
	assert.True(t, s.Expansion().IsExpanded(domain.Path{1}), "b is open again")
	assert.False(t, s.Expansion().IsExpanded(domain.Path{2}), "c stays closed")

	require.True(t, s.Redo())
	assert.True(t, s.Expansion().IsExpanded(domain.Path{2}))
	assert.False(t, s.Expansion().IsExpanded(domain.Path{1}))
	assert.Equal(t, "b", keys(s.Root())[2])
}

func TestSession_UndoKeepsFoldingDoneAfterTheEdit(t *testing.T) {
	s := newSession(domain.Object(
		domain.E("a", domain.Object(domain.E("x", domain.Int(1)))),
		domain.E("b", domain.Int(2)),
	))
	require.True(t, s.Expansion().IsExpanded(domain.Path{0}))

	require.NoError(t, s.SetCursor(domain.Path{1}))
	require.NoError(t, s.Replace(domain.Int(3)))
	s.Expansion().Collapse(domain.Path{0})

	require.True(t, s.Undo())
	require.True(t, s.Redo())
	assert.False(t, s.Expansion().IsExpanded(domain.Path{0}), "folding after the edit survives undo then redo")
}

func TestSession_RedoBranch(t *testing.T) {
	s := newSession(domain.Array(domain.Int(1)))

	_, err := s.Insert(InsertAfter, "", domain.Int(2))
	require.NoError(t, err)
	require.True(t, s.Undo())
	_, err = s.Insert(InsertAfter, "", domain.Int(3))
	require.NoError(t, err)
	require.True(t, s.Undo())

	assert.Equal(t, 2, s.History().Branches())
	require.True(t, s.RedoBranch(0))
	assert.Equal(t, int64(2), s.Get(domain.Path{1}).Int)
}

func TestSession_HistoryCap(t *testing.T) {
	s := NewSession(domain.Array(), Options{HistoryLimit: 2})
	for i := range 3 {
		_, err := s.Insert(InsertAfter, "", domain.Int(int64(i)))
		require.NoError(t, err)
	}

	assert.True(t, s.Undo())
	assert.True(t, s.Undo())
	assert.False(t, s.Undo(), "earliest checkpoint was evicted")
	assert.Equal(t, 1, s.Root().Len())
}

func TestSession_DirtyFollowsSavedState(t *testing.T) {
	s := newSession(sampleDoc())
	require.NoError(t, s.Rename("title"))
	assert.True(t, s.Dirty())

	s.MarkSaved()
	assert.False(t, s.Dirty())

	require.True(t, s.Undo())
	assert.True(t, s.Dirty())
	require.True(t, s.Redo())
	assert.False(t, s.Dirty())
}

func TestSession_Navigation(t *testing.T) {
	s := newSession(sampleDoc())

	s.MoveUp()
	assert.True(t, s.Cursor().Equal(domain.Path{0}), "stays on the first line")

	s.MoveDown()
	s.MoveDown()
	assert.True(t, s.Cursor().Equal(domain.Path{1, 0}))

	s.MoveParent()
	assert.True(t, s.Cursor().Equal(domain.Path{1}))

	s.MoveLast()
	assert.True(t, s.Cursor().Equal(domain.Path{3}))
	s.MoveDown()
	assert.True(t, s.Cursor().Equal(domain.Path{3}))

	s.MoveFirst()
	assert.Equal(t, 0, s.CursorLine())
}

func TestSession_CollapseAllRevealsCursor(t *testing.T) {
	s := newSession(sampleDoc())
	require.NoError(t, s.SetCursor(domain.Path{2, 0, 1}))

	s.CollapseAll()
	assert.True(t, s.Cursor().Equal(domain.Path{2}))
	assert.GreaterOrEqual(t, s.CursorLine(), 0)
}

func TestSession_SetCursorExpandsAncestors(t *testing.T) {
	s := NewSession(sampleDoc(), Options{})
	require.NoError(t, s.SetCursor(domain.Path{2, 0, 1, 0}))
	assert.GreaterOrEqual(t, s.CursorLine(), 0)

	err := s.SetCursor(domain.Path{9})
	assert.True(t, errors.Is(err, domain.ErrPathNotFound))
}

func TestSession_Toggle(t *testing.T) {
	s := NewSession(sampleDoc(), Options{})
	require.NoError(t, s.SetCursor(domain.Path{1}))
	assert.True(t, s.Toggle())
	assert.Len(t, s.Lines(), 6)
	assert.False(t, s.Toggle())

	require.NoError(t, s.SetCursor(domain.Path{0}))
	assert.False(t, s.Toggle(), "scalars do not expand")
}

func TestSession_UniqueKey(t *testing.T) {
	s := newSession(domain.Object(domain.E("a", domain.Int(1)), domain.E("a_1", domain.Int(2))))
	assert.Equal(t, "b", s.UniqueKey(domain.Root, "b"))
	assert.Equal(t, "a_2", s.UniqueKey(domain.Root, "a"))
}

func TestParseInsertMode(t *testing.T) {
	for _, m := range []InsertMode{InsertAfter, InsertBefore, InsertChild} {
		got, err := ParseInsertMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseInsertMode("sideways")
	assert.Error(t, err)
}

func TestSession_RestoreView(t *testing.T) {
	s := NewSession(sampleDoc(), Options{})

	s.RestoreView([]domain.Path{{2}, {2, 0}, {0}, {7}}, domain.Path{2, 0, 1})
	assert.True(t, s.Expansion().IsExpanded(domain.Path{2, 0}))
	assert.False(t, s.Expansion().IsExpanded(domain.Path{0}), "scalars are skipped")
	assert.Equal(t, 2, s.Expansion().Len())
	assert.True(t, s.Cursor().Equal(domain.Path{2, 0, 1}))

	s.RestoreView(nil, domain.Path{2, 0, 1})
	assert.True(t, s.Cursor().Equal(domain.Path{2}), "hidden cursor climbs to a visible ancestor")

	s.RestoreView(nil, domain.Path{9, 9})
	assert.True(t, s.Cursor().Equal(domain.Path{2}))
}
