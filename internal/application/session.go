package application

import (
	"fmt"
	"strconv"

	"treedit/internal/domain"
)

// InsertMode says where a new value goes relative to the cursor
type InsertMode int

const (
	InsertAfter InsertMode = iota
	InsertBefore
	InsertChild
)

func (m InsertMode) String() string {
	switch m {
	case InsertBefore:
		return "before"
	case InsertChild:
		return "child"
	default:
		return "after"
	}
}

// ParseInsertMode accepts the names printed by String
func ParseInsertMode(s string) (InsertMode, error) {
	switch s {
	case "", "after":
		return InsertAfter, nil
	case "before":
		return InsertBefore, nil
	case "child":
		return InsertChild, nil
	}
	return InsertAfter, &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown insert mode %q", s)}
}

// Options configures a Session
type Options struct {
	HistoryLimit int
	PreviewWidth int
	ExpandOnLoad bool
}

// Session is one open document: the tree, which containers are expanded,
// the cursor and the undo history. It decides where edits land, keeps the
// expansion state in step with every shift and checkpoints after each edit.
type Session struct {
	tree    *domain.Tree
	exp     *domain.ExpansionState
	history *domain.History
	cursor  domain.Path
	saved   *domain.Node
	opts    Options
}

// NewSession opens a parsed document. The load state is the first checkpoint.
func NewSession(root *domain.Node, opts Options) *Session {
	tree := domain.NewTree(root)
	s := &Session{
		tree:    tree,
		exp:     domain.InitialExpansion(tree.Root(), opts.ExpandOnLoad),
		history: domain.NewHistory(opts.HistoryLimit),
		cursor:  domain.Root,
		saved:   tree.Root().Clone(),
		opts:    opts,
	}
	if lines := s.Lines(); len(lines) > 0 {
		s.cursor = lines[0].Path
	}
	s.checkpoint()
	return s
}

func (s *Session) Root() *domain.Node {
	return s.tree.Root()
}

// Get resolves a path against the current tree
func (s *Session) Get(p domain.Path) *domain.Node {
	return s.tree.Get(p)
}

func (s *Session) Cursor() domain.Path {
	return s.cursor.Clone()
}

// CursorNode returns the node under the cursor
func (s *Session) CursorNode() *domain.Node {
	return s.tree.Get(s.cursor)
}

func (s *Session) Expansion() *domain.ExpansionState {
	return s.exp
}

func (s *Session) History() *domain.History {
	return s.history
}

// Lines projects the tree through the expansion state
func (s *Session) Lines() []domain.ViewLine {
	return domain.Project(s.tree.Root(), s.exp, domain.ProjectOptions{PreviewWidth: s.opts.PreviewWidth})
}

// CursorLine returns the index of the cursor in Lines, or -1
func (s *Session) CursorLine() int {
	return domain.LineIndex(s.Lines(), s.cursor)
}

// Dirty reports whether the tree differs from the last saved state
func (s *Session) Dirty() bool {
	return !s.saved.Equal(s.tree.Root())
}

// MarkSaved records the current tree as the saved state
func (s *Session) MarkSaved() {
	s.saved = s.tree.Root().Clone()
}

// SetCursor moves the cursor to p, expanding its ancestors so it is visible
func (s *Session) SetCursor(p domain.Path) error {
	if err := domain.Validate(s.tree.Root(), p); err != nil {
		return err
	}
	for i := 1; i < len(p); i++ {
		s.exp.Expand(p[:i].Clone())
	}
	s.cursor = p.Clone()
	return nil
}

// MoveUp moves the cursor to the previous visible line
func (s *Session) MoveUp() {
	s.moveBy(-1)
}

// MoveDown moves the cursor to the next visible line
func (s *Session) MoveDown() {
	s.moveBy(1)
}

func (s *Session) moveBy(delta int) {
	lines := s.Lines()
	if len(lines) == 0 {
		return
	}
	i := domain.LineIndex(lines, s.cursor) + delta
	i = max(0, min(i, len(lines)-1))
	s.cursor = lines[i].Path
}

// MoveFirst moves the cursor to the first visible line
func (s *Session) MoveFirst() {
	if lines := s.Lines(); len(lines) > 0 {
		s.cursor = lines[0].Path
	}
}

// MoveLast moves the cursor to the last visible line
func (s *Session) MoveLast() {
	if lines := s.Lines(); len(lines) > 0 {
		s.cursor = lines[len(lines)-1].Path
	}
}

// MoveParent moves the cursor to the enclosing container's line
func (s *Session) MoveParent() {
	if parent, _, ok := s.cursor.Parent(); ok && len(parent) > 0 {
		s.cursor = parent
	}
}

// Toggle expands or collapses the container under the cursor
func (s *Session) Toggle() bool {
	if !s.CursorNode().IsContainer() {
		return false
	}
	return s.exp.Toggle(s.cursor.Clone())
}

// ExpandSubtree opens the cursor's container and every container below it
func (s *Session) ExpandSubtree() {
	s.exp.ExpandSubtree(s.tree.Root(), s.cursor)
}

// CollapseSubtree closes the cursor's container and every container below it
func (s *Session) CollapseSubtree() {
	s.exp.CollapseSubtree(s.cursor)
}

func (s *Session) ExpandAll() {
	s.exp.ExpandAll(s.tree.Root())
}

// CollapseAll closes everything; the cursor climbs to its top-level ancestor
func (s *Session) CollapseAll() {
	s.exp.CollapseAll()
	s.revealCursor()
}

// Insert places value relative to the cursor. key is used when the target
// container is an object. The cursor moves to the new node.
func (s *Session) Insert(mode InsertMode, key string, value *domain.Node) (domain.Path, error) {
	s.remember()
	container, index, err := s.insertionPoint(mode)
	if err != nil {
		return nil, err
	}

	var shift domain.Shift
	if c := s.tree.Get(container); c != nil && c.Kind == domain.KindObject {
		shift, err = s.tree.InsertIntoObject(container, index, key, value)
	} else {
		shift, err = s.tree.InsertIntoArray(container, index, value)
	}
	if err != nil {
		return nil, err
	}

	s.exp.Apply(shift)
	if len(container) > 0 {
		s.exp.Expand(container)
	}
	s.cursor = shift.Path()
	s.checkpoint()
	return s.cursor.Clone(), nil
}

func (s *Session) insertionPoint(mode InsertMode) (domain.Path, int, error) {
	parent, index, ok := s.cursor.Parent()
	if mode == InsertChild || !ok {
		c := s.CursorNode()
		if c == nil {
			return nil, 0, domain.Validate(s.tree.Root(), s.cursor)
		}
		if !c.IsContainer() {
			if !ok {
				return nil, 0, &ValidationError{Field: "cursor", Message: "the root has no siblings"}
			}
			return s.cursor, 0, nil
		}
		// an empty container gets its first child at 0, anything else appends
		if c.Len() == 0 {
			return s.cursor, 0, nil
		}
		return s.cursor, c.Len(), nil
	}
	if mode == InsertAfter {
		index++
	}
	return parent, index, nil
}

// Delete removes the node under the cursor and returns it with its key.
// The cursor moves to the next sibling, the previous one, or the parent.
func (s *Session) Delete() (domain.Entry, error) {
	s.remember()
	removed, shift, err := s.tree.Delete(s.cursor)
	if err != nil {
		return domain.Entry{}, err
	}
	s.exp.Apply(shift)

	container := s.tree.Get(shift.Container)
	switch {
	case shift.Index < container.Len():
		s.cursor = shift.Container.Child(shift.Index)
	case shift.Index > 0:
		s.cursor = shift.Container.Child(shift.Index - 1)
	default:
		s.cursor = shift.Container.Clone()
	}
	s.revealCursor()
	s.checkpoint()
	return removed, nil
}

// Rename changes the key of the entry under the cursor
func (s *Session) Rename(newKey string) error {
	s.remember()
	if err := s.tree.RenameKey(s.cursor, newKey); err != nil {
		return err
	}
	s.checkpoint()
	return nil
}

// Replace swaps the value under the cursor, keeping its key and position
func (s *Session) Replace(value *domain.Node) error {
	s.remember()
	if _, err := s.tree.ReplaceValue(s.cursor, value); err != nil {
		return err
	}
	s.exp.CollapseSubtree(s.cursor)
	if s.CursorNode().IsContainer() && len(s.cursor) > 0 {
		s.exp.Expand(s.cursor.Clone())
	}
	s.checkpoint()
	return nil
}

// UniqueKey returns key, or key with a numeric suffix when the object at
// container already has it
func (s *Session) UniqueKey(container domain.Path, key string) string {
	c := s.tree.Get(container)
	if c == nil || c.Kind != domain.KindObject || c.IndexOfKey(key) < 0 {
		return key
	}
	for i := 1; ; i++ {
		candidate := key + "_" + strconv.Itoa(i)
		if c.IndexOfKey(candidate) < 0 {
			return candidate
		}
	}
}

// InsertContainer returns the container an insert in mode would target
func (s *Session) InsertContainer(mode InsertMode) (domain.Path, error) {
	container, _, err := s.insertionPoint(mode)
	return container, err
}

// Undo restores the previous checkpoint. ok is false when there is none.
func (s *Session) Undo() bool {
	s.remember()
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo moves to the most recent branch after the current checkpoint
func (s *Session) Redo() bool {
	s.remember()
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// RedoBranch moves to the i-th alternate future, oldest first
func (s *Session) RedoBranch(i int) bool {
	s.remember()
	snap, ok := s.history.RedoBranch(i)
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

func (s *Session) restore(snap domain.Snapshot) {
	s.tree.Restore(snap)
	s.exp.CollapseAll()
	for _, p := range snap.Expanded {
		s.exp.Expand(p)
	}
	s.exp.Prune(s.tree.Root())
	s.cursor = snap.Cursor
	if s.tree.Get(s.cursor) == nil {
		s.cursor = domain.Root
		s.MoveFirst()
	}
	s.revealCursor()
}

// revealCursor moves a cursor hidden inside a collapsed container up to it
func (s *Session) revealCursor() {
	for i := 1; i < len(s.cursor); i++ {
		if !s.exp.IsExpanded(s.cursor[:i]) {
			s.cursor = s.cursor[:i].Clone()
			return
		}
	}
}

func (s *Session) checkpoint() {
	snap := s.tree.Snapshot(s.cursor)
	snap.Expanded = s.exp.Paths()
	s.history.Checkpoint(snap)
}

// remember stores the live expansion with the current checkpoint, which
// still describes the tree as long as no edit has happened since
func (s *Session) remember() {
	s.history.SetExpanded(s.exp.Paths())
}

// RestoreView reapplies a stored expansion set and cursor. Paths that no
// longer name a container are skipped; an invalid cursor is ignored.
func (s *Session) RestoreView(expanded []domain.Path, cursor domain.Path) {
	root := s.tree.Root()
	s.exp.CollapseAll()
	for _, p := range expanded {
		if n := domain.Get(root, p); n != nil && n.IsContainer() && len(p) > 0 {
			s.exp.Expand(p.Clone())
		}
	}
	if len(cursor) > 0 && domain.Get(root, cursor) != nil {
		s.cursor = cursor.Clone()
	}
	s.revealCursor()
	if s.CursorLine() < 0 {
		s.MoveFirst()
	}
}
