package domain

import "slices"

// ExpansionState is the set of paths whose subtrees are visible.
// It is only valid against the tree state it was built for, so every insert
// or delete must be followed by Apply with the returned Shift.
type ExpansionState struct {
	paths map[string]Path
}

// NewExpansionState creates an empty state (everything collapsed)
func NewExpansionState() *ExpansionState {
	return &ExpansionState{paths: make(map[string]Path)}
}

// InitialExpansion returns the state used right after loading a document.
// A document stream always starts with every document collapsed.
func InitialExpansion(root *Node, expandAll bool) *ExpansionState {
	s := NewExpansionState()
	if !expandAll || root == nil || root.Kind == KindMultiDoc {
		return s
	}
	s.ExpandAll(root)
	return s
}

func (s *ExpansionState) IsExpanded(p Path) bool {
	_, ok := s.paths[p.String()]
	return ok
}

func (s *ExpansionState) Expand(p Path) {
	s.paths[p.String()] = p.Clone()
}

func (s *ExpansionState) Collapse(p Path) {
	delete(s.paths, p.String())
}

// Toggle flips the expansion of p and reports the new state
func (s *ExpansionState) Toggle(p Path) bool {
	if s.IsExpanded(p) {
		s.Collapse(p)
		return false
	}
	s.Expand(p)
	return true
}

// ExpandSubtree expands the container at p and every container below it
func (s *ExpansionState) ExpandSubtree(root *Node, p Path) {
	start := Get(root, p)
	if start == nil {
		return
	}
	walk(start, p.Clone(), func(sub Path, n *Node) bool {
		if n.IsContainer() {
			s.paths[sub.String()] = sub
		}
		return true
	})
}

// CollapseSubtree collapses p and every tracked path below it
func (s *ExpansionState) CollapseSubtree(p Path) {
	for k, tracked := range s.paths {
		if tracked.HasPrefix(p) {
			delete(s.paths, k)
		}
	}
}

// ExpandAll expands every container below the root
func (s *ExpansionState) ExpandAll(root *Node) {
	s.ExpandSubtree(root, Path{})
}

func (s *ExpansionState) CollapseAll() {
	clear(s.paths)
}

func (s *ExpansionState) Len() int {
	return len(s.paths)
}

// Paths returns the tracked paths in document order
func (s *ExpansionState) Paths() []Path {
	out := make([]Path, 0, len(s.paths))
	for _, p := range s.paths {
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, Path.Compare)
	return out
}

func (s *ExpansionState) Clone() *ExpansionState {
	c := NewExpansionState()
	for k, p := range s.paths {
		c.paths[k] = p.Clone()
	}
	return c
}

// OnInsert renumbers tracked paths after an insert at index of container
func (s *ExpansionState) OnInsert(container Path, index int) {
	s.Apply(Shift{Op: ShiftInsert, Container: container, Index: index})
}

// OnDelete drops tracked paths at or below p and renumbers its later siblings
func (s *ExpansionState) OnDelete(p Path) {
	parent, index, ok := p.Parent()
	if !ok {
		return
	}
	s.Apply(Shift{Op: ShiftDelete, Container: parent, Index: index})
}

// Apply translates the whole set in one batch: affected entries are collected
// and removed before any translated entry is written back, so an old path can
// never collide with an already translated one.
func (s *ExpansionState) Apply(shift Shift) {
	type move struct {
		oldKey string
		to     Path
		keep   bool
	}
	var moves []move
	for k, p := range s.paths {
		to, keep := shift.Translate(p)
		if keep && to.Equal(p) {
			continue
		}
		moves = append(moves, move{oldKey: k, to: to, keep: keep})
	}
	for _, m := range moves {
		delete(s.paths, m.oldKey)
	}
	for _, m := range moves {
		if m.keep {
			s.paths[m.to.String()] = m.to
		}
	}
}

// Prune drops paths that no longer resolve to a container, e.g. after undo
// swapped in a tree of a different shape
func (s *ExpansionState) Prune(root *Node) {
	for k, p := range s.paths {
		if !Get(root, p).IsContainer() {
			delete(s.paths, k)
		}
	}
}
