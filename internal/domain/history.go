package domain

// DefaultHistoryLimit is the number of undo steps kept when none is configured
const DefaultHistoryLimit = 100

// Snapshot is an owned copy of a document plus the cursor and expanded
// paths at checkpoint time. Expanded paths are only meaningful against Root.
type Snapshot struct {
	Root     *Node
	Cursor   Path
	Expanded []Path
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Root: s.Root.Clone(), Cursor: s.Cursor.Clone(), Expanded: clonePaths(s.Expanded)}
}

func clonePaths(paths []Path) []Path {
	if paths == nil {
		return nil
	}
	out := make([]Path, len(paths))
	for i, p := range paths {
		out[i] = p.Clone()
	}
	return out
}

type historyEntry struct {
	snap     Snapshot
	parent   int // -1 for the retained root
	children []int
}

// History is a branching undo tree stored as an arena of entries linked by
// index. Checkpointing after an undo starts a new branch; the abandoned future
// stays in the tree and is reachable through RedoBranch.
type History struct {
	entries []historyEntry
	root    int
	current int
	limit   int
}

// NewHistory creates an empty history that keeps at most limit undo steps
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{root: -1, current: -1, limit: limit}
}

// Checkpoint appends s as the newest child of the current entry and makes it
// current. The snapshot must not be shared with the live tree.
func (h *History) Checkpoint(s Snapshot) {
	idx := len(h.entries)
	h.entries = append(h.entries, historyEntry{snap: s, parent: h.current})
	if h.current >= 0 {
		h.entries[h.current].children = append(h.entries[h.current].children, idx)
	} else {
		h.root = idx
	}
	h.current = idx
	h.evict()
}

// Undo moves to the parent entry and returns a copy of its snapshot.
// ok is false when the oldest retained state is already current.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.current = h.entries[h.current].parent
	return h.entries[h.current].snap.clone(), true
}

// Redo moves to the most recently created child and returns a copy of its snapshot
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	children := h.entries[h.current].children
	h.current = children[len(children)-1]
	return h.entries[h.current].snap.clone(), true
}

// RedoBranch moves to the i-th child of the current entry, oldest branch first
func (h *History) RedoBranch(i int) (Snapshot, bool) {
	if h.current < 0 {
		return Snapshot{}, false
	}
	children := h.entries[h.current].children
	if i < 0 || i >= len(children) {
		return Snapshot{}, false
	}
	h.current = children[i]
	return h.entries[h.current].snap.clone(), true
}

// SetExpanded replaces the expanded paths stored with the current snapshot.
// Callers record the live view before leaving a state so undo and redo
// come back to it as it was last shown.
func (h *History) SetExpanded(paths []Path) {
	if h.current < 0 {
		return
	}
	h.entries[h.current].snap.Expanded = clonePaths(paths)
}

// Current returns a copy of the current snapshot
func (h *History) Current() (Snapshot, bool) {
	if h.current < 0 {
		return Snapshot{}, false
	}
	return h.entries[h.current].snap.clone(), true
}

func (h *History) CanUndo() bool {
	return h.current >= 0 && h.entries[h.current].parent >= 0
}

func (h *History) CanRedo() bool {
	return h.current >= 0 && len(h.entries[h.current].children) > 0
}

// Branches returns how many futures can be redone from the current entry
func (h *History) Branches() int {
	if h.current < 0 {
		return 0
	}
	return len(h.entries[h.current].children)
}

// Len returns the number of retained snapshots
func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Limit() int {
	return h.limit
}

// Clear drops every snapshot
func (h *History) Clear() {
	h.entries = nil
	h.root = -1
	h.current = -1
}

// evict advances the retained root along the current entry's ancestry until
// at most limit+1 snapshots remain. Branches hanging off a dropped root go
// with it; the current entry and its ancestors below the new root are kept.
func (h *History) evict() {
	if len(h.entries) <= h.limit+1 {
		return
	}
	var chain []int
	for i := h.current; i >= 0; i = h.entries[i].parent {
		chain = append(chain, i)
	}
	// chain runs current -> root; try the oldest candidates first
	newRoot := h.current
	for k := len(chain) - 1; k >= 0; k-- {
		if h.subtreeSize(chain[k]) <= h.limit+1 {
			newRoot = chain[k]
			break
		}
	}
	if newRoot != h.root {
		h.compact(newRoot)
	}
}

func (h *History) subtreeSize(i int) int {
	size := 1
	for _, c := range h.entries[i].children {
		size += h.subtreeSize(c)
	}
	return size
}

// compact rebuilds the arena with only the subtree under newRoot, renumbering
// entries in breadth-first order
func (h *History) compact(newRoot int) {
	remap := map[int]int{newRoot: 0}
	order := []int{newRoot}
	for q := 0; q < len(order); q++ {
		for _, c := range h.entries[order[q]].children {
			remap[c] = len(order)
			order = append(order, c)
		}
	}

	entries := make([]historyEntry, len(order))
	for newIdx, oldIdx := range order {
		old := h.entries[oldIdx]
		e := historyEntry{snap: old.snap, parent: -1}
		if oldIdx != newRoot {
			e.parent = remap[old.parent]
		}
		for _, c := range old.children {
			e.children = append(e.children, remap[c])
		}
		entries[newIdx] = e
	}
	h.entries = entries
	h.root = 0
	h.current = remap[h.current]
}
