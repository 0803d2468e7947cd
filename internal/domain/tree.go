package domain

import (
	"fmt"
	"slices"
)

// ShiftOp tells which way sibling indexes moved after an edit
type ShiftOp int

const (
	ShiftInsert ShiftOp = iota
	ShiftDelete
)

// Shift describes how an insert or delete renumbered existing paths: every path
// below Container whose next component is at or after Index moved by one.
type Shift struct {
	Op        ShiftOp
	Container Path
	Index     int
}

// Path returns the path of the inserted or deleted node
func (s Shift) Path() Path {
	return s.Container.Child(s.Index)
}

// Translate maps a path computed before the edit onto the tree after it.
// ok is false when the path addressed the deleted node or one of its descendants.
func (s Shift) Translate(p Path) (Path, bool) {
	n := len(s.Container)
	if len(p) <= n || !p.HasPrefix(s.Container) {
		return p, true
	}
	switch s.Op {
	case ShiftInsert:
		if p[n] >= s.Index {
			out := p.Clone()
			out[n]++
			return out, true
		}
	case ShiftDelete:
		if p[n] == s.Index {
			return nil, false
		}
		if p[n] > s.Index {
			out := p.Clone()
			out[n]--
			return out, true
		}
	}
	return p, true
}

// Tree owns the root of one document. It is the only mutator of its nodes;
// every operation checks all preconditions before touching anything.
type Tree struct {
	root *Node
}

// NewTree wraps a parsed document. A nil root becomes null.
func NewTree(root *Node) *Tree {
	if root == nil {
		root = Null()
	}
	return &Tree{root: root}
}

func (t *Tree) Root() *Node {
	return t.root
}

// Get resolves a path against the current tree
func (t *Tree) Get(p Path) *Node {
	return Get(t.root, p)
}

// Snapshot takes an owned deep copy of the tree together with the cursor
func (t *Tree) Snapshot(cursor Path) Snapshot {
	return Snapshot{Root: t.root.Clone(), Cursor: cursor.Clone()}
}

// Restore replaces the whole tree with a snapshot's copy
func (t *Tree) Restore(s Snapshot) {
	t.root = s.Root.Clone()
}

// InsertIntoObject inserts key: value at position index of the object at container.
// Entries at or after index move one position later.
func (t *Tree) InsertIntoObject(container Path, index int, key string, value *Node) (Shift, error) {
	const op = "insert"
	c, err := resolve(t.root, container)
	if err != nil {
		return Shift{}, editError(op, container, ErrPathNotFound, "")
	}
	if c.Kind != KindObject {
		return Shift{}, editError(op, container, ErrNotAContainer, "expected object, found "+c.Kind.String())
	}
	if index < 0 || index > len(c.Entries) {
		return Shift{}, editError(op, container.Child(index), ErrPathNotFound,
			fmt.Sprintf("index %d outside 0..%d", index, len(c.Entries)))
	}
	value, err = checkInsertable(op, container, value)
	if err != nil {
		return Shift{}, err
	}
	if value.Kind == KindComment {
		key = ""
	} else {
		if key == "" {
			return Shift{}, editError(op, container, ErrEmptyKey, "")
		}
		if c.IndexOfKey(key) >= 0 {
			return Shift{}, editError(op, container, ErrDuplicateKey, fmt.Sprintf("%q", key))
		}
	}

	value.Meta.Modified = true
	c.Entries = slices.Insert(c.Entries, index, Entry{Key: key, Value: value})
	c.Meta.Modified = true
	return Shift{Op: ShiftInsert, Container: container.Clone(), Index: index}, nil
}

// InsertIntoArray inserts value at position index of the array or document
// stream at container. Elements at or after index move one position later.
func (t *Tree) InsertIntoArray(container Path, index int, value *Node) (Shift, error) {
	const op = "insert"
	c, err := resolve(t.root, container)
	if err != nil {
		return Shift{}, editError(op, container, ErrPathNotFound, "")
	}
	if c.Kind != KindArray && c.Kind != KindMultiDoc {
		return Shift{}, editError(op, container, ErrNotAContainer, "expected array, found "+c.Kind.String())
	}
	if index < 0 || index > len(c.Items) {
		return Shift{}, editError(op, container.Child(index), ErrPathNotFound,
			fmt.Sprintf("index %d outside 0..%d", index, len(c.Items)))
	}
	value, err = checkInsertable(op, container, value)
	if err != nil {
		return Shift{}, err
	}

	value.Meta.Modified = true
	c.Items = slices.Insert(c.Items, index, value)
	c.Meta.Modified = true
	return Shift{Op: ShiftInsert, Container: container.Clone(), Index: index}, nil
}

func checkInsertable(op string, at Path, value *Node) (*Node, error) {
	if value == nil {
		return Null(), nil
	}
	if value.Kind == KindMultiDoc {
		return nil, editError(op, at, ErrNestedMultiDoc, "")
	}
	return value, nil
}

// Delete removes the node at p and returns it with the key it had, if any.
// Later siblings move one position earlier.
func (t *Tree) Delete(p Path) (Entry, Shift, error) {
	const op = "delete"
	if len(p) == 0 {
		return Entry{}, Shift{}, editError(op, p, ErrCannotDeleteRoot, "")
	}
	if err := Validate(t.root, p); err != nil {
		return Entry{}, Shift{}, editError(op, p, ErrPathNotFound, "")
	}
	parentPath, index, _ := p.Parent()
	parent, _ := resolve(t.root, parentPath)

	var removed Entry
	if parent.Kind == KindObject {
		removed = parent.Entries[index]
		parent.Entries = slices.Delete(parent.Entries, index, index+1)
	} else {
		removed = Entry{Value: parent.Items[index]}
		parent.Items = slices.Delete(parent.Items, index, index+1)
	}
	parent.Meta.Modified = true
	return removed, Shift{Op: ShiftDelete, Container: parentPath, Index: index}, nil
}

// ReplaceValue swaps the node at p for value, keeping its key and position.
// The empty path replaces the root.
func (t *Tree) ReplaceValue(p Path, value *Node) (*Node, error) {
	const op = "replace"
	old, err := resolve(t.root, p)
	if err != nil {
		return nil, editError(op, p, ErrPathNotFound, "")
	}
	if value == nil {
		value = Null()
	}
	if len(p) > 0 && value.Kind == KindMultiDoc {
		return nil, editError(op, p, ErrNestedMultiDoc, "")
	}

	value.Meta.Modified = true
	if len(p) == 0 {
		t.root = value
		return old, nil
	}
	parentPath, index, _ := p.Parent()
	parent, _ := resolve(t.root, parentPath)
	if parent.Kind == KindObject {
		parent.Entries[index].Value = value
	} else {
		parent.Items[index] = value
	}
	parent.Meta.Modified = true
	return old, nil
}

// RenameKey changes the key of the object entry at p without moving it
func (t *Tree) RenameKey(p Path, newKey string) error {
	const op = "rename"
	if len(p) == 0 {
		return editError(op, p, ErrNotAContainer, "the root has no key")
	}
	if err := Validate(t.root, p); err != nil {
		return editError(op, p, ErrPathNotFound, "")
	}
	parentPath, index, _ := p.Parent()
	parent, _ := resolve(t.root, parentPath)
	if parent.Kind != KindObject {
		return editError(op, p, ErrNotAContainer, "parent is "+parent.Kind.String()+", not object")
	}
	entry := parent.Entries[index]
	if entry.Value.Kind == KindComment {
		return editError(op, p, ErrNotAContainer, "comments have no key")
	}
	if newKey == "" {
		return editError(op, p, ErrEmptyKey, "")
	}
	if entry.Key == newKey {
		return nil
	}
	if parent.IndexOfKey(newKey) >= 0 {
		return editError(op, p, ErrDuplicateKey, fmt.Sprintf("%q", newKey))
	}

	parent.Entries[index].Key = newKey
	entry.Value.Meta.Modified = true
	parent.Meta.Modified = true
	return nil
}
