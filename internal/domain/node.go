package domain

import (
	"strconv"
	"strings"
)

// Kind represents the type of value a node holds
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
	KindAlias    // *name, a reference to an anchored node
	KindMultiDoc // top-level stream of independent documents
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindAlias:
		return "alias"
	case KindMultiDoc:
		return "multidoc"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// NumberKind keeps integers and floats apart so they format back the way they were read
type NumberKind int

const (
	NumberInt NumberKind = iota
	NumberFloat
)

// StringStyle is preserved for serialization only
type StringStyle int

const (
	StylePlain StringStyle = iota
	StyleLiteral           // |
	StyleFolded            // >
)

// CommentPosition places a comment relative to the sibling that follows or precedes it
type CommentPosition int

const (
	CommentAbove CommentPosition = iota
	CommentInline
	CommentBelow
)

// Meta carries per-node bookkeeping that is not part of the value
type Meta struct {
	Modified bool
	Anchor   string
}

// Entry is a single key/value pair of an object
type Entry struct {
	Key   string
	Value *Node
}

// Node is one value of a document tree. Containers own their children exclusively.
type Node struct {
	Kind Kind

	Bool       bool
	Int        int64
	Float      float64
	NumberKind NumberKind
	Raw        string // original number text, if the parser kept it

	// Text holds the string value, the alias name or the comment text
	Text     string
	Style    StringStyle
	Position CommentPosition

	Entries []Entry // KindObject
	Items   []*Node // KindArray, KindMultiDoc

	Meta Meta
}

func Null() *Node { return &Node{Kind: KindNull} }

func Bool(b bool) *Node { return &Node{Kind: KindBool, Bool: b} }

func Int(i int64) *Node { return &Node{Kind: KindNumber, NumberKind: NumberInt, Int: i} }

func Float(f float64) *Node { return &Node{Kind: KindNumber, NumberKind: NumberFloat, Float: f} }

func String(s string) *Node { return &Node{Kind: KindString, Text: s} }

// BlockString creates a string with a literal or folded block style
func BlockString(s string, style StringStyle) *Node {
	return &Node{Kind: KindString, Text: s, Style: style}
}

func Alias(name string) *Node { return &Node{Kind: KindAlias, Text: name} }

func Comment(text string, pos CommentPosition) *Node {
	return &Node{Kind: KindComment, Text: text, Position: pos}
}

// Object creates an object from entries, keeping their order
func Object(entries ...Entry) *Node {
	return &Node{Kind: KindObject, Entries: entries}
}

func Array(items ...*Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

func MultiDoc(docs ...*Node) *Node {
	return &Node{Kind: KindMultiDoc, Items: docs}
}

// E is shorthand for building object entries
func E(key string, value *Node) Entry {
	return Entry{Key: key, Value: value}
}

// IsContainer reports whether the node can have children
func (n *Node) IsContainer() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindObject, KindArray, KindMultiDoc:
		return true
	}
	return false
}

// Len returns the number of direct children
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindObject:
		return len(n.Entries)
	case KindArray, KindMultiDoc:
		return len(n.Items)
	}
	return 0
}

// ValueCount returns the number of direct children that are not comments
func (n *Node) ValueCount() int {
	count := 0
	for i := 0; i < n.Len(); i++ {
		if n.Child(i).Kind != KindComment {
			count++
		}
	}
	return count
}

// Child returns the i-th child, or nil if out of range or not a container
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= n.Len() {
		return nil
	}
	if n.Kind == KindObject {
		return n.Entries[i].Value
	}
	return n.Items[i]
}

// Key returns the key of the i-th object entry
func (n *Node) Key(i int) (string, bool) {
	if n == nil || n.Kind != KindObject || i < 0 || i >= len(n.Entries) {
		return "", false
	}
	return n.Entries[i].Key, true
}

// IndexOfKey returns the position of a key among the object's entries, or -1
func (n *Node) IndexOfKey(key string) int {
	if n == nil || n.Kind != KindObject {
		return -1
	}
	for i, e := range n.Entries {
		if e.Value != nil && e.Value.Kind == KindComment {
			continue
		}
		if e.Key == key {
			return i
		}
	}
	return -1
}

// NumberText formats a number node the way it was read
func (n *Node) NumberText() string {
	if n.Raw != "" {
		return n.Raw
	}
	if n.NumberKind == NumberFloat {
		s := strconv.FormatFloat(n.Float, 'g', -1, 64)
		if strings.ContainsAny(s, ".eEIN") {
			return s
		}
		return s + ".0"
	}
	return strconv.FormatInt(n.Int, 10)
}

// Clone returns a deep copy of the node and all its descendants
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Entries != nil {
		c.Entries = make([]Entry, len(n.Entries))
		for i, e := range n.Entries {
			c.Entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = item.Clone()
		}
	}
	return &c
}

// Equal compares two trees by value. Metadata is ignored.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case KindNull:
		return true
	case KindBool:
		return n.Bool == o.Bool
	case KindNumber:
		if n.NumberKind != o.NumberKind {
			return false
		}
		if n.NumberKind == NumberFloat {
			return n.Float == o.Float
		}
		return n.Int == o.Int
	case KindString:
		return n.Text == o.Text && n.Style == o.Style
	case KindAlias:
		return n.Text == o.Text
	case KindComment:
		return n.Text == o.Text && n.Position == o.Position
	case KindObject:
		if len(n.Entries) != len(o.Entries) {
			return false
		}
		for i := range n.Entries {
			if n.Entries[i].Key != o.Entries[i].Key || !n.Entries[i].Value.Equal(o.Entries[i].Value) {
				return false
			}
		}
		return true
	case KindArray, KindMultiDoc:
		if len(n.Items) != len(o.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ResolveAlias finds the first node, in document order, anchored with name
func ResolveAlias(root *Node, name string) *Node {
	var found *Node
	Walk(root, func(_ Path, n *Node) bool {
		if found != nil {
			return false
		}
		if n.Meta.Anchor == name && n.Kind != KindAlias {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountNodes returns the number of nodes in the tree, root included
func CountNodes(root *Node) int {
	count := 0
	Walk(root, func(Path, *Node) bool {
		count++
		return true
	})
	return count
}
