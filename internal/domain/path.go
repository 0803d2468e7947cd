package domain

import (
	"strconv"
	"strings"
)

// Path addresses a node by successive child indexes from the root.
// A path is only meaningful against the tree state it was computed from.
type Path []int

// Root is the empty path
var Root = Path{}

// ParsePath parses the dotted form produced by Path.String ("0.2.1", "." for the root)
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." || s == "/" {
		return Path{}, nil
	}
	parts := strings.Split(strings.Trim(s, "./"), ".")
	p := make(Path, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, &EditError{Op: "parse", Err: ErrInvalidPath, Detail: s}
		}
		p = append(p, i)
	}
	return p, nil
}

func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Clone returns a copy that does not share the backing array
func (p Path) Clone() Path {
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Child returns a new path addressing the i-th child of p
func (p Path) Child(i int) Path {
	c := make(Path, len(p), len(p)+1)
	copy(c, p)
	return append(c, i)
}

// Parent splits p into its container path and its index within the container.
// ok is false for the root.
func (p Path) Parent() (parent Path, index int, ok bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	return p[:len(p)-1].Clone(), p[len(p)-1], true
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses p itself or one of its ancestors
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document (pre-order) order
func (p Path) Compare(o Path) int {
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] != o[i] {
			if p[i] < o[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// Get resolves p against root. It returns nil when an index is out of range
// or a scalar is met before the path is exhausted.
func Get(root *Node, p Path) *Node {
	n, _ := resolve(root, p)
	return n
}

// Validate returns the error Get would have failed with, or nil
func Validate(root *Node, p Path) error {
	_, err := resolve(root, p)
	return err
}

// resolve walks p iteratively and stops at the first invalid component.
// The returned node is the live node, so the editor mutates through it.
func resolve(root *Node, p Path) (*Node, error) {
	if root == nil {
		return nil, editError("get", p, ErrPathNotFound, "empty document")
	}
	n := root
	for depth, idx := range p {
		if !n.IsContainer() {
			return nil, editError("get", p, ErrPathNotFound,
				"component "+strconv.Itoa(depth)+" indexes a "+n.Kind.String())
		}
		child := n.Child(idx)
		if child == nil {
			return nil, editError("get", p, ErrPathNotFound,
				"index "+strconv.Itoa(idx)+" out of range at component "+strconv.Itoa(depth))
		}
		n = child
	}
	return n, nil
}

// Walk visits every node in pre-order with its path. Returning false from fn
// skips the node's descendants.
func Walk(root *Node, fn func(p Path, n *Node) bool) {
	if root == nil {
		return
	}
	walk(root, Path{}, fn)
}

func walk(n *Node, p Path, fn func(Path, *Node) bool) {
	if !fn(p, n) {
		return
	}
	for i := 0; i < n.Len(); i++ {
		walk(n.Child(i), p.Child(i), fn)
	}
}
