package domain

import "strconv"

// DefaultPreviewWidth is the preview budget in characters when none is configured
const DefaultPreviewWidth = 60

// ViewLine is one displayable row of the projected tree
type ViewLine struct {
	Path       Path
	Depth      int
	Label      string // object key or "[i]" counting values only; empty for comments
	HasLabel   bool
	Kind       Kind
	Preview    string
	Expandable bool
	Expanded   bool
}

// ProjectOptions tunes the projection
type ProjectOptions struct {
	PreviewWidth int
}

// Project flattens root into the lines currently visible under exp.
// The root itself is not shown; its children are the depth-0 lines.
// It never mutates its inputs and is safe to call after every change.
func Project(root *Node, exp *ExpansionState, opts ProjectOptions) []ViewLine {
	if root == nil || !root.IsContainer() {
		return nil
	}
	if exp == nil {
		exp = NewExpansionState()
	}
	width := opts.PreviewWidth
	if width <= 0 {
		width = DefaultPreviewWidth
	}

	lines := make([]ViewLine, 0, root.Len())
	var visit func(parent *Node, p Path, depth int)
	visit = func(parent *Node, p Path, depth int) {
		index := 0
		for i := 0; i < parent.Len(); i++ {
			child := parent.Child(i)
			cp := p.Child(i)
			line := ViewLine{
				Path:       cp,
				Depth:      depth,
				Kind:       child.Kind,
				Preview:    Preview(child, width),
				Expandable: child.IsContainer(),
			}
			switch {
			case child.Kind == KindComment:
			case parent.Kind == KindObject:
				line.Label, line.HasLabel = parent.Entries[i].Key, true
			default:
				line.Label, line.HasLabel = "["+strconv.Itoa(index)+"]", true
			}
			if child.Kind != KindComment {
				index++
			}
			line.Expanded = line.Expandable && exp.IsExpanded(cp)
			lines = append(lines, line)
			if line.Expanded {
				visit(child, cp, depth+1)
			}
		}
	}
	visit(root, Path{}, 0)
	return lines
}

// LineIndex returns the index of the line showing p, or -1 if it is hidden
func LineIndex(lines []ViewLine, p Path) int {
	for i, l := range lines {
		if l.Path.Equal(p) {
			return i
		}
	}
	return -1
}
