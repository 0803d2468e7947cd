package domain

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

const (
	ellipsis = "…"

	// maxInlineString bounds strings embedded in a container preview
	maxInlineString = 20
)

// Preview renders a node as a single bounded line. Containers render in their
// collapsed form, e.g. `(3) {a: 1, b: 2, c: 3}`. Width counts user-perceived
// characters (grapheme clusters), never bytes.
func Preview(n *Node, width int) string {
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	w := &previewWriter{budget: width}
	if n.Meta.Anchor != "" {
		w.write("&" + n.Meta.Anchor + " ")
	}
	if n.IsContainer() {
		w.container(n)
	} else {
		w.write(scalarText(n, max(width-w.used, 1)))
	}
	return w.b.String()
}

type previewWriter struct {
	b      strings.Builder
	used   int
	budget int
}

func (w *previewWriter) write(s string) {
	w.b.WriteString(s)
	w.used += charCount(s)
}

// fits reports whether s can be written while leaving room for one closing
// character (the bracket or the ellipsis)
func (w *previewWriter) fits(s string) bool {
	return w.used+charCount(s)+1 <= w.budget
}

func (w *previewWriter) container(n *Node) {
	opening, closing := "[", "]"
	if n.Kind == KindObject {
		opening, closing = "{", "}"
	}
	w.write("(" + strconv.Itoa(n.ValueCount()) + ") " + opening)

	first := true
	for i := 0; i < n.Len(); i++ {
		child := n.Child(i)
		if child.Kind == KindComment {
			continue
		}
		var piece strings.Builder
		if !first {
			piece.WriteString(", ")
		}
		if n.Kind == KindObject {
			piece.WriteString(n.Entries[i].Key)
			piece.WriteString(": ")
		}
		piece.WriteString(inlineText(child))
		if !w.fits(piece.String()) {
			w.write(ellipsis)
			return
		}
		w.write(piece.String())
		first = false
	}
	w.write(closing)
}

// inlineText renders a child inside a parent's preview; nested containers are elided
func inlineText(n *Node) string {
	switch n.Kind {
	case KindObject:
		if n.ValueCount() == 0 {
			return "{}"
		}
		return "{" + ellipsis + "}"
	case KindArray, KindMultiDoc:
		if n.ValueCount() == 0 {
			return "[]"
		}
		return "[" + ellipsis + "]"
	}
	return scalarText(n, maxInlineString)
}

func scalarText(n *Node, limit int) string {
	switch n.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(n.Bool)
	case KindNumber:
		return n.NumberText()
	case KindString:
		switch n.Style {
		case StyleLiteral:
			return "|" + quote(n.Text, limit-3)
		case StyleFolded:
			return ">" + quote(n.Text, limit-3)
		}
		return quote(n.Text, limit-2)
	case KindAlias:
		return "*" + n.Text
	case KindComment:
		text, _ := truncate(n.Text, limit-2)
		return "# " + text
	}
	return ""
}

// quote wraps s in double quotes, escaping control characters, and keeps at
// most limit characters of content including the ellipsis. An escape
// sequence is never split.
func quote(s string, limit int) string {
	if limit < 1 {
		limit = 1
	}
	var pieces []string
	total := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		piece := escapeCluster(g.Str())
		pieces = append(pieces, piece)
		total += charCount(piece)
	}

	var b strings.Builder
	b.WriteByte('"')
	if total <= limit {
		for _, piece := range pieces {
			b.WriteString(piece)
		}
	} else {
		used := 0
		for _, piece := range pieces {
			n := charCount(piece)
			if used+n > limit-1 {
				break
			}
			b.WriteString(piece)
			used += n
		}
		b.WriteString(ellipsis)
	}
	b.WriteByte('"')
	return b.String()
}

func escapeCluster(c string) string {
	switch c {
	case "\n", "\r\n":
		return `\n`
	case "\r":
		return `\r`
	case "\t":
		return `\t`
	case `"`:
		return `\"`
	case `\`:
		return `\\`
	}
	return c
}

// truncate cuts s to at most limit characters, appending an ellipsis when it cut
func truncate(s string, limit int) (string, bool) {
	if limit < 1 {
		limit = 1
	}
	if charCount(s) <= limit {
		return s, false
	}
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() && used < limit-1 {
		b.WriteString(g.Str())
		used++
	}
	b.WriteString(ellipsis)
	return b.String(), true
}

func charCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}
