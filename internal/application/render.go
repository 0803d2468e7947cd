package application

import (
	"fmt"
	"io"
	"strings"

	"treedit/internal/domain"
)

// Markers drawn in front of container lines
const (
	MarkerCollapsed = "▸"
	MarkerExpanded  = "▾"
)

// FormatLine renders one view line as plain text without indentation
func FormatLine(l domain.ViewLine) string {
	var sb strings.Builder
	switch {
	case l.Expanded:
		sb.WriteString(MarkerExpanded + " ")
	case l.Expandable:
		sb.WriteString(MarkerCollapsed + " ")
	default:
		sb.WriteString("  ")
	}
	if l.HasLabel {
		sb.WriteString(l.Label)
		sb.WriteString(": ")
	}
	sb.WriteString(l.Preview)
	return sb.String()
}

// WriteLines renders the projected lines as an indented outline with a
// path column. The line under cursor is prefixed with ">".
func WriteLines(w io.Writer, lines []domain.ViewLine, cursor domain.Path) error {
	for _, l := range lines {
		mark := " "
		if cursor != nil && l.Path.Equal(cursor) {
			mark = ">"
		}
		if _, err := fmt.Fprintf(w, "%s %-10s %s%s\n", mark, l.Path, strings.Repeat("  ", l.Depth), FormatLine(l)); err != nil {
			return err
		}
	}
	return nil
}
