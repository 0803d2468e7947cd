package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/mattn/go-runewidth"

	"treedit/internal/adapters/tui/styles"
	"treedit/internal/domain"
)

// RenderKeyHelp formats a key binding as help text (key + description)
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return fmt.Sprintf("%s %s",
		styles.HelpKey.Render(help.Key),
		styles.HelpDesc.Render(help.Desc),
	)
}

// RenderHelpLine renders multiple key bindings as a help line separated by bullets
func RenderHelpLine(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

// RenderMessage renders a message with appropriate styling based on isError
func RenderMessage(message string, isError bool) string {
	if message == "" {
		return ""
	}
	if isError {
		return styles.ErrorMsg.Render(message)
	}
	return styles.Success.Render(message)
}

// RenderMuted renders muted/secondary text
func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// RenderTreeLine renders one projected line, truncated to width terminal
// cells. Wide characters count double.
func RenderTreeLine(l domain.ViewLine, selected bool, width int) string {
	indent := strings.Repeat("  ", l.Depth)

	prefix := styles.TreeLeaf
	switch {
	case l.Expanded:
		prefix = styles.TreeExpanded
	case l.Expandable:
		prefix = styles.TreeCollapsed
	}

	label := ""
	if l.HasLabel {
		label = l.Label + ": "
	}

	preview := l.Preview
	if width > 0 {
		room := width - runewidth.StringWidth(indent+prefix+label)
		if room < 1 {
			room = 1
		}
		preview = runewidth.Truncate(preview, room, "…")
	}

	if selected {
		return indent + styles.TreeBranch.Render(prefix) + styles.LineSelected.Render(label+preview)
	}

	labelStyle := styles.Key
	if strings.HasPrefix(l.Label, "[") {
		labelStyle = styles.Index
	}
	var text string
	if label != "" {
		text = labelStyle.Render(l.Label) + ": "
	}
	return indent + styles.TreeBranch.Render(prefix) + text + styles.ValueStyle(l.Kind).Render(preview)
}

// ViewBuilder helps construct view output with consistent formatting
type ViewBuilder struct {
	b strings.Builder
}

// NewViewBuilder creates a new view builder
func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

// Title adds a title section
func (v *ViewBuilder) Title(title string) *ViewBuilder {
	v.b.WriteString(styles.Title.Render(title))
	v.b.WriteString("\n\n")
	return v
}

// Line adds a line of text
func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n")
	return v
}

// BlankLine adds a blank line
func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteString("\n")
	return v
}

// Muted adds muted text followed by a newline
func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	v.b.WriteString(RenderMuted(text))
	v.b.WriteString("\n")
	return v
}

// Message adds a message if non-empty, with appropriate error/success styling
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	if message == "" {
		return v
	}
	v.b.WriteString(RenderMessage(message, isError))
	v.b.WriteString("\n")
	return v
}

// Help adds a help line with key bindings
func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// String returns the built view string wrapped in the app style
func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}
