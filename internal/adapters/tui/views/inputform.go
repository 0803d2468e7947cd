package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"treedit/internal/adapters/tui/styles"
)

// PromptKeyMap defines key bindings shared by every prompt
type PromptKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

var PromptKeys = PromptKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// Checker describes what the typed text will become, or why it is rejected
type Checker func(text string) (hint string, ok bool)

// InputField is one labelled line of a prompt
type InputField struct {
	Label string
	Input textinput.Model
	Check Checker
}

// NewInputField creates a field holding value with the cursor at its end
func NewInputField(label, placeholder, value string) InputField {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.SetValue(value)
	input.CursorEnd()
	return InputField{Label: label, Input: input}
}

// WithCheck attaches a live hint to the field
func (f InputField) WithCheck(c Checker) InputField {
	f.Check = c
	return f
}

// InputForm is a prompt of one or more fields drawn in the footer.
// Submit and cancel are left to the owner so it can validate first.
type InputForm struct {
	Title   string
	Fields  []InputField
	Focused int
	Keys    PromptKeyMap
}

// NewInputForm creates a prompt with the first field focused
func NewInputForm(title string, fields ...InputField) *InputForm {
	f := &InputForm{Title: title, Fields: fields, Keys: PromptKeys}
	if len(fields) > 0 {
		f.Fields[0].Input.Focus()
	}
	return f
}

// Update moves focus on tab and shift+tab and feeds other input to the
// focused field
func (f *InputForm) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.Keys.Next):
			f.focus(f.Focused + 1)
			return nil
		case key.Matches(msg, f.Keys.Prev):
			f.focus(f.Focused - 1)
			return nil
		}
	}
	if f.Focused >= len(f.Fields) {
		return nil
	}
	var cmd tea.Cmd
	f.Fields[f.Focused].Input, cmd = f.Fields[f.Focused].Input.Update(msg)
	return cmd
}

func (f *InputForm) focus(i int) {
	n := len(f.Fields)
	if n < 2 {
		return
	}
	f.Fields[f.Focused].Input.Blur()
	f.Focused = (i%n + n) % n
	f.Fields[f.Focused].Input.Focus()
}

// Value returns the text of field i. Values are not trimmed: leading
// spaces can be part of a string.
func (f *InputForm) Value(i int) string {
	if i < 0 || i >= len(f.Fields) {
		return ""
	}
	return f.Fields[i].Input.Value()
}

// View draws the title and one line per field
func (f *InputForm) View(width int) string {
	labelWidth := 0
	for _, field := range f.Fields {
		labelWidth = max(labelWidth, len(field.Label))
	}

	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(f.Title))
	b.WriteString("\n")
	for i, field := range f.Fields {
		label := field.Label + strings.Repeat(" ", labelWidth-len(field.Label)) + " › "
		if i == f.Focused {
			b.WriteString(styles.HelpKey.Render(label))
		} else {
			b.WriteString(RenderMuted(label))
		}
		if width > labelWidth+20 {
			field.Input.Width = width - labelWidth - 20
		}
		b.WriteString(field.Input.View())
		if field.Check != nil {
			hint, ok := field.Check(field.Input.Value())
			b.WriteString("  ")
			b.WriteString(RenderMessage(hint, !ok))
		}
		b.WriteString("\n")
	}

	help := []key.Binding{f.Keys.Submit, f.Keys.Cancel}
	if len(f.Fields) > 1 {
		help = append(help, f.Keys.Next)
	}
	b.WriteString(RenderHelpLine(help...))
	return b.String()
}
