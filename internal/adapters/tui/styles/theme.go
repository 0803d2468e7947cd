package styles

import (
	"github.com/charmbracelet/lipgloss"

	"treedit/internal/domain"
)

// Palette
var (
	Accent  = lipgloss.Color("#0EA5E9") // Sky
	Focus   = lipgloss.Color("#14B8A6") // Teal
	Dim     = lipgloss.Color("#64748B") // Slate
	Caution = lipgloss.Color("#EAB308") // Yellow
	Danger  = lipgloss.Color("#F43F5E") // Rose
	Light   = lipgloss.Color("#F8FAFC")
	Dark    = lipgloss.Color("#0F172A")

	StringColor = lipgloss.Color("#86EFAC")
	NumberColor = lipgloss.Color("#93C5FD")
	BoolColor   = lipgloss.Color("#FDBA74")
	NullColor   = lipgloss.Color("#F0ABFC")
	AliasColor  = Caution
)

var (
	App      = lipgloss.NewStyle().Padding(0, 1)
	Title    = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	Subtitle = lipgloss.NewStyle().Foreground(Dim).Italic(true)

	// Tree rows
	Key          = lipgloss.NewStyle().Bold(true)
	Index        = lipgloss.NewStyle().Foreground(Dim)
	Comment      = lipgloss.NewStyle().Foreground(Dim).Italic(true)
	Container    = lipgloss.NewStyle().Foreground(Dim)
	LineSelected = lipgloss.NewStyle().Background(Accent).Foreground(Dark).Bold(true)
	TreeBranch   = lipgloss.NewStyle().Foreground(Dim)

	TreeExpanded  = "▾ "
	TreeCollapsed = "▸ "
	TreeLeaf      = "  "

	// Header badges
	StatusKey   = lipgloss.NewStyle().Background(Accent).Foreground(Dark).Padding(0, 1).MarginRight(1)
	StatusDirty = lipgloss.NewStyle().Background(Caution).Foreground(Dark).Padding(0, 1)
	StatusText  = lipgloss.NewStyle().Foreground(Dim)

	// Prompts
	InputLabel = lipgloss.NewStyle().Foreground(Focus).Bold(true)

	HelpKey       = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	HelpDesc      = lipgloss.NewStyle().Foreground(Dim)
	HelpSeparator = lipgloss.NewStyle().Foreground(Dim).SetString(" · ")

	Success   = lipgloss.NewStyle().Foreground(Focus).Bold(true)
	ErrorMsg  = lipgloss.NewStyle().Foreground(Danger).Bold(true)
	MutedText = lipgloss.NewStyle().Foreground(Dim)
)

// ValueStyle returns the style for a value preview of the given kind
func ValueStyle(k domain.Kind) lipgloss.Style {
	switch k {
	case domain.KindString:
		return lipgloss.NewStyle().Foreground(StringColor)
	case domain.KindNumber:
		return lipgloss.NewStyle().Foreground(NumberColor)
	case domain.KindBool:
		return lipgloss.NewStyle().Foreground(BoolColor)
	case domain.KindNull:
		return lipgloss.NewStyle().Foreground(NullColor)
	case domain.KindAlias:
		return lipgloss.NewStyle().Foreground(AliasColor)
	case domain.KindComment:
		return Comment
	}
	return Container
}
