// Package styles provides the colour palette and lipgloss styles for the chat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Theme is the colour palette. Each answer source has its own badge colour.
type Theme struct {
	Accent     lipgloss.Color
	Highlight  lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Dim        lipgloss.Color
	Error      lipgloss.Color
	Frame      lipgloss.Color

	// Badge colours, keyed by the branch that answered.
	RAG      lipgloss.Color
	Web      lipgloss.Color
	Generate lipgloss.Color
}

// DefaultTheme returns the dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#7C3AED"),
		Highlight:  lipgloss.Color("#06B6D4"),
		Background: lipgloss.Color("#1E1E2E"),
		Text:       lipgloss.Color("#CDD6F4"),
		Dim:        lipgloss.Color("#6C7086"),
		Error:      lipgloss.Color("#F38BA8"),
		Frame:      lipgloss.Color("#45475A"),
		RAG:        lipgloss.Color("#A6E3A1"),
		Web:        lipgloss.Color("#89B4FA"),
		Generate:   lipgloss.Color("#F9E2AF"),
	}
}

// Styles holds the styles the chat view renders with.
type Styles struct {
	theme *Theme

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style

	// SourceTag is the fallback badge for sources without a colour of their own.
	SourceTag lipgloss.Style

	Error      lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style

	badges map[domain.Source]lipgloss.Style
}

// NewStyles builds styles from theme; nil selects DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	badge := func(bg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(bg).
			Padding(0, 1)
	}

	return &Styles{
		theme: theme,

		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Dim),
		User:     lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight),

		Assistant: lipgloss.NewStyle().
			Foreground(theme.Text).
			PaddingLeft(2),

		SourceTag: badge(theme.Accent),
		Error:     lipgloss.NewStyle().Foreground(theme.Error),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Dim).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),

		Help: lipgloss.NewStyle().Foreground(theme.Dim),

		badges: map[domain.Source]lipgloss.Style{
			domain.SourceRAG:         badge(theme.RAG),
			domain.SourceWebSearch:   badge(theme.Web),
			domain.SourceUIGenerator: badge(theme.Generate),
		},
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette these styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Badge returns the tag style for an answer source.
func (s *Styles) Badge(src domain.Source) lipgloss.Style {
	if b, ok := s.badges[src]; ok {
		return b
	}
	return s.SourceTag
}
