// Package transcript provides the scrollable conversation component for the TUI.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Role identifies who wrote an entry.
type Role int

const (
	// RoleUser is a message typed by the user.
	RoleUser Role = iota
	// RoleAssistant is an answer from the chat service.
	RoleAssistant
	// RoleNotice is a local status line such as an error.
	RoleNotice
)

// Entry is one line of the conversation.
type Entry struct {
	Role   Role
	Text   string
	Source domain.Source
}

// Transcript renders the conversation in a viewport that follows new entries.
type Transcript struct {
	entries  []Entry
	viewport viewport.Model
	styles   *styles.Styles
	width    int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		viewport: viewport.New(80, 10),
		styles:   s,
		width:    80,
	}
}

// Update forwards scroll messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the conversation.
func (t *Transcript) View() string {
	if len(t.entries) == 0 {
		return t.styles.Muted.Render("Ask about your uploaded documents, or press tab to force a tool.")
	}
	return t.viewport.View()
}

// Append adds an entry and scrolls to the bottom.
func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
	t.viewport.GotoBottom()
}

// Entries returns the conversation so far.
func (t *Transcript) Entries() []Entry {
	return t.entries
}

// Clear removes every entry.
func (t *Transcript) Clear() {
	t.entries = nil
	t.refresh()
}

// ScrollUp scrolls up by half a page.
func (t *Transcript) ScrollUp() {
	t.viewport.HalfViewUp()
}

// ScrollDown scrolls down by half a page.
func (t *Transcript) ScrollDown() {
	t.viewport.HalfViewDown()
}

// AtBottom reports whether the newest entry is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	if height < 1 {
		height = 1
	}
	t.width = width
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Transcript) refresh() {
	blocks := make([]string, 0, len(t.entries))
	wrap := lipgloss.NewStyle().Width(max(t.width-4, 10))
	for _, e := range t.entries {
		blocks = append(blocks, t.render(e, wrap))
	}
	t.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

func (t *Transcript) render(e Entry, wrap lipgloss.Style) string {
	switch e.Role {
	case RoleUser:
		return t.styles.User.Render("You: ") + wrap.Render(e.Text)
	case RoleAssistant:
		header := t.styles.Subtitle.Render("Assistant")
		if e.Source != "" {
			header += " " + t.styles.Badge(e.Source).Render(e.Source.String())
		}
		return header + "\n" + t.styles.Assistant.Render(wrap.Render(e.Text))
	default:
		return t.styles.Muted.Render(wrap.Render(e.Text))
	}
}
