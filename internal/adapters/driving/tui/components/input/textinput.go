// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
)

// Defaults for the message prompt.
const (
	DefaultLabel       = "You: "
	DefaultPlaceholder = "Ask a question..."
)

// MessageInput wraps a bubbles textinput with a labelled prompt.
// The label switches when the view reuses the input for other fields.
type MessageInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewMessageInput creates a new message input component.
func NewMessageInput(s *styles.Styles) *MessageInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = DefaultPlaceholder
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 50

	return &MessageInput{
		textinput: ti,
		styles:    s,
		label:     DefaultLabel,
		width:     50,
	}
}

// Init initialises the input.
func (m *MessageInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (m *MessageInput) Update(msg tea.Msg) (*MessageInput, tea.Cmd) {
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// View renders the input.
func (m *MessageInput) View() string {
	label := m.styles.Title.Render(m.label)
	field := m.styles.InputField.Render(m.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (m *MessageInput) Value() string {
	return m.textinput.Value()
}

// SetValue sets the input value.
func (m *MessageInput) SetValue(value string) {
	m.textinput.SetValue(value)
}

// Label returns the prompt label.
func (m *MessageInput) Label() string {
	return m.label
}

// SetPrompt switches the label and placeholder and clears the value.
func (m *MessageInput) SetPrompt(label, placeholder string) {
	m.label = label
	m.textinput.Placeholder = placeholder
	m.textinput.Reset()
}

// ResetPrompt restores the message prompt.
func (m *MessageInput) ResetPrompt() {
	m.SetPrompt(DefaultLabel, DefaultPlaceholder)
}

// Focus sets focus on the input.
func (m *MessageInput) Focus() tea.Cmd {
	return m.textinput.Focus()
}

// Blur removes focus from the input.
func (m *MessageInput) Blur() {
	m.textinput.Blur()
}

// Focused returns whether the input is focused.
func (m *MessageInput) Focused() bool {
	return m.textinput.Focused()
}

// SetWidth sets the width of the input.
func (m *MessageInput) SetWidth(width int) {
	m.width = width
	// Account for label and padding
	inputWidth := width - lipgloss.Width(m.label) - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.textinput.Width = inputWidth
}

// Width returns the current width.
func (m *MessageInput) Width() int {
	return m.width
}

// Reset clears the input.
func (m *MessageInput) Reset() {
	m.textinput.Reset()
}
