// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
	StateHelp     State = "help"
)

// Bar displays the routing mode, document scope and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	mode    domain.ChatMode
	docID   string
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders state, mode and scope.
func (s *Bar) renderLeft() string {
	var state string
	switch s.state {
	case StateThinking:
		state = s.styles.Muted.Render("Thinking...")
	case StateError:
		if s.message != "" {
			state = s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		} else {
			state = s.styles.Error.Render("Error")
		}
	case StateHelp:
		state = s.styles.Normal.Render("Help")
	default:
		if s.message != "" {
			state = s.styles.Normal.Render(s.message)
		} else {
			state = s.styles.Muted.Render("Ready")
		}
	}

	mode := "auto"
	if s.mode != domain.ChatModeAuto {
		mode = s.mode.String()
	}
	scope := "all documents"
	if s.docID != "" {
		scope = "doc " + s.docID
	}
	return state + s.styles.Muted.Render(fmt.Sprintf(" | mode: %s | %s", mode, scope))
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if h := hint(b); h != "" {
			hints = append(hints, h)
		}
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// hint formats a binding as "key: desc". Disabled bindings render nothing.
func hint(b key.Binding) string {
	if !b.Enabled() {
		return ""
	}
	h := b.Help()
	return fmt.Sprintf("%s: %s", h.Key, h.Desc)
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetMode sets the displayed routing mode.
func (s *Bar) SetMode(mode domain.ChatMode) {
	s.mode = mode
}

// SetDocID sets the displayed document scope.
func (s *Bar) SetDocID(docID string) {
	s.docID = docID
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
