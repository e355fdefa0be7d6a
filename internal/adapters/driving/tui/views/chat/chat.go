// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// modeCycle is the order tab steps through.
var modeCycle = []domain.ChatMode{
	domain.ChatModeAuto,
	domain.ChatModeWebSearch,
	domain.ChatModeUIGenerator,
}

// View is the chat view with a transcript, message input and status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.MessageInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService     driving.ChatService
	documentService driving.DocumentService
	ctx             context.Context

	mode         domain.ChatMode
	docID        string
	editingScope bool
	busy         bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	documentService driving.DocumentService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:          s,
		keymap:          km,
		input:           input.NewMessageInput(s),
		transcript:      transcript.New(s),
		statusbar:       status.NewBar(s, km),
		chatService:     chatService,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatCompleted:
		v.handleChatCompleted(msg)
		return v, nil

	case messages.DocumentDeleted:
		v.handleDocumentDeleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Up):
		v.transcript.ScrollUp()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Down):
		v.transcript.ScrollDown()
		return v, nil
	}

	if v.editingScope {
		return v.handleScopeKey(msg)
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Send):
		return v, v.send()
	case keymap.Matches(keyStr, v.keymap.Mode):
		v.cycleMode()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Scope):
		v.editingScope = true
		v.input.SetPrompt("Doc ID: ", "paste a doc_id, or leave empty for all documents")
		v.input.SetValue(v.docID)
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Delete):
		return v, v.deleteScoped()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleScopeKey processes keys while the doc_id prompt is open.
func (v *View) handleScopeKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		v.editingScope = false
		v.input.ResetPrompt()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.Send):
		v.SetDocID(strings.TrimSpace(v.input.Value()))
		v.editingScope = false
		v.input.ResetPrompt()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send submits the typed message.
func (v *View) send() tea.Cmd {
	text := strings.TrimSpace(v.input.Value())
	if text == "" || v.busy {
		return nil
	}

	req := domain.ChatRequest{Message: text, DocID: v.docID, Mode: v.mode}
	v.transcript.Append(transcript.Entry{Role: transcript.RoleUser, Text: text})
	v.input.Reset()
	v.busy = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")

	return v.performChat(req)
}

// performChat calls the chat service off the update loop.
func (v *View) performChat(req domain.ChatRequest) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ChatCompleted{Request: req, Err: ErrNoChatService}
		}
		result, err := v.chatService.Chat(v.ctx, req)
		return messages.ChatCompleted{Request: req, Result: result, Err: err}
	}
}

// deleteScoped deletes the document in scope.
func (v *View) deleteScoped() tea.Cmd {
	if v.documentService == nil {
		v.setError(ErrNoDocumentService)
		return nil
	}
	if v.docID == "" {
		v.setError(ErrNoScope)
		return nil
	}

	docID := v.docID
	return func() tea.Msg {
		result, err := v.documentService.Delete(v.ctx, docID)
		return messages.DocumentDeleted{Result: result, Err: err}
	}
}

// handleChatCompleted records the answer.
func (v *View) handleChatCompleted(msg messages.ChatCompleted) {
	v.busy = false
	if msg.Err != nil {
		v.transcript.Append(transcript.Entry{Role: transcript.RoleNotice, Text: "Error: " + msg.Err.Error()})
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.transcript.Append(transcript.Entry{
		Role:   transcript.RoleAssistant,
		Text:   msg.Result.Response,
		Source: msg.Result.Source,
	})
	v.statusbar.SetState(status.StateReady)
}

// handleDocumentDeleted reports the deletion and clears the scope.
func (v *View) handleDocumentDeleted(msg messages.DocumentDeleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	text := fmt.Sprintf("Deleted document %s.", msg.Result.DocID)
	if !msg.Result.Complete() {
		text = fmt.Sprintf("Deleted document %s with errors: text=%v image=%v",
			msg.Result.DocID, msg.Result.Text.Err, msg.Result.Image.Err)
	}
	v.transcript.Append(transcript.Entry{Role: transcript.RoleNotice, Text: text})
	v.SetDocID("")
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(text)
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) cycleMode() {
	next := 0
	for i, m := range modeCycle {
		if m == v.mode {
			next = (i + 1) % len(modeCycle)
			break
		}
	}
	v.SetMode(modeCycle[next])
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.styles.Title.Render("Sercha RAG"),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Reserve space for header, input box and status bar
	v.transcript.SetDimensions(width, height-8)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// SetMode sets the routing mode sent with each message.
func (v *View) SetMode(mode domain.ChatMode) {
	v.mode = mode
	v.statusbar.SetMode(mode)
}

// Mode returns the routing mode.
func (v *View) Mode() domain.ChatMode {
	return v.mode
}

// SetDocID scopes retrieval to one document. Empty means all documents.
func (v *View) SetDocID(docID string) {
	v.docID = docID
	v.statusbar.SetDocID(docID)
}

// DocID returns the document scope.
func (v *View) DocID() string {
	return v.docID
}

// Entries returns the conversation so far.
func (v *View) Entries() []transcript.Entry {
	return v.transcript.Entries()
}

// Busy reports whether a chat request is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// EditingScope reports whether the doc_id prompt is open.
func (v *View) EditingScope() bool {
	return v.editingScope
}

// Input returns the current input value.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput sets the input value.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
