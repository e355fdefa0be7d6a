package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/tui"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

var (
	chatDocID string
	chatMode  string
	chatJSON  bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask a question, or start the interactive chat",
	Long: `Ask a question over the indexed documents.

With a message argument, prints one answer and exits. With no argument
on a terminal, launches the interactive chat; otherwise the message is
read from stdin.

Modes:
  (empty)       - let the model choose a tool, falling back to RAG
  web_search    - always search the web
  ui_generator  - always generate a UI component
  rag, youtube  - answer from retrieved context

Interactive controls:
  Enter   - Send
  Tab     - Cycle mode
  Ctrl+O  - Scope to a doc_id
  Ctrl+X  - Delete the scoped document
  F1      - Toggle help
  Ctrl+C  - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

type chatOutput struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

func init() {
	chatCmd.Flags().StringVar(&chatDocID, "doc", "", "restrict retrieval to this doc_id")
	chatCmd.Flags().StringVar(&chatMode, "mode", "", "routing mode override")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	mode := domain.ParseChatMode(chatMode)
	if !mode.IsKnown() {
		logger.Warn("unknown mode %q, routing automatically", chatMode)
	}

	if len(args) == 0 && stdinIsTerminal(cmd) {
		return runChatTUI(cmd, mode)
	}

	message := ""
	if len(args) == 1 {
		message = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		return errors.New("message is required")
	}

	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()

	result, err := chatService.Chat(cmd.Context(), domain.ChatRequest{
		Message: message,
		DocID:   chatDocID,
		Mode:    mode,
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if chatJSON {
		return printJSON(cmd, chatOutput{Response: result.Response, Source: result.Source.String()})
	}
	cmd.Println(result.Response)
	logger.Debug("answered via %s", result.Source)
	return nil
}

func runChatTUI(cmd *cobra.Command, mode domain.ChatMode) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()

	app, err := tui.NewApp(tui.NewPorts(chatService, documentService), tui.Options{
		DocID: chatDocID,
		Mode:  mode,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	// Log lines would corrupt the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
