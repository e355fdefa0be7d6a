// Package cli provides the cobra command tree for sercha-rag.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-rag/internal/app"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services used by the commands. They are populated lazily from the
// runtime, or set directly by tests.
var (
	chatService     driving.ChatService
	ingestService   driving.IngestService
	documentService driving.DocumentService
	youtubeService  driving.YouTubeService
	settingsService driving.SettingsService

	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "sercha-rag",
	Short: "Retrieval-augmented chat over your documents",
	Long: `sercha-rag indexes text, images, PDFs and YouTube transcripts into a
vector store and answers questions over them.

A question is routed to a tool (web search, UI generation) when the model
decides one fits, and otherwise answered from retrieved context.

Start the HTTP API with 'sercha-rag serve', or chat in the terminal with
'sercha-rag chat'.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sercha-rag)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by 'sercha-rag version'.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func persistentPreRun(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	loaded, err := file.LoadDotEnv(dir)
	if err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	for _, path := range loaded {
		logger.Debug("loaded environment from %s", path)
	}
	return nil
}

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return dir, nil
}

// ensureApp opens the configuration layer. It does no network I/O.
func ensureApp() error {
	if settingsService != nil {
		return nil
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	a, err := app.New(dir)
	if err != nil {
		return err
	}
	application = a
	settingsService = a.Settings
	return nil
}

// ensureRuntime builds the providers and services for a command.
// The returned func releases them.
func ensureRuntime(cmd *cobra.Command) (func(), error) {
	if chatService != nil {
		return func() {}, nil
	}
	if err := ensureApp(); err != nil {
		return nil, err
	}
	if application == nil {
		return nil, errors.New("runtime not configured")
	}

	rt, err := application.Start(cmd.Context())
	if err != nil {
		return nil, err
	}
	chatService = rt.Chat
	ingestService = rt.Ingest
	documentService = rt.Documents
	youtubeService = rt.YouTube

	return func() {
		chatService, ingestService, documentService, youtubeService = nil, nil, nil, nil
		if err := rt.Close(); err != nil {
			logger.Warn("%v", err)
		}
	}, nil
}
