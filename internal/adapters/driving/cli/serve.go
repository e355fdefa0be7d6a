package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

var (
	serveAddr           string
	serveMaxUploadBytes int64
	serveAllowOrigins   []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Endpoints:
  POST /upload            multipart file upload (text, image or PDF)
  POST /youtube_ingest    {"url": "..."}
  POST /delete_document   {"doc_id": "..."}
  POST /chat              {"message": "...", "doc_id": "...", "mode": "..."}
  GET  /healthz
  GET  /metrics

Send SIGHUP to reload prompt templates from disk.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from settings, :8000)")
	serveCmd.Flags().Int64Var(&serveMaxUploadBytes, "max-upload-bytes", httpapi.DefaultMaxUploadBytes, "maximum upload size")
	serveCmd.Flags().StringSliceVar(&serveAllowOrigins, "allow-origin", nil, "allowed CORS origins (default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	closeRuntime, err := ensureRuntime(cmd)
	if err != nil {
		return err
	}
	defer closeRuntime()

	go reloadPromptsOnHangup(ctx)

	server := httpapi.New(httpapi.Services{
		Chat:      chatService,
		Ingest:    ingestService,
		Documents: documentService,
		YouTube:   youtubeService,
	}, httpapi.Config{
		MaxUploadBytes: serveMaxUploadBytes,
		AllowOrigins:   serveAllowOrigins,
	})

	addr := listenAddr()
	fmt.Fprintf(cmd.OutOrStdout(), "sercha-rag listening on %s\n", addr)
	return server.Run(ctx, addr)
}

// listenAddr picks the --addr flag, then the configured address, then the default.
func listenAddr() string {
	if serveAddr != "" {
		return serveAddr
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Server.Addr != "" {
			return settings.Server.Addr
		}
	}
	return domain.DefaultServerAddr
}

func reloadPromptsOnHangup(ctx context.Context) {
	if application == nil || application.Prompts == nil {
		return
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			application.Prompts.Reload()
			logger.Info("Reloaded prompts from %s", application.Prompts.Dir())
		}
	}
}
