// Package httpapi exposes the RAG services over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// DefaultMaxUploadBytes caps the size of a /upload request body.
const DefaultMaxUploadBytes = 64 << 20

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Services are the core services the API drives.
type Services struct {
	Chat      driving.ChatService
	Ingest    driving.IngestService
	Documents driving.DocumentService
	YouTube   driving.YouTubeService
}

// Config configures the server.
type Config struct {
	// MaxUploadBytes caps upload size (default: 64 MiB).
	MaxUploadBytes int64

	// AllowOrigins lists CORS origins. Empty allows any origin.
	AllowOrigins []string
}

// Server is the HTTP API.
type Server struct {
	services Services
	cfg      Config
	metrics  *Metrics
	router   *gin.Engine
}

// New creates the server and registers its routes.
func New(services Services, cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if logger.IsVerbose() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		services: services,
		cfg:      cfg,
		metrics:  NewMetrics("sercha_rag"),
		router:   gin.New(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(
		requestIDMiddleware(),
		recoveryMiddleware(),
		loggingMiddleware(),
		corsMiddleware(s.cfg.AllowOrigins),
		s.metrics.Middleware(),
	)
	s.router.MaxMultipartMemory = s.cfg.MaxUploadBytes
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/youtube_ingest", s.handleYouTubeIngest)
	s.router.POST("/delete_document", s.handleDeleteDocument)
	s.router.POST("/chat", s.handleChat)
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
