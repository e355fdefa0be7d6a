package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Response statuses.
const (
	statusUploaded = "uploaded"
	statusPartial  = "partial"
	statusIndexed  = "indexed"
	statusDeleted  = "deleted"
)

type chatRequest struct {
	Message string `json:"message"`
	DocID   string `json:"doc_id"`
	Mode    string `json:"mode"`
}

type chatResponse struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

type youtubeRequest struct {
	URL string `json:"url"`
}

type youtubeResponse struct {
	Status  string `json:"status"`
	DocID   string `json:"doc_id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type deleteRequest struct {
	DocID string `json:"doc_id"`
}

type deleteResponse struct {
	Status string `json:"status"`
	DocID  string `json:"doc_id"`
}

type uploadResponse struct {
	Status   string          `json:"status"`
	DocID    string          `json:"doc_id"`
	FileName string          `json:"file_name"`
	Failures []uploadFailure `json:"failures,omitempty"`
}

type uploadFailure struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUpload(c *gin.Context) {
	if c.Request.ContentLength > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large."})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "File too large."})
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Missing file."})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Could not read file."})
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Could not read file."})
		return
	}

	policy := domain.FailurePolicy("")
	if isolate, _ := strconv.ParseBool(c.Query("isolate")); isolate {
		policy = domain.FailurePolicyIsolate
	}

	result, err := s.services.Ingest.IngestUpload(c.Request.Context(), domain.Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, policy)
	s.metrics.observeIngest(result.Report)
	if err != nil {
		s.metrics.observeIngestFailure("upload")
		logger.Error("upload %q: %v", fh.Filename, err)
		c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	resp := uploadResponse{Status: statusUploaded, DocID: result.DocID, FileName: result.FileName}
	if result.Report.Partial() {
		resp.Status = statusPartial
		for _, f := range result.Report.Failures {
			resp.Failures = append(resp.Failures, uploadFailure{Item: f.Item, Error: f.Err.Error()})
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleYouTubeIngest(c *gin.Context) {
	var req youtubeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	result, err := s.services.YouTube.Ingest(c.Request.Context(), req.URL)
	if err != nil {
		msg, client := services.YouTubeErrorMessage(err)
		if client {
			c.JSON(http.StatusOK, errorResponse{Error: msg})
			return
		}
		s.metrics.observeIngestFailure("youtube")
		logger.Error("youtube ingest: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msg})
		return
	}

	c.JSON(http.StatusOK, youtubeResponse{
		Status:  statusIndexed,
		DocID:   result.DocID,
		Title:   result.Title,
		Summary: result.Summary,
	})
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	result, err := s.services.Documents.Delete(c.Request.Context(), req.DocID)
	if err != nil {
		var validation *domain.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusOK, errorResponse{Error: validation.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, deleteResponse{Status: statusDeleted, DocID: result.DocID})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid JSON body."})
		return
	}

	result, err := s.services.Chat.Chat(c.Request.Context(), domain.ChatRequest{
		Message: req.Message,
		DocID:   req.DocID,
		Mode:    domain.ChatMode(req.Mode),
	})
	if err != nil {
		logger.Error("chat: %v", err)
		c.JSON(statusFor(err), errorResponse{Error: err.Error()})
		return
	}

	s.metrics.observeChat(result.Source)
	c.JSON(http.StatusOK, chatResponse{Response: result.Response, Source: result.Source.String()})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
