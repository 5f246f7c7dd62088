package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/response"
	"github.com/stemsi/historico-backend/internal/service"
)

// TranscriptHandler serves the aggregated transcript and its documents.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
	documents   *service.DocumentService
	baseURL     string
	log         zerolog.Logger
}

// NewTranscriptHandler creates a new TranscriptHandler. With an empty
// baseURL the verification link points at the host the request reached.
func NewTranscriptHandler(
	transcripts *service.TranscriptService,
	documents *service.DocumentService,
	baseURL string,
	log zerolog.Logger,
) *TranscriptHandler {
	return &TranscriptHandler{
		transcripts: transcripts,
		documents:   documents,
		baseURL:     baseURL,
		log:         log.With().Str("component", "transcript_handler").Logger(),
	}
}

// Get godoc
// GET /api/v1/admin/transcripts/:student_id
// Returns the transcript model with its consistency alerts.
func (h *TranscriptHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "student_id")
	if !ok {
		return
	}

	t, err := h.transcripts.BuildTranscript(c.Request.Context(), id)
	if err != nil {
		failWithError(c, h.log.With().Str("student_id", id.String()).Logger(), err)
		return
	}

	response.Success(c, http.StatusOK, t)
}

// HTML godoc
// GET /api/v1/admin/transcripts/:student_id/html
func (h *TranscriptHandler) HTML(c *gin.Context) { h.document(c, "html") }

// PDF godoc
// GET /api/v1/admin/transcripts/:student_id/pdf
func (h *TranscriptHandler) PDF(c *gin.Context) { h.document(c, "pdf") }

// Docx godoc
// GET /api/v1/admin/transcripts/:student_id/docx
func (h *TranscriptHandler) Docx(c *gin.Context) { h.document(c, "docx") }

func (h *TranscriptHandler) document(c *gin.Context, kind string) {
	id, ok := parseUUIDParam(c, "student_id")
	if !ok {
		return
	}
	log := h.log.With().Str("student_id", id.String()).Str("format", kind).Logger()
	ctx := c.Request.Context()

	doc, err := h.documents.PrepareFor(ctx, id, h.publicBaseURL(c))
	if err != nil {
		failWithError(c, log, err)
		return
	}

	out, err := h.documents.Render(ctx, doc, kind)
	if err != nil {
		failWithError(c, log, err)
		return
	}

	if kind != "html" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	}
	c.Data(http.StatusOK, out.ContentType, out.Content)
}

func (h *TranscriptHandler) publicBaseURL(c *gin.Context) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.SplitN(proto, ",", 2)[0])
	}
	return scheme + "://" + c.Request.Host
}
