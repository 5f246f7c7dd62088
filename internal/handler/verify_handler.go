package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/format"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/service"
)

//go:embed templates/verify.html.tmpl
var verifyFS embed.FS

var verifyTmpl = template.Must(template.ParseFS(verifyFS, "templates/verify.html.tmpl"))

type verifyPage struct {
	Action    string
	Query     string
	Malformed bool
	NotFound  bool
	Student   *model.Student
	Document  string
	// Digest is the current records' fingerprint, empty when unavailable.
	Digest string
}

// VerifyHandler serves the public page a transcript's QR code points to.
type VerifyHandler struct {
	students  *service.StudentService
	documents *service.DocumentService
	log       zerolog.Logger
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(students *service.StudentService, documents *service.DocumentService, log zerolog.Logger) *VerifyHandler {
	return &VerifyHandler{
		students:  students,
		documents: documents,
		log:       log.With().Str("component", "verify_handler").Logger(),
	}
}

// currentDigest fingerprints the student's records as a transcript issued
// now would. Failures only cost the comparison, so they are logged.
func (h *VerifyHandler) currentDigest(c *gin.Context, id uuid.UUID) string {
	digest, err := h.documents.CurrentDigest(c.Request.Context(), id)
	if err != nil {
		h.log.Warn().Err(err).Str("student_id", id.String()).Msg("Current digest unavailable")
		return ""
	}
	return digest
}

// Verify godoc
// GET /verify/historico?student=<id>
// Without a valid id the lookup form is shown.
func (h *VerifyHandler) Verify(c *gin.Context) {
	query := strings.TrimSpace(c.Query("student"))
	page := verifyPage{Action: service.VerificationPath, Query: query}
	status := http.StatusOK

	if query != "" {
		if id, err := uuid.Parse(query); err != nil {
			page.Malformed = true
		} else {
			st, err := h.students.GetByID(c.Request.Context(), id)
			switch {
			case errors.Is(err, service.ErrNotFound):
				page.NotFound = true
				status = http.StatusNotFound
			case err != nil:
				h.log.Error().Err(err).Str("student_id", id.String()).Msg("Verification lookup failed")
				c.String(http.StatusInternalServerError, "Erro interno do servidor.")
				return
			default:
				page.Student = st
				page.Document = format.StringOrPlaceholder(st.Document)
				page.Digest = h.currentDigest(c, id)
			}
		}
	}

	var buf bytes.Buffer
	if err := verifyTmpl.Execute(&buf, page); err != nil {
		h.log.Error().Err(err).Msg("Render verification page")
		c.String(http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
