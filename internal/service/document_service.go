package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/format"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/render"
)

// Renderers and the PDF engine the document pipeline feeds.
type (
	HTMLRenderer interface {
		Render(doc model.TranscriptDocument) (string, error)
	}
	DocxRenderer interface {
		Render(doc model.TranscriptDocument) ([]byte, error)
	}
	PDFConverter interface {
		Convert(ctx context.Context, html string) ([]byte, error)
	}
)

// RenderedDocument is a finished file ready to be sent or written.
type RenderedDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// DocumentService assembles transcripts and feeds them to the renderers.
type DocumentService struct {
	transcripts  *TranscriptService
	verification *VerificationService
	institution  model.Institution
	html         HTMLRenderer
	docx         DocxRenderer
	pdf          PDFConverter
	now          func() time.Time
	log          zerolog.Logger
}

// NewDocumentService creates a new DocumentService. pdf may be nil when no
// browser is available; PDF requests then fail with ErrRenderFailure.
func NewDocumentService(
	transcripts *TranscriptService,
	verification *VerificationService,
	institution model.Institution,
	html HTMLRenderer,
	docx DocxRenderer,
	pdf PDFConverter,
	log zerolog.Logger,
) *DocumentService {
	return &DocumentService{
		transcripts:  transcripts,
		verification: verification,
		institution:  institution,
		html:         html,
		docx:         docx,
		pdf:          pdf,
		now:          time.Now,
		log:          log.With().Str("component", "document_service").Logger(),
	}
}

// Prepare builds the transcript and everything printed around it. The issue
// date is the time of the call.
func (s *DocumentService) Prepare(ctx context.Context, studentID uuid.UUID) (model.TranscriptDocument, error) {
	return s.PrepareFor(ctx, studentID, s.verification.BaseURL())
}

// PrepareFor is Prepare with an explicit public base URL.
func (s *DocumentService) PrepareFor(ctx context.Context, studentID uuid.UUID, baseURL string) (model.TranscriptDocument, error) {
	t, err := s.transcripts.BuildTranscript(ctx, studentID)
	if err != nil {
		return model.TranscriptDocument{}, err
	}

	digest, err := render.Digest(t)
	if err != nil {
		return model.TranscriptDocument{}, err
	}

	inst := s.institution
	inst.IssuedAt = s.now()

	return model.TranscriptDocument{
		Transcript:   t,
		Institution:  inst,
		Verification: s.verification.BuildFor(ctx, studentID, baseURL),
		Digest:       digest,
		BaseURL:      baseURL,
	}, nil
}

// CurrentDigest returns the digest a transcript issued now would carry.
// Comparing it with the Hash printed on a document tells whether the
// records changed since issuance.
func (s *DocumentService) CurrentDigest(ctx context.Context, studentID uuid.UUID) (string, error) {
	t, err := s.transcripts.BuildTranscript(ctx, studentID)
	if err != nil {
		return "", err
	}
	return render.Digest(t)
}

// RenderHTML returns the printable HTML page of a prepared document.
func (s *DocumentService) RenderHTML(doc model.TranscriptDocument) (*RenderedDocument, error) {
	page, err := s.html.Render(doc)
	if err != nil {
		return nil, err
	}
	return &RenderedDocument{
		Content:     []byte(page),
		ContentType: "text/html; charset=utf-8",
		Filename:    filename(doc, "html"),
	}, nil
}

// RenderPDF prints the HTML page through the PDF engine.
func (s *DocumentService) RenderPDF(ctx context.Context, doc model.TranscriptDocument) (*RenderedDocument, error) {
	if s.pdf == nil {
		return nil, fmt.Errorf("%w: no PDF engine configured", ErrRenderFailure)
	}
	page, err := s.html.Render(doc)
	if err != nil {
		return nil, err
	}

	start := s.now()
	pdf, err := s.pdf.Convert(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("%w: convert to pdf: %v", ErrRenderFailure, err)
	}
	s.log.Debug().
		Str("student_id", doc.Transcript.Student.ID.String()).
		Dur("elapsed", s.now().Sub(start)).
		Int("bytes", len(pdf)).
		Msg("PDF rendered")

	return &RenderedDocument{
		Content:     pdf,
		ContentType: render.PDFContentType,
		Filename:    filename(doc, "pdf"),
	}, nil
}

// RenderDocx fills the Word template.
func (s *DocumentService) RenderDocx(doc model.TranscriptDocument) (*RenderedDocument, error) {
	out, err := s.docx.Render(doc)
	if err != nil {
		return nil, err
	}
	return &RenderedDocument{
		Content:     out,
		ContentType: render.DocxContentType,
		Filename:    filename(doc, "docx"),
	}, nil
}

// Render dispatches on a format name: html, pdf or docx.
func (s *DocumentService) Render(ctx context.Context, doc model.TranscriptDocument, kind string) (*RenderedDocument, error) {
	switch kind {
	case "html":
		return s.RenderHTML(doc)
	case "pdf":
		return s.RenderPDF(ctx, doc)
	case "docx":
		return s.RenderDocx(doc)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, kind)
	}
}

func filename(doc model.TranscriptDocument, ext string) string {
	name := ""
	if doc.Transcript != nil {
		name = doc.Transcript.Student.Name
	}
	return "historico-" + format.Slug(name, "aluno") + "." + ext
}
