package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocx struct {
	got model.TranscriptDocument
	err error
}

func (f *fakeDocx) Render(doc model.TranscriptDocument) ([]byte, error) {
	f.got = doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte("PK"), nil
}

type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) Convert(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7"), nil
}

func newDocumentService(t *testing.T, docx DocxRenderer, pdf PDFConverter) (*DocumentService, uuid.UUID) {
	t.Helper()

	math := subject("Matemática", 200)
	g := newGraph(enrollment(2024, "9º ano", t0, ptr(200), grade(math, t0, ptr(8.5))))
	g.Student.Name = "João da Silva"
	store := &fakeTranscriptStore{graphs: map[uuid.UUID]*model.StudentGraph{g.Student.ID: g}}

	verification := NewVerificationService(&config.Config{PublicBaseURL: "https://escola.example"}, nil, zerolog.Nop())
	verification.encode = func(string) ([]byte, error) { return []byte{0x89, 'P', 'N', 'G'}, nil }

	svc := NewDocumentService(
		NewTranscriptService(store, zerolog.Nop()),
		verification,
		model.Institution{City: "Recife", DirectorName: "Carla Lima"},
		render.NewHTMLRenderer(),
		docx,
		pdf,
		zerolog.Nop(),
	)
	svc.now = func() time.Time { return time.Date(2025, time.December, 12, 10, 0, 0, 0, time.UTC) }
	return svc, g.Student.ID
}

func TestDocumentService_Prepare(t *testing.T) {
	svc, id := newDocumentService(t, &fakeDocx{}, &fakePDF{})

	doc, err := svc.Prepare(context.Background(), id)
	require.NoError(t, err)

	require.NotNil(t, doc.Transcript)
	assert.Len(t, doc.Transcript.Blocks, 1)
	assert.Equal(t, "Recife", doc.Institution.City)
	assert.Equal(t, 2025, doc.Institution.IssuedAt.Year())
	assert.Equal(t, "https://escola.example/verify/historico?student="+id.String(), doc.Verification.URL)
	assert.True(t, doc.Verification.HasCode())
	assert.Len(t, doc.Digest, 32)
	assert.Equal(t, "https://escola.example", doc.BaseURL)

	again, err := svc.Prepare(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, doc.Digest, again.Digest)
}

func TestDocumentService_PrepareNotFound(t *testing.T) {
	svc, _ := newDocumentService(t, &fakeDocx{}, &fakePDF{})

	_, err := svc.Prepare(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_Render(t *testing.T) {
	docx := &fakeDocx{}
	pdf := &fakePDF{}
	svc, id := newDocumentService(t, docx, pdf)
	ctx := context.Background()

	doc, err := svc.Prepare(ctx, id)
	require.NoError(t, err)

	tests := []struct {
		kind        string
		contentType string
		filename    string
	}{
		{"html", "text/html; charset=utf-8", "historico-joao-da-silva.html"},
		{"pdf", render.PDFContentType, "historico-joao-da-silva.pdf"},
		{"docx", render.DocxContentType, "historico-joao-da-silva.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out, err := svc.Render(ctx, doc, tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, out.ContentType)
			assert.Equal(t, tt.filename, out.Filename)
			assert.NotEmpty(t, out.Content)
		})
	}

	assert.Contains(t, pdf.html, "João da Silva")
	assert.Equal(t, doc.Digest, docx.got.Digest)

	_, err = svc.Render(ctx, doc, "odt")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocumentService_RenderFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("pdf engine error", func(t *testing.T) {
		svc, id := newDocumentService(t, &fakeDocx{}, &fakePDF{err: errors.New("chrome crashed")})
		doc, err := svc.Prepare(ctx, id)
		require.NoError(t, err)

		out, err := svc.RenderPDF(ctx, doc)
		assert.ErrorIs(t, err, ErrRenderFailure)
		assert.Nil(t, out)
	})

	t.Run("no pdf engine", func(t *testing.T) {
		svc, id := newDocumentService(t, &fakeDocx{}, nil)
		doc, err := svc.Prepare(ctx, id)
		require.NoError(t, err)

		_, err = svc.RenderPDF(ctx, doc)
		assert.ErrorIs(t, err, ErrRenderFailure)
	})

	t.Run("docx error passes through", func(t *testing.T) {
		svc, id := newDocumentService(t, &fakeDocx{err: render.ErrRenderFailure}, &fakePDF{})
		doc, err := svc.Prepare(ctx, id)
		require.NoError(t, err)

		_, err = svc.RenderDocx(doc)
		assert.ErrorIs(t, err, ErrRenderFailure)
	})
}
