package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/database"
	"github.com/stemsi/historico-backend/internal/logger"
	"github.com/stemsi/historico-backend/internal/render"
	"github.com/stemsi/historico-backend/internal/repository"
	"github.com/stemsi/historico-backend/internal/service"
	"golang.org/x/term"
)

const defaultBaseURL = "http://localhost:8080"

// render-transcript writes one student's transcript without going through
// the HTTP server.
func main() {
	var (
		studentFlag = flag.String("student", "", "student ID (UUID)")
		formatFlag  = flag.String("format", "html", "output format: json, html, pdf or docx")
		outFlag     = flag.String("out", "", "output file (default: stdout)")
		baseURLFlag = flag.String("base-url", "", "public base URL for the verification link (default: PUBLIC_BASE_URL)")
	)
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// Documents go to stdout, so logs go to stderr.
	log := logger.SetupWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	studentID, err := uuid.Parse(*studentFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: -student must be a valid UUID")
		flag.Usage()
		os.Exit(2)
	}

	binary := *formatFlag == "pdf" || *formatFlag == "docx"
	if binary && *outFlag == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintf(os.Stderr, "Error: refusing to write %s to a terminal; use -out or redirect stdout\n", *formatFlag)
		os.Exit(2)
	}

	baseURL := *baseURLFlag
	if baseURL == "" {
		baseURL = cfg.PublicBaseURL
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PDFTimeout+30*time.Second)
	defer cancel()

	// ─── Institution Metadata ──────────────────────────────────────────
	institution, err := config.LoadInstitution(cfg.InstitutionFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.InstitutionFile).Msg("Failed to load institution metadata")
	}
	if institution.LetterheadPath != "" {
		dataURL, err := render.LoadLetterhead(institution.LetterheadPath)
		if err != nil {
			log.Warn().Err(err).Str("path", institution.LetterheadPath).Msg("Letterhead unavailable, printing without it")
		}
		institution.LetterheadDataURL = dataURL
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	transcripts := service.NewTranscriptService(repository.NewTranscriptRepository(pool), log)
	documents := service.NewDocumentService(
		transcripts,
		service.NewVerificationService(cfg, nil, log),
		institution,
		render.NewHTMLRenderer(),
		render.NewDocxRenderer(cfg.DocxTemplatePath),
		render.NewChromePDFConverter(cfg.ChromiumPath, cfg.PDFTimeout),
		log,
	)

	// ─── Render ────────────────────────────────────────────────────────
	var content []byte
	if *formatFlag == "json" {
		t, err := transcripts.BuildTranscript(ctx, studentID)
		if err != nil {
			log.Fatal().Err(err).Str("student_id", studentID.String()).Msg("Failed to build transcript")
		}
		content, err = json.MarshalIndent(t, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode transcript")
		}
		content = append(content, '\n')
	} else {
		doc, err := documents.PrepareFor(ctx, studentID, baseURL)
		if err != nil {
			log.Fatal().Err(err).Str("student_id", studentID.String()).Msg("Failed to build transcript")
		}
		out, err := documents.Render(ctx, doc, *formatFlag)
		if err != nil {
			log.Fatal().Err(err).Str("student_id", studentID.String()).Msg("Failed to render transcript")
		}
		content = out.Content
	}

	if *outFlag == "" {
		if _, err := os.Stdout.Write(content); err != nil {
			log.Fatal().Err(err).Msg("Failed to write output")
		}
		return
	}
	if err := os.WriteFile(*outFlag, content, 0o644); err != nil {
		log.Fatal().Err(err).Str("file", *outFlag).Msg("Failed to write output")
	}
	log.Info().Str("file", *outFlag).Int("bytes", len(content)).Msg("Transcript written")
}
