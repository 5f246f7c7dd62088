package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/database"
	"github.com/stemsi/historico-backend/internal/handler"
	"github.com/stemsi/historico-backend/internal/logger"
	"github.com/stemsi/historico-backend/internal/middleware"
	"github.com/stemsi/historico-backend/internal/render"
	"github.com/stemsi/historico-backend/internal/repository"
	"github.com/stemsi/historico-backend/internal/router"
	"github.com/stemsi/historico-backend/internal/service"
	"github.com/stemsi/historico-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Histórico Escolar backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
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

	// ─── Connect to Redis (optional QR cache) ──────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, QR codes will not be cached")
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	transcriptRepo := repository.NewTranscriptRepository(pool)
	gradeRepo := repository.NewGradeRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	transcriptService := service.NewTranscriptService(transcriptRepo, log)
	verificationService := service.NewVerificationService(cfg, rdb, log)
	documentService := service.NewDocumentService(
		transcriptService,
		verificationService,
		institution,
		render.NewHTMLRenderer(),
		render.NewDocxRenderer(cfg.DocxTemplatePath),
		render.NewChromePDFConverter(cfg.ChromiumPath, cfg.PDFTimeout),
		log,
	)
	gradeSyncService := service.NewGradeSyncService(gradeRepo, log)
	studentService := service.NewStudentService(studentRepo)
	subjectService := service.NewSubjectService(subjectRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Transcript: handler.NewTranscriptHandler(transcriptService, documentService, cfg.PublicBaseURL, log),
		Grade:      handler.NewGradeHandler(gradeSyncService, log),
		Subject:    handler.NewSubjectHandler(subjectService, log),
		Verify:     handler.NewVerifyHandler(studentService, documentService, log),
		System:     handler.NewSystemHandler(pool, rdb, log),
	}

	// ─── Rate Limiting ─────────────────────────────────────────────────
	pdfLimiter := middleware.NewRateLimiter(cfg.PDFRatePerMinute, time.Minute)
	pdfLimiter.StartCleanup(ctx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, pdfLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// PDF renders may take a while; give in-flight requests the PDF timeout.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.PDFTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
