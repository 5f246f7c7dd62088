package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/handler"
	"github.com/stemsi/historico-backend/internal/middleware"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/response"
	"github.com/stemsi/historico-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Transcript *handler.TranscriptHandler
	Grade      *handler.GradeHandler
	Subject    *handler.SubjectHandler
	Verify     *handler.VerifyHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// pdfLimiter throttles PDF rendering, the only route that starts a browser.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	pdfLimiter *middleware.RateLimiter,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// PDF and DOCX downloads are skipped by the default skipper.
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	// ─── 0. Public verification page (QR target) ───────────────────────
	router.GET(service.VerificationPath, middleware.NoStore(), handlers.Verify.Verify)

	// ─── 1. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Transcripts
		transcripts := adminAPI.Group("/transcripts/:student_id")
		transcripts.Use(
			middleware.NoStore(),
			middleware.RequirePermission(model.PermissionTranscriptsRead),
		)
		{
			transcripts.GET("", handlers.Transcript.Get)
			transcripts.GET("/html", handlers.Transcript.HTML)
			transcripts.GET("/pdf", pdfLimiter.Middleware(), handlers.Transcript.PDF)
			transcripts.GET("/docx", handlers.Transcript.Docx)
		}

		// Grade sets
		adminAPI.GET("/enrollments/:id/grades",
			middleware.RequirePermission(model.PermissionGradesRead),
			handlers.Grade.List,
		)
		adminAPI.PUT("/enrollments/:id/grades",
			middleware.RequirePermission(model.PermissionGradesWrite),
			handlers.Grade.Sync,
		)

		// Subject catalog
		adminAPI.GET("/subjects",
			middleware.RequirePermission(model.PermissionSubjectsRead),
			handlers.Subject.List,
		)
	}

	return router
}
