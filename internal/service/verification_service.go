package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/model"
)

const (
	// VerificationPath is the public route printed on every transcript.
	VerificationPath = "/verify/historico"

	qrSize     = 256
	qrCacheTTL = 24 * time.Hour
)

// VerificationService builds verification links and their QR codes.
type VerificationService struct {
	baseURL string
	rdb     *redis.Client
	log     zerolog.Logger
	encode  func(content string) ([]byte, error)
}

// NewVerificationService creates a new VerificationService. rdb may be nil,
// in which case codes are encoded on every call.
func NewVerificationService(cfg *config.Config, rdb *redis.Client, log zerolog.Logger) *VerificationService {
	return &VerificationService{
		baseURL: cfg.PublicBaseURL,
		rdb:     rdb,
		log:     log.With().Str("component", "verification_service").Logger(),
		encode:  encodeQR,
	}
}

// BaseURL returns the configured public base URL.
func (s *VerificationService) BaseURL() string {
	return s.baseURL
}

// Build returns the verification artifact for a student using the configured base URL.
func (s *VerificationService) Build(ctx context.Context, studentID uuid.UUID) model.VerificationArtifact {
	return s.BuildFor(ctx, studentID, s.baseURL)
}

// BuildFor returns the verification URL and QR code for a student. A code
// that cannot be produced is logged and left empty; the URL is always set.
func (s *VerificationService) BuildFor(ctx context.Context, studentID uuid.UUID, baseURL string) model.VerificationArtifact {
	link := VerificationURL(baseURL, studentID.String())
	artifact := model.VerificationArtifact{URL: link}

	png, err := s.qrPNG(ctx, link)
	if err != nil {
		s.log.Warn().Err(err).
			Str("student_id", studentID.String()).
			Msg("QR code unavailable, rendering placeholder")
		return artifact
	}

	artifact.CodeDataURL = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return artifact
}

// VerificationURL builds <base>/verify/historico?student=<id>.
func VerificationURL(baseURL, studentID string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + VerificationPath + "?student=" + url.QueryEscape(studentID)
}

func (s *VerificationService) qrPNG(ctx context.Context, link string) ([]byte, error) {
	key := config.CacheKey.VerificationQRKey(link)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			s.log.Debug().Err(err).Msg("QR cache read failed")
		}
	}

	png, err := s.encode(link)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, key, png, qrCacheTTL).Err(); err != nil {
			s.log.Debug().Err(err).Msg("QR cache write failed")
		}
	}
	return png, nil
}

func encodeQR(content string) (png []byte, err error) {
	// The encoder panics on some inputs; treat that as an ordinary failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode qr: %v", r)
		}
	}()
	png, err = qrcode.Encode(content, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
