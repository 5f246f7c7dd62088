package service

import (
	"testing"
	"time"

	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RoundTrip(t *testing.T) {
	svc := NewAuthService(&config.Config{JWTSecret: "secret", JWTExpiry: time.Hour})

	token, err := svc.GenerateAdminToken("staff-7", "Secretaria", []string{"transcripts:read"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
	assert.Equal(t, "staff-7", claims.Subject)
	assert.Equal(t, []string{"transcripts:read"}, claims.Permissions)
}

func TestAuthService_ValidateToken_Rejects(t *testing.T) {
	issuer := NewAuthService(&config.Config{JWTSecret: "secret", JWTExpiry: time.Hour})
	expired := NewAuthService(&config.Config{JWTSecret: "secret", JWTExpiry: -time.Minute})
	other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour})

	good, err := issuer.GenerateAdminToken("1", "", nil)
	require.NoError(t, err)
	old, err := expired.GenerateAdminToken("1", "", nil)
	require.NoError(t, err)

	_, err = other.ValidateToken(good)
	assert.Error(t, err, "wrong secret")

	_, err = issuer.ValidateToken(old)
	assert.Error(t, err, "expired")

	_, err = issuer.ValidateToken("not.a.token")
	assert.Error(t, err)
}
