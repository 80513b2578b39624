package services

import (
	"testing"
	"time"

	"petshop/config"
	"petshop/internal/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(now time.Time) *TokenService {
	service := NewTokenService(config.Config{AuthTokenSecret: "test-secret", AuthTokenTTLHours: 1})
	service.now = func() time.Time { return now }
	return service
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	now := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	service := newTestTokenService(now)

	token, err := service.Issue(42)
	require.NoError(t, err)

	info, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 42, info.UserID)
	assert.True(t, now.Equal(info.IssuedAt))
	assert.True(t, now.Add(time.Hour).Equal(info.ExpiresAt))
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	now := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	service := newTestTokenService(now)

	valid, err := service.Issue(7)
	require.NoError(t, err)

	expired := newTestTokenService(now.Add(-2 * time.Hour))
	expiredToken, err := expired.Issue(7)
	require.NoError(t, err)

	otherSecret := NewTokenService(config.Config{AuthTokenSecret: "other", AuthTokenTTLHours: 1})
	otherSecret.now = service.now
	forged, err := otherSecret.Issue(7)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expiredToken,
		"wrong secret": forged,
		"none alg":     noneAlg,
		"bad subject":  badSubject,
		"garbage":      "not-a-token",
		"tampered":     valid + "x",
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := service.Verify(token)
			assert.ErrorIs(t, err, types.ErrUnauthorized)
		})
	}
}
