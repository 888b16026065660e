package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maldamingle/config"
)

func jwtConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "maldamingle-test"}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	cfg := jwtConfig()
	token, err := GenerateSessionToken(cfg, "sess-1")
	require.NoError(t, err)

	claims, err := ParseSessionToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "sess-1", claims.Subject)
	assert.Equal(t, "maldamingle-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(jwtConfig(), "sess-1")
	require.NoError(t, err)

	other := &config.JWTConfig{Secret: "different", Expiry: time.Hour}
	_, err = ParseSessionToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := jwtConfig()
	cfg.Expiry = -time.Minute
	token, err := GenerateSessionToken(cfg, "sess-1")
	require.NoError(t, err)

	_, err = ParseSessionToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken(jwtConfig(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
