package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestValidateTokenFailsClosedWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	prev := AppConfig.JWTSecret
	AppConfig.JWTSecret = ""
	t.Cleanup(func() { AppConfig.JWTSecret = prev })

	// A token signed with an empty key must not verify when no secret is
	// configured; validation refuses outright.
	forged := signedToken(t, "", "attacker")
	_, err := ValidateToken(forged)
	assert.ErrorIs(t, err, ErrMissingJWTSecret)

	_, err = ExtractUserIDFromToken(forged)
	assert.Error(t, err)
}

func TestValidateTokenUsesSecretLoadedAfterInit(t *testing.T) {
	// The config-file secret is populated well after package init; resolution
	// has to happen at validation time for it to take effect.
	t.Setenv("JWT_SECRET", "")
	prev := AppConfig.JWTSecret
	AppConfig.JWTSecret = "config-file-secret"
	t.Cleanup(func() { AppConfig.JWTSecret = prev })

	sub, err := ExtractUserIDFromToken(signedToken(t, "config-file-secret", "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	_, err = ExtractUserIDFromToken(signedToken(t, "wrong-secret", "user-1"))
	assert.Error(t, err)
}

func TestValidateTokenPrefersEnvironmentSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	prev := AppConfig.JWTSecret
	AppConfig.JWTSecret = "config-file-secret"
	t.Cleanup(func() { AppConfig.JWTSecret = prev })

	sub, err := ExtractUserIDFromToken(signedToken(t, "env-secret", "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}
