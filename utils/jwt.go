package utils

import (
	"errors"
	"os"

	"github.com/golang-jwt/jwt"
)

// ErrMissingJWTSecret is returned when no signing secret is configured.
// Validation fails closed rather than verifying against an empty key.
var ErrMissingJWTSecret = errors.New("jwt secret is not configured (JWT_SECRET)")

// getSecret resolves the signing secret at call time, after configuration has
// loaded: the environment wins, then the config file.
func getSecret() string {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return secret
	}
	return AppConfig.JWTSecret
}

// ValidateToken parses and validates a token string and returns the token if valid.
// Token issuance lives in the identity provider; this server only verifies.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	secret := getSecret()
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
}

// ExtractUserIDFromToken extracts the subject claim from a valid JWT token string.
func ExtractUserIDFromToken(tokenString string) (string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token missing subject")
	}
	return sub, nil
}
