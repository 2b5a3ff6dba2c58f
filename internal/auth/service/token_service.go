package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// TokenPrefix marks opaque desk tokens so leaked values are easy to spot in logs and
// secret scanners.
const TokenPrefix = "cdk_"

const tokenEntropyBytes = 32

type tokenService struct{}

// GenerateToken returns a prefixed token carrying 256 random bits and its SHA-256 hash.
func (t *tokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	buf := make([]byte, tokenEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken = TokenPrefix + base64.RawURLEncoding.EncodeToString(buf)
	return plainToken, t.HashToken(plainToken), nil
}

// HashToken returns the hex SHA-256 of the token. Surrounding whitespace, which
// clients copying a token by hand tend to add, is ignored.
func (t *tokenService) HashToken(plainToken string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(plainToken)))
	return hex.EncodeToString(sum[:])
}

// NewTokenService creates the SHA-256 backed TokenService.
func NewTokenService() TokenService {
	return &tokenService{}
}
