package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateToken(t *testing.T) {
	service := NewTokenService()

	t.Run("Success_PrefixedToken", func(t *testing.T) {
		plainToken, tokenHash, err := service.GenerateToken()
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(plainToken, TokenPrefix))
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(plainToken, TokenPrefix))
		require.NoError(t, err)
		assert.Len(t, decoded, 32)

		sum := sha256.Sum256([]byte(plainToken))
		assert.Equal(t, hex.EncodeToString(sum[:]), tokenHash)
	})

	t.Run("Success_TokensAreUnique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 50 {
			plainToken, _, err := service.GenerateToken()
			require.NoError(t, err)
			_, dup := seen[plainToken]
			require.False(t, dup, "duplicate token generated")
			seen[plainToken] = struct{}{}
		}
	})

	t.Run("Success_URLSafe", func(t *testing.T) {
		plainToken, _, err := service.GenerateToken()
		require.NoError(t, err)
		assert.NotContains(t, plainToken, "=")
		assert.NotContains(t, plainToken, "+")
		assert.NotContains(t, plainToken, "/")
	})
}

func TestTokenService_HashToken(t *testing.T) {
	service := NewTokenService()

	tests := []struct {
		name  string
		left  string
		right string
		same  bool
	}{
		{name: "identical tokens", left: "cdk_abc", right: "cdk_abc", same: true},
		{name: "surrounding whitespace ignored", left: "cdk_abc", right: "  cdk_abc\n", same: true},
		{name: "case sensitive", left: "cdk_abc", right: "cdk_ABC", same: false},
		{name: "different tokens", left: "cdk_abc", right: "cdk_abd", same: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := service.HashToken(tt.left)
			right := service.HashToken(tt.right)
			assert.Len(t, left, 64)
			if tt.same {
				assert.Equal(t, left, right)
			} else {
				assert.NotEqual(t, left, right)
			}
		})
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	service := NewTokenService()

	plainToken, tokenHash, err := service.GenerateToken()
	require.NoError(t, err)
	assert.Equal(t, tokenHash, service.HashToken(plainToken))
}
