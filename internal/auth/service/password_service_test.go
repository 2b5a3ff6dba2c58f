package service

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_HashAndCompare(t *testing.T) {
	svc := NewPasswordService()

	hash, err := svc.Hash("Correct-Horse-7")
	require.NoError(t, err)
	assert.NotEqual(t, "Correct-Horse-7", hash)

	assert.True(t, svc.Compare("Correct-Horse-7", hash))
	assert.False(t, svc.Compare("correct-horse-7", hash))
	assert.False(t, svc.Compare("Correct-Horse-7", "not-a-hash"))
}

func TestPasswordService_HashIsSalted(t *testing.T) {
	svc := NewPasswordService()

	h1, err := svc.Hash("same-password")
	require.NoError(t, err)
	h2, err := svc.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestPasswordService_GenerateTemporary(t *testing.T) {
	svc := NewPasswordService()

	plain, hash, err := svc.GenerateTemporary()
	require.NoError(t, err)

	assert.Len(t, plain, temporaryPasswordLength)
	assert.True(t, strings.IndexFunc(plain, unicode.IsUpper) >= 0)
	assert.True(t, strings.IndexFunc(plain, unicode.IsLower) >= 0)
	assert.True(t, strings.IndexFunc(plain, unicode.IsDigit) >= 0)
	assert.True(t, svc.Compare(plain, hash))

	other, _, err := svc.GenerateTemporary()
	require.NoError(t, err)
	assert.NotEqual(t, plain, other)
}
