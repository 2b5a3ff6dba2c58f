package service

import (
	"crypto/rand"
	"math/big"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

const (
	temporaryPasswordLength = 16
	lowerChars              = "abcdefghijkmnopqrstuvwxyz"
	upperChars              = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars              = "23456789"
)

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash hashes a plain text password using Argon2id.
func (s *passwordService) Hash(password string) (string, error) {
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Compare performs a constant-time comparison between a plain password and its hash.
func (s *passwordService) Compare(password, hash string) bool {
	ok, err := s.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}

// GenerateTemporary creates a random password with at least one lowercase letter,
// one uppercase letter and one digit. Ambiguous characters are excluded.
func (s *passwordService) GenerateTemporary() (string, string, error) {
	all := lowerChars + upperChars + digitChars

	buf := make([]byte, temporaryPasswordLength)
	for i, set := range []string{lowerChars, upperChars, digitChars} {
		c, err := randomChar(set)
		if err != nil {
			return "", "", err
		}
		buf[i] = c
	}
	for i := 3; i < len(buf); i++ {
		c, err := randomChar(all)
		if err != nil {
			return "", "", err
		}
		buf[i] = c
	}

	// Shuffle so the guaranteed classes are not always in front.
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", "", apperrors.Wrap(err, "failed to generate temporary password")
		}
		j := int(n.Int64())
		buf[i], buf[j] = buf[j], buf[i]
	}

	plain := string(buf)
	hash, err := s.Hash(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hash, nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to generate temporary password")
	}
	return set[n.Int64()], nil
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() PasswordService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyInteractive),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &passwordService{
		hasher: hasher,
	}
}
