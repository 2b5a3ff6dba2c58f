// Package service provides the outbox's external collaborators: the keeper sealing
// sensitive payload fields and the topic events are published to.
package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Sealer encrypts payload fields that must not be stored in clear text, such as
// password reset tokens waiting for the mail integration.
type Sealer interface {
	Seal(ctx context.Context, plaintext string) (string, error)
	Open(ctx context.Context, sealed string) (string, error)
	Close() error
}

// keeperSealer implements Sealer using a gocloud.dev/secrets keeper.
type keeperSealer struct {
	keeper *secrets.Keeper
}

// OpenSealer opens a keeper for the configured provider.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenSealer(ctx context.Context, keeperURL string) (Sealer, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open outbox keeper: %w", err)
	}
	return &keeperSealer{keeper: keeper}, nil
}

// Seal encrypts plaintext and returns it base64 encoded.
func (s *keeperSealer) Seal(ctx context.Context, plaintext string) (string, error) {
	ciphertext, err := s.keeper.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("failed to seal value: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open reverses Seal.
func (s *keeperSealer) Open(ctx context.Context, sealed string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed value: %w", err)
	}
	plaintext, err := s.keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to open sealed value: %w", err)
	}
	return string(plaintext), nil
}

// Close releases the keeper.
func (s *keeperSealer) Close() error {
	return s.keeper.Close()
}
