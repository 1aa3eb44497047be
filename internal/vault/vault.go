package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/postforge/postforge/internal/crypto"
	"github.com/postforge/postforge/internal/domain"
	"github.com/postforge/postforge/internal/metrics"
)

var (
	// ErrNotConnected means the user never connected this platform (or
	// disconnected it). The publishing pipeline should prompt a (re)connect,
	// not alert.
	ErrNotConnected = errors.New("platform not connected")

	// ErrDecryptFailed means a credential exists but cannot be decrypted
	// under the current key. Distinct from ErrNotConnected so operators can
	// spot key-rotation breakage.
	ErrDecryptFailed = errors.New("failed to decrypt credential")
)

// Vault couples the credential repository with the cipher. Tokens cross
// this boundary in plaintext exactly twice: on the way in from a successful
// exchange and on the way out to the in-process publishing pipeline.
type Vault struct {
	creds  domain.CredentialRepository
	crypto crypto.Service
}

func New(creds domain.CredentialRepository, cryptoSvc crypto.Service) *Vault {
	return &Vault{creds: creds, crypto: cryptoSvc}
}

// StoreToken encrypts the access token and upserts it for (userID, platform).
// Nothing is written when encryption fails.
func (v *Vault) StoreToken(ctx context.Context, userID uuid.UUID, platform domain.Platform, accessToken string) error {
	ciphertext, err := v.crypto.Encrypt(accessToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt access token: %w", err)
	}

	if _, err := v.creds.Upsert(ctx, userID, platform, ciphertext); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	metrics.CredentialWritesTotal.WithLabelValues(platform.String()).Inc()
	return nil
}

// ReadToken fetches and decrypts the credential for (userID, platform).
// The returned token must never appear in a response body or a log line.
func (v *Vault) ReadToken(ctx context.Context, userID uuid.UUID, platform domain.Platform) (string, error) {
	cred, err := v.creds.Get(ctx, userID, platform)
	if errors.Is(err, domain.ErrCredentialNotFound) {
		metrics.CredentialReadsTotal.WithLabelValues(platform.String(), "not_connected").Inc()
		return "", ErrNotConnected
	}
	if err != nil {
		metrics.CredentialReadsTotal.WithLabelValues(platform.String(), "error").Inc()
		return "", fmt.Errorf("failed to load credential: %w", err)
	}

	token, err := v.crypto.Decrypt(cred.AccessToken)
	if err != nil {
		metrics.CredentialReadsTotal.WithLabelValues(platform.String(), "decrypt_failed").Inc()
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}

	metrics.CredentialReadsTotal.WithLabelValues(platform.String(), "ok").Inc()
	return token, nil
}

// ConnectionStatus is the dashboard-facing view of one stored credential.
type ConnectionStatus string

const (
	StatusConnected      ConnectionStatus = "connected"
	StatusNotConnected   ConnectionStatus = "not_connected"
	StatusNeedsReconnect ConnectionStatus = "needs_reconnect"
)

// Status reports whether a usable credential exists for (userID, platform)
// without handing the token to the caller. An undecryptable credential
// reports as needs_reconnect so the user can be prompted to reconnect.
func (v *Vault) Status(ctx context.Context, userID uuid.UUID, platform domain.Platform) (ConnectionStatus, error) {
	_, err := v.ReadToken(ctx, userID, platform)
	switch {
	case err == nil:
		return StatusConnected, nil
	case errors.Is(err, ErrNotConnected):
		return StatusNotConnected, nil
	case errors.Is(err, ErrDecryptFailed):
		return StatusNeedsReconnect, nil
	default:
		return "", err
	}
}

// RemoveToken deletes the credential for (userID, platform). Idempotent.
func (v *Vault) RemoveToken(ctx context.Context, userID uuid.UUID, platform domain.Platform) error {
	if err := v.creds.Delete(ctx, userID, platform); err != nil {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}
