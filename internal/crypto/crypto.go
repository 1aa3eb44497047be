package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Service encrypts access tokens before they reach storage and decrypts
// them on the way back out. Implementations must be safe for concurrent use.
type Service interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ErrMalformedCiphertext is returned by Decrypt when the envelope cannot be
// parsed or fails authentication. Callers use it to tell a corrupt or
// key-rotated credential apart from other failures.
var ErrMalformedCiphertext = errors.New("malformed ciphertext")

// NoopService passes tokens through without encryption (dev/test mode).
type NoopService struct{}

func (NoopService) Encrypt(plaintext string) (string, error)  { return plaintext, nil }
func (NoopService) Decrypt(ciphertext string) (string, error) { return ciphertext, nil }

// AesGcmService implements Service with AES-256-GCM. The envelope is
// hex(nonce || ciphertext || tag), so a stored value carries everything
// needed for decryption. Rotating the key makes existing envelopes
// permanently unrecoverable.
type AesGcmService struct {
	gcm cipher.AEAD
}

// NewAesGcmService builds a Service from a 64-character hex key (32 bytes).
// The key is read once at startup; there is no runtime rotation path.
func NewAesGcmService(hexKey string) (*AesGcmService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AesGcmService{gcm: gcm}, nil
}

func (s *AesGcmService) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends to the nonce, yielding nonce || ciphertext || tag.
	envelope := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(envelope), nil
}

func (s *AesGcmService) Decrypt(ciphertext string) (string, error) {
	buffer, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: not valid hex", ErrMalformedCiphertext)
	}

	nonceSize := s.gcm.NonceSize()
	if len(buffer) < nonceSize {
		return "", fmt.Errorf("%w: shorter than nonce", ErrMalformedCiphertext)
	}

	nonce, sealed := buffer[:nonceSize], buffer[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrMalformedCiphertext)
	}

	return string(plaintext), nil
}
