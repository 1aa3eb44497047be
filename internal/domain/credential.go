package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Platform identifies a connected social network. The set is closed: new
// platforms require an exchanger implementation and a config entry.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// ParsePlatform validates a platform tag from untrusted input (URL params).
func ParsePlatform(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformFacebook, PlatformInstagram, PlatformLinkedIn:
		return Platform(s), nil
	}
	return "", ErrUnknownPlatform
}

func (p Platform) String() string { return string(p) }

// Platforms lists every supported platform in a stable order.
func Platforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn}
}

// Credential is one stored social-account connection. AccessToken holds the
// ciphertext envelope as persisted; decryption happens in the vault layer,
// never here.
type Credential struct {
	UserID      uuid.UUID
	Platform    Platform
	AccessToken string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CredentialRepository persists at most one credential per (user, platform).
// Upsert replaces the prior row atomically; Get returns
// ErrCredentialNotFound when the user never connected the platform.
type CredentialRepository interface {
	Upsert(ctx context.Context, userID uuid.UUID, platform Platform, ciphertext string) (*Credential, error)
	Get(ctx context.Context, userID uuid.UUID, platform Platform) (*Credential, error)
	Delete(ctx context.Context, userID uuid.UUID, platform Platform) error
}
