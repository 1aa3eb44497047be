package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/postforge/postforge/internal/domain"
)

// credentialColumns must match the Scan order in scanCredential.
const credentialColumns = `user_id, platform, access_token, created_at, updated_at`

// CredentialRepo implements domain.CredentialRepository backed by PostgreSQL.
// It stores ciphertext as handed to it; encryption lives in the vault layer.
type CredentialRepo struct {
	pool *pgxpool.Pool
}

func NewCredentialRepo(pool *pgxpool.Pool) *CredentialRepo {
	return &CredentialRepo{pool: pool}
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var cred domain.Credential
	err := row.Scan(&cred.UserID, &cred.Platform, &cred.AccessToken, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// Upsert writes the credential for (userID, platform), replacing any prior
// row. Atomicity comes from the single-row INSERT ... ON CONFLICT; a
// concurrent reader sees either the old row or the new one, never a mix.
func (r *CredentialRepo) Upsert(ctx context.Context, userID uuid.UUID, platform domain.Platform, ciphertext string) (*domain.Credential, error) {
	cred, err := scanCredential(r.pool.QueryRow(ctx, `
		INSERT INTO credentials (user_id, platform, access_token, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			updated_at = NOW()
		RETURNING `+credentialColumns+`
	`, userID, platform, ciphertext))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert credential: %w", err)
	}
	return cred, nil
}

// Get returns the stored credential, or domain.ErrCredentialNotFound when
// the user never connected this platform. Callers must not treat absence as
// an I/O failure.
func (r *CredentialRepo) Get(ctx context.Context, userID uuid.UUID, platform domain.Platform) (*domain.Credential, error) {
	cred, err := scanCredential(r.pool.QueryRow(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE user_id = $1 AND platform = $2`,
		userID, platform))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCredentialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return cred, nil
}

// Delete removes the credential for (userID, platform). Deleting a key that
// does not exist is not an error.
func (r *CredentialRepo) Delete(ctx context.Context, userID uuid.UUID, platform domain.Platform) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM credentials WHERE user_id = $1 AND platform = $2`,
		userID, platform)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
