package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/postforge")
	t.Setenv("SESSION_SECRET", "session-secret")
	t.Setenv("TOKEN_ENCRYPTION_KEY", testKey)
	t.Setenv("FACEBOOK_CLIENT_ID", "fb-id")
	t.Setenv("FACEBOOK_CLIENT_SECRET", "fb-secret")
	t.Setenv("FACEBOOK_REDIRECT_URI", "https://postforge.example/oauth-callback/facebook")
	t.Setenv("INSTAGRAM_CLIENT_ID", "ig-id")
	t.Setenv("INSTAGRAM_CLIENT_SECRET", "ig-secret")
	t.Setenv("INSTAGRAM_REDIRECT_URI", "https://postforge.example/oauth-callback/instagram")
	t.Setenv("LINKEDIN_CLIENT_ID", "li-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "li-secret")
	t.Setenv("LINKEDIN_REDIRECT_URI", "https://postforge.example/oauth-callback/linkedin")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/dashboard", cfg.DashboardPath)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "fb-id", cfg.Facebook().ClientID)
	assert.Equal(t, "ig-id", cfg.Instagram().ClientID)
	assert.Equal(t, "li-secret", cfg.LinkedIn().ClientSecret)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_MissingInstagramCredentials(t *testing.T) {
	// Every registered platform needs its OAuth app configured; booting
	// with an empty Instagram client_id would only fail platform-side.
	setRequiredEnv(t)
	t.Setenv("INSTAGRAM_CLIENT_ID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSTAGRAM_CLIENT_ID")
}

func TestLoad_EncryptionKeyValidation(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"not hex", "zz"},
		{"wrong length", "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("TOKEN_ENCRYPTION_KEY", tt.key)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "TOKEN_ENCRYPTION_KEY")
		})
	}
}
