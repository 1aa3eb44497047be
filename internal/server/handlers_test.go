package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/domain"
	"github.com/postforge/postforge/internal/oauth"
	"github.com/postforge/postforge/internal/vault"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type storedToken struct {
	userID   uuid.UUID
	platform domain.Platform
	token    string
}

type mockVault struct {
	storeTokenFn  func(ctx context.Context, userID uuid.UUID, platform domain.Platform, accessToken string) error
	removeTokenFn func(ctx context.Context, userID uuid.UUID, platform domain.Platform) error
	statusFn      func(ctx context.Context, userID uuid.UUID, platform domain.Platform) (vault.ConnectionStatus, error)

	stored  []storedToken
	removed []storedToken
}

func (m *mockVault) StoreToken(ctx context.Context, userID uuid.UUID, platform domain.Platform, accessToken string) error {
	if m.storeTokenFn != nil {
		if err := m.storeTokenFn(ctx, userID, platform, accessToken); err != nil {
			return err
		}
	}
	m.stored = append(m.stored, storedToken{userID: userID, platform: platform, token: accessToken})
	return nil
}

func (m *mockVault) RemoveToken(ctx context.Context, userID uuid.UUID, platform domain.Platform) error {
	if m.removeTokenFn != nil {
		if err := m.removeTokenFn(ctx, userID, platform); err != nil {
			return err
		}
	}
	m.removed = append(m.removed, storedToken{userID: userID, platform: platform})
	return nil
}

func (m *mockVault) Status(ctx context.Context, userID uuid.UUID, platform domain.Platform) (vault.ConnectionStatus, error) {
	if m.statusFn != nil {
		return m.statusFn(ctx, userID, platform)
	}
	return vault.StatusNotConnected, nil
}

type mockExchanger struct {
	token string
	err   error
	calls int
}

func (m *mockExchanger) ExchangeCodeForToken(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:               "test",
		Port:                 "8080",
		SessionSecret:        "test-session-secret",
		DashboardPath:        "/dashboard",
		LoginPath:            "/login",
		SessionMaxAge:        time.Hour,
		FacebookClientID:     "fb-id",
		FacebookClientSecret: "fb-secret",
		FacebookRedirectURI:  "https://postforge.example/oauth-callback/facebook",
		LinkedInClientID:     "li-id",
		LinkedInClientSecret: "li-secret",
		LinkedInRedirectURI:  "https://postforge.example/oauth-callback/linkedin",
	}
}

func newTestServer(t *testing.T, opts ...func(*Server)) *Server {
	t.Helper()

	exchangers := oauth.Registry{
		domain.PlatformFacebook:  &mockExchanger{token: "tok_xyz"},
		domain.PlatformInstagram: &mockExchanger{token: "tok_xyz"},
		domain.PlatformLinkedIn:  &mockExchanger{token: "tok_xyz"},
	}

	srv := NewServer(testConfig(), &mockVault{}, exchangers, &mockPinger{}, clockwork.NewFakeClock())
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

func withVault(v tokenVault) func(*Server) {
	return func(s *Server) { s.vault = v }
}

func withExchanger(platform domain.Platform, e oauth.Exchanger) func(*Server) {
	return func(s *Server) { s.exchangers[platform] = e }
}

func withPinger(p postgresHealthChecker) func(*Server) {
	return func(s *Server) { s.db = p }
}

// sessionCookies builds cookies for a session carrying the given values.
func sessionCookies(t *testing.T, srv *Server, values map[any]any) []*http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	session, err := srv.sessionStore.Get(req, sessionName)
	require.NoError(t, err)
	for k, v := range values {
		session.Values[k] = v
	}
	require.NoError(t, session.Save(req, rec))
	return rec.Result().Cookies()
}

// doRequest runs a request through the full middleware chain.
func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}
