package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/postforge/postforge/internal/domain"
	apperrors "github.com/postforge/postforge/internal/errors"
	"github.com/postforge/postforge/internal/logging"
	"github.com/postforge/postforge/internal/oauth"
)

const oauthTimeout = 10 * time.Second

// authorizeEndpoint describes where to send the user's browser to start a
// platform's consent flow.
type authorizeEndpoint struct {
	url   string
	scope string
}

var authorizeEndpoints = map[domain.Platform]authorizeEndpoint{
	domain.PlatformFacebook:  {url: "https://www.facebook.com/v19.0/dialog/oauth", scope: "pages_manage_posts,pages_read_engagement"},
	domain.PlatformInstagram: {url: "https://api.instagram.com/oauth/authorize", scope: "user_profile,user_media"},
	domain.PlatformLinkedIn:  {url: "https://www.linkedin.com/oauth/v2/authorization", scope: "w_member_social"},
}

func (s *Server) platformRedirectURI(platform domain.Platform) string {
	switch platform {
	case domain.PlatformInstagram:
		return s.config.Instagram().RedirectURI
	case domain.PlatformLinkedIn:
		return s.config.LinkedIn().RedirectURI
	default:
		return s.config.Facebook().RedirectURI
	}
}

func (s *Server) platformClientID(platform domain.Platform) string {
	switch platform {
	case domain.PlatformInstagram:
		return s.config.Instagram().ClientID
	case domain.PlatformLinkedIn:
		return s.config.LinkedIn().ClientID
	default:
		return s.config.Facebook().ClientID
	}
}

// requireAuth redirects to the login surface when the request carries no
// valid session. The OAuth flow never starts for anonymous callers.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessionStore.Get(c.Request(), sessionName)
		if err != nil {
			return c.Redirect(http.StatusFound, s.config.LoginPath)
		}

		userIDStr, ok := session.Values[sessionKeyUserID].(string)
		if !ok {
			return c.Redirect(http.StatusFound, s.config.LoginPath)
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return c.Redirect(http.StatusFound, s.config.LoginPath)
		}

		c.Set("userID", userID)
		return next(c)
	}
}

func generateOAuthState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// handleConnect starts the consent flow: stores a fresh state value in the
// session and sends the browser to the platform's authorize URL.
func (s *Server) handleConnect(c echo.Context) error {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		return apperrors.ValidationError("unknown platform")
	}

	state, err := generateOAuthState()
	if err != nil {
		return apperrors.InternalError("failed to generate OAuth state", err)
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Error("Failed to get session for OAuth state", "error", err)
	}
	session.Values[sessionKeyOAuthState] = state
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save OAuth state session", err)
	}

	logging.WithPlatform(platform.String()).Info("OAuth consent flow started")

	endpoint := authorizeEndpoints[platform]
	authURL := fmt.Sprintf(
		"%s?client_id=%s&redirect_uri=%s&response_type=code&scope=%s&state=%s",
		endpoint.url,
		url.QueryEscape(s.platformClientID(platform)),
		url.QueryEscape(s.platformRedirectURI(platform)),
		url.QueryEscape(endpoint.scope),
		url.QueryEscape(state),
	)

	return c.Redirect(http.StatusFound, authURL)
}

// handleOAuthCallback finishes the consent flow: exchanges the single-use
// code for an access token, encrypts it, and stores it for (user, platform).
// Every failure path returns before the store write; a failed exchange never
// leaves a partial credential behind.
func (s *Server) handleOAuthCallback(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return c.Redirect(http.StatusFound, s.config.LoginPath)
	}

	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		return apperrors.ValidationError("unknown platform")
	}

	code := c.QueryParam("code")
	if code == "" {
		return apperrors.ValidationError("missing code parameter")
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		return apperrors.ValidationError("invalid session")
	}
	expectedState, ok := session.Values[sessionKeyOAuthState].(string)
	if !ok || expectedState == "" {
		return apperrors.ValidationError("missing OAuth state")
	}
	if c.QueryParam("state") != expectedState {
		return apperrors.ValidationError("invalid OAuth state")
	}
	delete(session.Values, sessionKeyOAuthState)
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}

	exchanger, err := s.exchangers.For(platform)
	if err != nil {
		return apperrors.ValidationError("unknown platform")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), oauthTimeout)
	defer cancel()

	accessToken, err := exchanger.ExchangeCodeForToken(ctx, code)
	if err != nil {
		var exchangeErr *oauth.ExchangeError
		if errors.As(err, &exchangeErr) {
			return apperrors.ValidationError(fmt.Sprintf("%s did not accept the authorization code", platform))
		}
		return apperrors.ExternalError(fmt.Sprintf("failed to reach %s", platform), err).WithField("platform", platform)
	}

	if err := s.vault.StoreToken(ctx, userID, platform, accessToken); err != nil {
		return apperrors.InternalError("failed to save credential", err).WithField("platform", platform)
	}

	logging.WithUser(userID.String()).InfoContext(ctx, "Platform connected", "platform", platform)

	if err := c.Redirect(http.StatusFound, s.config.DashboardPath); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}

// handleConnections reports the connection status of every supported
// platform for the signed-in user. Tokens never leave the vault here.
func (s *Server) handleConnections(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return c.Redirect(http.StatusFound, s.config.LoginPath)
	}

	statuses := make(map[string]string, len(domain.Platforms()))
	for _, platform := range domain.Platforms() {
		status, err := s.vault.Status(c.Request().Context(), userID, platform)
		if err != nil {
			return apperrors.InternalError("failed to read connection status", err).WithField("platform", platform)
		}
		statuses[platform.String()] = string(status)
	}

	return c.JSON(http.StatusOK, statuses)
}

// handleDisconnect removes a stored credential. Safe to call twice.
func (s *Server) handleDisconnect(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return c.Redirect(http.StatusFound, s.config.LoginPath)
	}

	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		return apperrors.ValidationError("unknown platform")
	}

	if err := s.vault.RemoveToken(c.Request().Context(), userID, platform); err != nil {
		return apperrors.InternalError("failed to remove credential", err).WithField("platform", platform)
	}

	logging.WithUser(userID.String()).InfoContext(c.Request().Context(), "Platform disconnected", "platform", platform)

	if err := c.Redirect(http.StatusFound, s.config.DashboardPath); err != nil {
		return fmt.Errorf("failed to redirect: %w", err)
	}
	return nil
}
