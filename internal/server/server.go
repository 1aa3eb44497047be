package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/domain"
	apperrors "github.com/postforge/postforge/internal/errors"
	"github.com/postforge/postforge/internal/oauth"
	"github.com/postforge/postforge/internal/vault"
)

const (
	sessionName          = "postforge_session"
	sessionKeyUserID     = "user_id"
	sessionKeyOAuthState = "oauth_state"
)

// tokenVault is the handler-side view of the credential vault. Raw tokens
// go in; nothing comes back out to HTTP.
type tokenVault interface {
	StoreToken(ctx context.Context, userID uuid.UUID, platform domain.Platform, accessToken string) error
	RemoveToken(ctx context.Context, userID uuid.UUID, platform domain.Platform) error
	Status(ctx context.Context, userID uuid.UUID, platform domain.Platform) (vault.ConnectionStatus, error)
}

type Server struct {
	echo         *echo.Echo
	config       *config.Config
	vault        tokenVault
	exchangers   oauth.Registry
	sessionStore *sessions.CookieStore
	db           postgresHealthChecker
	clock        clockwork.Clock
	startTime    time.Time
}

func NewServer(cfg *config.Config, vault tokenVault, exchangers oauth.Registry, db postgresHealthChecker, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(apperrors.Middleware())

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}

	srv := &Server{
		echo:         e,
		config:       cfg,
		vault:        vault,
		exchangers:   exchangers,
		sessionStore: sessionStore,
		db:           db,
		clock:        clock,
		startTime:    clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Server starting", "port", s.config.Port)
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
