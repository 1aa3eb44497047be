package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	rateLimiter := newOAuthRateLimiter()
	csrf := middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token",
		CookieHTTPOnly: true,
		CookieSecure:   s.config.AppEnv == "production",
	})

	// OAuth connect flow (authenticated)
	s.echo.GET("/connect/:platform", s.handleConnect, rateLimiter, s.requireAuth)
	s.echo.GET("/oauth-callback/:platform", s.handleOAuthCallback, rateLimiter, s.requireAuth)
	s.echo.GET("/connections", s.handleConnections, rateLimiter, s.requireAuth)
	s.echo.POST("/disconnect/:platform", s.handleDisconnect, rateLimiter, s.requireAuth, csrf)
}
