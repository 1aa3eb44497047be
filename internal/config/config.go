package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// PlatformCredentials holds the OAuth app registration for one platform.
type PlatformCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	SessionSecret      string `env:"SESSION_SECRET"`
	TokenEncryptionKey string `env:"TOKEN_ENCRYPTION_KEY"`

	FacebookClientID      string `env:"FACEBOOK_CLIENT_ID"`
	FacebookClientSecret  string `env:"FACEBOOK_CLIENT_SECRET"`
	FacebookRedirectURI   string `env:"FACEBOOK_REDIRECT_URI"`
	InstagramClientID     string `env:"INSTAGRAM_CLIENT_ID"`
	InstagramClientSecret string `env:"INSTAGRAM_CLIENT_SECRET"`
	InstagramRedirectURI  string `env:"INSTAGRAM_REDIRECT_URI"`
	LinkedInClientID      string `env:"LINKEDIN_CLIENT_ID"`
	LinkedInClientSecret  string `env:"LINKEDIN_CLIENT_SECRET"`
	LinkedInRedirectURI   string `env:"LINKEDIN_REDIRECT_URI"`

	DashboardPath string `env:"DASHBOARD_PATH" default:"/dashboard"`
	LoginPath     string `env:"LOGIN_PATH" default:"/login"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" default:"168h"` // 7 days
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Facebook returns the Facebook OAuth app registration.
func (c *Config) Facebook() PlatformCredentials {
	return PlatformCredentials{ClientID: c.FacebookClientID, ClientSecret: c.FacebookClientSecret, RedirectURI: c.FacebookRedirectURI}
}

// Instagram returns the Instagram OAuth app registration.
func (c *Config) Instagram() PlatformCredentials {
	return PlatformCredentials{ClientID: c.InstagramClientID, ClientSecret: c.InstagramClientSecret, RedirectURI: c.InstagramRedirectURI}
}

// LinkedIn returns the LinkedIn OAuth app registration.
func (c *Config) LinkedIn() PlatformCredentials {
	return PlatformCredentials{ClientID: c.LinkedInClientID, ClientSecret: c.LinkedInClientSecret, RedirectURI: c.LinkedInRedirectURI}
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL":            cfg.DatabaseURL,
		"SESSION_SECRET":          cfg.SessionSecret,
		"TOKEN_ENCRYPTION_KEY":    cfg.TokenEncryptionKey,
		"FACEBOOK_CLIENT_ID":      cfg.FacebookClientID,
		"FACEBOOK_CLIENT_SECRET":  cfg.FacebookClientSecret,
		"FACEBOOK_REDIRECT_URI":   cfg.FacebookRedirectURI,
		"INSTAGRAM_CLIENT_ID":     cfg.InstagramClientID,
		"INSTAGRAM_CLIENT_SECRET": cfg.InstagramClientSecret,
		"INSTAGRAM_REDIRECT_URI":  cfg.InstagramRedirectURI,
		"LINKEDIN_CLIENT_ID":      cfg.LinkedInClientID,
		"LINKEDIN_CLIENT_SECRET":  cfg.LinkedInClientSecret,
		"LINKEDIN_REDIRECT_URI":   cfg.LinkedInRedirectURI,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	keyBytes, err := hex.DecodeString(cfg.TokenEncryptionKey)
	if err != nil {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be valid hex: %w", err)
	}
	if len(keyBytes) != 32 {
		return fmt.Errorf("TOKEN_ENCRYPTION_KEY must be exactly 64 hex characters (32 bytes), got %d bytes", len(keyBytes))
	}

	return nil
}
