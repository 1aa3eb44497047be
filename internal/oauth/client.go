package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/domain"
	"github.com/postforge/postforge/internal/metrics"
)

const (
	exchangeTimeout = 10 * time.Second
	retryDelay      = 250 * time.Millisecond
)

// Exchanger trades a single-use authorization code for an access token.
// Implementations must never log the code, the client secret, or the
// returned token.
type Exchanger interface {
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)
}

// ExchangeError means the platform rejected the exchange: bad or already
// consumed code, or an error payload in the response. Retrying is pointless;
// the user has to restart the consent flow.
type ExchangeError struct {
	Platform domain.Platform
	Message  string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("%s rejected authorization code exchange: %s", e.Platform, e.Message)
}

// TransportError means the token endpoint could not be reached or answered
// with garbage. Worth one immediate retry; authorization codes expire fast
// enough that anything beyond that is wasted.
type TransportError struct {
	Platform domain.Platform
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach %s token endpoint: %v", e.Platform, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Registry maps platform tags to their exchangers. The set is fixed at
// startup from config.
type Registry map[domain.Platform]Exchanger

// NewRegistry wires one exchanger per supported platform.
func NewRegistry(cfg *config.Config) Registry {
	return Registry{
		domain.PlatformFacebook:  NewFacebookExchanger(cfg.Facebook()),
		domain.PlatformInstagram: NewInstagramExchanger(cfg.Instagram()),
		domain.PlatformLinkedIn:  NewLinkedInExchanger(cfg.LinkedIn()),
	}
}

// For returns the exchanger for a platform tag.
func (r Registry) For(platform domain.Platform) (Exchanger, error) {
	exchanger, ok := r[platform]
	if !ok {
		return nil, domain.ErrUnknownPlatform
	}
	return exchanger, nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: exchangeTimeout}
}

// transportCause strips the request URL that url.Error echoes into its
// message. Facebook carries the client secret and the authorization code in
// the query string, so the full URL must never reach a log line.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// exchangeWithRetry runs one exchange attempt, retrying exactly once on
// transport failures. Exchange rejections are never retried.
func exchangeWithRetry(ctx context.Context, platform domain.Platform, op func() (string, error)) (string, error) {
	policy := retrypolicy.Builder[string]().
		HandleIf(func(_ string, err error) bool {
			var transportErr *TransportError
			return errors.As(err, &transportErr)
		}).
		WithDelay(retryDelay).
		WithMaxRetries(1).
		Build()

	start := time.Now()
	token, err := failsafe.NewExecutor[string](policy).WithContext(ctx).Get(op)
	metrics.OAuthExchangeDuration.WithLabelValues(platform.String()).Observe(time.Since(start).Seconds())

	var exchangeErr *ExchangeError
	switch {
	case err == nil:
		metrics.OAuthExchangesTotal.WithLabelValues(platform.String(), "success").Inc()
	case errors.As(err, &exchangeErr):
		metrics.OAuthExchangesTotal.WithLabelValues(platform.String(), "exchange_error").Inc()
	default:
		metrics.OAuthExchangesTotal.WithLabelValues(platform.String(), "transport_error").Inc()
	}

	return token, err
}
