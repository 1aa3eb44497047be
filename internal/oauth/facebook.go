package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/domain"
)

const facebookTokenURL = "https://graph.facebook.com/v19.0/oauth/access_token"

// FacebookExchanger exchanges codes against the Facebook Graph token
// endpoint. Facebook takes the parameters as a GET query string.
type FacebookExchanger struct {
	creds      config.PlatformCredentials
	tokenURL   string
	httpClient *http.Client
}

func NewFacebookExchanger(creds config.PlatformCredentials) *FacebookExchanger {
	return &FacebookExchanger{
		creds:      creds,
		tokenURL:   facebookTokenURL,
		httpClient: newHTTPClient(),
	}
}

func (e *FacebookExchanger) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	return exchangeWithRetry(ctx, domain.PlatformFacebook, func() (string, error) {
		return e.exchange(ctx, code)
	})
}

func (e *FacebookExchanger) exchange(ctx context.Context, code string) (string, error) {
	q := url.Values{}
	q.Set("client_id", e.creds.ClientID)
	q.Set("client_secret", e.creds.ClientSecret)
	q.Set("redirect_uri", e.creds.RedirectURI)
	q.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Platform: domain.PlatformFacebook, Err: transportCause(err)}
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
		Error       *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TransportError{
			Platform: domain.PlatformFacebook,
			Err:      fmt.Errorf("failed to decode token response (status %d): %w", resp.StatusCode, err),
		}
	}

	if body.Error != nil {
		return "", &ExchangeError{Platform: domain.PlatformFacebook, Message: body.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ExchangeError{Platform: domain.PlatformFacebook, Message: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)}
	}
	if body.AccessToken == "" {
		return "", &ExchangeError{Platform: domain.PlatformFacebook, Message: "no access token in response"}
	}

	return body.AccessToken, nil
}
