package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/domain"
)

const instagramTokenURL = "https://api.instagram.com/oauth/access_token"

// InstagramExchanger exchanges codes against the Instagram Basic Display
// token endpoint: form-encoded POST, errors come back as
// error_type/error_message.
type InstagramExchanger struct {
	creds      config.PlatformCredentials
	tokenURL   string
	httpClient *http.Client
}

func NewInstagramExchanger(creds config.PlatformCredentials) *InstagramExchanger {
	return &InstagramExchanger{
		creds:      creds,
		tokenURL:   instagramTokenURL,
		httpClient: newHTTPClient(),
	}
}

func (e *InstagramExchanger) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	return exchangeWithRetry(ctx, domain.PlatformInstagram, func() (string, error) {
		return e.exchange(ctx, code)
	})
}

func (e *InstagramExchanger) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", e.creds.ClientID)
	form.Set("client_secret", e.creds.ClientSecret)
	form.Set("redirect_uri", e.creds.RedirectURI)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Platform: domain.PlatformInstagram, Err: transportCause(err)}
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken  string `json:"access_token"`
		ErrorType    string `json:"error_type"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TransportError{
			Platform: domain.PlatformInstagram,
			Err:      fmt.Errorf("failed to decode token response (status %d): %w", resp.StatusCode, err),
		}
	}

	if body.ErrorType != "" || body.ErrorMessage != "" {
		message := body.ErrorMessage
		if message == "" {
			message = body.ErrorType
		}
		return "", &ExchangeError{Platform: domain.PlatformInstagram, Message: message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ExchangeError{Platform: domain.PlatformInstagram, Message: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)}
	}
	if body.AccessToken == "" {
		return "", &ExchangeError{Platform: domain.PlatformInstagram, Message: "no access token in response"}
	}

	return body.AccessToken, nil
}
