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

const linkedinTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"

// LinkedInExchanger exchanges codes against the LinkedIn token endpoint.
// LinkedIn wants a form-encoded POST body and reports failures through
// error/error_description fields.
type LinkedInExchanger struct {
	creds      config.PlatformCredentials
	tokenURL   string
	httpClient *http.Client
}

func NewLinkedInExchanger(creds config.PlatformCredentials) *LinkedInExchanger {
	return &LinkedInExchanger{
		creds:      creds,
		tokenURL:   linkedinTokenURL,
		httpClient: newHTTPClient(),
	}
}

func (e *LinkedInExchanger) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	return exchangeWithRetry(ctx, domain.PlatformLinkedIn, func() (string, error) {
		return e.exchange(ctx, code)
	})
}

func (e *LinkedInExchanger) exchange(ctx context.Context, code string) (string, error) {
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
		return "", &TransportError{Platform: domain.PlatformLinkedIn, Err: transportCause(err)}
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken      string `json:"access_token"`
		ErrorCode        string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &TransportError{
			Platform: domain.PlatformLinkedIn,
			Err:      fmt.Errorf("failed to decode token response (status %d): %w", resp.StatusCode, err),
		}
	}

	if body.ErrorCode != "" {
		message := body.ErrorDescription
		if message == "" {
			message = body.ErrorCode
		}
		return "", &ExchangeError{Platform: domain.PlatformLinkedIn, Message: message}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &ExchangeError{Platform: domain.PlatformLinkedIn, Message: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)}
	}
	if body.AccessToken == "" {
		return "", &ExchangeError{Platform: domain.PlatformLinkedIn, Message: "no access token in response"}
	}

	return body.AccessToken, nil
}
