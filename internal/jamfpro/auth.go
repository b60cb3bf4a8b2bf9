package jamfpro

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/rtsctl/internal/logging"
)

// AuthMode selects how credentials are exchanged for a bearer token
type AuthMode int

const (
	// AuthModeBasic posts Basic credentials of a Jamf Pro user account
	AuthModeBasic AuthMode = iota
	// AuthModeOAuth uses API role client credentials
	AuthModeOAuth
)

// String returns the mode name
func (m AuthMode) String() string {
	switch m {
	case AuthModeBasic:
		return "basic"
	case AuthModeOAuth:
		return "oauth"
	default:
		return fmt.Sprintf("AuthMode(%d)", m)
	}
}

// AuthModeFor maps the persisted "use API roles" flag to a mode
func AuthModeFor(useAPIRoles bool) AuthMode {
	if useAPIRoles {
		return AuthModeOAuth
	}
	return AuthModeBasic
}

// tokenResponse is the union of the two token response shapes.
// Only the variant matching the active AuthMode is decoded.
type tokenResponse interface {
	bearer() Token
}

// basicTokenResponse is returned by /api/v1/auth/token
type basicTokenResponse struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

func (r *basicTokenResponse) bearer() Token { return Token(r.Token) }

// oauthTokenResponse is returned by /api/oauth/token
type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (r *oauthTokenResponse) bearer() Token { return Token(r.AccessToken) }

// tokenRequest builds the request and the empty response variant for mode
func (c *Client) tokenRequest(ctx context.Context, creds Credentials, mode AuthMode) (*http.Request, tokenResponse, error) {
	switch mode {
	case AuthModeOAuth:
		form := url.Values{}
		form.Set("client_id", creds.Identifier)
		form.Set("grant_type", "client_credentials")
		form.Set("client_secret", creds.Secret)

		req, err := c.newRequest(ctx, http.MethodPost, PathOAuthToken, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")
		return req, &oauthTokenResponse{}, nil

	case AuthModeBasic:
		req, err := c.newRequest(ctx, http.MethodPost, PathBasicToken, nil)
		if err != nil {
			return nil, nil, err
		}
		req.Header.Set("Authorization", "Basic "+creds.BasicToken())
		req.Header.Set("Accept", "application/json")
		return req, &basicTokenResponse{}, nil

	default:
		return nil, nil, NewValidationError(fmt.Sprintf("unknown auth mode %d", mode))
	}
}

// Authenticate exchanges creds for a bearer token using mode.
// Any transport, status or decode failure, or an empty token, is an auth error.
func (c *Client) Authenticate(ctx context.Context, creds Credentials, mode AuthMode) (Token, error) {
	req, variant, err := c.tokenRequest(ctx, creds, mode)
	if err != nil {
		return "", err
	}
	path := req.URL.Path

	status, body, err := c.do(req)
	if err != nil {
		return "", err
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "", NewAuthError(path, "credentials rejected", status)
	}
	if status < 200 || status > 299 {
		return "", NewAuthError(path, fmt.Sprintf("token request failed with status %d", status), status)
	}

	if err := json.Unmarshal(body, variant); err != nil {
		return "", &APIError{Type: ErrTypeAuth, Message: "no authentication token received", StatusCode: status, Endpoint: path, Err: err}
	}

	token := variant.bearer()
	if token == "" {
		return "", NewAuthError(path, "no authentication token received", status)
	}

	logging.Info("Authentication token received", zap.Stringer("mode", mode))
	return token, nil
}
