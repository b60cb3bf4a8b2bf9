package jamfpro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/rtsctl/internal/logging"
	"github.com/muurk/rtsctl/internal/version"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// maxBodySize caps how much of a response body is read
	maxBodySize = 16 << 20
)

// Client represents an HTTP client for a Jamf Pro server.
// All API calls of a run share its HTTPClient.
type Client struct {
	// BaseURL is the server URL (e.g., "https://example.jamfcloud.com")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a new Jamf Pro client.
// baseURL: Server URL, with or without a trailing slash
func NewClient(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid server URL %q: %v", baseURL, err))
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, NewValidationError(fmt.Sprintf("server URL %q must start with https://", baseURL))
	}
	if u.Host == "" {
		return nil, NewValidationError(fmt.Sprintf("server URL %q has no host", baseURL))
	}

	return &Client{
		BaseURL:    strings.TrimRight(u.String(), "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  "rtsctl/" + version.Version,
	}, nil
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// Session returns a view of the client that authenticates every call with token
func (c *Client) Session(token Token) *Session {
	return &Session{client: c, token: token}
}

// Session is a Client bound to a bearer token for the duration of one run
type Session struct {
	client *Client
	token  Token
}

// newRequest builds a request for path relative to BaseURL
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, NewNetworkError(path, "failed to create request", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	return req, nil
}

// do performs req and returns the status code and body.
// Transport failures are classified into APIError network kinds.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	path := req.URL.Path
	logging.LogHTTPRequest(req.Method, path)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, NewNetworkError(path, fmt.Sprintf("%s request failed", req.Method), err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.LogHTTPResponse(req.Method, path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, NewNetworkError(path, "failed to read response body", err)
	}
	// Token responses carry the bearer token
	if !strings.HasSuffix(path, PathOAuthToken) && !strings.HasSuffix(path, PathBasicToken) {
		logging.LogRawBody("API response body", body)
	}

	return resp.StatusCode, body, nil
}

// getJSON performs an authenticated GET and decodes a 2xx JSON body into out
func (s *Session) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := s.client.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	s.authorize(req)
	req.Header.Set("Accept", "application/json")

	status, body, err := s.client.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return NewHTTPError(path, status, fmt.Sprintf("unexpected status code: %d", status))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return NewParseError(path, "failed to parse JSON response", err)
	}
	return nil
}

func (s *Session) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+string(s.token))
}
