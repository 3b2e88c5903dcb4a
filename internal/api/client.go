// Package api implements the HTTP client for the chatdeck platform.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/maduarte/chatdeck/internal/config"
	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
)

// Client is the main client for the chatdeck platform API
type Client struct {
	httpClient    tls_client.HttpClient
	baseURL       string
	creds         *config.Credentials
	logger        *zap.Logger
	streamTimeout time.Duration
	// onUnauthorized is invoked once per rejected request so the caller can
	// force a re-login instead of the client owning navigation.
	onUnauthorized func()
	mu             sync.RWMutex
	closed         bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (used in tests)
func WithHTTPClient(hc tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a structured logger for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithStreamTimeout bounds how long a streaming response may run.
// Zero disables the deadline.
func WithStreamTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.streamTimeout = d
	}
}

// WithUnauthorizedHandler installs a callback invoked when the platform
// rejects the bearer token
func WithUnauthorizedHandler(fn func()) ClientOption {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// NewClient creates a new Client for the given base URL.
// creds may be nil for clients that only call Login/Signup.
func NewClient(baseURL string, creds *config.Credentials, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(300),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		hc, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = hc
	}

	return client, nil
}

// Close shuts down the client
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// SetCredentials replaces the credentials used for authorization
func (c *Client) SetCredentials(creds *config.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

// Credentials returns the credentials currently in use (may be nil)
func (c *Client) Credentials() *config.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// endpoint joins the base URL with an API path
func (c *Client) endpoint(path string) string {
	return c.baseURL + path
}

// newRequest builds a request with default headers and the bearer token
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	if creds := c.Credentials(); creds != nil {
		if token := creds.GetAccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// checkStatus converts non-2xx responses into typed errors and fires the
// unauthorized callback on 401
func (c *Client) checkStatus(resp *http.Response, op, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &apierrors.AuthError{
			Message:    fmt.Sprintf("%s rejected, status: %d", op, resp.StatusCode),
			HTTPStatus: resp.StatusCode,
		}
	}

	return apierrors.NewAPIError(resp.StatusCode, path, op+" failed").WithBody(string(body))
}

// doJSON performs a request and returns the parsed response body.
// A nil payload sends no body; 204 responses yield an empty result.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any, op string) (gjson.Result, error) {
	if c.IsClosed() {
		return gjson.Result{}, fmt.Errorf("client is closed")
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return gjson.Result{}, err
	}

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, apierrors.NewNetworkError(op, path, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if err := c.checkStatus(resp, op, path); err != nil {
		return gjson.Result{}, err
	}

	if resp.StatusCode == http.StatusNoContent {
		return gjson.Result{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, apierrors.NewNetworkError(op, path, err)
	}

	if len(body) == 0 {
		return gjson.Result{}, nil
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, apierrors.NewParseError(op+": response is not valid JSON", path)
	}

	return gjson.ParseBytes(body), nil
}
