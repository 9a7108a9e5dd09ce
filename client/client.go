package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL targets a local development server.
	DefaultBaseURL = "http://localhost:8000/api"

	requestTimeout = 10 * time.Second
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ServerError is returned for 5xx responses.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.StatusCode)
}

// APIError is returned for 4xx responses other than 401 and 403, carrying the
// decoded error payload when the server sent one.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// Client is the HTTP layer under SessionStore. Every request attaches the
// stored bearer token when present; a 401 clears stored credentials exactly
// once and fires the auth-expired hook so the caller can route to login.
// Requests are never retried.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	storage       Storage
	log           zerolog.Logger
	onAuthExpired func()
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithAuthExpiredHook registers the callback fired when a 401 invalidates the
// session, typically to navigate to the login page.
func WithAuthExpiredHook(hook func()) Option {
	return func(c *Client) {
		c.onAuthExpired = hook
	}
}

func New(storage Storage, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		storage:    storage,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if token, err := c.storage.Get(KeyAccessToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.expireSession()
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode >= 500:
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Msg("server error")
		return &ServerError{StatusCode: resp.StatusCode, Body: string(respBody)}
	case resp.StatusCode >= 400:
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// expireSession clears stored credentials. Only the call that finds a token
// still present fires the hook, so concurrent 401s redirect once.
func (c *Client) expireSession() {
	token, err := c.storage.Get(KeyAccessToken)
	if err != nil || token == "" {
		return
	}

	clearSession(c.storage)

	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func clearSession(storage Storage) {
	for _, key := range []string{KeyAccessToken, KeyUserInfo, KeyUserRole} {
		_ = storage.Delete(key)
	}
}

func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &payload)
	return &APIError{
		StatusCode: status,
		Message:    payload.Error,
		Fields:     payload.Errors,
	}
}
