// Package api is the HTTP client for the marketplace REST API. It owns the
// base URL, attaches the bearer token to every request, and exposes one
// typed method per endpoint the client consumes. All state lives
// server-side; nothing here caches responses.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dalali/dalali-cli/internal/logbook"
)

// ErrUnauthorized marks 401 responses so callers can distinguish an
// expired/invalid token from other API failures.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx API response.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Detail)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) work on 401 errors.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logbook *logbook.Logbook
}

// Client is the configured request client. Safe for use from the single
// UI goroutine and from tea.Cmd goroutines; the token is the one shared
// value, so it sits behind a mutex.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logbook.Logbook

	mu    sync.RWMutex
	token string
}

// New creates a new API client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        cfg.Logbook,
	}
}

// BaseURL returns the API origin requests are issued against.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken stores the access token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = strings.TrimSpace(token)
}

// Token returns the current access token, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ClearToken removes the authorization header from future requests.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// ResolveMediaURL turns a server-relative media path into an absolute URL.
// Paths the server already absolutized pass through untouched.
func (c *Client) ResolveMediaURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and decodes a JSON response into out (when out is
// non-nil). Any transport error or non-2xx status comes back as an error;
// there is no retry at this layer.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("request failed · %s %s · %v", req.Method, req.URL.Path, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Detail: readErrorDetail(resp.Body)}
		c.logf("request rejected · %s %s · %v", req.Method, req.URL.Path, apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// doJSON sends payload (when non-nil) as a JSON body.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// doForm sends fields and file attachments as a multipart body.
func (c *Client) doForm(ctx context.Context, method, path string, fields map[string]string, files []Attachment, out any) error {
	body, contentType, err := encodeMultipart(fields, files)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	c.log.Warn(format, args...)
}

// readErrorDetail pulls the server's error message out of an error body.
// DRF-style APIs answer {"detail": "..."}; anything else is used verbatim.
func readErrorDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(data))
}
