package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kontor/internal/log"
)

const maxErrorBody = 64 << 10

// Client talks JSON to the finance backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	transport *Transport
	logger    *log.Logger
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport is
// wrapped by the request-id transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for outbound call logging.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.OrDiscard(c.logger).WithComponent(log.ComponentAPI)

	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	c.transport = NewTransport(hc.Transport, c.logger)
	hc.Transport = c.transport
	c.http = &hc
	return c, nil
}

// Metrics returns outbound request counters.
func (c *Client) Metrics() Metrics {
	return c.transport.GetMetrics()
}

// Do issues one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded JSON response. Non-2xx answers become *Error.
// path is already escaped, as Path returns it.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, auth Credentials, body, out any) error {
	u := *c.baseURL
	raw := c.baseURL.EscapedPath() + path
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	u.Path, u.RawPath = decoded, raw
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != nil {
		auth.apply(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
			Method:  method,
			Path:    path,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Get is Do with GET and no body.
func (c *Client) Get(ctx context.Context, path string, query url.Values, auth Credentials, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, auth, nil, out)
}

// Put creates a resource.
func (c *Client) Put(ctx context.Context, path string, auth Credentials, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, auth, body, out)
}

// Post updates a resource or triggers an action.
func (c *Client) Post(ctx context.Context, path string, auth Credentials, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, auth, body, out)
}

// Delete removes a resource.
func (c *Client) Delete(ctx context.Context, path string, auth Credentials) error {
	return c.Do(ctx, http.MethodDelete, path, nil, auth, nil, nil)
}

// errorMessage prefers a JSON "message" or "error" field, then the body text,
// then the status text.
func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(raw))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// Path joins path segments, e.g. Path("/api/rules", 7) == "/api/rules/7".
func Path(base string, parts ...any) string {
	var b strings.Builder
	b.WriteString(base)
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(fmt.Sprint(p)))
	}
	return b.String()
}
