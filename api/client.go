// Package api is the sole egress point to the canteen backend. Every
// outbound request passes through one pipeline: auth-header injection
// from the session store, a fixed timeout, JSON content negotiation, and
// uniform failure classification. Success responses are unwrapped to
// their payload; callers never see the transport envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartcampus/canteen-client/core"
)

// Client is the API gateway client. It holds the session store for auth
// injection and generation-gated 401 invalidation, and a Navigator for
// the 401 redirect side effect.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *core.SessionStore
	nav        core.Navigator
	logger     core.Logger
	telemetry  core.Telemetry
}

// Option configures the client.
type Option func(*Client)

// WithTimeout overrides the fixed request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport sets the underlying round tripper, e.g. an
// otelhttp-instrumented transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithNavigator sets the navigation executor used by the 401 side effect.
func WithNavigator(nav core.Navigator) Option {
	return func(c *Client) {
		if nav != nil {
			c.nav = nav
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTelemetry sets the telemetry provider.
func WithTelemetry(t core.Telemetry) Option {
	return func(c *Client) {
		if t != nil {
			c.telemetry = t
		}
	}
}

// New creates a gateway client for the given backend base URL.
func New(baseURL string, sessions *core.SessionStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = core.DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: core.DefaultRequestTimeout,
		},
		sessions:  sessions,
		nav:       &core.NoOpNavigator{},
		logger:    &core.NoOpLogger{},
		telemetry: &core.NoOpTelemetry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do runs one request through the full pipeline and decodes the
// unwrapped payload into out (out may be nil for calls without a
// payload). The error, if any, is always a *core.ClientError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	ctx, span := c.telemetry.StartSpan(ctx, "api."+op)
	defer span.End()
	span.SetAttribute("http.method", method)
	span.SetAttribute("http.route", path)

	// Snapshot the session generation before dispatch. If this request
	// comes back 401, the session is cleared only while this generation
	// is still current, so a login completing mid-flight is never undone.
	generation := c.sessions.Generation()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return c.fail(span, op, "request_setup", 0, "encoding request body", core.ErrRequestSetup)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return c.fail(span, op, "request_setup", 0, err.Error(), core.ErrRequestSetup)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.sessions.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	c.logger.Debug("API request", map[string]interface{}{
		"operation": op,
		"method":    method,
		"path":      path,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Request was sent (or at least attempted) and no usable reply
		// came back: network failure or the fixed timeout.
		return c.fail(span, op, "no_response", 0, err.Error(), core.ErrNoResponse)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.fail(span, op, "no_response", 0, err.Error(), core.ErrNoResponse)
	}

	span.SetAttribute("http.status_code", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return c.classify(ctx, span, op, resp.StatusCode, raw, generation)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return c.fail(span, op, "server_error", resp.StatusCode, "undecodable response body", core.ErrServer)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return c.fail(span, op, "server_error", resp.StatusCode, "undecodable payload", core.ErrServer)
		}
	}

	c.logger.Debug("API response", map[string]interface{}{
		"operation":   op,
		"status_code": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	c.telemetry.RecordMetric("canteen.client.requests", 1, map[string]string{
		"operation": op,
		"kind":      "ok",
	})
	return nil
}

// classify maps a failure status to its error kind. The 401 branch also
// performs the gateway's one side effect: a generation-gated session
// clear plus a redirect home, exactly once, never retried.
func (c *Client) classify(ctx context.Context, span core.Span, op string, status int, raw []byte, generation uint64) error {
	var env envelope
	_ = json.Unmarshal(raw, &env) // message is best effort on failures

	var kind string
	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		kind, sentinel = "unauthorized", core.ErrUnauthorized
		if c.sessions.Invalidate(ctx, generation) {
			c.nav.Navigate(core.RouteHome)
		}
	case http.StatusForbidden:
		kind, sentinel = "forbidden", core.ErrForbidden
	case http.StatusNotFound:
		kind, sentinel = "not_found", core.ErrNotFound
	case http.StatusUnprocessableEntity:
		kind, sentinel = "unprocessable", core.ErrUnprocessable
	default:
		kind, sentinel = "server_error", core.ErrServer
	}

	return c.fail(span, op, kind, status, env.Message, sentinel)
}

func (c *Client) fail(span core.Span, op, kind string, status int, message string, sentinel error) error {
	err := &core.ClientError{
		Op:      "api." + op,
		Kind:    kind,
		Status:  status,
		Message: message,
		Err:     sentinel,
	}

	span.RecordError(err)
	c.logger.Warn("API call failed", map[string]interface{}{
		"operation":   op,
		"kind":        kind,
		"status_code": status,
		"message":     message,
	})
	c.telemetry.RecordMetric("canteen.client.requests", 1, map[string]string{
		"operation": op,
		"kind":      kind,
	})
	return err
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, op, path string, body, out interface{}) error {
	return c.do(ctx, op, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, op, path string, body, out interface{}) error {
	return c.do(ctx, op, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	return c.do(ctx, op, http.MethodDelete, path, query, nil, out)
}

// Sessions exposes the session store this client injects tokens from.
func (c *Client) Sessions() *core.SessionStore {
	return c.sessions
}

func itoa(v int) string {
	return fmt.Sprintf("%d", v)
}
