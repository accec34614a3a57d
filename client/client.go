// Package client implements the HTTP transport for the SiteBay REST API.
//
// Every tool invocation maps onto exactly one [Client.Call]. The client
// performs no retries and follows the platform defaults for redirects; a
// failed call surfaces immediately to the caller.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cdr.dev/slog"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sitebay/sitebay-mcp/metrics"
	"github.com/sitebay/sitebay-mcp/tracing"
)

const (
	// DefaultBaseURL is the production SiteBay origin.
	DefaultBaseURL = "https://my.sitebay.org"

	// apiPrefix is prepended to every endpoint path.
	apiPrefix = "/f/api/v1"

	defaultTimeout = 30 * time.Second
)

// Config holds the settings required to reach the SiteBay API.
type Config struct {
	// Token is the bearer credential sent on every request. Required.
	Token string
	// BaseURL overrides the API origin; defaults to [DefaultBaseURL].
	// Override it in tests to point at a fake upstream.
	BaseURL string
}

// Client issues authenticated JSON requests against the SiteBay API.
// It is safe for concurrent use; the only shared state is the immutable
// credential captured at construction.
type Client struct {
	baseURL *url.URL
	token   string
	client  *http.Client
	logger  slog.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
}

// New validates cfg and returns a ready [Client].
// metrics may be nil, in which case upstream requests are not counted.
func New(logger slog.Logger, tracer trace.Tracer, m *metrics.Metrics, cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, errors.New("SiteBay API token is required; set SITEBAY_API_TOKEN or pass the token explicitly")
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	return &Client{
		baseURL: u,
		token:   cfg.Token,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
		tracer:  tracer,
		metrics: m,
	}, nil
}

// Get issues a GET request. query may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (gjson.Result, error) {
	return c.Call(ctx, http.MethodGet, path, nil, query)
}

// Post issues a POST request. body may be nil for parameterless calls.
func (c *Client) Post(ctx context.Context, path string, body []byte) (gjson.Result, error) {
	return c.Call(ctx, http.MethodPost, path, body, nil)
}

// Patch issues a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body []byte) (gjson.Result, error) {
	return c.Call(ctx, http.MethodPatch, path, body, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (gjson.Result, error) {
	return c.Call(ctx, http.MethodDelete, path, nil, nil)
}

// Call performs one request against the SiteBay API and classifies the
// response. 2xx responses decode to a [gjson.Result]; bodies which are not
// valid JSON are kept as a String-typed result so that field lookups fall
// back gracefully instead of failing. Non-2xx statuses map onto the error
// taxonomy in errors.go, checked in order: 401, 404, 422, then generic.
func (c *Client) Call(ctx context.Context, method, path string, body []byte, query url.Values) (_ gjson.Result, outErr error) {
	ctx, span := c.tracer.Start(ctx, "Client.Call", trace.WithAttributes(
		attribute.String(tracing.UpstreamMethod, method),
		attribute.String(tracing.UpstreamPath, path),
	))
	defer tracing.EndSpanErr(span, &outErr)

	req, err := c.newRequest(ctx, method, path, body, query)
	if err != nil {
		return gjson.Result{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("sitebay api request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read sitebay api response: %w", err)
	}

	span.SetAttributes(attribute.Int(tracing.UpstreamStatus, resp.StatusCode))
	if c.metrics != nil {
		c.metrics.UpstreamRequestCount.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	}
	c.logger.Debug(ctx, "sitebay api call",
		slog.F("method", method),
		slog.F("path", path),
		slog.F("status", resp.StatusCode),
	)

	if err := classifyStatus(resp.StatusCode, raw); err != nil {
		return gjson.Result{}, err
	}

	return decodeBody(raw), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, query url.Values) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + apiPrefix + path
	if len(query) > 0 {
		q := u.Query()
		for key := range query {
			// Last write wins per key.
			q.Set(key, query.Get(key))
		}
		u.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build sitebay api request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func classifyStatus(status int, raw []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{}
	case status == http.StatusNotFound:
		return &NotFoundError{}
	case status == http.StatusUnprocessableEntity:
		return newValidationError(raw)
	case status < 200 || status >= 300:
		return newAPIError(status, raw)
	}
	return nil
}

func decodeBody(raw []byte) gjson.Result {
	if gjson.ValidBytes(raw) {
		return gjson.ParseBytes(raw)
	}
	return gjson.Result{Type: gjson.String, Str: string(raw)}
}
