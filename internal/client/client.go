// ABOUTME: HTTP client for the catalog REST API
// ABOUTME: One call per intent, returning raw JSON bodies with classified failures

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/logger"
)

const defaultTimeout = 30 * time.Second

// TokenSource provides the bearer token for authenticated calls
type TokenSource interface {
	AccessToken() string
}

// UnauthorizedHandler is invoked once when an authenticated call gets a 401.
// Returning a non-empty token retries the call with it.
type UnauthorizedHandler func(ctx context.Context) (string, error)

// Client is the API client for the catalog backend
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. A client passed with WithHTTPClient is copied, not modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUnauthorizedHandler enables a single refresh-and-retry on 401
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string { return c.baseURL }

// request describes one API call
type request struct {
	method string
	path   string
	body   any
	auth   bool

	// used to build messages when the server sends none
	action              string
	subject             string
	unauthorizedMessage string
}

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:              http.MethodPost,
		path:                "/auth/login",
		body:                LoginRequest{Email: creds.Email, Password: creds.Password},
		action:              "log in",
		subject:             "user",
		unauthorizedMessage: "invalid email or password",
	})
}

// Refresh calls POST /auth/refresh
func (c *Client) Refresh(ctx context.Context, refreshToken string) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:              http.MethodPost,
		path:                "/auth/refresh",
		body:                RefreshRequest{RefreshToken: refreshToken},
		action:              "refresh session",
		subject:             "session",
		unauthorizedMessage: "session expired, please log in again",
	})
}

// Profile calls GET /auth/profile
func (c *Client) Profile(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/auth/profile",
		auth:    true,
		action:  "load profile",
		subject: "profile",
	})
}

// ListProducts calls GET /products with pagination parameters
func (c *Client) ListProducts(ctx context.Context, page, pageSize int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("page_number", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return c.do(ctx, request{
		method:  http.MethodGet,
		path:    "/products?" + q.Encode(),
		auth:    true,
		action:  "load products",
		subject: "products",
	})
}

// GetProduct calls GET /products/:id
func (c *Client) GetProduct(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:  http.MethodGet,
		path:    productPath(id),
		auth:    true,
		action:  "load product",
		subject: "product",
	})
}

// CreateProduct calls POST /products
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/products",
		body:    payload,
		auth:    true,
		action:  "create product",
		subject: "product",
	})
}

// UpdateProduct calls PUT /products/:id
func (c *Client) UpdateProduct(ctx context.Context, id string, payload ProductPayload) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:  http.MethodPut,
		path:    productPath(id),
		body:    payload,
		auth:    true,
		action:  "update product",
		subject: "product",
	})
}

// DeleteProduct calls DELETE /products/:id
func (c *Client) DeleteProduct(ctx context.Context, id string) (json.RawMessage, error) {
	return c.do(ctx, request{
		method:  http.MethodDelete,
		path:    productPath(id),
		auth:    true,
		action:  "delete product",
		subject: "product",
	})
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

// do sends r, retrying once through the unauthorized handler when configured
func (c *Client) do(ctx context.Context, r request) (json.RawMessage, error) {
	var body []byte
	if r.body != nil {
		var err error
		body, err = json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	token := ""
	if r.auth && c.tokens != nil {
		token = c.tokens.AccessToken()
	}

	raw, err := c.send(ctx, r, body, token)
	if err == nil || !r.auth || c.onUnauthorized == nil {
		return raw, err
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return nil, err
	}

	newToken, herr := c.onUnauthorized(ctx)
	if herr != nil || newToken == "" {
		slog.Debug("Token renewal failed, keeping original 401", "path", r.path, "error", herr)
		return nil, err
	}
	slog.Debug("Retrying with renewed token", "path", r.path, "token", logger.Redact(newToken))
	return c.send(ctx, r, body, newToken)
}

func (c *Client) send(ctx context.Context, r request, body []byte, token string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("API request failed", "method", r.method, "path", r.path, "error", err)
		return nil, c.transportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, err)
	}
	slog.Debug("API request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"token", logger.Redact(token),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(r, resp.StatusCode, data)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, &APIError{
			Kind:    domain.ErrRemote,
			Status:  resp.StatusCode,
			Message: "invalid response from backend",
		}
	}
	return json.RawMessage(data), nil
}
