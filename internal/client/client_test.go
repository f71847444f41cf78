// ABOUTME: Tests for the catalog API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("expected path /auth/login, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login must be anonymous, got Authorization %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Email != "a@b.c" || req.Password != "pw" {
			t.Errorf("unexpected credentials %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AuthResponse{
			Meta:  Meta{Status: true},
			Token: TokenDTO{AccessToken: "AT1", RefreshToken: "RT1"},
		})
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("should-not-be-sent")))
	raw, err := c.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp AuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("unexpected body: %v", err)
	}
	if resp.Token.AccessToken != "AT1" {
		t.Errorf("expected AT1, got %s", resp.Token.AccessToken)
	}
}

func TestLogin_InvalidCredentialsDefaultMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "bad"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err.Error() != "invalid email or password" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestListProducts_SendsBearerAndPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("expected path /products, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page_number"); got != "2" {
			t.Errorf("expected page_number 2, got %s", got)
		}
		if got := r.URL.Query().Get("page_size"); got != "25" {
			t.Errorf("expected page_size 25, got %s", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer AT1" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Write([]byte(`{"products":[]}`))
	}))
	defer server.Close()

	c := New(server.URL, WithTokenSource(staticToken("AT1")))
	raw, err := c.ListProducts(context.Background(), 2, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"products":[]}` {
		t.Errorf("unexpected body %s", raw)
	}
}

func TestProductPaths(t *testing.T) {
	var mu sync.Mutex
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotMethod, gotPath = r.Method, r.URL.EscapedPath()
		mu.Unlock()
		w.Write([]byte(`{"meta":{"status":true}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()
	payload := ProductPayload{Name: "Ibuprofeno", Price: decimal.RequireFromString("3.5")}

	tests := []struct {
		name       string
		call       func() error
		wantMethod string
		wantPath   string
	}{
		{"get", func() error { _, err := c.GetProduct(ctx, "p1"); return err }, http.MethodGet, "/products/p1"},
		{"create", func() error { _, err := c.CreateProduct(ctx, payload); return err }, http.MethodPost, "/products"},
		{"update", func() error { _, err := c.UpdateProduct(ctx, "p1", payload); return err }, http.MethodPut, "/products/p1"},
		{"delete", func() error { _, err := c.DeleteProduct(ctx, "p1"); return err }, http.MethodDelete, "/products/p1"},
		{"escaped id", func() error { _, err := c.GetProduct(ctx, "a/b"); return err }, http.MethodGet, "/products/a%2Fb"},
		{"profile", func() error { _, err := c.Profile(ctx); return err }, http.MethodGet, "/auth/profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			mu.Lock()
			defer mu.Unlock()
			if gotMethod != tt.wantMethod || gotPath != tt.wantPath {
				t.Errorf("expected %s %s, got %s %s", tt.wantMethod, tt.wantPath, gotMethod, gotPath)
			}
		})
	}
}

func TestCreateProduct_NullableFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if v, ok := body["stock"]; !ok || v != nil {
			t.Errorf("expected stock null, got %v (present %v)", v, ok)
		}
		if v, ok := body["image_url"]; !ok || v != nil {
			t.Errorf("expected image_url null, got %v (present %v)", v, ok)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"meta":{"status":true}}`))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.CreateProduct(context.Background(), ProductPayload{Name: "X", Price: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    error
		wantMessage string
	}{
		{"validation with meta message", 400, `{"meta":{"status":false,"message":"name is required"}}`, domain.ErrValidation, "name is required"},
		{"validation default", 400, ``, domain.ErrValidation, "invalid data, check the fields"},
		{"unauthorized", 401, `{}`, domain.ErrUnauthorized, "not authorized, please log in again"},
		{"not found", 404, `{"message":"no such product"}`, domain.ErrNotFound, "no such product"},
		{"not found default", 404, ``, domain.ErrNotFound, "product not found"},
		{"conflict", 409, ``, domain.ErrConflict, "product already exists or conflicts with existing data"},
		{"error field", 500, `{"error":"database down"}`, domain.ErrRemote, "database down"},
		{"plain text", 502, `bad gateway`, domain.ErrRemote, "bad gateway"},
		{"html ignored", 503, `<html><body>oops</body></html>`, domain.ErrRemote, "failed to load product (status 503)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL).GetProduct(context.Background(), "p1")
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("expected %v, got %v", tt.wantKind, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, apiErr.Message)
			}
		})
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	_, err := New(server.URL).ListProducts(context.Background(), 1, 10)
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestEmptySuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	raw, err := New(server.URL).DeleteProduct(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("expected empty object, got %s", raw)
	}
}

func TestConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.ListProducts(context.Background(), 1, 10)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !strings.Contains(err.Error(), "cannot connect to backend") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Profile(ctx)
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
	if err.Error() != "request canceled" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := New(server.URL).Profile(ctx)
	if err == nil || err.Error() != "request timed out" {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestUnauthorizedHandler_RetriesOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer AT2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"products":[]}`))
	}))
	defer server.Close()

	var renewals int
	c := New(server.URL,
		WithTokenSource(staticToken("AT1")),
		WithUnauthorizedHandler(func(ctx context.Context) (string, error) {
			renewals++
			return "AT2", nil
		}),
	)

	if _, err := c.ListProducts(context.Background(), 1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renewals != 1 {
		t.Errorf("expected 1 renewal, got %d", renewals)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 requests, got %d", calls.Load())
	}
}

func TestUnauthorizedHandler_FailureKeepsOriginalError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL,
		WithTokenSource(staticToken("AT1")),
		WithUnauthorizedHandler(func(ctx context.Context) (string, error) {
			return "", domain.ErrNotAuthenticated
		}),
	)

	_, err := c.DeleteProduct(context.Background(), "p1")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected no retry, got %d requests", calls.Load())
	}
}

func TestUnauthorizedHandler_SecondFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var renewals int
	c := New(server.URL,
		WithTokenSource(staticToken("AT1")),
		WithUnauthorizedHandler(func(ctx context.Context) (string, error) {
			renewals++
			return "AT2", nil
		}),
	)

	_, err := c.Profile(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if renewals != 1 || calls.Load() != 2 {
		t.Errorf("expected 1 renewal and 2 requests, got %d and %d", renewals, calls.Load())
	}
}

func TestUnauthorizedHandler_NotUsedForLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL, WithUnauthorizedHandler(func(ctx context.Context) (string, error) {
		t.Error("handler must not run for anonymous calls")
		return "", nil
	}))
	if _, err := c.Login(context.Background(), domain.Credentials{}); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestWithTimeout(t *testing.T) {
	c := New("http://example.invalid", WithTimeout(5*time.Second))
	if c.httpClient.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", c.httpClient.Timeout)
	}
	if New("http://example.invalid").httpClient.Timeout != defaultTimeout {
		t.Error("expected default timeout")
	}
}

func TestWithTimeout_DoesNotModifySharedClient(t *testing.T) {
	shared := &http.Client{Timeout: 5 * time.Second}

	c := New("http://example.invalid", WithHTTPClient(shared), WithTimeout(2*time.Second))

	if shared.Timeout != 5*time.Second {
		t.Errorf("expected shared client timeout to stay 5s, got %v", shared.Timeout)
	}
	if c.httpClient.Timeout != 2*time.Second {
		t.Errorf("expected client timeout 2s, got %v", c.httpClient.Timeout)
	}
	if c.httpClient == shared {
		t.Error("expected a copy of the shared client")
	}
}
