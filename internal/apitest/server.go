// ABOUTME: In-memory fake of the catalog REST API for tests
// ABOUTME: Serves the auth and product routes with configurable response shapes

package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/client"
)

// Default credentials accepted by the fake.
const (
	Email    = "admin@siria.pe"
	Password = "secret"
)

// ListShape selects how GET /products wraps the product array.
type ListShape int

const (
	ShapeNestedData ListShape = iota // {"data":{"products":[...]}}
	ShapeFlat                        // {"products":[...]}
	ShapeDataArray                   // {"data":[...]}
	ShapeRaw                         // [...]
	ShapeUnknown                     // {"items":[...]}
)

// Route defines a fake endpoint with its HTTP method and handler.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

type failure struct {
	status int
	body   string
}

// Server is a fake catalog API.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	listShape    ListShape
	omitEntity   bool
	includeUser  bool
	products     []client.ProductDTO
	nextID       int
	tokenSeq     int
	accessToken  string
	refreshToken string
	requests     []string
	failures     map[string]failure
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	s := &Server{
		accessToken:  "AT1",
		refreshToken: "RT1",
		tokenSeq:     1,
		nextID:       1,
		failures:     map[string]failure{},
		includeUser:  true,
	}

	mux := http.NewServeMux()
	for _, r := range s.Routes() {
		mux.HandleFunc(r.Method+" "+r.Path, r.Handler)
	}
	s.Server = httptest.NewServer(s.record(mux))
	t.Cleanup(s.Close)
	return s
}

// Routes returns the fake's route table.
func (s *Server) Routes() []Route {
	return []Route{
		{Method: http.MethodPost, Path: "/auth/login", Handler: s.login},
		{Method: http.MethodPost, Path: "/auth/refresh", Handler: s.refresh},
		{Method: http.MethodGet, Path: "/auth/profile", Handler: s.authed(s.profile)},
		{Method: http.MethodGet, Path: "/products", Handler: s.authed(s.listProducts)},
		{Method: http.MethodPost, Path: "/products", Handler: s.authed(s.createProduct)},
		{Method: http.MethodGet, Path: "/products/{id}", Handler: s.authed(s.getProduct)},
		{Method: http.MethodPut, Path: "/products/{id}", Handler: s.authed(s.updateProduct)},
		{Method: http.MethodDelete, Path: "/products/{id}", Handler: s.authed(s.deleteProduct)},
	}
}

// SetListShape selects the wrapping used by GET /products.
func (s *Server) SetListShape(shape ListShape) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listShape = shape
}

// SetOmitEntity makes create/update confirm without returning the product.
func (s *Server) SetOmitEntity(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitEntity = omit
}

// SetIncludeUser controls whether login/refresh responses carry the user block.
func (s *Server) SetIncludeUser(include bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.includeUser = include
}

// Seed adds products, assigning ids to those without one.
func (s *Server) Seed(products ...client.ProductDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if p.ID == "" {
			p.ID = s.newIDLocked()
		}
		s.products = append(s.products, p)
	}
}

// Products returns a snapshot of the stored products.
func (s *Server) Products() []client.ProductDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.ProductDTO(nil), s.products...)
}

// Requests returns "METHOD path" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Tokens returns the currently valid access and refresh tokens.
func (s *Server) Tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

// ExpireAccessToken invalidates the current access token, keeping the refresh token.
func (s *Server) ExpireAccessToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = "expired-" + s.accessToken
}

// FailNext makes the next request matching "METHOD /path" answer status with body.
func (s *Server) FailNext(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, body: body}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.requests = append(s.requests, key)
		f, injected := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if injected {
			w.WriteHeader(f.status)
			w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		valid := ok && token == s.accessToken
		s.mu.Unlock()
		if !valid {
			writeError(w, "Token invalid or expired", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req client.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email != Email || req.Password != Password {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	s.writeAuth(w)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req client.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	valid := req.RefreshToken == s.refreshToken
	if valid {
		s.tokenSeq++
		s.accessToken = fmt.Sprintf("AT%d", s.tokenSeq)
		s.refreshToken = fmt.Sprintf("RT%d", s.tokenSeq)
	}
	s.mu.Unlock()
	if !valid {
		writeError(w, "Refresh token invalid", http.StatusUnauthorized)
		return
	}
	s.writeAuth(w)
}

func (s *Server) writeAuth(w http.ResponseWriter) {
	s.mu.Lock()
	resp := client.AuthResponse{
		Meta:  client.Meta{Status: true, Message: "Login successful"},
		Token: client.TokenDTO{AccessToken: s.accessToken, RefreshToken: s.refreshToken},
	}
	if s.includeUser {
		resp.User = defaultUser()
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"meta": client.Meta{Status: true},
		"data": defaultUser(),
	})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page_number", 1)
	size := queryInt(r, "page_size", 10)

	s.mu.Lock()
	all := append([]client.ProductDTO(nil), s.products...)
	shape := s.listShape
	s.mu.Unlock()

	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))
	items := all[start:end]
	pagination := map[string]int{
		"page_number":   page,
		"page_size":     size,
		"total_pages":   (len(all) + size - 1) / size,
		"total_records": len(all),
	}
	meta := client.Meta{Status: true, Message: "Products found"}

	switch shape {
	case ShapeNestedData:
		writeJSON(w, http.StatusOK, map[string]any{
			"meta": meta,
			"data": map[string]any{"products": items, "pagination": pagination},
		})
	case ShapeFlat:
		writeJSON(w, http.StatusOK, map[string]any{"meta": meta, "products": items, "pagination": pagination})
	case ShapeDataArray:
		writeJSON(w, http.StatusOK, map[string]any{"meta": meta, "data": items})
	case ShapeRaw:
		writeJSON(w, http.StatusOK, items)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"meta": meta, "items": items})
	}
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.indexLocked(r.PathValue("id"))
	var p client.ProductDTO
	if i >= 0 {
		p = s.products[i]
	}
	s.mu.Unlock()
	if i < 0 {
		writeError(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meta": client.Meta{Status: true}, "data": p})
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	for _, existing := range s.products {
		if strings.EqualFold(existing.Name, payload.Name) {
			s.mu.Unlock()
			writeError(w, "Product already exists", http.StatusConflict)
			return
		}
	}
	p := fromPayload(s.newIDLocked(), payload)
	s.products = append(s.products, p)
	s.mu.Unlock()

	s.writeMutation(w, http.StatusCreated, "Product created", p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePayload(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		writeError(w, "Product not found", http.StatusNotFound)
		return
	}
	p := fromPayload(id, payload)
	s.products[i] = p
	s.mu.Unlock()

	s.writeMutation(w, http.StatusOK, "Product updated", p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	i := s.indexLocked(r.PathValue("id"))
	if i >= 0 {
		s.products = append(s.products[:i], s.products[i+1:]...)
	}
	s.mu.Unlock()
	if i < 0 {
		writeError(w, "Product not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"meta": client.Meta{Status: true, Message: "Product deleted"}})
}

func (s *Server) writeMutation(w http.ResponseWriter, status int, message string, p client.ProductDTO) {
	body := map[string]any{"meta": client.Meta{Status: true, Message: message}}
	s.mu.Lock()
	omit := s.omitEntity
	s.mu.Unlock()
	if !omit {
		body["data"] = p
	}
	writeJSON(w, status, body)
}

func (s *Server) indexLocked(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) newIDLocked() string {
	id := "p" + strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

func decodePayload(w http.ResponseWriter, r *http.Request) (client.ProductPayload, bool) {
	var payload client.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return payload, false
	}
	if strings.TrimSpace(payload.Name) == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return payload, false
	}
	if payload.Price.LessThan(decimal.Zero) {
		writeError(w, "price must not be negative", http.StatusBadRequest)
		return payload, false
	}
	return payload, true
}

func fromPayload(id string, payload client.ProductPayload) client.ProductDTO {
	p := client.ProductDTO{
		ID:          id,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
	}
	if payload.ImageURL != nil {
		p.ImageURL = *payload.ImageURL
	}
	return p
}

func defaultUser() *client.UserDTO {
	return &client.UserDTO{DNI: 71234567, FirstName: "Ana", LastName: "Quispe", Email: Email, Gender: true}
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]any{
		"meta": client.Meta{Status: false, Message: message},
	})
}
