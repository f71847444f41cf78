// ABOUTME: Product repository over the HTTP datasource
// ABOUTME: Normalizes list shapes and wraps every outcome in a result envelope

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/client"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/mapper"
)

// Default messages when the server sends none.
const (
	MsgListed   = "products retrieved successfully"
	MsgFetched  = "product retrieved successfully"
	MsgCreated  = "product created successfully"
	MsgUpdated  = "product updated successfully"
	MsgDeleted  = "product deleted successfully"
	MsgReauth   = "not authorized, please log in again"
	msgBadPage  = "page and page size must be at least 1"
	msgNotFound = "product not found"
)

// ProductDataSource is the subset of the API client the repository needs.
type ProductDataSource interface {
	ListProducts(ctx context.Context, page, pageSize int) (json.RawMessage, error)
	GetProduct(ctx context.Context, id string) (json.RawMessage, error)
	CreateProduct(ctx context.Context, payload client.ProductPayload) (json.RawMessage, error)
	UpdateProduct(ctx context.Context, id string, payload client.ProductPayload) (json.RawMessage, error)
	DeleteProduct(ctx context.Context, id string) (json.RawMessage, error)
}

// ProductRepository implements domain.ProductRepository.
type ProductRepository struct {
	remote     ProductDataSource
	policy     ShapePolicy
	reconciler *Reconciler
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

// Option configures a ProductRepository.
type Option func(*ProductRepository)

// WithShapePolicy sets how unrecognized list bodies are treated.
func WithShapePolicy(p ShapePolicy) Option {
	return func(r *ProductRepository) { r.policy = p }
}

// WithReconciler replaces the default reconciler.
func WithReconciler(rc *Reconciler) Option {
	return func(r *ProductRepository) { r.reconciler = rc }
}

// NewProductRepository creates a product repository over remote.
func NewProductRepository(remote ProductDataSource, opts ...Option) *ProductRepository {
	r := &ProductRepository{
		remote:     remote,
		policy:     ShapePolicyEmpty,
		reconciler: NewReconciler(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List fetches one page. Failures are reported in the envelope, never as an error.
func (r *ProductRepository) List(ctx context.Context, page, pageSize int) domain.Result[domain.ProductPage] {
	if page < 1 || pageSize < 1 {
		return domain.Failed[domain.ProductPage](msgBadPage)
	}

	raw, err := r.remote.ListProducts(ctx, page, pageSize)
	if err != nil {
		slog.Debug("List products failed", "page", page, "error", err)
		res := domain.Failed[domain.ProductPage](failureMessage(err))
		res.Reauth = domain.ReauthRequired(err)
		return res
	}

	body := gjson.ParseBytes(raw)
	status, message := meta(body, MsgListed)
	if !status {
		return domain.Failed[domain.ProductPage](message)
	}

	items, shape, ok := matchShape(body)
	if !ok {
		if r.policy == ShapePolicyStrict {
			err := &domain.MappingError{Field: "products", Reason: "not found in response"}
			slog.Warn("Unrecognized product list response", "policy", r.policy.String())
			return domain.Failed[domain.ProductPage](err.Error())
		}
		slog.Debug("Unrecognized product list response, treating as empty")
		return domain.OK(domain.ProductPage{Items: []domain.Product{}}, message)
	}

	products, err := mapper.ProductsToDomain(items)
	if err != nil {
		return domain.Failed[domain.ProductPage](err.Error())
	}
	slog.Debug("Listed products", "shape", shape, "count", len(products))

	return domain.OK(domain.ProductPage{
		Items:      products,
		Pagination: paginationOf(body),
	}, message)
}

// Get fetches one product by id.
func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Result[domain.Product], error) {
	raw, err := r.remote.GetProduct(ctx, id)
	if err != nil {
		return domain.Result[domain.Product]{}, operationError("get", err)
	}

	body := gjson.ParseBytes(raw)
	status, message := meta(body, MsgFetched)
	if !status {
		return domain.Result[domain.Product]{}, rejected("get", message)
	}

	entity := body.Get("data")
	if !entity.IsObject() {
		entity = body
	}
	if !entity.Get("id").Exists() {
		return domain.Result[domain.Product]{}, &domain.OperationError{Op: "get", Message: msgNotFound, Err: domain.ErrNotFound}
	}
	p, err := mapper.ProductToDomain(entity)
	if err != nil {
		return domain.Result[domain.Product]{}, operationError("get", err)
	}
	return domain.OK(p, message), nil
}

// Create sends input without validating it.
func (r *ProductRepository) Create(ctx context.Context, input domain.ProductInput) (domain.Result[domain.Product], error) {
	raw, err := r.remote.CreateProduct(ctx, mapper.InputToPayload(input))
	if err != nil {
		return domain.Result[domain.Product]{}, operationError("create", err)
	}
	return r.reconcile("create", "", input, raw, MsgCreated)
}

// Update sends input for id without validating it.
func (r *ProductRepository) Update(ctx context.Context, id string, input domain.ProductInput) (domain.Result[domain.Product], error) {
	raw, err := r.remote.UpdateProduct(ctx, id, mapper.InputToPayload(input))
	if err != nil {
		return domain.Result[domain.Product]{}, operationError("update", err)
	}
	return r.reconcile("update", id, input, raw, MsgUpdated)
}

// Delete removes the product with id.
func (r *ProductRepository) Delete(ctx context.Context, id string) (domain.Message, error) {
	raw, err := r.remote.DeleteProduct(ctx, id)
	if err != nil {
		return domain.Message{}, operationError("delete", err)
	}
	status, message := meta(gjson.ParseBytes(raw), MsgDeleted)
	if !status {
		return domain.Message{}, rejected("delete", message)
	}
	return domain.Message{Status: true, Message: message}, nil
}

func (r *ProductRepository) reconcile(op, id string, input domain.ProductInput, raw json.RawMessage, fallback string) (domain.Result[domain.Product], error) {
	body := gjson.ParseBytes(raw)
	status, message := meta(body, fallback)
	if !status {
		return domain.Result[domain.Product]{}, rejected(op, message)
	}

	p, needsRefresh, err := r.reconciler.Reconcile(id, input, body.Get("data"))
	if err != nil {
		return domain.Result[domain.Product]{}, operationError(op, err)
	}
	if needsRefresh {
		slog.Debug("Product reconstructed from input", "op", op, "id", p.ID)
	}

	result := domain.OK(p, message)
	result.NeedsRefresh = needsRefresh
	return result, nil
}

// meta reads meta.status and meta.message, defaulting to success with fallback.
func meta(body gjson.Result, fallback string) (bool, string) {
	status := true
	if s := body.Get("meta.status"); s.Exists() && s.Type != gjson.Null {
		status = s.Bool()
	}
	message := body.Get("meta.message").String()
	if message == "" {
		if status {
			message = fallback
		} else {
			message = "the server rejected the request"
		}
	}
	return status, message
}

func paginationOf(body gjson.Result) *domain.Pagination {
	for _, path := range []string{"pagination", "data.pagination", "meta.pagination"} {
		if p := mapper.PaginationToDomain(body.Get(path)); p != nil {
			return p
		}
	}
	return nil
}

// failureMessage is what the user sees for err.
func failureMessage(err error) string {
	if errors.Is(err, domain.ErrUnauthorized) {
		return MsgReauth
	}
	return err.Error()
}

func operationError(op string, err error) error {
	return &domain.OperationError{Op: op, Message: failureMessage(err), Err: err}
}

// rejected is a 2xx response whose meta.status is false.
func rejected(op, message string) error {
	return &domain.OperationError{Op: op, Message: message, Err: domain.ErrRemote}
}
