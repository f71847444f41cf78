// ABOUTME: Product use cases, one type per business action
// ABOUTME: Each delegates to the product repository without adding behaviour

package usecase

import (
	"context"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// ListProducts loads one page of the catalog.
type ListProducts struct {
	repo domain.ProductRepository
}

func NewListProducts(repo domain.ProductRepository) *ListProducts {
	return &ListProducts{repo: repo}
}

func (uc *ListProducts) Execute(ctx context.Context, page, pageSize int) domain.Result[domain.ProductPage] {
	return uc.repo.List(ctx, page, pageSize)
}

// GetProduct loads one product.
type GetProduct struct {
	repo domain.ProductRepository
}

func NewGetProduct(repo domain.ProductRepository) *GetProduct {
	return &GetProduct{repo: repo}
}

func (uc *GetProduct) Execute(ctx context.Context, id string) (domain.Result[domain.Product], error) {
	return uc.repo.Get(ctx, id)
}

// CreateProduct adds a product.
type CreateProduct struct {
	repo domain.ProductRepository
}

func NewCreateProduct(repo domain.ProductRepository) *CreateProduct {
	return &CreateProduct{repo: repo}
}

func (uc *CreateProduct) Execute(ctx context.Context, input domain.ProductInput) (domain.Result[domain.Product], error) {
	return uc.repo.Create(ctx, input)
}

// UpdateProduct replaces a product's fields.
type UpdateProduct struct {
	repo domain.ProductRepository
}

func NewUpdateProduct(repo domain.ProductRepository) *UpdateProduct {
	return &UpdateProduct{repo: repo}
}

func (uc *UpdateProduct) Execute(ctx context.Context, id string, input domain.ProductInput) (domain.Result[domain.Product], error) {
	return uc.repo.Update(ctx, id, input)
}

// DeleteProduct removes a product.
type DeleteProduct struct {
	repo domain.ProductRepository
}

func NewDeleteProduct(repo domain.ProductRepository) *DeleteProduct {
	return &DeleteProduct{repo: repo}
}

func (uc *DeleteProduct) Execute(ctx context.Context, id string) (domain.Message, error) {
	return uc.repo.Delete(ctx, id)
}
