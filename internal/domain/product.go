// ABOUTME: Product entity and the input shape used to create or update one
// ABOUTME: Prices are decimals, stock is always a non-negative integer once mapped

package domain

import "github.com/shopspring/decimal"

// Product is a catalog item as the rest of the client sees it.
type Product struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Stock       int             `json:"stock" yaml:"stock"`
	ImageURL    string          `json:"image_url" yaml:"image_url"`
}

// ProductInput carries the fields sent on create and update.
// A nil Stock means the caller did not supply one.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       *int
	ImageURL    string
}

// StockOrZero returns the supplied stock, or 0 when none was given.
func (in ProductInput) StockOrZero() int {
	if in.Stock == nil {
		return 0
	}
	return *in.Stock
}

// Pagination mirrors the pagination block some list responses include.
type Pagination struct {
	PageNumber   int `json:"page_number" yaml:"page_number"`
	PageSize     int `json:"page_size" yaml:"page_size"`
	TotalPages   int `json:"total_pages" yaml:"total_pages"`
	TotalRecords int `json:"total_records" yaml:"total_records"`
}

// ProductPage is one page of products. Pagination is nil when the API did not send it.
type ProductPage struct {
	Items      []Product   `json:"products" yaml:"products"`
	Pagination *Pagination `json:"pagination,omitempty" yaml:"pagination,omitempty"`
}

// Equal compares products field by field, prices by value.
func (p Product) Equal(o Product) bool {
	return p.ID == o.ID &&
		p.Name == o.Name &&
		p.Description == o.Description &&
		p.Price.Equal(o.Price) &&
		p.Stock == o.Stock &&
		p.ImageURL == o.ImageURL
}
