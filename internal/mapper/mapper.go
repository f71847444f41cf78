// ABOUTME: Translates API payloads into domain entities and back
// ABOUTME: Pure functions over gjson results; the only silent default is stock null -> 0

package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/client"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// ProductToDomain maps one product object.
func ProductToDomain(raw gjson.Result) (domain.Product, error) {
	if !raw.IsObject() {
		return domain.Product{}, &domain.MappingError{Field: "product", Reason: "is not an object"}
	}

	id, err := requiredID(raw.Get("id"))
	if err != nil {
		return domain.Product{}, err
	}

	name := raw.Get("name")
	if name.Type != gjson.String || strings.TrimSpace(name.Str) == "" {
		return domain.Product{}, &domain.MappingError{Field: "name"}
	}

	price, err := priceOf(raw.Get("price"))
	if err != nil {
		return domain.Product{}, err
	}

	stock, err := stockOf(raw.Get("stock"))
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:          id,
		Name:        name.Str,
		Description: optionalString(raw.Get("description")),
		Price:       price,
		Stock:       stock,
		ImageURL:    optionalString(raw.Get("image_url")),
	}, nil
}

// ProductsToDomain maps an array of product objects.
func ProductsToDomain(raw gjson.Result) ([]domain.Product, error) {
	if !raw.IsArray() {
		return nil, &domain.MappingError{Field: "products", Reason: "is not a list"}
	}
	items := raw.Array()
	products := make([]domain.Product, 0, len(items))
	for i, item := range items {
		p, err := ProductToDomain(item)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// ProductToDTO converts a product to its documented wire shape.
func ProductToDTO(p domain.Product) client.ProductDTO {
	stock := p.Stock
	return client.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       &stock,
		ImageURL:    p.ImageURL,
	}
}

// InputToPayload builds the create/update request body.
func InputToPayload(in domain.ProductInput) client.ProductPayload {
	payload := client.ProductPayload{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
	}
	if url := strings.TrimSpace(in.ImageURL); url != "" {
		payload.ImageURL = &url
	}
	return payload
}

// UserToDomain maps a user object. Email is the only required field.
func UserToDomain(raw gjson.Result) (domain.User, error) {
	if !raw.IsObject() {
		return domain.User{}, &domain.MappingError{Field: "user", Reason: "is not an object"}
	}
	email := raw.Get("email")
	if email.Type != gjson.String || strings.TrimSpace(email.Str) == "" {
		return domain.User{}, &domain.MappingError{Field: "user.email"}
	}
	return domain.User{
		DNI:       raw.Get("dni").Int(),
		FirstName: firstOf(raw, "first_name", "firstName"),
		LastName:  firstOf(raw, "last_name", "lastName"),
		Email:     email.Str,
		Gender:    raw.Get("gender").Bool(),
	}, nil
}

// AuthResponseToDomain maps a login or refresh response.
func AuthResponseToDomain(raw gjson.Result) (domain.AuthResult, error) {
	access := raw.Get("token.access_token")
	if access.Type != gjson.String || access.Str == "" {
		return domain.AuthResult{}, &domain.MappingError{Field: "token.access_token"}
	}

	result := domain.AuthResult{
		AccessToken:  access.Str,
		RefreshToken: optionalString(raw.Get("token.refresh_token")),
	}

	if u := raw.Get("user"); u.Exists() && u.Type != gjson.Null {
		user, err := UserToDomain(u)
		if err != nil {
			return domain.AuthResult{}, err
		}
		result.User = &user
	}
	return result, nil
}

// PaginationToDomain maps the optional pagination block; nil when absent.
func PaginationToDomain(raw gjson.Result) *domain.Pagination {
	if !raw.IsObject() {
		return nil
	}
	return &domain.Pagination{
		PageNumber:   int(raw.Get("page_number").Int()),
		PageSize:     int(raw.Get("page_size").Int()),
		TotalPages:   int(raw.Get("total_pages").Int()),
		TotalRecords: int(raw.Get("total_records").Int()),
	}
}

func requiredID(v gjson.Result) (string, error) {
	switch v.Type {
	case gjson.String:
		if strings.TrimSpace(v.Str) != "" {
			return v.Str, nil
		}
	case gjson.Number:
		return v.String(), nil
	}
	return "", &domain.MappingError{Field: "id"}
}

func priceOf(v gjson.Result) (decimal.Decimal, error) {
	var s string
	switch v.Type {
	case gjson.Number:
		s = v.Raw
	case gjson.String:
		s = strings.TrimSpace(v.Str)
	default:
		return decimal.Decimal{}, &domain.MappingError{Field: "price"}
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &domain.MappingError{Field: "price", Reason: "is not a number"}
	}
	if price.IsNegative() {
		return decimal.Decimal{}, &domain.MappingError{Field: "price", Reason: "must not be negative"}
	}
	return price, nil
}

func stockOf(v gjson.Result) (int, error) {
	var n float64
	switch v.Type {
	case gjson.Null:
		// absent or explicit null
		return 0, nil
	case gjson.Number:
		n = v.Num
	case gjson.String:
		parsed, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, &domain.MappingError{Field: "stock", Reason: "must be an integer"}
		}
		n = float64(parsed)
	default:
		return 0, &domain.MappingError{Field: "stock", Reason: "must be an integer"}
	}
	if n != math.Trunc(n) {
		return 0, &domain.MappingError{Field: "stock", Reason: "must be an integer"}
	}
	if n < 0 {
		return 0, &domain.MappingError{Field: "stock", Reason: "must not be negative"}
	}
	return int(n), nil
}

func optionalString(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return ""
}

func firstOf(raw gjson.Result, paths ...string) string {
	for _, p := range paths {
		if s := optionalString(raw.Get(p)); s != "" {
			return s
		}
	}
	return ""
}
