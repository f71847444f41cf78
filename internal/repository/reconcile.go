// ABOUTME: Builds the product returned by create/update
// ABOUTME: Uses the server's entity when present, otherwise reconstructs one from the input

package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/mapper"
)

// PlaceholderPrefix marks ids the client made up.
const PlaceholderPrefix = "temp-"

// Reconciler turns a mutation response into a product.
type Reconciler struct {
	NewID func() string
}

// NewReconciler returns a reconciler issuing time-ordered placeholder ids.
func NewReconciler() *Reconciler {
	return &Reconciler{NewID: placeholderID}
}

func placeholderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return PlaceholderPrefix + id.String()
}

// Reconcile maps fragment when the server returned an entity. Otherwise it
// rebuilds the product from input and reports that a refresh is needed.
// id is empty on create, in which case a placeholder id is issued.
func (r *Reconciler) Reconcile(id string, input domain.ProductInput, fragment gjson.Result) (domain.Product, bool, error) {
	if fragment.IsObject() {
		p, err := mapper.ProductToDomain(fragment)
		if err != nil {
			return domain.Product{}, false, err
		}
		return p, false, nil
	}

	// The rebuilt entity follows the same rules the mapper enforces on server entities
	stock := input.StockOrZero()
	if stock < 0 {
		return domain.Product{}, false, &domain.MappingError{Field: "stock", Reason: "must not be negative"}
	}
	if input.Price.IsNegative() {
		return domain.Product{}, false, &domain.MappingError{Field: "price", Reason: "must not be negative"}
	}

	if id == "" {
		id = r.NewID()
	}
	return domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       stock,
		ImageURL:    input.ImageURL,
	}, true, nil
}

// IsPlaceholder reports whether id was issued by a Reconciler.
func IsPlaceholder(id string) bool {
	return strings.HasPrefix(id, PlaceholderPrefix)
}
