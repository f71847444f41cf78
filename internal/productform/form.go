// ABOUTME: Parses and validates the product and login forms
// ABOUTME: Field rules are validator tags; errors name the form field that failed

package productform

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// Values are the raw product form inputs.
type Values struct {
	Name        string `form:"name" validate:"required,max=120"`
	Description string `form:"description" validate:"max=1000"`
	Price       string `form:"price" validate:"required,price"`
	Stock       string `form:"stock" validate:"omitempty,stock"`
	ImageURL    string `form:"image_url" validate:"omitempty,url"`
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed field. It wraps domain.ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	})
	v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	v.RegisterValidation("stock", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 0
	})
	return v
}

// Parse validates v and converts it to a product input.
// An empty stock becomes nil so it is sent as null.
func Parse(v Values) (domain.ProductInput, error) {
	v = trimmed(v)
	if err := validate.Struct(v); err != nil {
		return domain.ProductInput{}, toValidationError(err)
	}

	price, _ := decimal.NewFromString(v.Price)
	input := domain.ProductInput{
		Name:        v.Name,
		Description: v.Description,
		Price:       price,
		ImageURL:    v.ImageURL,
	}
	if v.Stock != "" {
		n, _ := strconv.Atoi(v.Stock)
		input.Stock = &n
	}
	return input, nil
}

// FromProduct pre-fills the form for editing p.
func FromProduct(p domain.Product) Values {
	return Values{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Stock:       strconv.Itoa(p.Stock),
		ImageURL:    p.ImageURL,
	}
}

// ValidateField checks one value against the rules of the named field.
// It backs inline validation in interactive forms.
func ValidateField(field, value string) error {
	tag, ok := fieldTags[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	if err := validate.Var(strings.TrimSpace(value), tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(message(verrs[0]))
		}
		return err
	}
	return nil
}

var fieldTags = func() map[string]string {
	tags := map[string]string{}
	t := reflect.TypeOf(Values{})
	for i := range t.NumField() {
		f := t.Field(i)
		tags[f.Tag.Get("form")] = f.Tag.Get("validate")
	}
	t = reflect.TypeOf(Login{})
	for i := range t.NumField() {
		f := t.Field(i)
		tags[f.Tag.Get("form")] = f.Tag.Get("validate")
	}
	return tags
}()

func trimmed(v Values) Values {
	return Values{
		Name:        strings.TrimSpace(v.Name),
		Description: strings.TrimSpace(v.Description),
		Price:       strings.TrimSpace(v.Price),
		Stock:       strings.TrimSpace(v.Stock),
		ImageURL:    strings.TrimSpace(v.ImageURL),
	}
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, e := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// message returns a human-readable validation message
func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "url":
		return "invalid URL format"
	case "price":
		return "must be a non-negative number"
	case "stock":
		return "must be a non-negative whole number"
	default:
		return "invalid value"
	}
}
