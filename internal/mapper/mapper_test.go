// ABOUTME: Tests for wire-to-domain mapping
// ABOUTME: Covers products, pages, users and rejection of malformed entities

package mapper

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

func TestProductToDomain(t *testing.T) {
	p, err := ProductToDomain(gjson.Parse(`{
		"id": "p1",
		"name": "Paracetamol 500mg",
		"description": "Caja x 100",
		"price": 12.5,
		"stock": 40,
		"image_url": "https://cdn.example.com/p1.png"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Paracetamol 500mg", p.Name)
	assert.Equal(t, "Caja x 100", p.Description)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, 40, p.Stock)
	assert.Equal(t, "https://cdn.example.com/p1.png", p.ImageURL)
}

func TestProductToDomain_Defaults(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"stock null", `{"id":"p1","name":"A","price":1,"stock":null}`},
		{"stock absent", `{"id":"p1","name":"A","price":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProductToDomain(gjson.Parse(tt.json))
			require.NoError(t, err)
			assert.Equal(t, 0, p.Stock)
			assert.Empty(t, p.Description)
			assert.Empty(t, p.ImageURL)
		})
	}
}

func TestProductToDomain_AcceptedVariants(t *testing.T) {
	p, err := ProductToDomain(gjson.Parse(`{"id":42,"name":"A","price":"7.90","stock":"3"}`))
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("7.9")))
	assert.Equal(t, 3, p.Stock)
}

func TestProductToDomain_Errors(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		field string
	}{
		{"not an object", `[1]`, "product"},
		{"missing id", `{"name":"A","price":1}`, "id"},
		{"empty id", `{"id":"","name":"A","price":1}`, "id"},
		{"missing name", `{"id":"p1","price":1}`, "name"},
		{"missing price", `{"id":"p1","name":"A"}`, "price"},
		{"bad price", `{"id":"p1","name":"A","price":"abc"}`, "price"},
		{"negative price", `{"id":"p1","name":"A","price":-1}`, "price"},
		{"negative stock", `{"id":"p1","name":"A","price":1,"stock":-2}`, "stock"},
		{"fractional stock", `{"id":"p1","name":"A","price":1,"stock":1.5}`, "stock"},
		{"bool stock", `{"id":"p1","name":"A","price":1,"stock":true}`, "stock"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProductToDomain(gjson.Parse(tt.json))
			require.ErrorIs(t, err, domain.ErrMapping)
			var me *domain.MappingError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.field, me.Field)
		})
	}
}

func TestProductsToDomain(t *testing.T) {
	products, err := ProductsToDomain(gjson.Parse(`[
		{"id":"p1","name":"A","price":1,"stock":null},
		{"id":"p2","name":"B","price":2,"stock":5}
	]`))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 0, products[0].Stock)
	assert.Equal(t, 5, products[1].Stock)

	empty, err := ProductsToDomain(gjson.Parse(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = ProductsToDomain(gjson.Parse(`[{"id":"p1","name":"A","price":1},{"name":"B"}]`))
	assert.ErrorIs(t, err, domain.ErrMapping)
	assert.Contains(t, err.Error(), "product 1")

	_, err = ProductsToDomain(gjson.Parse(`{"id":"p1"}`))
	assert.ErrorIs(t, err, domain.ErrMapping)
}

func TestProductRoundTrip(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "Ibuprofeno", Description: "400mg", Price: decimal.RequireFromString("3.50"), Stock: 12, ImageURL: "https://x/y.png"},
		{ID: "p2", Name: "Gasa", Price: decimal.Zero, Stock: 0},
		{ID: "99", Name: "Alcohol", Price: decimal.RequireFromString("1234.567"), Stock: 100000},
	}
	for _, p := range products {
		t.Run(p.ID, func(t *testing.T) {
			data, err := json.Marshal(ProductToDTO(p))
			require.NoError(t, err)

			back, err := ProductToDomain(gjson.ParseBytes(data))
			require.NoError(t, err)
			assert.True(t, p.Equal(back), "round trip changed product: %+v -> %+v", p, back)
		})
	}
}

func TestInputToPayload(t *testing.T) {
	stock := 0
	payload := InputToPayload(domain.ProductInput{
		Name:     "  Jarabe ",
		Price:    decimal.NewFromInt(9),
		Stock:    &stock,
		ImageURL: " ",
	})
	assert.Equal(t, "Jarabe", payload.Name)
	require.NotNil(t, payload.Stock)
	assert.Equal(t, 0, *payload.Stock)
	assert.Nil(t, payload.ImageURL)

	data, err := json.Marshal(InputToPayload(domain.ProductInput{Name: "X", Price: decimal.NewFromInt(1)}))
	require.NoError(t, err)
	body := gjson.ParseBytes(data)
	assert.Equal(t, gjson.Null, body.Get("stock").Type)
	assert.True(t, body.Get("stock").Exists())
	assert.True(t, body.Get("image_url").Exists())

	withURL := InputToPayload(domain.ProductInput{Name: "X", ImageURL: "https://img"})
	require.NotNil(t, withURL.ImageURL)
	assert.Equal(t, "https://img", *withURL.ImageURL)
}

func TestUserToDomain(t *testing.T) {
	u, err := UserToDomain(gjson.Parse(`{"dni":71234567,"first_name":"Ana","last_name":"Quispe","email":"ana@siria.pe","gender":true}`))
	require.NoError(t, err)
	assert.Equal(t, domain.User{DNI: 71234567, FirstName: "Ana", LastName: "Quispe", Email: "ana@siria.pe", Gender: true}, u)

	camel, err := UserToDomain(gjson.Parse(`{"firstName":"Ana","lastName":"Q","email":"a@b.c"}`))
	require.NoError(t, err)
	assert.Equal(t, "Ana", camel.FirstName)
	assert.Equal(t, "Q", camel.LastName)

	_, err = UserToDomain(gjson.Parse(`{"first_name":"Ana"}`))
	var me *domain.MappingError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "user.email", me.Field)
}

func TestAuthResponseToDomain(t *testing.T) {
	t.Run("without user", func(t *testing.T) {
		auth, err := AuthResponseToDomain(gjson.Parse(`{"meta":{"status":true},"token":{"access_token":"AT1","refresh_token":"RT1"}}`))
		require.NoError(t, err)
		assert.Equal(t, "AT1", auth.AccessToken)
		assert.Equal(t, "RT1", auth.RefreshToken)
		assert.Nil(t, auth.User)
	})

	t.Run("with user", func(t *testing.T) {
		auth, err := AuthResponseToDomain(gjson.Parse(`{"token":{"access_token":"AT1"},"user":{"email":"a@b.c","first_name":"Ana"}}`))
		require.NoError(t, err)
		assert.Empty(t, auth.RefreshToken)
		require.NotNil(t, auth.User)
		assert.Equal(t, "a@b.c", auth.User.Email)
	})

	t.Run("null user", func(t *testing.T) {
		auth, err := AuthResponseToDomain(gjson.Parse(`{"token":{"access_token":"AT1"},"user":null}`))
		require.NoError(t, err)
		assert.Nil(t, auth.User)
	})

	t.Run("missing access token", func(t *testing.T) {
		_, err := AuthResponseToDomain(gjson.Parse(`{"token":{"refresh_token":"RT1"}}`))
		var me *domain.MappingError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "token.access_token", me.Field)
	})

	t.Run("malformed user", func(t *testing.T) {
		_, err := AuthResponseToDomain(gjson.Parse(`{"token":{"access_token":"AT1"},"user":{"first_name":"Ana"}}`))
		assert.ErrorIs(t, err, domain.ErrMapping)
	})
}

func TestPaginationToDomain(t *testing.T) {
	p := PaginationToDomain(gjson.Parse(`{"page_number":2,"page_size":10,"total_pages":5,"total_records":48}`))
	require.NotNil(t, p)
	assert.Equal(t, domain.Pagination{PageNumber: 2, PageSize: 10, TotalPages: 5, TotalRecords: 48}, *p)

	assert.Nil(t, PaginationToDomain(gjson.Parse(`{}`).Get("pagination")))
	assert.Nil(t, PaginationToDomain(gjson.Parse(`null`)))
}
