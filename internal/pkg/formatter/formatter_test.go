package formatter

import (
	"encoding/json"
	"testing"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productJSON = `{
  "data": {
    "id": "p-7",
    "type": "product",
    "name": "Salmon",
    "description": "Fresh atlantic salmon",
    "meta": {
      "display_price": {
        "with_tax": {"amount": 1250, "currency": "USD", "formatted": "$12.50"},
        "without_tax": {"amount": 1000, "currency": "USD", "formatted": "$10.00"}
      },
      "stock": {"level": 14, "availability": "in-stock"}
    },
    "relationships": {
      "main_image": {"data": {"type": "main_image", "id": "img-1"}}
    }
  }
}`

const cartJSON = `{
  "data": [
    {
      "id": "li-2", "type": "cart_item", "product_id": "p-2", "name": "Trout",
      "description": "River trout", "quantity": 5,
      "meta": {"display_price": {"with_tax": {
        "unit": {"amount": 300, "formatted": "$3.00"},
        "value": {"amount": 1500, "formatted": "$15.00"}}}}
    },
    {
      "id": "li-1", "type": "cart_item", "product_id": "p-1", "name": "Salmon",
      "description": "Fresh atlantic salmon", "quantity": 1,
      "meta": {"display_price": {"with_tax": {
        "unit": {"amount": 1250, "formatted": "$12.50"},
        "value": {"amount": 1250, "formatted": "$12.50"}}}}
    }
  ],
  "meta": {"display_price": {"with_tax": {"amount": 2750, "formatted": "$27.50"}}}
}`

func TestFormatProduct(t *testing.T) {
	var raw entity.ProductResponse
	require.NoError(t, json.Unmarshal([]byte(productJSON), &raw))

	desc := FormatProduct(&raw)

	assert.Equal(t, entity.ProductDescription{
		ID:          "p-7",
		Name:        "Salmon",
		Description: "Fresh atlantic salmon",
		Price:       "$12.50",
		Stock:       14,
		ImageID:     "img-1",
	}, desc)
}

func TestFormatProduct_WithoutImage(t *testing.T) {
	raw := entity.ProductResponse{Data: entity.Product{ID: "p-1", Name: "Carp"}}

	desc := FormatProduct(&raw)
	assert.Empty(t, desc.ImageID)

	raw.Data.Relationships.MainImage = &entity.Relation{}
	desc = FormatProduct(&raw)
	assert.Empty(t, desc.ImageID)
}

func TestFormatCart_PreservesServerOrder(t *testing.T) {
	var raw entity.CartItemsResponse
	require.NoError(t, json.Unmarshal([]byte(cartJSON), &raw))

	cart := FormatCart(&raw)

	assert.Equal(t, "$27.50", cart.Total)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "li-2", cart.Items[0].ID)
	assert.Equal(t, "li-1", cart.Items[1].ID)
	assert.Equal(t, entity.CartLine{
		ID:          "li-2",
		ProductID:   "p-2",
		Name:        "Trout",
		Description: "River trout",
		Quantity:    5,
		UnitPrice:   "$3.00",
		ValuePrice:  "$15.00",
	}, cart.Items[0])
}

func TestFormatCart_Empty(t *testing.T) {
	cart := FormatCart(&entity.CartItemsResponse{})
	assert.True(t, cart.IsEmpty())
	assert.NotNil(t, cart.Items)
}

func TestMenuEntries_CatalogOrder(t *testing.T) {
	raw := entity.ProductsResponse{Data: []entity.Product{
		{ID: "b", Name: "Bream"},
		{ID: "a", Name: "Anchovy"},
	}}

	assert.Equal(t, []entity.MenuEntry{
		{Name: "Bream", ProductID: "b"},
		{Name: "Anchovy", ProductID: "a"},
	}, MenuEntries(&raw))
}
