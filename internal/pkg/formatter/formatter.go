// Package formatter turns raw commerce API responses into display-ready structures.
package formatter

import "github.com/Alex-Men-VL/sell-fish/internal/entity"

// FormatProduct extracts the displayed fields of a product.
// A product without a main image gets an empty image reference.
func FormatProduct(raw *entity.ProductResponse) entity.ProductDescription {
	product := raw.Data

	var imageID string
	if rel := product.Relationships.MainImage; rel != nil && rel.Data != nil {
		imageID = rel.Data.ID
	}

	return entity.ProductDescription{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Meta.DisplayPrice.WithTax.Formatted,
		Stock:       product.Meta.Stock.Level,
		ImageID:     imageID,
	}
}

// FormatCart extracts the cart total and its line items in server order
func FormatCart(raw *entity.CartItemsResponse) entity.CartDescription {
	cart := entity.CartDescription{
		Total: raw.Meta.DisplayPrice.WithTax.Formatted,
		Items: make([]entity.CartLine, 0, len(raw.Data)),
	}

	for _, item := range raw.Data {
		price := item.Meta.DisplayPrice.WithTax
		cart.Items = append(cart.Items, entity.CartLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   price.Unit.Formatted,
			ValuePrice:  price.Value.Formatted,
		})
	}

	return cart
}

// MenuEntries lists products in catalog order
func MenuEntries(raw *entity.ProductsResponse) []entity.MenuEntry {
	entries := make([]entity.MenuEntry, 0, len(raw.Data))
	for _, product := range raw.Data {
		entries = append(entries, entity.MenuEntry{
			Name:      product.Name,
			ProductID: product.ID,
		})
	}
	return entries
}
