package moltin

import (
	"context"
	"testing"

	"github.com/Alex-Men-VL/sell-fish/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMockConnector_CartTotals(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector("RUB", zap.NewNop())

	products, err := m.ListProducts(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, products.Data)
	first := products.Data[0]

	_, err = m.AddCartItem(ctx, "", "7", first.ID, 2)
	require.NoError(t, err)
	resp, err := m.AddCartItem(ctx, "", "7", first.ID, 3)
	require.NoError(t, err)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, 5, resp.Data[0].Quantity)
	unit := first.Meta.DisplayPrice.WithTax.Amount
	assert.Equal(t, unit*5, resp.Meta.DisplayPrice.WithTax.Amount)
	assert.Equal(t, unit*5, resp.Data[0].Meta.DisplayPrice.WithTax.Value.Amount)
}

func TestMockConnector_RemoveCartItem(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector("RUB", zap.NewNop())

	resp, err := m.AddCartItem(ctx, "", "7", "product-1", 1)
	require.NoError(t, err)
	itemID := resp.Data[0].ID

	removed, err := m.RemoveCartItem(ctx, "", "7", itemID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.RemoveCartItem(ctx, "", "7", itemID)
	require.NoError(t, err)
	assert.False(t, removed)

	items, err := m.ListCartItems(ctx, "", "7")
	require.NoError(t, err)
	assert.Empty(t, items.Data)
}

func TestMockConnector_UnknownProduct(t *testing.T) {
	m := NewMockConnector("RUB", zap.NewNop())

	_, err := m.GetProduct(context.Background(), "", "nope")
	require.ErrorIs(t, err, entity.ErrNotFound)

	_, err = m.AddCartItem(context.Background(), "", "7", "nope", 1)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestMockConnector_CustomerDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMockConnector("RUB", zap.NewNop())

	created, err := m.CreateCustomer(ctx, "", "a@b.co", "a@b.co")
	require.NoError(t, err)

	_, err = m.CreateCustomer(ctx, "", "a@b.co", "a@b.co")
	require.ErrorIs(t, err, entity.ErrRequest)

	found, err := m.FindCustomerByEmail(ctx, "", "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
