package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopyard/gocart/internal/core/domain"
	"github.com/shopyard/gocart/internal/port"
)

func newCartFixture() (*CartService, *fakeCartRepo, *fakeCatalogRepo) {
	catalog := newFakeCatalogRepo(
		domain.Product{ID: "p1", Title: "Headphones", Price: 129.99, SalePrice: 99.99, OnSale: true, Stock: 10},
		domain.Product{ID: "p2", Title: "Speaker", Price: 59.90, Stock: 10},
	)
	carts := newFakeCartRepo()
	return NewCartService(carts, catalog), carts, catalog
}

func TestGetCartEmptyWhenNew(t *testing.T) {
	svc, _, _ := newCartFixture()

	cart, err := svc.GetCart(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, cart.Empty())
	assert.NotNil(t, cart.Items, "items marshal as [] not null")
}

func TestAddItemSnapshotsSalePrice(t *testing.T) {
	svc, _, _ := newCartFixture()

	cart, err := svc.AddItem(context.Background(), "u1", "p1", 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 99.99, cart.Items[0].UnitPrice, "on-sale product snapshots the sale price")

	cart, err = svc.AddItem(context.Background(), "u1", "p2", 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 59.90, cart.Items[1].UnitPrice)
	assert.InDelta(t, 99.99+2*59.90, cart.Total(), 1e-9)
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, "u1", "p1", 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemValidation(t *testing.T) {
	svc, _, _ := newCartFixture()

	_, err := svc.AddItem(context.Background(), "u1", "p1", 0)
	assert.ErrorIs(t, err, ErrQuantityNeeded)

	_, err = svc.AddItem(context.Background(), "u1", "missing", 1)
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestSetItemQuantity(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 2)
	require.NoError(t, err)

	cart, err := svc.SetItemQuantity(ctx, "u1", "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	cart, err = svc.SetItemQuantity(ctx, "u1", "p1", 0)
	require.NoError(t, err)
	assert.True(t, cart.Empty(), "zero quantity removes the line")
}

func TestSetItemQuantityMissingLine(t *testing.T) {
	svc, _, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.SetItemQuantity(ctx, "u1", "p1", 3)
	assert.ErrorIs(t, err, port.ErrNotFound, "no cart at all")

	_, err = svc.AddItem(ctx, "u1", "p1", 1)
	require.NoError(t, err)
	_, err = svc.SetItemQuantity(ctx, "u1", "p2", 3)
	assert.ErrorIs(t, err, port.ErrNotFound, "cart exists but line does not")
}

func TestClearCart(t *testing.T) {
	svc, carts, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p1", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))
	assert.False(t, carts.has("u1"))
}

func TestPriceSnapshotSurvivesRepricing(t *testing.T) {
	svc, _, catalog := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", "p2", 1)
	require.NoError(t, err)

	repriced := domain.Product{ID: "p2", Title: "Speaker", Price: 999.00, Stock: 10}
	require.NoError(t, catalog.UpdateProduct(ctx, repriced))

	cart, err := svc.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 59.90, cart.Items[0].UnitPrice, "cart keeps the price seen at add time")
}
