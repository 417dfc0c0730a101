package products_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-sales-orders/internal/apperr"
	"github.com/imrishuroy/go-sales-orders/internal/products"
	"github.com/imrishuroy/go-sales-orders/internal/query"
	"github.com/imrishuroy/go-sales-orders/internal/seed"
)

func newService(t *testing.T) *products.Service {
	t.Helper()
	repo := products.NewMemoryRepository()
	for _, p := range seed.Default().Products {
		require.NoError(t, repo.Insert(context.Background(), p))
	}
	return products.NewService(repo, query.DefaultPageSize)
}

func TestList_SearchByStyleNumber(t *testing.T) {
	svc := newService(t)

	page, err := svc.List(context.Background(), query.Params{Page: 0, PageSize: 10, Search: "ST-1001"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Premium T-Shirt", page.Content[0].Name)
	assert.Equal(t, 1, page.TotalPages)
}

func TestList_SearchIsCaseInsensitive(t *testing.T) {
	svc := newService(t)

	page, err := svc.List(context.Background(), query.Params{Search: "ts-001"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(1), page.Content[0].ID)

	page, err = svc.List(context.Background(), query.Params{Search: "SHIRT"})
	require.NoError(t, err)
	names := []string{}
	for _, p := range page.Content {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Dress Shirt", "Premium T-Shirt"}, names)
}

func TestList_SortedByNameAndPaged(t *testing.T) {
	svc := newService(t)

	first, err := svc.List(context.Background(), query.Params{Page: 0, PageSize: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalPages)
	require.Len(t, first.Content, 3)
	assert.Equal(t, "Casual Socks", first.Content[0].Name)
	assert.Equal(t, "Designer Jeans", first.Content[1].Name)
	assert.Equal(t, "Dress Shirt", first.Content[2].Name)

	last, err := svc.List(context.Background(), query.Params{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, last.Content, 2)
	assert.Equal(t, "Winter Coat", last.Content[1].Name)
}

func TestList_IgnoresStatus(t *testing.T) {
	svc := newService(t)

	page, err := svc.List(context.Background(), query.Params{Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Len(t, page.Content, 8)
}

func TestGet(t *testing.T) {
	svc := newService(t)

	p, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "LJ-003", p.SKU)
	assert.Equal(t, "199.99", p.Price.StringFixed(2))

	_, err = svc.Get(context.Background(), 99)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCategories(t *testing.T) {
	svc := newService(t)

	got, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Accessories", "Apparel", "Footwear", "Outerwear"}, got)
}

func TestItemRoundTrip(t *testing.T) {
	p := seed.Default().Products[0]
	got, err := products.FromItem(products.ToItem(p))
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(p.Price))
	got.Price = p.Price
	assert.Equal(t, p, got)
}

func TestFromItem_MalformedPrice(t *testing.T) {
	it := products.ToItem(seed.Default().Products[0])
	it.Price = "29,99"

	_, err := products.FromItem(it)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "29,99")
}
