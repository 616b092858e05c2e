package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

func newStorefrontFixture(t *testing.T) (*StorefrontService, *fakeProducts) {
	t.Helper()
	profiles := newFakeProfiles(&models.BusinessProfile{
		ID:           "biz-1",
		BusinessName: strPtr("Corner Shop"),
		Settings:     models.StoreSettings{Role: "owner", Theme: models.ThemeBold, Layout: models.LayoutSidebar},
	})
	products := newFakeProducts()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	products.add("biz-1", models.Product{Name: "Old", SellingPrice: 10, CostPrice: 4, Stock: 0, CreatedAt: now.AddDate(0, -3, 0)})
	products.add("biz-1", models.Product{Name: "Fresh", SellingPrice: 12, Stock: 5, CreatedAt: now.AddDate(0, 0, -2)})
	products.add("biz-1", models.Product{Name: "Star", SellingPrice: 50, Stock: 1, IsFeatured: true, CreatedAt: now.AddDate(0, -2, 0)})

	svc := NewStorefrontService(profiles, products, newTestCache(), "https://shop.example.com/")
	svc.now = func() time.Time { return now }
	return svc, products
}

func TestStorefrontService_Get(t *testing.T) {
	svc, _ := newStorefrontFixture(t)

	store, err := svc.Get(context.Background(), "biz-1")
	require.NoError(t, err)

	assert.Equal(t, "Corner Shop", store.Profile.Name)
	assert.Equal(t, models.ThemeBold, store.Profile.Settings.Theme)
	assert.Empty(t, store.Profile.Settings.Role)
	assert.Equal(t, []string{"All Products", "New Arrivals", "Best Sellers"}, store.Categories)
	assert.Equal(t, "https://shop.example.com/shopapp/biz-1", store.StoreURL)
	require.Len(t, store.Products, 3)
	assert.False(t, store.Products[0].InStock)
	assert.True(t, store.Products[1].InStock)
}

func TestStorefrontService_Categories(t *testing.T) {
	svc, _ := newStorefrontFixture(t)
	ctx := context.Background()

	fresh, err := svc.GetCategory(ctx, "biz-1", CategoryNewArrivals)
	require.NoError(t, err)
	require.Len(t, fresh.Products, 1)
	assert.Equal(t, "Fresh", fresh.Products[0].Name)
	assert.Equal(t, CategoryNewArrivals, fresh.Category)

	best, err := svc.GetCategory(ctx, "biz-1", CategoryBestSellers)
	require.NoError(t, err)
	require.Len(t, best.Products, 1)
	assert.Equal(t, "Star", best.Products[0].Name)

	all, err := svc.GetCategory(ctx, "biz-1", "Whatever")
	require.NoError(t, err)
	assert.Len(t, all.Products, 3)
	assert.Equal(t, CategoryAll, all.Category)
}

func TestStorefrontService_CachedAcrossCategories(t *testing.T) {
	svc, products := newStorefrontFixture(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "biz-1")
	require.NoError(t, err)
	_, err = svc.GetCategory(ctx, "biz-1", CategoryBestSellers)
	require.NoError(t, err)

	assert.Equal(t, 1, products.lists)
}

func TestStorefrontService_Product(t *testing.T) {
	svc, _ := newStorefrontFixture(t)

	profile, p, err := svc.GetProduct(context.Background(), "biz-1", 3)
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", profile.Name)
	assert.Equal(t, "Star", p.Name)

	_, _, err = svc.GetProduct(context.Background(), "biz-1", 99)
	assert.ErrorIs(t, err, utils.ErrProductNotFound)
}

func TestStorefrontService_UnknownStore(t *testing.T) {
	svc, _ := newStorefrontFixture(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, utils.ErrStoreNotFound)
}
