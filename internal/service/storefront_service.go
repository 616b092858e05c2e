package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/utils"
)

// Storefront categories.
const (
	CategoryAll         = "All Products"
	CategoryNewArrivals = "New Arrivals"
	CategoryBestSellers = "Best Sellers"
)

var storeCategories = []string{CategoryAll, CategoryNewArrivals, CategoryBestSellers}

const newArrivalWindow = 30 * 24 * time.Hour

// StoreProfile is the public face of a business.
type StoreProfile struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  *string              `json:"description"`
	Address      *string              `json:"address"`
	Hours        models.JSONObject    `json:"hours"`
	ContactEmail *string              `json:"contactEmail"`
	ContactPhone *string              `json:"contactPhone"`
	LogoURL      *string              `json:"logoUrl"`
	WebsiteURL   *string              `json:"websiteUrl"`
	SocialMedia  models.JSONObject    `json:"socialMedia"`
	Settings     models.StoreSettings `json:"settings"`
}

// StoreProduct is a product as shoppers see it; cost prices stay private.
type StoreProduct struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	InStock     bool      `json:"inStock"`
	Stock       int       `json:"stock"`
	ImageURL    *string   `json:"imageUrl"`
	IsFeatured  bool      `json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Storefront is the payload of the public store page.
type Storefront struct {
	Profile    StoreProfile   `json:"profile"`
	Products   []StoreProduct `json:"products"`
	Categories []string       `json:"categories"`
	Category   string         `json:"category"`
	StoreURL   string         `json:"storeUrl"`
}

type productLister interface {
	List(ctx context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, error)
}

// StorefrontService serves public store pages.
type StorefrontService struct {
	profiles profileReader
	products productLister
	cache    *cache.QueryCache
	siteURL  string
	now      func() time.Time
}

// NewStorefrontService creates a new StorefrontService.
func NewStorefrontService(profiles profileReader, products productLister, qc *cache.QueryCache, siteURL string) *StorefrontService {
	return &StorefrontService{
		profiles: profiles,
		products: products,
		cache:    qc,
		siteURL:  strings.TrimSuffix(siteURL, "/"),
		now:      time.Now,
	}
}

// StoreURL is the public link of a business's store.
func (s *StorefrontService) StoreURL(businessID string) string {
	return fmt.Sprintf("%s/shopapp/%s", s.siteURL, businessID)
}

// Get returns the store with every product.
func (s *StorefrontService) Get(ctx context.Context, businessID string) (*Storefront, error) {
	return s.GetCategory(ctx, businessID, CategoryAll)
}

// GetCategory returns the store narrowed to a category. Unknown categories show everything.
func (s *StorefrontService) GetCategory(ctx context.Context, businessID, category string) (*Storefront, error) {
	store, err := s.load(ctx, businessID)
	if err != nil {
		return nil, err
	}

	out := *store
	out.Category = CategoryAll
	switch category {
	case CategoryNewArrivals:
		cutoff := s.now().Add(-newArrivalWindow)
		out.Products = filterProducts(store.Products, func(p StoreProduct) bool { return !p.CreatedAt.Before(cutoff) })
		out.Category = category
	case CategoryBestSellers:
		out.Products = filterProducts(store.Products, func(p StoreProduct) bool { return p.IsFeatured })
		out.Category = category
	}
	return &out, nil
}

// GetProduct returns one product of the store together with its profile.
func (s *StorefrontService) GetProduct(ctx context.Context, businessID string, productID int64) (*StoreProfile, *StoreProduct, error) {
	store, err := s.load(ctx, businessID)
	if err != nil {
		return nil, nil, err
	}
	for i := range store.Products {
		if store.Products[i].ID == productID {
			return &store.Profile, &store.Products[i], nil
		}
	}
	return nil, nil, utils.ErrProductNotFound
}

// load fetches profile and products in parallel, through the query cache.
func (s *StorefrontService) load(ctx context.Context, businessID string) (*Storefront, error) {
	return cache.Fetch(ctx, s.cache, cache.ResourceStorefront, businessID, func(ctx context.Context) (*Storefront, error) {
		var (
			profile  *models.BusinessProfile
			products []models.Product
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			profile, err = s.profiles.GetByID(gctx, businessID)
			if errors.Is(err, sql.ErrNoRows) {
				return utils.ErrStoreNotFound
			}
			return err
		})
		g.Go(func() error {
			var err error
			products, err = s.products.List(gctx, businessID, models.ProductFilter{})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		store := &Storefront{
			Profile:    toStoreProfile(profile),
			Products:   make([]StoreProduct, 0, len(products)),
			Categories: storeCategories,
			Category:   CategoryAll,
			StoreURL:   s.StoreURL(businessID),
		}
		for _, p := range products {
			store.Products = append(store.Products, toStoreProduct(p))
		}
		return store, nil
	})
}

func toStoreProfile(p *models.BusinessProfile) StoreProfile {
	return StoreProfile{
		ID:           p.ID,
		Name:         p.DisplayName(),
		Description:  p.BusinessDescription,
		Address:      p.BusinessAddress,
		Hours:        p.BusinessHours,
		ContactEmail: p.ContactEmail,
		ContactPhone: p.ContactPhone,
		LogoURL:      p.LogoURL,
		WebsiteURL:   p.WebsiteURL,
		SocialMedia:  p.SocialMedia,
		Settings:     models.StoreSettings{Theme: p.Settings.Theme, Layout: p.Settings.Layout, PrimaryColor: p.Settings.PrimaryColor, BannerURL: p.Settings.BannerURL},
	}
}

func toStoreProduct(p models.Product) StoreProduct {
	return StoreProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.SellingPrice,
		InStock:     p.Stock > 0,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		IsFeatured:  p.IsFeatured,
		CreatedAt:   p.CreatedAt,
	}
}

func filterProducts(in []StoreProduct, keep func(StoreProduct) bool) []StoreProduct {
	out := make([]StoreProduct, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
