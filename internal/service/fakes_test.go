package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/basetishop/shop_api/internal/cache"
	"github.com/basetishop/shop_api/internal/models"
	"github.com/basetishop/shop_api/internal/repository"
	"github.com/basetishop/shop_api/internal/sse"
	"github.com/basetishop/shop_api/pkg/llm"
)

func newTestCache() *cache.QueryCache {
	qc := cache.NewQueryCache(cache.NewMemoryStore(), time.Minute)
	qc.SetRetryDelay(0)
	return qc
}

func strPtr(s string) *string { return &s }

type fakeProfiles struct {
	mu        sync.Mutex
	profiles  map[string]*models.BusinessProfile
	gets      int
	activated map[string]models.SubscriptionTier
}

func newFakeProfiles(ps ...*models.BusinessProfile) *fakeProfiles {
	f := &fakeProfiles{profiles: map[string]*models.BusinessProfile{}, activated: map[string]models.SubscriptionTier{}}
	for _, p := range ps {
		f.profiles[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) GetByID(_ context.Context, tenantID string) (*models.BusinessProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	p, ok := f.profiles[tenantID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.BusinessProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.profiles[p.ID]; ok {
		p.Settings = existing.Settings
	}
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) UpdateSettings(_ context.Context, tenantID string, settings models.StoreSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[tenantID]
	if !ok {
		return sql.ErrNoRows
	}
	p.Settings = settings
	return nil
}

func (f *fakeProfiles) ListTenants(context.Context) ([]repository.TenantSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []repository.TenantSummary{}
	for id, p := range f.profiles {
		out = append(out, repository.TenantSummary{ID: id, BusinessName: p.BusinessName, SubscriptionTier: p.SubscriptionTier})
	}
	return out, nil
}

func (f *fakeProfiles) ActivateSubscription(_ context.Context, tenantID string, tier models.SubscriptionTier, endDate time.Time, limit *int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[tenantID]
	if !ok {
		return sql.ErrNoRows
	}
	active := models.SubscriptionActive
	p.SubscriptionTier = tier
	p.SubscriptionStatus = &active
	p.SubscriptionEndDate = &endDate
	p.ProductLimit = limit
	f.activated[tenantID] = tier
	return nil
}

func (f *fakeProfiles) ExpireSubscriptions(_ context.Context, now time.Time, freeLimit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []string{}
	for id, p := range f.profiles {
		if p.SubscriptionTier != models.TierFree && p.SubscriptionEndDate != nil && p.SubscriptionEndDate.Before(now) {
			expired := models.SubscriptionExpired
			p.SubscriptionTier = models.TierFree
			p.SubscriptionStatus = &expired
			p.ProductLimit = &freeLimit
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[string][]models.Product
	nextID   int64
	lists    int
	listErr  error
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: map[string][]models.Product{}, nextID: 1}
}

func (f *fakeProducts) add(tenantID string, p models.Product) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	p.BusinessID = tenantID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	f.products[tenantID] = append(f.products[tenantID], p)
	return p
}

func (f *fakeProducts) List(_ context.Context, tenantID string, filter models.ProductFilter) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Product{}
	for _, p := range f.products[tenantID] {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if filter.CreatedAfter != nil && p.CreatedAt.Before(*filter.CreatedAfter) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, tenantID string, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products[tenantID] {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeProducts) Count(_ context.Context, tenantID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.products[tenantID]), nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	created := f.add(p.BusinessID, *p)
	*p = created
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.products[p.BusinessID]
	for i := range list {
		if list[i].ID == p.ID {
			p.CreatedAt = list[i].CreatedAt
			list[i] = *p
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeProducts) Delete(_ context.Context, tenantID string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.products[tenantID]
	for i := range list {
		if list[i].ID == id {
			f.products[tenantID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

type notification struct {
	Event    sse.EventType
	TenantID string
	UserID   string
	Message  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (f *fakeNotifier) record(n notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, n)
}

func (f *fakeNotifier) NotifyProduct(event sse.EventType, tenantID string, _ *models.Product, message string) {
	f.record(notification{Event: event, TenantID: tenantID, Message: message})
}

func (f *fakeNotifier) NotifySignedOut(userID string) {
	f.record(notification{Event: sse.EventSignedOut, UserID: userID})
}

func (f *fakeNotifier) NotifyTenantSwitched(userID string, tc *models.TenantContext) {
	f.record(notification{Event: sse.EventTenantSwitched, UserID: userID, TenantID: tc.TenantID})
}

func (f *fakeNotifier) NotifySubscription(tenantID string, _ *models.SubscriptionStatus) {
	f.record(notification{Event: sse.EventSubscription, TenantID: tenantID})
}

func (f *fakeNotifier) all() []notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notification(nil), f.events...)
}

type fakeSelection struct {
	mu       sync.Mutex
	selected map[string]string
}

func newFakeSelection() *fakeSelection {
	return &fakeSelection{selected: map[string]string{}}
}

func (f *fakeSelection) SelectedTenant(_ context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected[userID], nil
}

func (f *fakeSelection) SelectTenant(_ context.Context, userID, tenantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tenantID == "" {
		delete(f.selected, userID)
		return nil
	}
	f.selected[userID] = tenantID
	return nil
}

type fakeCompleter struct {
	out   string
	err   error
	calls int
	last  llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.calls++
	f.last = req
	return f.out, f.err
}
