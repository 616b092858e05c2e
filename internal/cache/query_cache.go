package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cached resources. Keys are query:{resource}:{tenantId}.
const (
	ResourceProducts     = "products"
	ResourceProductStats = "product_stats"
	ResourceCustomers    = "customers"
	ResourceOrders       = "orders"
	ResourceProfile      = "business_profile"
	ResourceContentPlans = "content_plans"
	ResourceSocial       = "social_connections"
	ResourceDashboard    = "dashboard"
	ResourceStorefront   = "storefront"
	ResourceSubscription = "subscription"
)

// defaultLoadTimeout bounds a shared load once it no longer follows the
// caller's context.
const defaultLoadTimeout = 30 * time.Second

// QueryCache is a read-through cache for tenant queries. Concurrent misses on
// the same key share one load, and a failed load is retried once.
type QueryCache struct {
	store       Store
	ttl         time.Duration
	retryDelay  time.Duration
	loadTimeout time.Duration
	group       singleflight.Group

	// generations counts invalidations per key. A load that overlaps an
	// invalidation must not write its result back.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewQueryCache creates a QueryCache over store with the given freshness window.
func NewQueryCache(store Store, ttl time.Duration) *QueryCache {
	return &QueryCache{
		store:       store,
		ttl:         ttl,
		retryDelay:  time.Second,
		loadTimeout: defaultLoadTimeout,
		generations: make(map[string]uint64),
	}
}

// SetRetryDelay overrides the pause before the single retry.
func (q *QueryCache) SetRetryDelay(d time.Duration) {
	q.retryDelay = d
}

// Key returns the cache key of resource for tenantID.
func Key(resource, tenantID string) string {
	return fmt.Sprintf("query:%s:%s", resource, tenantID)
}

// Fetch returns the cached value of resource for tenantID or loads and caches it.
// Cache failures are logged and fall through to load.
func Fetch[T any](ctx context.Context, q *QueryCache, resource, tenantID string, load func(ctx context.Context) (T, error)) (T, error) {
	key := Key(resource, tenantID)

	if q.ttl > 0 {
		if raw, err := q.store.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal([]byte(raw), &v); err == nil {
				return v, nil
			}
			log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
		} else if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("query cache read failed")
		}
	}

	// The shared load outlives any single caller; waiters give up on their own ctx.
	ch := q.group.DoChan(key, func() (interface{}, error) {
		gen := q.generation(key)
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.loadTimeout)
		defer cancel()

		v, err := loadWithRetry(loadCtx, q.retryDelay, load)
		if err != nil {
			return nil, err
		}
		q.put(loadCtx, key, v, gen)
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (q *QueryCache) generation(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.generations[key]
}

// loadWithRetry calls load and, on failure, once more after delay.
func loadWithRetry[T any](ctx context.Context, delay time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := load(ctx)
	if err == nil {
		return v, nil
	}
	log.Debug().Err(err).Msg("query failed, retrying once")

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-t.C:
		}
	}
	return load(ctx)
}

// put stores v unless key was invalidated after gen was read. The second
// check covers an invalidation that lands between the first check and Set.
func (q *QueryCache) put(ctx context.Context, key string, v interface{}, gen uint64) {
	if q.ttl <= 0 || q.generation(key) != gen {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("query cache encode failed")
		return
	}
	if err := q.store.Set(ctx, key, string(raw), q.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("query cache write failed")
		return
	}
	if q.generation(key) != gen {
		if err := q.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("query cache stale entry removal failed")
		}
	}
}

// Invalidate drops the given resources of tenantID.
func (q *QueryCache) Invalidate(ctx context.Context, tenantID string, resources ...string) {
	keys := make([]string, 0, len(resources))
	q.mu.Lock()
	for _, r := range resources {
		key := Key(r, tenantID)
		q.generations[key]++
		keys = append(keys, key)
	}
	q.mu.Unlock()
	for _, key := range keys {
		q.group.Forget(key)
	}
	if err := q.store.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID).Strs("resources", resources).Msg("query cache invalidation failed")
	}
}
