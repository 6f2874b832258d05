package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/skypagos/ledger/internal/domain"
)

// CatalogRepository is the source of truth for services and promotions.
type CatalogRepository interface {
	GetService(ctx context.Context, id string) (*domain.Service, error)
	// ListPromotions returns the active promotions applicable to serviceID,
	// regardless of their window.
	ListPromotions(ctx context.Context, serviceID string) ([]*domain.Promotion, error)
	// ListServices returns the active services in display order.
	ListServices(ctx context.Context) ([]*domain.Service, error)
	ListActivePromotions(ctx context.Context, at time.Time) ([]*domain.Promotion, error)
}

// CachedCatalog serves catalog reads from a cache and falls back to the
// repository. Cache failures are logged and never fail a request.
type CachedCatalog struct {
	repo   CatalogRepository
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedCatalog creates a CachedCatalog. A nil cache disables caching.
func NewCachedCatalog(repo CatalogRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}

	return &CachedCatalog{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

const servicesCacheKey = "catalog:services"

func serviceCacheKey(id string) string    { return "catalog:service:" + id }
func promotionsCacheKey(id string) string { return "catalog:promotions:" + id }

// GetService returns the service with id.
func (c *CachedCatalog) GetService(ctx context.Context, id string) (*domain.Service, error) {
	var svc domain.Service
	if c.load(ctx, serviceCacheKey(id), &svc) {
		return &svc, nil
	}

	found, err := c.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	c.store(ctx, serviceCacheKey(id), found)
	return found, nil
}

// ActivePromotions returns the promotions for serviceID whose window
// contains at. The window is evaluated on every call, cached or not.
func (c *CachedCatalog) ActivePromotions(ctx context.Context, serviceID string, at time.Time) ([]*domain.Promotion, error) {
	var promotions []*domain.Promotion
	if !c.load(ctx, promotionsCacheKey(serviceID), &promotions) {
		var err error
		promotions, err = c.repo.ListPromotions(ctx, serviceID)
		if err != nil {
			return nil, err
		}
		c.store(ctx, promotionsCacheKey(serviceID), promotions)
	}

	active := make([]*domain.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if p.ActiveAt(at) && p.AppliesTo(serviceID) {
			active = append(active, p)
		}
	}

	return active, nil
}

// Services lists the active services matching filter, in display order.
// The full listing is cached once and filtered per call.
func (c *CachedCatalog) Services(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error) {
	var services []*domain.Service
	if !c.load(ctx, servicesCacheKey, &services) {
		var err error
		services, err = c.repo.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, servicesCacheKey, services)
	}

	listed := make([]*domain.Service, 0, len(services))
	for _, svc := range services {
		if filter.Matches(svc) {
			listed = append(listed, svc)
		}
	}

	return listed, nil
}

// CurrentPromotions lists the promotions running at the given instant,
// highest priority first. Windows move, so the result is never cached.
func (c *CachedCatalog) CurrentPromotions(ctx context.Context, at time.Time) ([]*domain.Promotion, error) {
	return c.repo.ListActivePromotions(ctx, at)
}

// Invalidate drops the cached entries of a service and the listing.
func (c *CachedCatalog) Invalidate(ctx context.Context, serviceID string) error {
	if c.cache == nil {
		return nil
	}
	for _, key := range []string{serviceCacheKey(serviceID), promotionsCacheKey(serviceID), servicesCacheKey} {
		if err := c.cache.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (c *CachedCatalog) load(ctx context.Context, key string, dst any) bool {
	if c.cache == nil {
		return false
	}

	data, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	if data == nil {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("catalog cache entry is corrupt")
		return false
	}

	return true
}

func (c *CachedCatalog) store(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}
