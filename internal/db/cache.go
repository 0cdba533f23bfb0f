package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BalramApply/WealthStream/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const productKeyPrefix = "catalog:product:"

// CachedCatalog reads products through a Redis cache. Prices may be up to
// ttl stale. Cache errors fall back to the source catalog.
type CachedCatalog struct {
	source ProductCatalog
	cache  *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

var _ ProductCatalog = (*CachedCatalog)(nil)

// NewCachedCatalog wraps source. A nil client disables caching.
func NewCachedCatalog(source ProductCatalog, cache *redis.Client, ttl time.Duration, log logrus.FieldLogger) *CachedCatalog {
	return &CachedCatalog{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

func productKey(id string) string {
	return productKeyPrefix + id
}

func (c *CachedCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if c.cache == nil {
		return c.source.GetProduct(ctx, id)
	}

	key := productKey(id)
	cached, err := c.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p models.Product
		if err := json.Unmarshal(cached, &p); err == nil {
			return &p, nil
		}
		c.log.WithField("key", key).Warn("Discarding undecodable cached product")
	case !errors.Is(err, redis.Nil):
		c.log.WithError(err).Warn("Product cache read failed")
	}

	p, err := c.source.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(p); err == nil {
		if err := c.cache.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.WithError(err).Warn("Product cache write failed")
		}
	}
	return p, nil
}

func (c *CachedCatalog) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	return c.source.ListProducts(ctx, category)
}

// Invalidate drops the cached entry of a product.
func (c *CachedCatalog) Invalidate(ctx context.Context, id string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Del(ctx, productKey(id)).Err()
}
