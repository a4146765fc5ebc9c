// Package cache keeps catalog reads in Redis in front of the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jayjaytrn/storefront/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	productsKey   = "catalog:products"
	categoriesKey = "catalog:categories"
	statusesKey   = "catalog:statuses"

	// stored for ids that do not exist
	notFoundMarker = "notfound"
)

type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.ProductUpdateRequest) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListStatuses(ctx context.Context) ([]models.StatusName, error)
}

// Catalog serves catalog reads from Redis and falls back to the store on a
// miss or when Redis is unavailable. Writes go to the store and drop the
// affected keys.
type Catalog struct {
	store  Store
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
	sfg    singleflight.Group
}

func NewCatalog(store Store, client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *Catalog {
	return &Catalog{
		store:  store,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *Catalog) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cached(ctx, c, productsKey, c.store.ListProducts)
}

func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	return cached(ctx, c, categoriesKey, c.store.ListCategories)
}

func (c *Catalog) ListStatuses(ctx context.Context) ([]models.StatusName, error) {
	return cached(ctx, c, statusesKey, c.store.ListStatuses)
}

func (c *Catalog) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	key := productKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil && string(data) == notFoundMarker:
		return nil, models.ErrNotFound
	case err == nil:
		var p models.Product
		if err = json.Unmarshal(data, &p); err == nil {
			return &p, nil
		}
		c.logger.Warnw("dropping undecodable cache entry", "key", key, "error", err)
	case !errors.Is(err, redis.Nil):
		c.logger.Warnw("redis get failed, reading from database", "key", key, "error", err)
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		p, err := c.store.GetProduct(ctx, id)
		if errors.Is(err, models.ErrNotFound) {
			c.set(ctx, key, []byte(notFoundMarker))
			return nil, err
		}
		if err != nil {
			return nil, err
		}
		c.put(ctx, key, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Product), nil
}

func (c *Catalog) CreateProduct(ctx context.Context, req models.ProductCreateRequest) (*models.Product, error) {
	p, err := c.store.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, productsKey, productKey(p.ID))
	return p, nil
}

func (c *Catalog) UpdateProduct(ctx context.Context, id int64, req models.ProductUpdateRequest) (*models.Product, error) {
	p, err := c.store.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, productsKey, productKey(id))
	return p, nil
}

func cached[T any](ctx context.Context, c *Catalog, key string, load func(context.Context) (T, error)) (T, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var v T
		if err = json.Unmarshal(data, &v); err == nil {
			return v, nil
		}
		c.logger.Warnw("dropping undecodable cache entry", "key", key, "error", err)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warnw("redis get failed, reading from database", "key", key, "error", err)
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.put(ctx, key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Catalog) put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warnw("failed to encode cache entry", "key", key, "error", err)
		return
	}
	c.set(ctx, key, data)
}

func (c *Catalog) set(ctx context.Context, key string, data []byte) {
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warnw("redis set failed", "key", key, "error", err)
	}
}

func (c *Catalog) invalidate(ctx context.Context, keys ...string) {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warnw("redis delete failed", "keys", keys, "error", err)
	}
}

func productKey(id int64) string {
	return fmt.Sprintf("catalog:product:%d", id)
}
