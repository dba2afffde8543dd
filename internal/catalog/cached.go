package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amritgyawali/lenskart/internal/domain"
)

const (
	productTTL    = 30 * time.Second
	lookupTimeout = 2 * time.Second
)

// CachedRepository is a read-through cache over a catalog repository.
// Lookups for the same product are collapsed with singleflight so a burst
// of page renders produces one database hit.
//
// Entries expire quickly: stock figures go stale fast and the cart's
// revalidation depends on reasonably fresh snapshots.
type CachedRepository struct {
	inner RepoInterface
	sfg   singleflight.Group

	mu      sync.RWMutex
	entries map[domain.ProductID]cacheEntry
}

type cacheEntry struct {
	product   domain.Product
	expiresAt time.Time
}

func NewCachedRepository(inner RepoInterface) *CachedRepository {
	return &CachedRepository{
		inner:   inner,
		entries: make(map[domain.ProductID]cacheEntry),
	}
}

func (c *CachedRepository) GetProductByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		p := entry.product
		return &p, nil
	}

	v, err, _ := c.sfg.Do(string(id), func() (interface{}, error) {
		// The lookup runs on its own deadline rather than the first
		// caller's context: other collapsed waiters and the cache entry
		// must not be lost to one caller hanging up.
		lctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		p, err := c.inner.GetProductByID(lctx, id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = cacheEntry{product: *p, expiresAt: time.Now().Add(productTTL)}
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p := *v.(*domain.Product)
	return &p, nil
}

func (c *CachedRepository) CheckAvailability(ctx context.Context, id domain.ProductID, quantity int) (bool, error) {
	p, err := c.GetProductByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.InStock && p.StockQuantity >= quantity, nil
}

func (c *CachedRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	// Listings are not cached; the storefront pages through them rarely
	// compared to per-product lookups.
	return c.inner.ListProducts(ctx)
}

func (c *CachedRepository) Close() error {
	return c.inner.Close()
}
