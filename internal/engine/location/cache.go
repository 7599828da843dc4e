// Package location holds the current user's last known position.
package location

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"matching-engine/internal/common/database"
	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

// Provider produces a fresh geolocation reading. Implementations are
// expected to honor the context deadline.
type Provider interface {
	CurrentPosition(ctx context.Context) (models.Coordinate, error)
}

// Store is the subset of the redis wrapper the cache persists through.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Cache owns the Coordinate: refreshed by a geolocation read, persisted
// across restarts, never mutated by other components.
type Cache struct {
	mu       sync.RWMutex
	current  models.Coordinate
	provider Provider
	store    Store
	timeout  time.Duration
	logger   logger.Logger
}

func NewCache(provider Provider, store Store, timeout time.Duration, log logger.Logger) *Cache {
	c := &Cache{
		provider: provider,
		store:    store,
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"component": "location"}),
	}
	c.restore()
	return c
}

// restore loads the last persisted coordinate so Current works immediately
// after a restart.
func (c *Cache) restore() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	val, err := c.store.Get(ctx, database.KeyLastCoordinate)
	if err != nil {
		return
	}

	var coord models.Coordinate
	if err := json.Unmarshal([]byte(val), &coord); err != nil {
		c.logger.Warn("discarding unreadable persisted coordinate", map[string]interface{}{
			"error": err,
		})
		return
	}

	c.mu.Lock()
	c.current = coord
	c.mu.Unlock()
}

// Refresh requests a fresh high-accuracy reading with a bounded wait. On
// success the cached coordinate is overwritten and persisted; on failure the
// previously cached value is untouched.
func (c *Cache) Refresh(ctx context.Context) (models.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	coord, err := c.provider.CurrentPosition(ctx)
	if err != nil {
		c.logger.Warn("location refresh failed", map[string]interface{}{
			"error": err,
		})
		return models.Coordinate{}, errors.NewLocationUnavailableError(err)
	}

	if coord.CapturedAt.IsZero() {
		coord.CapturedAt = time.Now().UTC()
	}

	c.mu.Lock()
	c.current = coord
	c.mu.Unlock()

	c.persist(coord)

	c.logger.Info("location refreshed", map[string]interface{}{
		"accuracyMeters": coord.AccuracyMeters,
	})

	return coord, nil
}

func (c *Cache) persist(coord models.Coordinate) {
	data, err := json.Marshal(coord)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.store.Set(ctx, database.KeyLastCoordinate, data, 0); err != nil {
		c.logger.Warn("failed to persist coordinate", map[string]interface{}{
			"error": err,
		})
	}
}

// Current returns the last known coordinate regardless of age. It never
// blocks; staleness is the caller's concern, not this component's.
func (c *Cache) Current() (models.Coordinate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current.IsZero() {
		return models.Coordinate{}, errors.NewNoLocationError()
	}
	return c.current, nil
}
