// Package matchcache holds the most recently computed scored profile per
// candidate. Discovery writes, the sync channel invalidates; both treat
// overwrite-by-key as safe because entries carry no cross-key invariants.
package matchcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"matching-engine/internal/common/database"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

// Store is the subset of the redis wrapper used for snapshots.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Cache is an explicitly owned, injected state object, not a process-wide
// singleton.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.ScoredProfile
	store   Store
	logger  logger.Logger
}

func NewCache(store Store, log logger.Logger) *Cache {
	return &Cache{
		entries: make(map[string]models.ScoredProfile),
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "matchcache"}),
	}
}

// Put stores an entry, overwriting any previous score for the profile.
// Last-computed-wins; no history retained.
func (c *Cache) Put(entry models.ScoredProfile) {
	c.mu.Lock()
	c.entries[entry.Profile.ID] = entry
	c.mu.Unlock()
}

// Get returns the cached entry for a profile id.
func (c *Cache) Get(profileID string) (models.ScoredProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[profileID]
	return entry, ok
}

// Remove drops a profile from the cache. A no-op for unknown ids.
func (c *Cache) Remove(profileID string) {
	c.mu.Lock()
	delete(c.entries, profileID)
	c.mu.Unlock()
}

// All returns a copy of every cached entry in unspecified order; callers
// that need ranking sort the result.
func (c *Cache) All() []models.ScoredProfile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ScoredProfile, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry)
	}
	return out
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot persists the current contents under the fixed store key.
func (c *Cache) Snapshot(ctx context.Context) error {
	c.mu.RLock()
	entries := make([]models.ScoredProfile, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	c.mu.RUnlock()

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	if err := c.store.Set(ctx, database.KeyMatchCacheSnapshot, data, 0); err != nil {
		c.logger.Warn("failed to persist match cache snapshot", map[string]interface{}{
			"error": err,
		})
		return err
	}
	return nil
}

// Restore loads the persisted snapshot, replacing current contents. Missing
// or unreadable snapshots leave the cache empty.
func (c *Cache) Restore(ctx context.Context) {
	val, err := c.store.Get(ctx, database.KeyMatchCacheSnapshot)
	if err != nil {
		return
	}

	var entries []models.ScoredProfile
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		c.logger.Warn("discarding unreadable match cache snapshot", map[string]interface{}{
			"error": err,
		})
		return
	}

	c.mu.Lock()
	c.entries = make(map[string]models.ScoredProfile, len(entries))
	for _, entry := range entries {
		c.entries[entry.Profile.ID] = entry
	}
	c.mu.Unlock()

	c.logger.Info("match cache restored", map[string]interface{}{
		"entries": len(entries),
	})
}
