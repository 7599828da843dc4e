// Package prefs keeps a locally persisted copy of the user's preference set
// so discovery can score candidates without a boundary round trip.
package prefs

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

// Boundary is the subset of the api client used for the write-through.
type Boundary interface {
	GetPreferences(ctx context.Context) (models.PreferenceSet, error)
	PutPreferences(ctx context.Context, prefs models.PreferenceSet) error
}

// KV is the subset of the redis wrapper used for persistence.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

type Store struct {
	mu       sync.RWMutex
	current  models.PreferenceSet
	boundary Boundary
	kv       KV
	logger   logger.Logger
}

func NewStore(boundary Boundary, kv KV, log logger.Logger) *Store {
	return &Store{
		boundary: boundary,
		kv:       kv,
		logger:   log.WithFields(map[string]interface{}{"component": "prefs"}),
	}
}

// Load fills the store from the boundary, falling back to the persisted
// local copy when the boundary is unreachable.
func (s *Store) Load(ctx context.Context) error {
	prefs, err := s.boundary.GetPreferences(ctx)
	if err == nil {
		s.mu.Lock()
		s.current = prefs
		s.mu.Unlock()
		s.persist(ctx, prefs)
		return nil
	}

	s.logger.Warn("preference fetch failed, using persisted copy", map[string]interface{}{
		"error": err,
	})

	raw, kvErr := s.kv.Get(ctx, database.KeyPreferences)
	if kvErr != nil || raw == "" {
		return err
	}
	var saved models.PreferenceSet
	if jsonErr := json.Unmarshal([]byte(raw), &saved); jsonErr != nil {
		return err
	}
	s.mu.Lock()
	s.current = saved
	s.mu.Unlock()
	return nil
}

// Current returns the preference set last loaded or updated.
func (s *Store) Current() models.PreferenceSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update writes through to the boundary; the local copy changes only after
// the boundary accepts the write.
func (s *Store) Update(ctx context.Context, prefs models.PreferenceSet) error {
	prefs.UpdatedAt = time.Now()
	if err := s.boundary.PutPreferences(ctx, prefs); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = prefs
	s.mu.Unlock()
	s.persist(ctx, prefs)
	return nil
}

func (s *Store) persist(ctx context.Context, prefs models.PreferenceSet) {
	data, err := json.Marshal(prefs)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, database.KeyPreferences, string(data), 0); err != nil {
		storeErr := errors.NewStateStoreFailedError(database.KeyPreferences, err)
		s.logger.Warn("preference persist failed", map[string]interface{}{
			"error": storeErr,
		})
	}
}
