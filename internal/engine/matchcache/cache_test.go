package matchcache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/database"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

func setupTestStore(t *testing.T) *database.RedisClient {
	mr := miniredis.RunT(t)
	return database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func createScoredProfile(id string, score int) models.ScoredProfile {
	return models.ScoredProfile{
		Profile: models.CandidateProfile{ID: id, Name: "Test " + id},
		Score: models.MatchScore{
			ProfileID:  id,
			Score:      score,
			ComputedAt: time.Now().UTC().Truncate(time.Second),
		},
	}
}

func TestCache_PutOverwrites(t *testing.T) {
	cache := NewCache(setupTestStore(t), logger.NewTestLogger(t))

	cache.Put(createScoredProfile("p1", 60))
	cache.Put(createScoredProfile("p1", 85))

	entry, ok := cache.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 85, entry.Score.Score)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Remove(t *testing.T) {
	cache := NewCache(setupTestStore(t), logger.NewTestLogger(t))

	cache.Put(createScoredProfile("p1", 60))
	cache.Remove("p1")
	cache.Remove("never-existed")

	_, ok := cache.Get("p1")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_SnapshotAndRestore(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	cache := NewCache(store, logger.NewTestLogger(t))
	cache.Put(createScoredProfile("p1", 60))
	cache.Put(createScoredProfile("p2", 85))
	require.NoError(t, cache.Snapshot(ctx))

	restored := NewCache(store, logger.NewTestLogger(t))
	restored.Restore(ctx)

	assert.Equal(t, 2, restored.Len())
	entry, ok := restored.Get("p2")
	require.True(t, ok)
	assert.Equal(t, 85, entry.Score.Score)
}

func TestCache_RestoreMissingSnapshotLeavesCacheEmpty(t *testing.T) {
	cache := NewCache(setupTestStore(t), logger.NewTestLogger(t))
	cache.Restore(context.Background())
	assert.Equal(t, 0, cache.Len())
}

func TestCache_SnapshotStoreFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.Regexp().ExpectSet(database.KeyMatchCacheSnapshot, `.*`, 0).SetErr(fmt.Errorf("redis down"))

	cache := NewCache(database.NewRedisFromClient(db), logger.NewTestLogger(t))
	cache.Put(createScoredProfile("p1", 60))

	err := cache.Snapshot(context.Background())
	require.Error(t, err)
	// the in-memory view is unaffected by a failed persist
	assert.Equal(t, 1, cache.Len())
}

func TestCache_RestoreUnreadableSnapshot(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, database.KeyMatchCacheSnapshot, "not json", 0))

	cache := NewCache(store, logger.NewTestLogger(t))
	cache.Restore(ctx)
	assert.Equal(t, 0, cache.Len())
}
