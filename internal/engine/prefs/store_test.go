package prefs

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/database"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

type fakeBoundary struct {
	prefs   models.PreferenceSet
	getErr  error
	putErr  error
	putCall int
}

func (b *fakeBoundary) GetPreferences(ctx context.Context) (models.PreferenceSet, error) {
	if b.getErr != nil {
		return models.PreferenceSet{}, b.getErr
	}
	return b.prefs, nil
}

func (b *fakeBoundary) PutPreferences(ctx context.Context, prefs models.PreferenceSet) error {
	b.putCall++
	if b.putErr != nil {
		return b.putErr
	}
	b.prefs = prefs
	return nil
}

func setupTestStore(t *testing.T) *database.RedisClient {
	mr := miniredis.RunT(t)
	return database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestLoad_FromBoundary(t *testing.T) {
	boundary := &fakeBoundary{prefs: models.PreferenceSet{MaxDistance: 50}}
	store := NewStore(boundary, setupTestStore(t), logger.NewTestLogger(t))

	require.NoError(t, store.Load(context.Background()))
	assert.Equal(t, 50.0, store.Current().MaxDistance)
}

func TestLoad_FallsBackToPersistedCopy(t *testing.T) {
	kv := setupTestStore(t)
	ctx := context.Background()

	healthy := &fakeBoundary{prefs: models.PreferenceSet{MaxDistance: 50, Interests: []string{"hiking"}}}
	first := NewStore(healthy, kv, logger.NewTestLogger(t))
	require.NoError(t, first.Load(ctx))

	broken := &fakeBoundary{getErr: fmt.Errorf("boundary unreachable")}
	second := NewStore(broken, kv, logger.NewTestLogger(t))
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, []string{"hiking"}, second.Current().Interests)
}

func TestLoad_NoPersistedCopyReturnsError(t *testing.T) {
	broken := &fakeBoundary{getErr: fmt.Errorf("boundary unreachable")}
	store := NewStore(broken, setupTestStore(t), logger.NewTestLogger(t))

	require.Error(t, store.Load(context.Background()))
	assert.Zero(t, store.Current().MaxDistance)
}

func TestUpdate_WriteThrough(t *testing.T) {
	boundary := &fakeBoundary{}
	store := NewStore(boundary, setupTestStore(t), logger.NewTestLogger(t))

	err := store.Update(context.Background(), models.PreferenceSet{MaxDistance: 25})
	require.NoError(t, err)
	assert.Equal(t, 1, boundary.putCall)
	assert.Equal(t, 25.0, store.Current().MaxDistance)
	assert.False(t, store.Current().UpdatedAt.IsZero())
	assert.Equal(t, 25.0, boundary.prefs.MaxDistance)
}

func TestUpdate_BoundaryRejectionLeavesLocalCopy(t *testing.T) {
	boundary := &fakeBoundary{prefs: models.PreferenceSet{MaxDistance: 50}}
	store := NewStore(boundary, setupTestStore(t), logger.NewTestLogger(t))
	require.NoError(t, store.Load(context.Background()))

	boundary.putErr = fmt.Errorf("boundary rejected write")
	err := store.Update(context.Background(), models.PreferenceSet{MaxDistance: 25})
	require.Error(t, err)
	assert.Equal(t, 50.0, store.Current().MaxDistance)
}
