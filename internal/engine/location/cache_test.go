package location

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/database"
	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

type fakeProvider struct {
	coord models.Coordinate
	err   error
	calls int
}

func (p *fakeProvider) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	p.calls++
	if p.err != nil {
		return models.Coordinate{}, p.err
	}
	return p.coord, nil
}

func setupTestStore(t *testing.T) *database.RedisClient {
	mr := miniredis.RunT(t)
	return database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestCache_CurrentWithoutReading(t *testing.T) {
	cache := NewCache(&fakeProvider{}, setupTestStore(t), time.Second, logger.NewTestLogger(t))

	_, err := cache.Current()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNoLocation))
}

func TestCache_RefreshUpdatesCurrent(t *testing.T) {
	provider := &fakeProvider{
		coord: models.Coordinate{Latitude: 40.7, Longitude: -74.0, AccuracyMeters: 12},
	}
	cache := NewCache(provider, setupTestStore(t), time.Second, logger.NewTestLogger(t))

	coord, err := cache.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40.7, coord.Latitude)
	assert.False(t, coord.CapturedAt.IsZero())

	current, err := cache.Current()
	require.NoError(t, err)
	assert.Equal(t, coord, current)
}

func TestCache_RefreshFailureKeepsPreviousValue(t *testing.T) {
	provider := &fakeProvider{
		coord: models.Coordinate{Latitude: 40.7, Longitude: -74.0},
	}
	cache := NewCache(provider, setupTestStore(t), time.Second, logger.NewTestLogger(t))

	_, err := cache.Refresh(context.Background())
	require.NoError(t, err)

	provider.err = fmt.Errorf("gps unavailable")
	_, err = cache.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLocationUnavailable))

	current, err := cache.Current()
	require.NoError(t, err)
	assert.Equal(t, 40.7, current.Latitude)
}

func TestCache_RestoresPersistedCoordinate(t *testing.T) {
	store := setupTestStore(t)
	provider := &fakeProvider{
		coord: models.Coordinate{Latitude: 40.7, Longitude: -74.0},
	}

	first := NewCache(provider, store, time.Second, logger.NewTestLogger(t))
	_, err := first.Refresh(context.Background())
	require.NoError(t, err)

	// a new cache over the same store sees the last reading without a refresh
	second := NewCache(&fakeProvider{err: fmt.Errorf("no signal")}, store, time.Second, logger.NewTestLogger(t))
	current, err := second.Current()
	require.NoError(t, err)
	assert.Equal(t, 40.7, current.Latitude)
}

func TestCoordinate_Staleness(t *testing.T) {
	fresh := models.Coordinate{CapturedAt: time.Now()}
	old := models.Coordinate{CapturedAt: time.Now().Add(-time.Hour)}

	assert.False(t, fresh.IsStale(10*time.Minute))
	assert.True(t, old.IsStale(10*time.Minute))
}
