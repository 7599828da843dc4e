package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/errors"
)

func TestDistance_KnownPairs(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
	}{
		{
			name: "new york to los angeles",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			expected: 2445.6,
		},
		{
			name: "london to paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			expected: 213.5,
		},
		{
			name: "same point",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 40.7128, lon2: -74.0060,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, d, 2.0)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	d1, err := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	require.NoError(t, err)
	d2, err := Distance(34.0522, -118.2437, 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestDistance_RoundedToOneDecimal(t *testing.T) {
	d, err := Distance(40.7128, -74.0060, 40.7489, -73.9680)
	require.NoError(t, err)
	assert.Equal(t, math.Round(d*10)/10, d)
}

func TestDistance_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		lat1 float64
		lon1 float64
		lat2 float64
		lon2 float64
	}{
		{name: "nan latitude", lat1: math.NaN(), lon1: 0, lat2: 0, lon2: 0},
		{name: "infinite longitude", lat1: 0, lon1: math.Inf(1), lat2: 0, lon2: 0},
		{name: "latitude out of range", lat1: 91, lon1: 0, lat2: 0, lon2: 0},
		{name: "longitude out of range", lat1: 0, lon1: 0, lat2: 0, lon2: -181},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidCoordinate))
		})
	}
}
