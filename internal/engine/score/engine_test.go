package score

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

func testOrigin() models.Coordinate {
	return models.Coordinate{
		Latitude:   40.0,
		Longitude:  -74.0,
		CapturedAt: time.Now(),
	}
}

// candidateAtMiles places a candidate due north of the test origin.
func candidateAtMiles(miles float64) (float64, float64) {
	return 40.0 + miles/3959.0*180.0/3.141592653589793, -74.0
}

func createTestPreferences() models.PreferenceSet {
	return models.PreferenceSet{
		AgeRange:    models.AgeRange{Min: 22, Max: 35},
		MaxDistance: 50,
		Interests:   []string{"hiking", "coffee"},
	}
}

func TestScore_WeightedScenario(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	lat, lon := candidateAtMiles(10)
	candidate := models.CandidateProfile{
		ID:        "profile-1",
		Age:       28,
		Latitude:  lat,
		Longitude: lon,
		Interests: []string{"hiking", "coffee"},
	}

	result, err := engine.Score(candidate, createTestPreferences(), testOrigin())
	require.NoError(t, err)

	assert.Equal(t, 93, result.Score)
	assert.InDelta(t, 10.0, result.DistanceMiles, 0.1)
	assert.Equal(t, 100, result.FactorBreakdown.InterestScore)
	assert.Equal(t, 80, result.FactorBreakdown.DistanceScore)
	assert.Equal(t, 100, result.FactorBreakdown.AgeCompatibility)
	assert.ElementsMatch(t, []string{"hiking", "coffee"}, result.FactorBreakdown.SharedInterests)
}

func TestScore_NoMatchableFactors(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	candidate := models.CandidateProfile{ID: "profile-2"}
	result, err := engine.Score(candidate, models.PreferenceSet{}, models.Coordinate{})
	require.NoError(t, err)

	assert.Equal(t, 50, result.Score)
}

func TestScore_AlwaysInRange(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	lat, lon := candidateAtMiles(200)
	candidates := []models.CandidateProfile{
		{ID: "far away, nothing shared", Age: 60, Latitude: lat, Longitude: lon, Interests: []string{"golf"}, Education: "phd",
			Lifestyle: models.CandidateLifestyle{Smoking: "regularly", Drinking: "regularly"}, Height: 140, ActivityLevel: "low"},
		{ID: "ideal", Age: 28, Latitude: 40.0, Longitude: -74.0, Interests: []string{"hiking", "coffee"}, Education: "bachelors",
			Lifestyle: models.CandidateLifestyle{Smoking: "never", Drinking: "socially"}, Height: 175, ActivityLevel: "high"},
	}

	prefs := models.PreferenceSet{
		AgeRange:      models.AgeRange{Min: 25, Max: 32},
		MaxDistance:   50,
		Interests:     []string{"hiking", "coffee"},
		Education:     []string{"bachelors"},
		Lifestyle:     models.LifestylePreference{Smoking: "never", Drinking: "socially"},
		HeightRange:   models.HeightRange{Min: 160, Max: 190},
		ActivityLevel: "high",
	}

	for _, candidate := range candidates {
		result, err := engine.Score(candidate, prefs, testOrigin())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0, candidate.ID)
		assert.LessOrEqual(t, result.Score, 100, candidate.ID)
	}
}

func TestScore_MoreFactorsScoreHigher(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))
	prefs := createTestPreferences()

	lat, lon := candidateAtMiles(5)
	better := models.CandidateProfile{ID: "better", Age: 28, Latitude: lat, Longitude: lon, Interests: []string{"hiking", "coffee"}}
	worse := models.CandidateProfile{ID: "worse", Age: 45, Latitude: lat, Longitude: lon, Interests: []string{"hiking"}}

	betterResult, err := engine.Score(better, prefs, testOrigin())
	require.NoError(t, err)
	worseResult, err := engine.Score(worse, prefs, testOrigin())
	require.NoError(t, err)

	assert.Greater(t, betterResult.Score, worseResult.Score)
}

func TestScore_MissingOriginDropsDistanceFactor(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	candidate := models.CandidateProfile{
		ID:        "profile-3",
		Age:       28,
		Latitude:  40.1,
		Longitude: -74.0,
		Interests: []string{"hiking", "coffee"},
	}

	result, err := engine.Score(candidate, createTestPreferences(), models.Coordinate{})
	require.NoError(t, err)

	// interests 100*0.30 + age 100*0.15 over weight 0.45
	assert.Equal(t, 100, result.Score)
	assert.Zero(t, result.FactorBreakdown.DistanceScore)
	assert.Zero(t, result.DistanceMiles)
}

func TestScore_BadCandidateCoordinateReportsError(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	candidate := models.CandidateProfile{
		ID:        "profile-4",
		Age:       28,
		Latitude:  200,
		Longitude: 0,
		Interests: []string{"hiking"},
	}

	result, err := engine.Score(candidate, createTestPreferences(), testOrigin())
	require.Error(t, err)

	// scoring still proceeds without the distance factor
	assert.Greater(t, result.Score, 0)
	assert.Zero(t, result.FactorBreakdown.DistanceScore)
}

func TestScore_InterestDenominatorUsesLargerList(t *testing.T) {
	engine := NewEngine(logger.NewTestLogger(t))

	candidate := models.CandidateProfile{
		ID:        "profile-5",
		Interests: []string{"hiking", "coffee", "art"},
	}
	prefs := models.PreferenceSet{Interests: []string{"hiking", "coffee"}}

	result, err := engine.Score(candidate, prefs, models.Coordinate{})
	require.NoError(t, err)

	// 2 shared of max(2, 3)
	assert.Equal(t, 67, result.FactorBreakdown.InterestScore)
}

func TestScore_LifestylePenalties(t *testing.T) {
	tests := []struct {
		name     string
		pref     models.LifestylePreference
		cand     models.CandidateLifestyle
		expected int
	}{
		{
			name:     "both match",
			pref:     models.LifestylePreference{Smoking: "never", Drinking: "socially"},
			cand:     models.CandidateLifestyle{Smoking: "never", Drinking: "socially"},
			expected: 100,
		},
		{
			name:     "smoking mismatch",
			pref:     models.LifestylePreference{Smoking: "never", Drinking: "socially"},
			cand:     models.CandidateLifestyle{Smoking: "regularly", Drinking: "socially"},
			expected: 60,
		},
		{
			name:     "drinking mismatch",
			pref:     models.LifestylePreference{Smoking: "never", Drinking: "never"},
			cand:     models.CandidateLifestyle{Smoking: "never", Drinking: "regularly"},
			expected: 70,
		},
		{
			name:     "both mismatch",
			pref:     models.LifestylePreference{Smoking: "never", Drinking: "never"},
			cand:     models.CandidateLifestyle{Smoking: "regularly", Drinking: "regularly"},
			expected: 30,
		},
		{
			name:     "any smoking is no opinion",
			pref:     models.LifestylePreference{Smoking: models.PreferenceAny, Drinking: "socially"},
			cand:     models.CandidateLifestyle{Smoking: "regularly", Drinking: "socially"},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out models.LifestyleMatch
			sub := lifestyleFit(tt.pref, tt.cand, &out)
			assert.Equal(t, tt.expected, sub)
			assert.Equal(t, tt.expected, out.Score)
		})
	}
}

func TestAgeFit(t *testing.T) {
	r := models.AgeRange{Min: 22, Max: 35}

	assert.Equal(t, 100, ageFit(28, r))
	assert.Equal(t, 30, ageFit(40, r))
	assert.Equal(t, 30, ageFit(18, r))
	// 6 years from the midpoint, inside the range
	assert.Equal(t, 88, ageFit(22, r))
	assert.Equal(t, 86, ageFit(35, r))
}
