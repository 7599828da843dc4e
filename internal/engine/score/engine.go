// Package score computes the multi-factor compatibility score for a
// candidate profile against a preference set.
package score

import (
	"math"
	"time"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/engine/geo"
	"matching-engine/internal/models"
)

// Factor weights. Fixed, not reconfigurable at runtime.
const (
	weightInterests = 0.30
	weightDistance  = 0.25
	weightAge       = 0.15
	weightEducation = 0.10
	weightLifestyle = 0.10
	weightHeight    = 0.05
	weightActivity  = 0.05
)

// neutralScore is assigned when a candidate has no matchable factors at all.
const neutralScore = 50

type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{
		logger: log.WithFields(map[string]interface{}{"component": "score"}),
	}
}

// Score computes a 0-100 compatibility score and factor breakdown for the
// candidate. Each factor that has both a preference and a corresponding
// candidate attribute contributes subScore*weight; the final score is the
// weighted average, or the neutral default when no factor is matchable.
// Scoring never fails; a bad candidate coordinate only drops the distance
// factor, reported through the returned error for callers that care.
func (e *Engine) Score(candidate models.CandidateProfile, prefs models.PreferenceSet, origin models.Coordinate) (models.MatchScore, error) {
	var (
		total       float64
		totalWeight float64
		breakdown   models.FactorBreakdown
		distErr     error
	)

	distanceMiles := -1.0
	if !origin.IsZero() {
		distanceMiles, distErr = geo.Distance(origin.Latitude, origin.Longitude, candidate.Latitude, candidate.Longitude)
		if distErr != nil {
			distanceMiles = -1.0
		}
	}

	if len(prefs.Interests) > 0 && len(candidate.Interests) > 0 {
		shared := intersect(prefs.Interests, candidate.Interests)
		breakdown.SharedInterests = shared
		denom := len(prefs.Interests)
		if len(candidate.Interests) > denom {
			denom = len(candidate.Interests)
		}
		sub := float64(len(shared)) / float64(denom) * 100
		breakdown.InterestScore = int(math.Round(sub))
		total += sub * weightInterests
		totalWeight += weightInterests
	}

	if prefs.MaxDistance > 0 && distanceMiles >= 0 {
		sub := 100 - distanceMiles/prefs.MaxDistance*100
		if sub < 0 {
			sub = 0
		}
		breakdown.DistanceScore = int(math.Round(sub))
		total += sub * weightDistance
		totalWeight += weightDistance
	}

	if prefs.AgeRange.IsSet() && candidate.Age > 0 {
		sub := ageFit(candidate.Age, prefs.AgeRange)
		breakdown.AgeCompatibility = sub
		total += float64(sub) * weightAge
		totalWeight += weightAge
	}

	if len(prefs.Education) > 0 && candidate.Education != "" {
		sub := 40
		for _, ed := range prefs.Education {
			if ed == candidate.Education {
				sub = 100
				break
			}
		}
		breakdown.EducationMatch = sub
		total += float64(sub) * weightEducation
		totalWeight += weightEducation
	}

	if lifestyleMatchable(prefs.Lifestyle, candidate.Lifestyle) {
		sub := lifestyleFit(prefs.Lifestyle, candidate.Lifestyle, &breakdown.LifestyleMatch)
		total += float64(sub) * weightLifestyle
		totalWeight += weightLifestyle
	}

	if prefs.HeightRange.IsSet() && candidate.Height > 0 {
		sub := 50
		if prefs.HeightRange.Contains(candidate.Height) {
			sub = 100
		}
		breakdown.HeightMatch = sub
		total += float64(sub) * weightHeight
		totalWeight += weightHeight
	}

	if prefs.ActivityLevel != "" && candidate.ActivityLevel != "" {
		sub := 60
		if prefs.ActivityLevel == candidate.ActivityLevel {
			sub = 100
		}
		breakdown.ActivityMatch = sub
		total += float64(sub) * weightActivity
		totalWeight += weightActivity
	}

	final := neutralScore
	if totalWeight > 0 {
		final = int(math.Round(total / totalWeight))
	}

	if distanceMiles < 0 {
		distanceMiles = 0
	}

	e.logger.Debug("score computed", map[string]interface{}{
		"profileId": candidate.ID,
		"score":     final,
		"distance":  distanceMiles,
	})

	return models.MatchScore{
		ProfileID:       candidate.ID,
		Score:           final,
		DistanceMiles:   distanceMiles,
		FactorBreakdown: breakdown,
		ComputedAt:      time.Now().UTC(),
	}, distErr
}

// ageFit scores 100 minus 2 points per year of distance from the preferred
// range midpoint, floored at 70 while inside the range, 30 outside it.
func ageFit(age int, r models.AgeRange) int {
	if !r.Contains(age) {
		return 30
	}
	dist := age - r.Midpoint()
	if dist < 0 {
		dist = -dist
	}
	sub := 100 - 2*dist
	if sub < 70 {
		sub = 70
	}
	return sub
}

func lifestyleMatchable(pref models.LifestylePreference, cand models.CandidateLifestyle) bool {
	smokingSet := pref.Smoking != "" && pref.Smoking != models.PreferenceAny
	drinkingSet := pref.Drinking != "" && pref.Drinking != models.PreferenceAny
	if !smokingSet && !drinkingSet {
		return false
	}
	return cand.Smoking != "" || cand.Drinking != ""
}

// lifestyleFit starts at 100, subtracts 40 for a smoking mismatch and 30 for
// a drinking mismatch (only when the preference is not "any"), floored at 0.
func lifestyleFit(pref models.LifestylePreference, cand models.CandidateLifestyle, out *models.LifestyleMatch) int {
	sub := 100
	out.Smoking = true
	out.Drinking = true

	if pref.Smoking != "" && pref.Smoking != models.PreferenceAny && pref.Smoking != cand.Smoking {
		sub -= 40
		out.Smoking = false
	}
	if pref.Drinking != "" && pref.Drinking != models.PreferenceAny && pref.Drinking != cand.Drinking {
		sub -= 30
		out.Drinking = false
	}
	if sub < 0 {
		sub = 0
	}
	out.Score = sub
	return sub
}

func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	shared := []string{}
	for _, v := range a {
		if _, ok := set[v]; ok {
			shared = append(shared, v)
		}
	}
	return shared
}
