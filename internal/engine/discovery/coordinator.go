// Package discovery orchestrates ranked candidate fetches.
package discovery

import (
	"context"
	"sort"
	"time"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/engine/matchcache"
	"matching-engine/internal/engine/score"
	"matching-engine/internal/models"
)

// Boundary is the slice of the persistence client discovery depends on.
type Boundary interface {
	Discover(ctx context.Context, prefs models.PreferenceSet, lat, lon float64, limit int) ([]models.CandidateProfile, error)
}

// LocationSource yields the origin coordinate without blocking.
type LocationSource interface {
	Current() (models.Coordinate, error)
}

// Coordinator fetches a candidate batch, annotates each entry with distance
// and score, and keeps the match cache as a fallback for failed fetches.
type Coordinator struct {
	boundary Boundary
	location LocationSource
	scorer   *score.Engine
	cache    *matchcache.Cache
	logger   logger.Logger
}

func NewCoordinator(boundary Boundary, location LocationSource, scorer *score.Engine, cache *matchcache.Cache, log logger.Logger) *Coordinator {
	return &Coordinator{
		boundary: boundary,
		location: location,
		scorer:   scorer,
		cache:    cache,
		logger:   log.WithFields(map[string]interface{}{"component": "discovery"}),
	}
}

// Discover returns candidates ranked descending by compatibility score.
// On fetch failure it degrades to the current match cache contents instead
// of failing the caller; retrying the network call is the boundary's
// responsibility. Candidates that cannot be scored are skipped, never fatal
// to the batch.
func (c *Coordinator) Discover(ctx context.Context, prefs models.PreferenceSet, limit int) []models.ScoredProfile {
	origin, _ := c.location.Current() // zero origin just drops the distance factor

	candidates, err := c.boundary.Discover(ctx, prefs, origin.Latitude, origin.Longitude, limit)
	if err != nil {
		metrics.DiscoveryRequests.WithLabelValues("fallback").Inc()
		metrics.DiscoveryFallbacks.Inc()
		c.logger.Warn("discovery fetch failed, serving cached results", map[string]interface{}{
			"error":  err,
			"cached": c.cache.Len(),
		})
		return rankDescending(c.cache.All())
	}

	start := time.Now()
	results := make([]models.ScoredProfile, 0, len(candidates))
	for _, candidate := range candidates {
		matchScore, scoreErr := c.scorer.Score(candidate, prefs, origin)
		if scoreErr != nil {
			c.logger.Warn("skipping unscorable candidate", map[string]interface{}{
				"profileId": candidate.ID,
				"error":     scoreErr,
			})
			continue
		}
		results = append(results, models.ScoredProfile{Profile: candidate, Score: matchScore})
	}
	metrics.ScoreDuration.Observe(time.Since(start).Seconds())

	results = rankDescending(results)

	for _, entry := range results {
		c.cache.Put(entry)
	}
	if err := c.cache.Snapshot(ctx); err != nil {
		c.logger.Warn("match cache snapshot failed", map[string]interface{}{
			"error": err,
		})
	}

	metrics.DiscoveryRequests.WithLabelValues("ok").Inc()
	c.logger.Info("discovery completed", map[string]interface{}{
		"fetched": len(candidates),
		"scored":  len(results),
	})

	return results
}

// rankDescending sorts by score, highest first. The sort is stable: ties
// keep the order received from the boundary, with no secondary key.
func rankDescending(entries []models.ScoredProfile) []models.ScoredProfile {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score.Score > entries[j].Score.Score
	})
	return entries
}
