// Package swipe records directional decisions and surfaces resulting
// matches.
package swipe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"matching-engine/internal/api"
	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/engine/events"
	"matching-engine/internal/engine/matchcache"
	"matching-engine/internal/models"
)

// Boundary is the slice of the persistence client the state machine uses.
type Boundary interface {
	Swipe(ctx context.Context, decision models.SwipeDecision) (api.SwipeResult, error)
}

// StateMachine tracks undecided→decided per profile within one discovery
// session. A profile is marked decided only after the boundary accepts the
// decision, so a failed send leaves the card retryable.
type StateMachine struct {
	mu         sync.Mutex
	decided    map[string]models.SwipeDirection
	boundary   Boundary
	dispatcher *events.Dispatcher
	cache      *matchcache.Cache
	logger     logger.Logger
}

func NewStateMachine(boundary Boundary, dispatcher *events.Dispatcher, cache *matchcache.Cache, log logger.Logger) *StateMachine {
	return &StateMachine{
		decided:    make(map[string]models.SwipeDirection),
		boundary:   boundary,
		dispatcher: dispatcher,
		cache:      cache,
		logger:     log.WithFields(map[string]interface{}{"component": "swipe"}),
	}
}

// Decide records a decision for a profile. Duplicate taps on an
// already-decided card are rejected client-side without a network call.
// On a mutual like the boundary's match is surfaced through the dispatcher
// and the profile leaves discovery consideration.
func (s *StateMachine) Decide(ctx context.Context, profileID string, direction models.SwipeDirection) (*models.Match, error) {
	if !direction.IsValid() {
		return nil, fmt.Errorf("unknown swipe direction: %s", direction)
	}

	s.mu.Lock()
	if _, done := s.decided[profileID]; done {
		s.mu.Unlock()
		metrics.SwipeDecisions.WithLabelValues(string(direction), "duplicate").Inc()
		return nil, errors.NewAlreadyDecidedError(profileID)
	}
	s.mu.Unlock()

	decision := models.SwipeDecision{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Direction: direction,
		IssuedAt:  time.Now().UTC(),
	}

	result, err := s.boundary.Swipe(ctx, decision)
	if err != nil {
		// State stays undecided; the UI may retry. This is the one
		// caller-retryable path in the engine.
		metrics.SwipeDecisions.WithLabelValues(string(direction), "failed").Inc()
		s.logger.Warn("swipe submit failed", map[string]interface{}{
			"profileId": profileID,
			"direction": direction,
			"error":     err,
		})
		return nil, errors.NewSwipeSubmitFailedError(profileID, err)
	}

	s.mu.Lock()
	s.decided[profileID] = direction
	s.mu.Unlock()

	metrics.SwipeDecisions.WithLabelValues(string(direction), "ok").Inc()

	if !result.IsMatch || result.Match == nil {
		return nil, nil
	}

	s.cache.Remove(profileID)
	s.dispatcher.MatchFormed(*result.Match, events.SourceSwipe)

	return result.Match, nil
}

// IsDecided reports whether a profile has been decided in this session.
func (s *StateMachine) IsDecided(profileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, done := s.decided[profileID]
	return done
}

// Reset clears per-session state when a new discovery session begins.
func (s *StateMachine) Reset() {
	s.mu.Lock()
	s.decided = make(map[string]models.SwipeDirection)
	s.mu.Unlock()
}
