package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_discovery_requests_total",
			Help: "Total number of discovery requests by outcome",
		},
		[]string{"outcome"},
	)

	DiscoveryFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_discovery_fallbacks_total",
			Help: "Total number of discovery requests served from the match cache",
		},
	)

	SwipeDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_swipe_decisions_total",
			Help: "Total number of swipe decisions by direction and outcome",
		},
		[]string{"direction", "outcome"},
	)

	MatchesFormed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_matches_formed_total",
			Help: "Total number of matches surfaced to subscribers by source path",
		},
		[]string{"source"},
	)

	SyncFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_sync_frames_total",
			Help: "Total number of inbound sync frames by type",
		},
		[]string{"type"},
	)

	SyncReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "engine_sync_reconnects_total",
			Help: "Total number of sync channel reconnect attempts",
		},
	)

	ScoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "engine_score_batch_duration_seconds",
			Help: "Duration of scoring a discovery batch in seconds",
		},
	)
)
