package models

import "time"

// Coordinate is the user's last known position. Owned exclusively by the
// location cache; other components read it, never mutate it.
type Coordinate struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracyMeters"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// IsZero reports whether the coordinate has never been set.
func (c Coordinate) IsZero() bool {
	return c.CapturedAt.IsZero()
}

// Age returns how old the reading is.
func (c Coordinate) Age() time.Duration {
	return time.Since(c.CapturedAt)
}

// IsStale reports whether the reading is older than maxAge. A stale
// coordinate is still usable as a fallback; staleness is the caller's concern.
func (c Coordinate) IsStale(maxAge time.Duration) bool {
	return c.Age() > maxAge
}
