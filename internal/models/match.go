package models

import "time"

// SwipeDirection is the user's decision on a candidate card.
type SwipeDirection string

const (
	SwipePass      SwipeDirection = "pass"
	SwipeLike      SwipeDirection = "like"
	SwipeSuperlike SwipeDirection = "superlike"
)

// IsValid reports whether the direction is one of the three known values.
func (d SwipeDirection) IsValid() bool {
	switch d {
	case SwipePass, SwipeLike, SwipeSuperlike:
		return true
	}
	return false
}

// SwipeDecision is created on user action and sent once; the persistence
// boundary is idempotent on profileId+userId so it is not retried
// automatically.
type SwipeDecision struct {
	ID        string         `json:"id"`
	ProfileID string         `json:"profileId"`
	Direction SwipeDirection `json:"direction"`
	IssuedAt  time.Time      `json:"issuedAt"`
}

// MatchStatus is the lifecycle state of a match record.
type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchUnmatched MatchStatus = "unmatched"
)

// Match is created only by the persistence boundary in response to a mutual
// like; the engine never fabricates one locally.
type Match struct {
	MatchID   string      `json:"matchId"`
	ProfileID string      `json:"profileId"`
	CreatedAt time.Time   `json:"createdAt"`
	Status    MatchStatus `json:"status"`
}

// LifestyleMatch is the lifestyle slice of the factor breakdown.
type LifestyleMatch struct {
	Smoking  bool `json:"smoking"`
	Drinking bool `json:"drinking"`
	Score    int  `json:"score"`
}

// FactorBreakdown records each scored dimension contributing to the overall
// compatibility score.
type FactorBreakdown struct {
	SharedInterests  []string       `json:"sharedInterests"`
	DistanceScore    int            `json:"distanceScore"`
	AgeCompatibility int            `json:"ageCompatibility"`
	EducationMatch   int            `json:"educationMatch"`
	LifestyleMatch   LifestyleMatch `json:"lifestyleMatch"`
	HeightMatch      int            `json:"heightMatch"`
	ActivityMatch    int            `json:"activityMatch"`
	InterestScore    int            `json:"interestScore"`
}

// MatchScore is derived purely from the candidate profile, the preference
// set and the origin coordinate at computation time. Recomputed whenever
// either input changes; cached last-computed-wins, no history retained.
type MatchScore struct {
	ProfileID       string          `json:"profileId"`
	Score           int             `json:"score"` // 0-100
	DistanceMiles   float64         `json:"distanceMiles"`
	FactorBreakdown FactorBreakdown `json:"factorBreakdown"`
	ComputedAt      time.Time       `json:"computedAt"`
}

// ScoredProfile pairs a candidate snapshot with its computed score; the unit
// held by the match cache and returned by discovery.
type ScoredProfile struct {
	Profile CandidateProfile `json:"profile"`
	Score   MatchScore       `json:"score"`
}
