package models

import "time"

// PreferenceAny is the wildcard value for lifestyle preferences that the
// scorer treats as "no opinion".
const PreferenceAny = "any"

type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// IsSet reports whether the range carries a usable bound.
func (r AgeRange) IsSet() bool {
	return r.Min > 0 || r.Max > 0
}

// Contains reports whether age falls inside the range.
func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

// Midpoint returns the preferred range midpoint in whole years.
func (r AgeRange) Midpoint() int {
	return (r.Min + r.Max) / 2
}

type HeightRange struct {
	Min int `json:"min"` // centimeters
	Max int `json:"max"`
}

func (r HeightRange) IsSet() bool {
	return r.Min > 0 || r.Max > 0
}

func (r HeightRange) Contains(height int) bool {
	return height >= r.Min && height <= r.Max
}

// LifestylePreference describes the wanted lifestyle attributes. Empty or
// "any" values carry no opinion. Exercise is carried for the boundary but
// not scored; activity level is its own factor.
type LifestylePreference struct {
	Smoking  string `json:"smoking"`
	Drinking string `json:"drinking"`
	Exercise string `json:"exercise"`
}

// PreferenceSet is the user's stated matching preferences. Versioned by
// last write; read-only input to the scorer.
type PreferenceSet struct {
	AgeRange         AgeRange            `json:"ageRange"`
	MaxDistance      float64             `json:"maxDistance"` // miles
	GenderPreference []string            `json:"genderPreference"`
	Interests        []string            `json:"interests"`
	Education        []string            `json:"education"`
	Lifestyle        LifestylePreference `json:"lifestyle"`
	HeightRange      HeightRange         `json:"heightRange"`
	ActivityLevel    string              `json:"activityLevel"`
	Dealbreakers     []string            `json:"dealbreakers"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}
