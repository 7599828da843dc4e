package models

// CandidateLifestyle holds the candidate's lifestyle attributes as reported
// by the persistence boundary.
type CandidateLifestyle struct {
	Smoking  string `json:"smoking"`
	Drinking string `json:"drinking"`
	Exercise string `json:"exercise"`
}

// CandidateProfile is an immutable snapshot fetched from the persistence
// boundary; never mutated locally.
type CandidateProfile struct {
	ID            string             `json:"id"`
	Name          string             `json:"name,omitempty"`
	Gender        string             `json:"gender,omitempty"`
	Age           int                `json:"age"`
	Latitude      float64            `json:"latitude"`
	Longitude     float64            `json:"longitude"`
	Interests     []string           `json:"interests"`
	Education     string             `json:"education"`
	Lifestyle     CandidateLifestyle `json:"lifestyle"`
	Height        int                `json:"height"` // centimeters
	ActivityLevel string             `json:"activityLevel"`
	Bio           string             `json:"bio,omitempty"`
	PhotoURL      string             `json:"photoUrl,omitempty"`
}
