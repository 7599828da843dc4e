package models

import "time"

// ChatMessage is a message inside a match conversation, consumed from the
// chat endpoints and from new_message sync frames.
type ChatMessage struct {
	ID        string    `json:"id"`
	MatchID   string    `json:"matchId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	SentAt    time.Time `json:"sentAt"`
	ReadAt    time.Time `json:"readAt,omitempty"`
}
