package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/models"
)

// Known inbound frame type tags.
const (
	FrameNewMatch           = "new_match"
	FrameNewMessage         = "new_message"
	FrameTypingIndicator    = "typing_indicator"
	FrameMessageRead        = "message_read"
	FrameMatchViewedProfile = "match_viewed_profile"
)

// FrameAuth is the first outbound frame on every new connection.
const FrameAuth = "auth"

type AuthFrame struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type NewMatchPayload struct {
	MatchID   string    `json:"matchId"`
	ProfileID string    `json:"profileId"`
	CreatedAt time.Time `json:"createdAt"`
}

type TypingPayload struct {
	MatchID string `json:"matchId"`
}

type MessageReadPayload struct {
	MatchID   string `json:"matchId"`
	MessageID string `json:"messageId"`
}

type ProfileViewedPayload struct {
	MatchID string `json:"matchId"`
}

// Frame is the decoded inbound frame: a tagged union over the known types
// with an explicit unknown variant instead of ad hoc type-string switches
// at every call site.
type Frame struct {
	Type          string
	NewMatch      *NewMatchPayload
	NewMessage    *models.ChatMessage
	Typing        *TypingPayload
	MessageRead   *MessageReadPayload
	ProfileViewed *ProfileViewedPayload
	Unknown       json.RawMessage
}

// IsKnown reports whether the frame carries a recognized type tag.
func (f Frame) IsKnown() bool {
	return f.Unknown == nil
}

type envelope struct {
	Type string `json:"type"`
}

// frameSchemas holds the payload schema per recognized frame type.
var frameSchemas = map[string]map[string]interface{}{
	FrameNewMatch: {
		"type": "object",
		"properties": map[string]interface{}{
			"type":      map[string]interface{}{"type": "string"},
			"matchId":   map[string]interface{}{"type": "string", "minLength": 1},
			"profileId": map[string]interface{}{"type": "string", "minLength": 1},
			"createdAt": map[string]interface{}{"type": "string"},
		},
		"required": []string{"type", "matchId", "profileId"},
	},
	FrameNewMessage: {
		"type": "object",
		"properties": map[string]interface{}{
			"type":     map[string]interface{}{"type": "string"},
			"id":       map[string]interface{}{"type": "string", "minLength": 1},
			"matchId":  map[string]interface{}{"type": "string", "minLength": 1},
			"senderId": map[string]interface{}{"type": "string"},
			"text":     map[string]interface{}{"type": "string"},
			"sentAt":   map[string]interface{}{"type": "string"},
		},
		"required": []string{"type", "id", "matchId"},
	},
	FrameTypingIndicator: {
		"type": "object",
		"properties": map[string]interface{}{
			"type":    map[string]interface{}{"type": "string"},
			"matchId": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"required": []string{"type", "matchId"},
	},
	FrameMessageRead: {
		"type": "object",
		"properties": map[string]interface{}{
			"type":      map[string]interface{}{"type": "string"},
			"matchId":   map[string]interface{}{"type": "string", "minLength": 1},
			"messageId": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"required": []string{"type", "matchId", "messageId"},
	},
	FrameMatchViewedProfile: {
		"type": "object",
		"properties": map[string]interface{}{
			"type":    map[string]interface{}{"type": "string"},
			"matchId": map[string]interface{}{"type": "string", "minLength": 1},
		},
		"required": []string{"type", "matchId"},
	},
}

// DecodeFrame parses one inbound frame. Unrecognized type tags come back as
// the unknown variant with a nil error; recognized types that fail schema
// validation return a FRAME_INVALID error so the caller can drop them.
func DecodeFrame(data []byte) (Frame, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Frame{}, errors.NewFrameInvalidError("", err.Error())
	}

	schema, recognized := frameSchemas[env.Type]
	if !recognized {
		return Frame{Type: env.Type, Unknown: append(json.RawMessage(nil), data...)}, nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return Frame{}, errors.NewFrameInvalidError(env.Type, err.Error())
	}
	if !result.Valid() {
		details := ""
		for _, desc := range result.Errors() {
			details += fmt.Sprintf("%s; ", desc)
		}
		return Frame{}, errors.NewFrameInvalidError(env.Type, details)
	}

	frame := Frame{Type: env.Type}
	switch env.Type {
	case FrameNewMatch:
		var payload NewMatchPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return Frame{}, errors.NewFrameInvalidError(env.Type, err.Error())
		}
		frame.NewMatch = &payload
	case FrameNewMessage:
		var payload models.ChatMessage
		if err := json.Unmarshal(data, &payload); err != nil {
			return Frame{}, errors.NewFrameInvalidError(env.Type, err.Error())
		}
		frame.NewMessage = &payload
	case FrameTypingIndicator:
		var payload TypingPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return Frame{}, errors.NewFrameInvalidError(env.Type, err.Error())
		}
		frame.Typing = &payload
	case FrameMessageRead:
		var payload MessageReadPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return Frame{}, errors.NewFrameInvalidError(env.Type, err.Error())
		}
		frame.MessageRead = &payload
	case FrameMatchViewedProfile:
		var payload ProfileViewedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return Frame{}, errors.NewFrameInvalidError(env.Type, err.Error())
		}
		frame.ProfileViewed = &payload
	}

	return frame, nil
}
