package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

func testMatch(id string) models.Match {
	return models.Match{
		MatchID:   id,
		ProfileID: "p-" + id,
		CreatedAt: time.Now().UTC(),
		Status:    models.MatchActive,
	}
}

func TestMatchFormed_DeliveredOnce(t *testing.T) {
	dispatcher := NewDispatcher(logger.NewTestLogger(t))

	var delivered []MatchSource
	dispatcher.OnMatchFormed(func(m models.Match, source MatchSource) {
		delivered = append(delivered, source)
	})

	// both paths report the same match; only the first arrival is surfaced
	dispatcher.MatchFormed(testMatch("m1"), SourceSwipe)
	dispatcher.MatchFormed(testMatch("m1"), SourceChannel)

	require.Len(t, delivered, 1)
	assert.Equal(t, SourceSwipe, delivered[0])
}

func TestMatchFormed_DistinctMatchesEachDelivered(t *testing.T) {
	dispatcher := NewDispatcher(logger.NewTestLogger(t))

	var delivered []string
	dispatcher.OnMatchFormed(func(m models.Match, source MatchSource) {
		delivered = append(delivered, m.MatchID)
	})

	dispatcher.MatchFormed(testMatch("m1"), SourceChannel)
	dispatcher.MatchFormed(testMatch("m2"), SourceSwipe)

	assert.Equal(t, []string{"m1", "m2"}, delivered)
}

func TestMatchFormed_AllSubscribersInvoked(t *testing.T) {
	dispatcher := NewDispatcher(logger.NewTestLogger(t))

	first, second := 0, 0
	dispatcher.OnMatchFormed(func(models.Match, MatchSource) { first++ })
	dispatcher.OnMatchFormed(func(models.Match, MatchSource) { second++ })

	dispatcher.MatchFormed(testMatch("m1"), SourceSwipe)

	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestMessageEvents_FanOut(t *testing.T) {
	dispatcher := NewDispatcher(logger.NewTestLogger(t))

	var messages []models.ChatMessage
	var typing, viewed []string
	type readEvent struct{ matchID, messageID string }
	var reads []readEvent

	dispatcher.OnMessage(func(msg models.ChatMessage) { messages = append(messages, msg) })
	dispatcher.OnTyping(func(matchID string) { typing = append(typing, matchID) })
	dispatcher.OnMessageRead(func(matchID, messageID string) { reads = append(reads, readEvent{matchID, messageID}) })
	dispatcher.OnProfileViewed(func(matchID string) { viewed = append(viewed, matchID) })

	dispatcher.MessageReceived(models.ChatMessage{ID: "msg1", MatchID: "m1", Text: "hey"})
	dispatcher.Typing("m1")
	dispatcher.MessageRead("m1", "msg1")
	dispatcher.ProfileViewed("m1")

	require.Len(t, messages, 1)
	assert.Equal(t, "hey", messages[0].Text)
	assert.Equal(t, []string{"m1"}, typing)
	assert.Equal(t, []readEvent{{"m1", "msg1"}}, reads)
	assert.Equal(t, []string{"m1"}, viewed)
}

func TestConnectionStateChanged_FanOut(t *testing.T) {
	dispatcher := NewDispatcher(logger.NewTestLogger(t))

	var states []ConnectionState
	dispatcher.OnConnectionState(func(state ConnectionState) { states = append(states, state) })

	dispatcher.ConnectionStateChanged(StateConnecting)
	dispatcher.ConnectionStateChanged(StateOpen)
	dispatcher.ConnectionStateChanged(StateReady)

	assert.Equal(t, []ConnectionState{StateConnecting, StateOpen, StateReady}, states)
}

func TestEvents_NoSubscribersIsSafe(t *testing.T) {
	dispatcher := NewDispatcher(logger.NewTestLogger(t))

	dispatcher.MatchFormed(testMatch("m1"), SourceSwipe)
	dispatcher.MessageReceived(models.ChatMessage{ID: "msg1"})
	dispatcher.Typing("m1")
	dispatcher.MessageRead("m1", "msg1")
	dispatcher.ProfileViewed("m1")
	dispatcher.ConnectionStateChanged(StateClosed)
}
