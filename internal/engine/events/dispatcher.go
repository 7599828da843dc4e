// Package events fans engine events out to subscribers (UI, notification
// layer) and enforces the exactly-once rule for match notifications.
package events

import (
	"sync"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/models"
)

// MatchSource identifies which path learned about a match first.
type MatchSource string

const (
	SourceSwipe   MatchSource = "swipe"
	SourceChannel MatchSource = "channel"
)

// ConnectionState mirrors the sync channel lifecycle for observers.
type ConnectionState string

const (
	StateClosed     ConnectionState = "closed"
	StateConnecting ConnectionState = "connecting"
	StateOpen       ConnectionState = "open"
	StateReady      ConnectionState = "ready"
)

type MatchHandler func(match models.Match, source MatchSource)
type MessageHandler func(msg models.ChatMessage)
type TypingHandler func(matchID string)
type ReadHandler func(matchID, messageID string)
type ProfileViewedHandler func(matchID string)
type ConnectionHandler func(state ConnectionState)

// Dispatcher delivers events to subscribers. A MatchFormed event for a given
// matchId is delivered at most once even if both the swipe-response path and
// the channel path report it; the second arrival is a silent no-op.
type Dispatcher struct {
	mu              sync.Mutex
	seenMatches     map[string]struct{}
	matchHandlers   []MatchHandler
	messageHandlers []MessageHandler
	typingHandlers  []TypingHandler
	readHandlers    []ReadHandler
	viewedHandlers  []ProfileViewedHandler
	connHandlers    []ConnectionHandler
	logger          logger.Logger
}

func NewDispatcher(log logger.Logger) *Dispatcher {
	return &Dispatcher{
		seenMatches: make(map[string]struct{}),
		logger:      log.WithFields(map[string]interface{}{"component": "events"}),
	}
}

func (d *Dispatcher) OnMatchFormed(h MatchHandler) {
	d.mu.Lock()
	d.matchHandlers = append(d.matchHandlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) OnMessage(h MessageHandler) {
	d.mu.Lock()
	d.messageHandlers = append(d.messageHandlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) OnTyping(h TypingHandler) {
	d.mu.Lock()
	d.typingHandlers = append(d.typingHandlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) OnMessageRead(h ReadHandler) {
	d.mu.Lock()
	d.readHandlers = append(d.readHandlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) OnProfileViewed(h ProfileViewedHandler) {
	d.mu.Lock()
	d.viewedHandlers = append(d.viewedHandlers, h)
	d.mu.Unlock()
}

func (d *Dispatcher) OnConnectionState(h ConnectionHandler) {
	d.mu.Lock()
	d.connHandlers = append(d.connHandlers, h)
	d.mu.Unlock()
}

// MatchFormed surfaces a match to subscribers exactly once per matchId.
func (d *Dispatcher) MatchFormed(match models.Match, source MatchSource) {
	d.mu.Lock()
	if _, seen := d.seenMatches[match.MatchID]; seen {
		d.mu.Unlock()
		d.logger.Debug("duplicate match suppressed", map[string]interface{}{
			"matchId": match.MatchID,
			"source":  source,
		})
		return
	}
	d.seenMatches[match.MatchID] = struct{}{}
	handlers := make([]MatchHandler, len(d.matchHandlers))
	copy(handlers, d.matchHandlers)
	d.mu.Unlock()

	metrics.MatchesFormed.WithLabelValues(string(source)).Inc()
	d.logger.Info("match formed", map[string]interface{}{
		"matchId":   match.MatchID,
		"profileId": match.ProfileID,
		"source":    source,
	})

	for _, h := range handlers {
		h(match, source)
	}
}

func (d *Dispatcher) MessageReceived(msg models.ChatMessage) {
	d.mu.Lock()
	handlers := make([]MessageHandler, len(d.messageHandlers))
	copy(handlers, d.messageHandlers)
	d.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}

func (d *Dispatcher) Typing(matchID string) {
	d.mu.Lock()
	handlers := make([]TypingHandler, len(d.typingHandlers))
	copy(handlers, d.typingHandlers)
	d.mu.Unlock()

	for _, h := range handlers {
		h(matchID)
	}
}

func (d *Dispatcher) MessageRead(matchID, messageID string) {
	d.mu.Lock()
	handlers := make([]ReadHandler, len(d.readHandlers))
	copy(handlers, d.readHandlers)
	d.mu.Unlock()

	for _, h := range handlers {
		h(matchID, messageID)
	}
}

func (d *Dispatcher) ProfileViewed(matchID string) {
	d.mu.Lock()
	handlers := make([]ProfileViewedHandler, len(d.viewedHandlers))
	copy(handlers, d.viewedHandlers)
	d.mu.Unlock()

	for _, h := range handlers {
		h(matchID)
	}
}

func (d *Dispatcher) ConnectionStateChanged(state ConnectionState) {
	d.mu.Lock()
	handlers := make([]ConnectionHandler, len(d.connHandlers))
	copy(handlers, d.connHandlers)
	d.mu.Unlock()

	for _, h := range handlers {
		h(state)
	}
}
