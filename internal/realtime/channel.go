// Package realtime maintains the long-lived duplex sync channel that
// delivers match, message and presence events.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/common/metrics"
	"matching-engine/internal/engine/events"
	"matching-engine/internal/engine/matchcache"
	"matching-engine/internal/models"
)

// Options configures a Channel.
type Options struct {
	URL            string
	AuthToken      string
	ReconnectDelay time.Duration // fixed, no backoff growth
	WriteTimeout   time.Duration
}

// Channel is the duplex sync connection. Exactly one live instance exists
// per running client; its lifecycle is tied to the process and it recreates
// the underlying connection on every reconnect.
type Channel struct {
	opts       Options
	dispatcher *events.Dispatcher
	cache      *matchcache.Cache
	logger     logger.Logger

	mu               sync.Mutex
	conn             *websocket.Conn
	state            events.ConnectionState
	ready            bool
	pending          []Frame
	reconnectAttempt int
	sessionID        string

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewChannel(opts Options, dispatcher *events.Dispatcher, cache *matchcache.Cache, log logger.Logger) *Channel {
	if opts.ReconnectDelay == 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	return &Channel{
		opts:       opts,
		dispatcher: dispatcher,
		cache:      cache,
		state:      events.StateClosed,
		logger:     log.WithFields(map[string]interface{}{"component": "realtime"}),
		done:       make(chan struct{}),
	}
}

// Start runs the connect/read/reconnect loop until Stop is called. It
// returns immediately; channel errors are self-healing and invisible to
// callers except via the connection-state observable.
func (c *Channel) Start() {
	c.wg.Add(1)
	go c.run()
}

// Stop tears the channel down. This is the only thing that cancels a
// pending reconnect.
func (c *Channel) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.mu.Unlock()
	})
	c.wg.Wait()
	c.setState(events.StateClosed)
}

// State returns the current connection state.
func (c *Channel) State() events.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) run() {
	defer c.wg.Done()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		if err := c.connectAndServe(); err != nil {
			c.logger.Warn("sync channel dropped", map[string]interface{}{
				"error":            err,
				"reconnectAttempt": c.reconnectAttempt,
			})
		}

		c.setState(events.StateClosed)

		// Fixed delay, unbounded attempts: availability over server load
		// protection for a user-facing real-time feature.
		select {
		case <-c.done:
			return
		case <-time.After(c.opts.ReconnectDelay):
		}

		c.mu.Lock()
		c.reconnectAttempt++
		c.mu.Unlock()
		metrics.SyncReconnects.Inc()
	}
}

func (c *Channel) connectAndServe() error {
	c.setState(events.StateConnecting)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.opts.URL, nil)
	cancel()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.ready = false
	c.pending = nil
	c.sessionID = uuid.NewString()
	c.mu.Unlock()

	c.setState(events.StateOpen)

	// The auth frame is always the first outbound frame on a new
	// connection.
	auth := AuthFrame{Type: FrameAuth, Token: c.opts.AuthToken}
	if err := c.writeJSON(conn, auth); err != nil {
		conn.Close()
		return err
	}

	c.logger.Info("sync channel connected", map[string]interface{}{
		"sessionId": c.sessionID,
	})

	return c.readLoop(conn)
}

func (c *Channel) writeJSON(conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Channel) readLoop(conn *websocket.Conn) error {
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", map[string]interface{}{
					"error": err,
				})
			}
			return err
		}

		frame, err := DecodeFrame(data)
		if err != nil {
			// Invalid payloads are dropped like unknown types, never fatal.
			metrics.SyncFrames.WithLabelValues("invalid").Inc()
			c.logger.Warn("dropping invalid frame", map[string]interface{}{
				"error": err,
			})
			continue
		}

		if !frame.IsKnown() {
			metrics.SyncFrames.WithLabelValues("unknown").Inc()
			c.logger.Info("dropping unknown frame type", map[string]interface{}{
				"type": frame.Type,
			})
			continue
		}

		metrics.SyncFrames.WithLabelValues(frame.Type).Inc()
		c.accept(frame)
	}
}

// accept promotes the session to ready on the first recognized frame after
// auth, then dispatches everything buffered in arrival order. Buffering
// until then prevents events from being attributed to the wrong session.
func (c *Channel) accept(frame Frame) {
	c.mu.Lock()
	if !c.ready {
		c.ready = true
		c.pending = append(c.pending, frame)
		pending := c.pending
		c.pending = nil
		c.mu.Unlock()

		c.setState(events.StateReady)
		for _, buffered := range pending {
			c.dispatch(buffered)
		}
		return
	}
	c.mu.Unlock()

	c.dispatch(frame)
}

func (c *Channel) dispatch(frame Frame) {
	switch frame.Type {
	case FrameNewMatch:
		match := models.Match{
			MatchID:   frame.NewMatch.MatchID,
			ProfileID: frame.NewMatch.ProfileID,
			CreatedAt: frame.NewMatch.CreatedAt,
			Status:    models.MatchActive,
		}
		// A matched profile leaves discovery consideration.
		c.cache.Remove(match.ProfileID)
		c.dispatcher.MatchFormed(match, events.SourceChannel)
	case FrameNewMessage:
		c.dispatcher.MessageReceived(*frame.NewMessage)
	case FrameTypingIndicator:
		c.dispatcher.Typing(frame.Typing.MatchID)
	case FrameMessageRead:
		c.dispatcher.MessageRead(frame.MessageRead.MatchID, frame.MessageRead.MessageID)
	case FrameMatchViewedProfile:
		c.dispatcher.ProfileViewed(frame.ProfileViewed.MatchID)
	}
}

func (c *Channel) setState(state events.ConnectionState) {
	c.mu.Lock()
	if c.state == state {
		c.mu.Unlock()
		return
	}
	c.state = state
	c.mu.Unlock()

	c.dispatcher.ConnectionStateChanged(state)
}
