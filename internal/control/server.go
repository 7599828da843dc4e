// Package control is the daemon's local HTTP surface. Clients on the same
// host drive discovery, swipes, location refreshes, preferences and chat
// through it; everything real-time arrives over the sync channel instead.
package control

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"strconv"
	"strings"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/engine/discovery"
	"matching-engine/internal/engine/location"
	"matching-engine/internal/engine/prefs"
	"matching-engine/internal/engine/swipe"
	"matching-engine/internal/models"
)

// Chat is the subset of the api client used for conversations.
type Chat interface {
	ChatHistory(ctx context.Context, matchID string, page, limit int) ([]models.ChatMessage, error)
	SendMessage(ctx context.Context, matchID, text string) (models.ChatMessage, error)
}

// LocationReporter pushes a refreshed coordinate back to the boundary.
type LocationReporter interface {
	UpdateLocation(ctx context.Context, lat, lon float64) error
}

type Server struct {
	coordinator *discovery.Coordinator
	swipes      *swipe.StateMachine
	locations   *location.Cache
	preferences *prefs.Store
	chat        Chat
	reporter    LocationReporter
	limit       int
	logger      logger.Logger
}

func NewServer(
	coordinator *discovery.Coordinator,
	swipes *swipe.StateMachine,
	locations *location.Cache,
	preferences *prefs.Store,
	chat Chat,
	reporter LocationReporter,
	discoveryLimit int,
	log logger.Logger,
) *Server {
	return &Server{
		coordinator: coordinator,
		swipes:      swipes,
		locations:   locations,
		preferences: preferences,
		chat:        chat,
		reporter:    reporter,
		limit:       discoveryLimit,
		logger:      log.WithFields(map[string]interface{}{"component": "control"}),
	}
}

// Routes registers the control handlers on the given mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/discover", s.handleDiscover)
	mux.HandleFunc("/swipe", s.handleSwipe)
	mux.HandleFunc("/location/refresh", s.handleLocationRefresh)
	mux.HandleFunc("/preferences", s.handlePreferences)
	mux.HandleFunc("/chat/", s.handleChatHistory)
	mux.HandleFunc("/chat/message", s.handleSendMessage)
}

type discoverRequest struct {
	Limit int `json:"limit"`
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req discoverRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	limit := req.Limit
	if limit <= 0 {
		limit = s.limit
	}

	profiles := s.coordinator.Discover(r.Context(), s.preferences.Current(), limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

type swipeRequest struct {
	ProfileID string `json:"profileId"`
	Direction string `json:"direction"`
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	match, err := s.swipes.Decide(r.Context(), req.ProfileID, models.SwipeDirection(req.Direction))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isMatch": match != nil,
		"match":   match,
	})
}

func (s *Server) handleLocationRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	coord, err := s.locations.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.reporter.UpdateLocation(r.Context(), coord.Latitude, coord.Longitude); err != nil {
		s.logger.Warn("location report failed", map[string]interface{}{"error": err})
	}

	writeJSON(w, http.StatusOK, coord)
}

func (s *Server) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.preferences.Current())
	case http.MethodPut:
		var p models.PreferenceSet
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if err := s.preferences.Update(r.Context(), p); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.preferences.Current())
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	matchID := strings.TrimPrefix(r.URL.Path, "/chat/")
	if matchID == "" || strings.Contains(matchID, "/") {
		http.Error(w, "match id required", http.StatusBadRequest)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	messages, err := s.chat.ChatHistory(r.Context(), matchID, page, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

type sendMessageRequest struct {
	MatchID string `json:"matchId"`
	Text    string `json:"text"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MatchID == "" || req.Text == "" {
		http.Error(w, "matchId and text required", http.StatusBadRequest)
		return
	}

	msg, err := s.chat.SendMessage(r.Context(), req.MatchID, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var stdErr *errors.StandardError
	if goerrors.As(err, &stdErr) {
		status := http.StatusBadGateway
		switch stdErr.Code {
		case errors.ErrCodeAlreadyDecided, errors.ErrCodeInvalidCoordinate:
			status = http.StatusConflict
		case errors.ErrCodeNoLocation:
			status = http.StatusPreconditionFailed
		}
		writeJSON(w, status, stdErr)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
