// Package api is the client for the persistence boundary, an external
// collaborator speaking HTTP+JSON over TLS. Retrying failed calls is the
// boundary's caller's responsibility, not this client's.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	commonhttp "matching-engine/internal/common/http"
	"matching-engine/internal/models"
)

type Client struct {
	baseURL    string
	authToken  string
	httpClient *commonhttp.Client
}

func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: commonhttp.NewClient(timeout),
	}
}

type discoverRequest struct {
	Preferences models.PreferenceSet `json:"preferences"`
	Latitude    float64              `json:"latitude"`
	Longitude   float64              `json:"longitude"`
	Limit       int                  `json:"limit"`
}

type discoverResponse struct {
	Profiles []models.CandidateProfile `json:"profiles"`
}

// Discover fetches a raw candidate batch for the given preferences and
// origin coordinate.
func (c *Client) Discover(ctx context.Context, prefs models.PreferenceSet, lat, lon float64, limit int) ([]models.CandidateProfile, error) {
	var resp discoverResponse
	body := discoverRequest{
		Preferences: prefs,
		Latitude:    lat,
		Longitude:   lon,
		Limit:       limit,
	}
	if err := c.post(ctx, "/matches/discover", body, &resp); err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}

// swipeEndpoints maps decision directions to the boundary's path names.
var swipeEndpoints = map[models.SwipeDirection]string{
	models.SwipePass:      "/swipe/left",
	models.SwipeLike:      "/swipe/right",
	models.SwipeSuperlike: "/swipe/superlike",
}

type swipeRequest struct {
	ProfileID string `json:"profileId"`
}

// SwipeResult is the boundary's answer to a recorded decision. The match is
// present only on a mutual like.
type SwipeResult struct {
	IsMatch bool          `json:"isMatch"`
	Match   *models.Match `json:"match,omitempty"`
}

// Swipe records a directional decision. Idempotent on the boundary side by
// profileId+userId; sent once per decision.
func (c *Client) Swipe(ctx context.Context, decision models.SwipeDecision) (SwipeResult, error) {
	endpoint, ok := swipeEndpoints[decision.Direction]
	if !ok {
		return SwipeResult{}, fmt.Errorf("unknown swipe direction: %s", decision.Direction)
	}

	var result SwipeResult
	if err := c.post(ctx, endpoint, swipeRequest{ProfileID: decision.ProfileID}, &result); err != nil {
		return SwipeResult{}, err
	}
	return result, nil
}

type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateLocation reports the user's position to the boundary.
func (c *Client) UpdateLocation(ctx context.Context, lat, lon float64) error {
	return c.put(ctx, "/profile/location", locationRequest{Latitude: lat, Longitude: lon}, nil)
}

// GetPreferences fetches the authoritative preference set.
func (c *Client) GetPreferences(ctx context.Context) (models.PreferenceSet, error) {
	var prefs models.PreferenceSet
	if err := c.get(ctx, "/preferences", &prefs); err != nil {
		return models.PreferenceSet{}, err
	}
	return prefs, nil
}

// PutPreferences writes the preference set. Last write wins.
func (c *Client) PutPreferences(ctx context.Context, prefs models.PreferenceSet) error {
	return c.put(ctx, "/preferences", prefs, nil)
}

type chatHistoryResponse struct {
	Messages []models.ChatMessage `json:"messages"`
}

// ChatHistory fetches a page of messages for a match conversation.
func (c *Client) ChatHistory(ctx context.Context, matchID string, page, limit int) ([]models.ChatMessage, error) {
	var resp chatHistoryResponse
	path := fmt.Sprintf("/chat/%s?page=%d&limit=%d", matchID, page, limit)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

type sendMessageRequest struct {
	MatchID string `json:"matchId"`
	Text    string `json:"text"`
}

// SendMessage posts a message into a match conversation.
func (c *Client) SendMessage(ctx context.Context, matchID, text string) (models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := c.post(ctx, "/chat/message", sendMessageRequest{MatchID: matchID, Text: text}, &msg); err != nil {
		return models.ChatMessage{}, err
	}
	return msg, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
