package api

import (
	"context"
	"time"

	"matching-engine/internal/models"
)

type locationResponse struct {
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	AccuracyMeters float64   `json:"accuracyMeters"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// LocationProvider resolves the user's current position through the
// boundary's location endpoint.
type LocationProvider struct {
	client *Client
}

func NewLocationProvider(client *Client) *LocationProvider {
	return &LocationProvider{client: client}
}

func (p *LocationProvider) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	var resp locationResponse
	if err := p.client.get(ctx, "/profile/location", &resp); err != nil {
		return models.Coordinate{}, err
	}
	coord := models.Coordinate{
		Latitude:       resp.Latitude,
		Longitude:      resp.Longitude,
		AccuracyMeters: resp.AccuracyMeters,
		CapturedAt:     resp.CapturedAt,
	}
	if coord.CapturedAt.IsZero() {
		coord.CapturedAt = time.Now()
	}
	return coord, nil
}
