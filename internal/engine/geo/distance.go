// Package geo computes great-circle distances between coordinates.
package geo

import (
	"fmt"
	"math"

	"matching-engine/internal/common/errors"
)

// earthRadiusMiles is the mean Earth radius used by the haversine formula.
const earthRadiusMiles = 3959.0

// Distance returns the great-circle distance in miles between two points,
// rounded to one decimal place. Pure and deterministic; the only failure
// mode is invalid input, which is reported rather than silently mapped to 0.
func Distance(lat1, lon1, lat2, lon2 float64) (float64, error) {
	if err := validate(lat1, lon1); err != nil {
		return 0, err
	}
	if err := validate(lat2, lon2); err != nil {
		return 0, err
	}

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusMiles*c*10) / 10, nil
}

func validate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return errors.NewInvalidCoordinateError(fmt.Sprintf("lat=%v lon=%v", lat, lon))
	}
	if lat < -90 || lat > 90 {
		return errors.NewInvalidCoordinateError(fmt.Sprintf("latitude out of range: %v", lat))
	}
	if lon < -180 || lon > 180 {
		return errors.NewInvalidCoordinateError(fmt.Sprintf("longitude out of range: %v", lon))
	}
	return nil
}
