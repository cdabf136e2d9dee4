package ports

import "context"

// DistanceCache stores city-pair distances so repeated travel between the
// same cities avoids the world service round trip.
type DistanceCache interface {
	// Get returns the cached distance and whether the pair was present.
	Get(ctx context.Context, originCityID, destinationCityID string) (float64, bool, error)
	// Put stores the distance for a city pair.
	Put(ctx context.Context, originCityID, destinationCityID string, distance float64) error
}
