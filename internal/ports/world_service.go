package ports

import "context"

// WorldService is the contract to the remote world/topology service.
type WorldService interface {
	// CityExists reports whether the city id is part of the world.
	CityExists(ctx context.Context, cityID string) (bool, error)
	// Distance returns the travel distance between two cities.
	Distance(ctx context.Context, fromCityID, toCityID string) (float64, error)
}
