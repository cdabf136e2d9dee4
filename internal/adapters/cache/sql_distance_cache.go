package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLDistanceCache is a postgres-backed cache for city-pair distances,
// shared between engine instances.
type SQLDistanceCache struct {
	DB *sql.DB
}

func NewSQLDistanceCache(db *sql.DB) *SQLDistanceCache {
	return &SQLDistanceCache{DB: db}
}

func (s *SQLDistanceCache) Get(ctx context.Context, originCityID, destinationCityID string) (float64, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("distance cache: db is nil")
	}
	if originCityID == "" || destinationCityID == "" {
		return 0, false, errors.New("get distance cache: city ids must not be empty")
	}

	q := `
	SELECT distance
	FROM city_distance_cache
	WHERE origin = $1 AND destination = $2;
	`

	var distance float64
	err := s.DB.QueryRowContext(ctx, q, originCityID, destinationCityID).Scan(&distance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get distance cache: query city_distance_cache table: %w", err)
	}
	return distance, true, nil
}

func (s *SQLDistanceCache) Put(ctx context.Context, originCityID, destinationCityID string, distance float64) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if originCityID == "" || destinationCityID == "" {
		return errors.New("insert distance cache: city ids must not be empty")
	}

	q := `
	INSERT INTO city_distance_cache (origin, destination, distance)
	VALUES ($1, $2, $3)
	ON CONFLICT (origin, destination) DO UPDATE
	SET distance = EXCLUDED.distance;
	`

	if _, err := s.DB.ExecContext(ctx, q, originCityID, destinationCityID, distance); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", originCityID, destinationCityID, err)
	}
	return nil
}
