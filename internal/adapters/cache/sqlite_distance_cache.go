package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite backed cache for city-pair distances. Used for single-instance
// runs where no shared postgres or redis is available.
type SqliteDistanceCache struct {
	DB *sql.DB
}

func NewSqliteDistanceCache(db *sql.DB) *SqliteDistanceCache {
	return &SqliteDistanceCache{DB: db}
}

func (s *SqliteDistanceCache) Get(ctx context.Context, originCityID, destinationCityID string) (float64, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("distance cache: db is nil")
	}
	if originCityID == "" || destinationCityID == "" {
		return 0, false, errors.New("get distance cache: city ids must not be empty")
	}

	q := `
	SELECT distance
	FROM city_distance_cache
	WHERE origin = ? AND destination = ?;
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

func (s *SqliteDistanceCache) Put(ctx context.Context, originCityID, destinationCityID string, distance float64) error {
	if s.DB == nil {
		return errors.New("distance cache: db is nil")
	}
	if originCityID == "" || destinationCityID == "" {
		return errors.New("insert distance cache: city ids must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO city_distance_cache (origin, destination, distance)
	VALUES (?, ?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, originCityID, destinationCityID, distance); err != nil {
		return fmt.Errorf("insert distance cache %q -> %q: %w", originCityID, destinationCityID, err)
	}
	return nil
}
