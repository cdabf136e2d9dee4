package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitPostgresSchema creates the shared postgres table backing the SQL
// distance cache. Run by dbtool against DATABASE_URL.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS city_distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("init postgres schema: create city_distance_cache: %w", err)
	}
	return nil
}
