package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// InitSchema creates the SQLite tables for truck templates and the local
// distance cache.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTemplatesQuery := `
	CREATE TABLE IF NOT EXISTS truck_templates (
		template_id TEXT PRIMARY KEY,
		capacity INTEGER NOT NULL,
		speed REAL NOT NULL
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS city_distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance REAL NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	statements := []string{
		createTemplatesQuery,
		createDistanceCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type TemplateSeed struct {
	TemplateID string  `json:"template_id"`
	Capacity   int     `json:"capacity"`
	Speed      float64 `json:"speed"`
}

// SeedFromJSON populates the truck template catalog from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed templates: read %q: %w", jsonPath, err)
	}

	var data []TemplateSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed templates: parse json: %w", err)
	}

	rows := make([]TemplateSeed, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.TemplateID)
		if id == "" {
			return fmt.Errorf("seed templates: item at index %d: template_id cannot be empty", i+1)
		}
		if item.Capacity <= 0 {
			return fmt.Errorf("seed templates: template %q: capacity must be positive: %d", id, item.Capacity)
		}
		if item.Speed <= 0 {
			return fmt.Errorf("seed templates: template %q: speed must be positive: %v", id, item.Speed)
		}
		rows = append(rows, TemplateSeed{TemplateID: id, Capacity: item.Capacity, Speed: item.Speed})
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed templates: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO truck_templates (
		template_id,
		capacity,
		speed
	)
	VALUES (?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed templates: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range rows {
		if _, err := stmt.Exec(t.TemplateID, t.Capacity, t.Speed); err != nil {
			return fmt.Errorf("seed templates: insert template_id=%q: %w", t.TemplateID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed templates: commit tx: %w", err)
	}

	return nil
}
