package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"truck-trading-service/internal/domain"
	"truck-trading-service/internal/ports"
)

// SQLite-backed implementation of the TruckTemplateRepository port.
type SqliteTruckTemplateRepository struct{ DB *sql.DB }

func NewSqliteTruckTemplateRepository(db *sql.DB) *SqliteTruckTemplateRepository {
	return &SqliteTruckTemplateRepository{DB: db}
}

// GetTemplate returns one truck blueprint by id.
func (s *SqliteTruckTemplateRepository) GetTemplate(ctx context.Context, templateID string) (domain.TruckTemplate, error) {
	if s.DB == nil {
		return domain.TruckTemplate{}, errors.New("sqlite template repository: DB is nil")
	}

	query := `
	SELECT
		template_id,
		capacity,
		speed
	FROM truck_templates
	WHERE template_id = ?;
	`
	var t domain.TruckTemplate
	err := s.DB.QueryRowContext(ctx, query, templateID).Scan(&t.TemplateID, &t.Capacity, &t.Speed)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TruckTemplate{}, fmt.Errorf("get template %q: %w", templateID, ports.ErrNotFound)
	}
	if err != nil {
		return domain.TruckTemplate{}, fmt.Errorf("get template %q: query truck_templates table: %w", templateID, err)
	}
	return t, nil
}

// ListTemplates returns the whole blueprint catalog.
func (s *SqliteTruckTemplateRepository) ListTemplates(ctx context.Context) ([]domain.TruckTemplate, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite template repository: DB is nil")
	}

	query := `
	SELECT
		template_id,
		capacity,
		speed
	FROM truck_templates
	ORDER BY template_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: query truck_templates table: %w", err)
	}
	defer rows.Close()

	templates := make([]domain.TruckTemplate, 0, 8)
	for rows.Next() {
		var t domain.TruckTemplate
		if err := rows.Scan(&t.TemplateID, &t.Capacity, &t.Speed); err != nil {
			return nil, fmt.Errorf("list templates: scan row: %w", err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list templates: row iteration: %w", err)
	}

	return templates, nil
}
