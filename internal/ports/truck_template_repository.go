package ports

import (
	"context"

	"truck-trading-service/internal/domain"
)

// TruckTemplateRepository is a boundary for retrieving truck blueprints.
type TruckTemplateRepository interface {
	GetTemplate(ctx context.Context, templateID string) (domain.TruckTemplate, error)
	ListTemplates(ctx context.Context) ([]domain.TruckTemplate, error)
}
