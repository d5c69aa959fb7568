package repositories

import (
	"context"

	"fbay/internal/models"
)

// QueryRepository defines the interface for item query data access.
type QueryRepository interface {
	Create(ctx context.Context, query *models.ItemQuery) error
	// GetByID retrieves a query that belongs to itemID.
	GetByID(ctx context.Context, itemID, queryID string) (*models.ItemQuery, error)
	ListByItem(ctx context.Context, itemID string) ([]models.ItemQuery, error)
	UpdateQuestion(ctx context.Context, queryID, question string) error
	SetAnswer(ctx context.Context, queryID, answer string) error
}
