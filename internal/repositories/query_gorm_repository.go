package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

// GORMQueryRepository is a GORM implementation of QueryRepository.
type GORMQueryRepository struct {
	db *gorm.DB
}

// NewGORMQueryRepository creates a new instance of GORMQueryRepository.
func NewGORMQueryRepository(db *gorm.DB) *GORMQueryRepository {
	return &GORMQueryRepository{
		db: db,
	}
}

// Create stores a new, unanswered query.
func (r *GORMQueryRepository) Create(ctx context.Context, query *models.ItemQuery) error {
	if query.ID == "" {
		query.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(query).Error; err != nil {
		return fmt.Errorf("failed to create query: %w", err)
	}
	return nil
}

// GetByID retrieves a query scoped to its item, with the asker loaded.
func (r *GORMQueryRepository) GetByID(ctx context.Context, itemID, queryID string) (*models.ItemQuery, error) {
	var query models.ItemQuery
	err := r.db.WithContext(ctx).Preload("AskedBy").
		First(&query, "id = ? AND item_id = ?", queryID, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("query with ID %s on item %s: %w", queryID, itemID, auctionerrors.ErrQueryNotFound)
		}
		return nil, fmt.Errorf("failed to get query by ID %s: %w", queryID, err)
	}
	return &query, nil
}

// ListByItem returns all queries of an item in the order they were asked.
func (r *GORMQueryRepository) ListByItem(ctx context.Context, itemID string) ([]models.ItemQuery, error) {
	var queries []models.ItemQuery
	err := r.db.WithContext(ctx).Preload("AskedBy").
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&queries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list queries for item %s: %w", itemID, err)
	}
	return queries, nil
}

// UpdateQuestion replaces the question text.
func (r *GORMQueryRepository) UpdateQuestion(ctx context.Context, queryID, question string) error {
	return r.updateColumn(ctx, queryID, "question", question)
}

// SetAnswer records the owner's answer.
func (r *GORMQueryRepository) SetAnswer(ctx context.Context, queryID, answer string) error {
	return r.updateColumn(ctx, queryID, "answer", answer)
}

func (r *GORMQueryRepository) updateColumn(ctx context.Context, queryID, column, value string) error {
	res := r.db.WithContext(ctx).Model(&models.ItemQuery{}).
		Where("id = ?", queryID).
		Update(column, value)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s of query %s: %w", column, queryID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("query with ID %s: %w", queryID, auctionerrors.ErrQueryNotFound)
	}
	return nil
}
