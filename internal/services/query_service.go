package services

import (
	"context"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
	"fbay/internal/repositories"
)

// QueryService handles questions about items and their answers.
type QueryService struct {
	queries repositories.QueryRepository
	items   repositories.ItemRepository
}

// NewQueryService creates a new QueryService.
func NewQueryService(queries repositories.QueryRepository, items repositories.ItemRepository) *QueryService {
	return &QueryService{
		queries: queries,
		items:   items,
	}
}

// ListQueries returns every query on itemID.
func (s *QueryService) ListQueries(ctx context.Context, itemID string) ([]models.ItemQuery, error) {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.queries.ListByItem(ctx, itemID)
}

// GetQuery retrieves a single query on itemID.
func (s *QueryService) GetQuery(ctx context.Context, itemID, queryID string) (*models.ItemQuery, error) {
	return s.queries.GetByID(ctx, itemID, queryID)
}

// AskQuestion posts a new, unanswered query on itemID by askerID.
func (s *QueryService) AskQuestion(ctx context.Context, itemID, askerID string, input QuestionInput) (*models.ItemQuery, error) {
	if askerID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	query := &models.ItemQuery{
		ItemID:    itemID,
		AskedByID: askerID,
		Question:  input.Question,
	}
	if err := s.queries.Create(ctx, query); err != nil {
		return nil, err
	}
	return s.queries.GetByID(ctx, itemID, query.ID)
}

// EditQuestion replaces the question text. Only the asker may edit it, and
// an existing answer is kept.
func (s *QueryService) EditQuestion(ctx context.Context, itemID, queryID, actorID string, input QuestionInput) (*models.ItemQuery, error) {
	if actorID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}
	query, err := s.queries.GetByID(ctx, itemID, queryID)
	if err != nil {
		return nil, err
	}
	if query.AskedByID != actorID {
		return nil, auctionerrors.ErrNotQueryAsker
	}
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.queries.UpdateQuestion(ctx, query.ID, input.Question); err != nil {
		return nil, err
	}
	return s.queries.GetByID(ctx, itemID, queryID)
}

// AnswerQuery records the answer to a query. Only the item's owner may
// answer; answering again replaces the previous answer.
func (s *QueryService) AnswerQuery(ctx context.Context, itemID, queryID, actorID string, input AnswerInput) (*models.ItemQuery, error) {
	if actorID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, auctionerrors.ErrNotAnswerer
	}
	query, err := s.queries.GetByID(ctx, itemID, queryID)
	if err != nil {
		return nil, err
	}
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.queries.SetAnswer(ctx, query.ID, input.Answer); err != nil {
		return nil, err
	}
	return s.queries.GetByID(ctx, itemID, queryID)
}
