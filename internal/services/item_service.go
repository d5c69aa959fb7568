package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fbay/internal/auction"
	"fbay/internal/auctionerrors"
	"fbay/internal/models"
	"fbay/internal/repositories"
)

// ItemService handles business logic related to the item catalog.
type ItemService struct {
	repo repositories.ItemRepository
}

// NewItemService creates a new ItemService.
func NewItemService(repo repositories.ItemRepository) *ItemService {
	return &ItemService{
		repo: repo,
	}
}

// ListItems retrieves all items, or those matching search.
func (s *ItemService) ListItems(ctx context.Context, search string) ([]models.Item, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// GetItem retrieves a single item by its ID.
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateItem lists a new item owned by ownerID.
func (s *ItemService) CreateItem(ctx context.Context, ownerID string, input ItemInput) (*models.Item, error) {
	if ownerID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.StartingPrice == "" {
		return nil, auctionerrors.Field("starting_price", auctionerrors.ErrInvalidPrice)
	}
	price, err := parseStartingPrice(input.StartingPrice)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDateTime("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		OwnerID:       ownerID,
		Title:         input.Title,
		Description:   input.Description,
		PhotoPath:     input.PhotoPath,
		StartingPrice: price.Decimal,
		EndDate:       endDate,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, item.ID)
}

// UpdateItem edits the details of an item. Only the owner may edit it and
// the starting price cannot change.
func (s *ItemService) UpdateItem(ctx context.Context, actorID, itemID string, input ItemInput) (*models.Item, error) {
	if actorID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != actorID {
		return nil, auctionerrors.ErrNotItemOwner
	}
	input = input.trimmed()
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if input.StartingPrice != "" {
		price, err := parseStartingPrice(input.StartingPrice)
		if err != nil {
			return nil, err
		}
		if !price.Decimal.Equal(item.StartingPrice) {
			return nil, auctionerrors.Field("starting_price", auctionerrors.ErrStartingPriceImmutable)
		}
	}
	endDate, err := parseDateTime("end_date", input.EndDate)
	if err != nil {
		return nil, err
	}

	item.Title = input.Title
	item.Description = input.Description
	item.EndDate = endDate
	if input.PhotoPath != nil {
		item.PhotoPath = input.PhotoPath
	}
	if err := s.repo.UpdateDetails(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", itemID, err)
	}
	return s.repo.GetByID(ctx, itemID)
}

func parseStartingPrice(raw string) (decimal.NullDecimal, error) {
	price, err := auction.ParsePrice(raw)
	if err != nil {
		return price, auctionerrors.Field("starting_price", err)
	}
	if price.Decimal.IsNegative() {
		return price, auctionerrors.Field("starting_price", auctionerrors.ErrNegativePrice)
	}
	return price, nil
}
