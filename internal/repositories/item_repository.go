package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fbay/internal/models"
)

// BidUpdate describes a conditional bid write. It applies only while the
// stored bid still equals Previous and the auction is open at Now.
type BidUpdate struct {
	ItemID   string
	BidderID string
	Price    decimal.Decimal
	Previous decimal.NullDecimal
	Now      time.Time
}

// ItemRepository defines the interface for item data access.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	// List returns all items, or those whose title or description contains
	// search case-insensitively.
	List(ctx context.Context, search string) ([]models.Item, error)
	// UpdateDetails saves the owner-editable fields: title, description,
	// photo and end date.
	UpdateDetails(ctx context.Context, item *models.Item) error
	// ApplyBid performs the conditional bid write and reports whether it
	// matched the item.
	ApplyBid(ctx context.Context, update BidUpdate) (bool, error)
	// FindEndedUnnotified returns items with end_date <= now and mail_sent
	// unset, oldest end date first.
	FindEndedUnnotified(ctx context.Context, now time.Time) ([]models.Item, error)
	// MarkMailSent flips mail_sent from false to true and reports whether
	// this call made the change.
	MarkMailSent(ctx context.Context, id string) (bool, error)
}
