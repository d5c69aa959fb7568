package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

func (r *GORMItemRepository) withUsers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Owner").Preload("BidUser")
}

// Create creates a new item in the database. Associations are not written.
func (r *GORMItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.EndDate = item.EndDate.UTC()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// GetByID retrieves a single item with its owner and bidder.
func (r *GORMItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.withUsers(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item with ID %s: %w", id, auctionerrors.ErrItemNotFound)
		}
		return nil, fmt.Errorf("failed to get item by ID %s: %w", id, err)
	}
	return &item, nil
}

// List retrieves items, optionally filtered by a substring search.
func (r *GORMItemRepository) List(ctx context.Context, search string) ([]models.Item, error) {
	var items []models.Item
	q := r.withUsers(ctx).Order("created_at ASC")
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// UpdateDetails updates the owner-editable columns of an item.
func (r *GORMItemRepository) UpdateDetails(ctx context.Context, item *models.Item) error {
	item.EndDate = item.EndDate.UTC()
	res := r.db.WithContext(ctx).Model(&models.Item{ID: item.ID}).
		Select("title", "description", "photo_path", "end_date").
		Updates(map[string]interface{}{
			"title":       item.Title,
			"description": item.Description,
			"photo_path":  item.PhotoPath,
			"end_date":    item.EndDate,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("item with ID %s: %w", item.ID, auctionerrors.ErrItemNotFound)
	}
	return nil
}

// ApplyBid writes the new bid in a single UPDATE guarded by the previous bid
// value, so two bidders racing on the same item cannot both win.
func (r *GORMItemRepository) ApplyBid(ctx context.Context, update BidUpdate) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", update.ItemID).
		Where("mail_sent = ?", false).
		Where("end_date > ?", update.Now.UTC()).
		Where("owner_id <> ?", update.BidderID).
		Where("starting_price <= ?", update.Price)
	if update.Previous.Valid {
		q = q.Where("bid_price = ?", update.Previous.Decimal)
	} else {
		q = q.Where("bid_price IS NULL")
	}

	res := q.Updates(map[string]interface{}{
		"bid_price":   update.Price,
		"bid_user_id": update.BidderID,
	})
	if res.Error != nil {
		return false, fmt.Errorf("failed to apply bid on item %s: %w", update.ItemID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// FindEndedUnnotified lists items whose auction is over but not completed.
func (r *GORMItemRepository) FindEndedUnnotified(ctx context.Context, now time.Time) ([]models.Item, error) {
	var items []models.Item
	err := r.withUsers(ctx).
		Where("end_date <= ? AND mail_sent = ?", now.UTC(), false).
		Order("end_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find ended items: %w", err)
	}
	return items, nil
}

// MarkMailSent sets mail_sent only if it is still false.
func (r *GORMItemRepository) MarkMailSent(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND mail_sent = ?", id, false).
		Update("mail_sent", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark item %s as completed: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
