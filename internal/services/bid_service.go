package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"fbay/internal/auction"
	"fbay/internal/auctionerrors"
	"fbay/internal/clock"
	"fbay/internal/metrics"
	"fbay/internal/models"
	"fbay/internal/repositories"
	"fbay/pkg/logger"
)

// maxBidAttempts bounds how often a bid is re-validated after losing a race
// to a concurrent bid.
const maxBidAttempts = 3

// BidService places bids on items.
type BidService struct {
	repo  repositories.ItemRepository
	clock clock.Clock
}

// NewBidService creates a new BidService.
func NewBidService(repo repositories.ItemRepository, clk clock.Clock) *BidService {
	return &BidService{
		repo:  repo,
		clock: clk,
	}
}

// PlaceBid validates and records a bid of price by bidderID on itemID and
// returns the updated item. The write is conditional on the bid the checks
// were run against; when another bid lands first the checks are repeated on
// fresh state, up to maxBidAttempts times, before ErrBidConflict.
func (s *BidService) PlaceBid(ctx context.Context, itemID, bidderID string, price decimal.NullDecimal) (*models.Item, error) {
	if bidderID == "" {
		return nil, auctionerrors.ErrUnauthenticated
	}

	for attempt := 1; attempt <= maxBidAttempts; attempt++ {
		item, err := s.repo.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}

		now := s.clock.Now()
		if err := auction.ValidateBid(item, bidderID, price, now); err != nil {
			metrics.BidsTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}

		applied, err := s.repo.ApplyBid(ctx, repositories.BidUpdate{
			ItemID:   item.ID,
			BidderID: bidderID,
			Price:    price.Decimal.Truncate(auction.PricePlaces),
			Previous: item.BidPrice,
			Now:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to place bid: %w", err)
		}
		if applied {
			metrics.BidsTotal.WithLabelValues("accepted").Inc()
			logger.Info("bid accepted", map[string]any{
				"item_id":   item.ID,
				"bidder_id": bidderID,
				"bid_price": auction.FormatPrice(price.Decimal),
			})
			return s.repo.GetByID(ctx, itemID)
		}

		logger.Debug("bid lost a race, retrying", map[string]any{
			"item_id": item.ID,
			"attempt": attempt,
		})
	}

	metrics.BidsTotal.WithLabelValues("conflict").Inc()
	return nil, auctionerrors.ErrBidConflict
}
