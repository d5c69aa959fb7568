package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fbay/internal/auction"
	"fbay/internal/auctionerrors"
	"fbay/internal/lock"
	"fbay/internal/metrics"
	"fbay/internal/models"
	"fbay/internal/repositories"
	"fbay/pkg/logger"
)

// SweepLockKey is the lock held for the duration of a sweep run.
const SweepLockKey = "fbay:auction-sweep"

// AuctionNotifier sends the end-of-auction notifications.
type AuctionNotifier interface {
	AuctionEnded(ctx context.Context, item *models.Item) error
	HighestBidder(ctx context.Context, item *models.Item) error
}

// SweepService completes auctions whose end date has passed.
type SweepService struct {
	items    repositories.ItemRepository
	notifier AuctionNotifier
	locker   lock.Locker
}

// NewSweepService creates a new SweepService.
func NewSweepService(items repositories.ItemRepository, notifier AuctionNotifier, locker lock.Locker) *SweepService {
	return &SweepService{
		items:    items,
		notifier: notifier,
		locker:   locker,
	}
}

// Run completes every item with end_date <= now that has not been completed
// yet, oldest end date first, and returns the items this run completed.
// Only one run may be active at a time; a concurrent call fails with
// ErrSweepInProgress. An item that fails to complete does not stop the run;
// its error is joined into the returned error.
func (s *SweepService) Run(ctx context.Context, now time.Time) ([]models.Item, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	release, err := s.locker.Acquire(ctx, SweepLockKey)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, auctionerrors.ErrSweepInProgress
		}
		return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("failed to release sweep lock", map[string]any{"error": err.Error()})
		}
	}()

	items, err := s.items.FindEndedUnnotified(ctx, now)
	if err != nil {
		return nil, err
	}

	completed := make([]models.Item, 0, len(items))
	var errs []error
	for i := range items {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		done, err := s.CompleteAuction(ctx, &items[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if done {
			completed = append(completed, items[i])
		}
	}

	logger.Info("auction sweep finished", map[string]any{
		"due":       len(items),
		"completed": len(completed),
		"failed":    len(errs),
	})
	return completed, errors.Join(errs...)
}

// CompleteAuction claims item by flipping mail_sent and, if the claim
// succeeds, notifies the highest bidder (when there is one) and the owner.
// It reports false without notifying when another run already completed the
// item. Delivery failures are logged and do not undo completion.
func (s *SweepService) CompleteAuction(ctx context.Context, item *models.Item) (bool, error) {
	if err := auction.CheckConsistency(item); err != nil {
		logger.Warn("ended item has inconsistent bid fields", map[string]any{
			"item_id": item.ID,
			"error":   err.Error(),
		})
	}

	claimed, err := s.items.MarkMailSent(ctx, item.ID)
	if err != nil {
		return false, err
	}
	if !claimed {
		metrics.SweepItemsTotal.WithLabelValues("skipped").Inc()
		return false, nil
	}
	item.MailSent = true

	if auction.HasBids(item) || item.BidUserID != nil {
		if err := s.notifier.HighestBidder(ctx, item); err != nil {
			logDeliveryFailure(item, "highest_bidder", err)
		}
	}
	// mail_sent is already committed: a failure logged below, or a crash
	// before this point, is retried out of band and never by a later sweep.
	if err := s.notifier.AuctionEnded(ctx, item); err != nil {
		logDeliveryFailure(item, "auction_ended", err)
	}

	metrics.SweepItemsTotal.WithLabelValues("completed").Inc()
	logger.Info("auction completed", map[string]any{
		"item_id":  item.ID,
		"title":    item.Title,
		"has_bids": auction.HasBids(item),
	})
	return true, nil
}

func logDeliveryFailure(item *models.Item, kind string, err error) {
	logger.Error("failed to deliver auction notification", map[string]any{
		"item_id":      item.ID,
		"notification": kind,
		"error":        err.Error(),
	})
}
