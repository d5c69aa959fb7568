// Package notify formats and dispatches the marketplace's outbound messages.
package notify

import (
	"context"
	"fmt"

	"fbay/internal/auctionerrors"
	"fbay/internal/metrics"
	"fbay/internal/models"
)

// Notification kinds, used as metric labels.
const (
	KindWelcome       = "welcome"
	KindAuctionEnded  = "auction_ended"
	KindHighestBidder = "highest_bidder"
)

// Dispatcher renders notifications and hands them to a Deliverer.
// Returned errors wrap auctionerrors.ErrDelivery.
type Dispatcher struct {
	deliverer Deliverer
	templates Templates
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(deliverer Deliverer, templates Templates) *Dispatcher {
	return &Dispatcher{deliverer: deliverer, templates: templates}
}

// Welcome greets a newly registered user.
func (d *Dispatcher) Welcome(ctx context.Context, user *models.User) error {
	return d.send(ctx, KindWelcome, d.templates.Welcome(user))
}

// AuctionEnded notifies the owner of item that its auction is over.
func (d *Dispatcher) AuctionEnded(ctx context.Context, item *models.Item) error {
	return d.send(ctx, KindAuctionEnded, d.templates.AuctionEndedOwner(item))
}

// HighestBidder notifies the winning bidder of item.
func (d *Dispatcher) HighestBidder(ctx context.Context, item *models.Item) error {
	msg, err := d.templates.HighestBidder(item)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(KindHighestBidder, "invalid").Inc()
		return err
	}
	return d.send(ctx, KindHighestBidder, msg)
}

func (d *Dispatcher) send(ctx context.Context, kind string, msg Message) error {
	if err := d.deliverer.Deliver(ctx, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("%w: %s to %s: %w", auctionerrors.ErrDelivery, kind, msg.To, err)
	}
	metrics.NotificationsTotal.WithLabelValues(kind, "sent").Inc()
	return nil
}
