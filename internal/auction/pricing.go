// Package auction holds the pure pricing, lifecycle and bid acceptance rules
// for items. Nothing here touches storage or reads the wall clock.
package auction

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

// PricePlaces is the number of fractional digits kept for every amount.
const PricePlaces int32 = 2

// maxPrice bounds amounts to 30 integer digits (32 digits in total).
var maxPrice = decimal.New(1, 30)

// CurrentPrice returns the publicly displayed price of item: the accepted bid
// when it exceeds the starting price, the starting price otherwise.
func CurrentPrice(item *models.Item) decimal.Decimal {
	if item.BidPrice.Valid && item.BidPrice.Decimal.GreaterThan(item.StartingPrice) {
		return item.BidPrice.Decimal
	}
	return item.StartingPrice
}

// HasBids reports whether any bid has been accepted on item.
func HasBids(item *models.Item) bool {
	return item.BidPrice.Valid
}

// HasEnded reports whether bidding on item is over at now. Once the sweep
// has set MailSent the item stays ended whatever now says.
func HasEnded(item *models.Item, now time.Time) bool {
	return item.MailSent || !now.Before(item.EndDate)
}

// CheckConsistency verifies the bid fields of item against each other.
// Accepted bids always satisfy it; an error means the stored row was written
// outside the bid engine.
func CheckConsistency(item *models.Item) error {
	switch {
	case item.BidPrice.Valid && item.BidUserID == nil:
		return fmt.Errorf("item %s: %w", item.ID, auctionerrors.ErrMissingBidder)
	case !item.BidPrice.Valid && item.BidUserID != nil:
		return fmt.Errorf("item %s: bidder recorded without a bid price", item.ID)
	case item.BidPrice.Valid && item.BidPrice.Decimal.LessThan(item.StartingPrice):
		return fmt.Errorf("item %s: %w", item.ID, auctionerrors.ErrPriceBelowStarting)
	}
	return nil
}

// FormatPrice renders an amount with exactly two fractional digits.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(PricePlaces)
}

// ParsePrice parses a user supplied amount. An empty string yields an
// invalid NullDecimal and no error, leaving the "missing" decision to the
// caller.
func ParsePrice(raw string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, auctionerrors.ErrInvalidPrice
	}
	if !d.Equal(d.Truncate(PricePlaces)) || d.Abs().GreaterThanOrEqual(maxPrice) {
		return decimal.NullDecimal{}, auctionerrors.ErrInvalidPrice
	}
	return decimal.NewNullDecimal(d.Truncate(PricePlaces)), nil
}
