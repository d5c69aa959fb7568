package auction

import (
	"time"

	"github.com/shopspring/decimal"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

// BidPriceField names the input field bid price errors are reported on.
const BidPriceField = "bid_price"

// ValidateBid checks whether bidderID may bid price on item at now. Checks
// run in a fixed order and the first failure is returned:
//
//  1. the bidder is not the owner
//  2. the auction has not ended
//  3. a price was given
//  4. the price beats the current bid, if any
//  5. the price is at least the starting price
func ValidateBid(item *models.Item, bidderID string, price decimal.NullDecimal, now time.Time) error {
	if bidderID == item.OwnerID {
		return auctionerrors.ErrSelfBid
	}
	if HasEnded(item, now) {
		return auctionerrors.ErrAuctionEnded
	}
	if !price.Valid {
		return auctionerrors.Field(BidPriceField, auctionerrors.ErrMissingPrice)
	}
	if item.BidPrice.Valid && price.Decimal.LessThanOrEqual(item.BidPrice.Decimal) {
		return auctionerrors.Field(BidPriceField, auctionerrors.ErrPriceNotIncreasing)
	}
	if price.Decimal.LessThan(item.StartingPrice) {
		return auctionerrors.Field(BidPriceField, auctionerrors.ErrPriceBelowStarting)
	}
	return nil
}
