package auction

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func strPtr(s string) *string { return &s }

func openItem(starting string) *models.Item {
	return &models.Item{
		ID:            "item-1",
		OwnerID:       "owner",
		Owner:         models.User{ID: "owner", Email: "owner@example.com"},
		Title:         "Bicycle",
		StartingPrice: decimal.RequireFromString(starting),
		EndDate:       now.Add(time.Hour),
	}
}

func withBid(item *models.Item, amount, bidder string) *models.Item {
	item.BidPrice = price(amount)
	item.BidUserID = strPtr(bidder)
	item.BidUser = &models.User{ID: bidder, Email: bidder + "@example.com"}
	return item
}

func TestCurrentPrice(t *testing.T) {
	tests := []struct {
		name     string
		item     *models.Item
		expected string
	}{
		{"no bids uses starting price", openItem("10.00"), "10.00"},
		{"bid above starting price", withBid(openItem("10.00"), "15.00", "b"), "15.00"},
		{"bid equal to starting price", withBid(openItem("10.00"), "10.00", "b"), "10.00"},
		{"stored bid below starting price falls back", withBid(openItem("10.00"), "5.00", "b"), "10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPrice(CurrentPrice(tt.item)))
		})
	}
}

func TestHasEnded(t *testing.T) {
	item := openItem("10.00")

	assert.False(t, HasEnded(item, item.EndDate.Add(-time.Second)))
	assert.True(t, HasEnded(item, item.EndDate), "end date itself counts as ended")
	assert.True(t, HasEnded(item, item.EndDate.Add(time.Hour)))

	item.MailSent = true
	assert.True(t, HasEnded(item, item.EndDate.Add(-24*time.Hour)), "mail_sent is authoritative once set")
}

func TestHasBids(t *testing.T) {
	assert.False(t, HasBids(openItem("1.00")))
	assert.True(t, HasBids(withBid(openItem("1.00"), "2.00", "b")))
}

func TestValidateBid(t *testing.T) {
	tests := []struct {
		name    string
		item    *models.Item
		bidder  string
		price   decimal.NullDecimal
		now     time.Time
		wantErr error
	}{
		{"first bid at starting price", openItem("10.00"), "b", price("10.00"), now, nil},
		{"first bid above starting price", openItem("10.00"), "b", price("10.01"), now, nil},
		{"first bid below starting price", openItem("10.00"), "b", price("9.99"), now, auctionerrors.ErrPriceBelowStarting},
		{"higher than existing bid", withBid(openItem("10.00"), "12.00", "c"), "b", price("12.01"), now, nil},
		{"equal to existing bid", withBid(openItem("10.00"), "12.00", "c"), "b", price("12.00"), now, auctionerrors.ErrPriceNotIncreasing},
		{"lower than existing bid", withBid(openItem("10.00"), "12.00", "c"), "b", price("11.00"), now, auctionerrors.ErrPriceNotIncreasing},
		{"owner bidding", openItem("10.00"), "owner", price("100.00"), now, auctionerrors.ErrSelfBid},
		{"owner bidding on ended item", openItem("10.00"), "owner", price("100.00"), now.Add(2 * time.Hour), auctionerrors.ErrSelfBid},
		{"auction ended by time", openItem("10.00"), "b", price("100.00"), now.Add(time.Hour), auctionerrors.ErrAuctionEnded},
		{"missing price", openItem("10.00"), "b", decimal.NullDecimal{}, now, auctionerrors.ErrMissingPrice},
		{"ended beats missing price", openItem("10.00"), "b", decimal.NullDecimal{}, now.Add(time.Hour), auctionerrors.ErrAuctionEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBid(tt.item, tt.bidder, tt.price, tt.now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestValidateBid_MailSentEndsAuction(t *testing.T) {
	item := openItem("10.00")
	item.MailSent = true

	err := ValidateBid(item, "b", price("50.00"), now)
	assert.ErrorIs(t, err, auctionerrors.ErrAuctionEnded)
}

func TestValidateBid_PriceErrorsAreFieldErrors(t *testing.T) {
	err := ValidateBid(openItem("10.00"), "b", price("1.00"), now)
	assert.Equal(t, map[string]string{BidPriceField: auctionerrors.ErrPriceBelowStarting.Error()}, auctionerrors.Fields(err))
	assert.Equal(t, auctionerrors.KindValidation, auctionerrors.KindOf(err))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		valid   bool
		want    string
		wantErr bool
	}{
		{"", false, "", false},
		{"   ", false, "", false},
		{"10", true, "10.00", false},
		{"12.5", true, "12.50", false},
		{" 12.50 ", true, "12.50", false},
		{"12.500", true, "12.50", false},
		{"12.345", false, "", true},
		{"abc", false, "", true},
		{"1e40", false, "", true},
		{"-3.00", true, "-3.00", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, auctionerrors.ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, FormatPrice(got.Decimal))
			}
		})
	}
}

func TestCheckConsistency(t *testing.T) {
	assert.NoError(t, CheckConsistency(openItem("10.00")))
	assert.NoError(t, CheckConsistency(withBid(openItem("10.00"), "11.00", "b")))

	noBidder := openItem("10.00")
	noBidder.BidPrice = price("11.00")
	assert.ErrorIs(t, CheckConsistency(noBidder), auctionerrors.ErrMissingBidder)

	noPrice := openItem("10.00")
	noPrice.BidUserID = strPtr("b")
	assert.Error(t, CheckConsistency(noPrice))

	low := withBid(openItem("10.00"), "5.00", "b")
	assert.ErrorIs(t, CheckConsistency(low), auctionerrors.ErrPriceBelowStarting)
}

func TestItemJSONRoundTripKeepsDerivedValues(t *testing.T) {
	items := []*models.Item{
		openItem("10.00"),
		withBid(openItem("10.00"), "15.00", "b"),
		func() *models.Item { i := openItem("7.25"); i.MailSent = true; return i }(),
	}
	for _, original := range items {
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var parsed models.Item
		require.NoError(t, json.Unmarshal(data, &parsed))

		for _, at := range []time.Time{now, now.Add(2 * time.Hour)} {
			assert.True(t, CurrentPrice(original).Equal(CurrentPrice(&parsed)))
			assert.Equal(t, HasEnded(original, at), HasEnded(&parsed, at))
			assert.Equal(t, HasBids(original), HasBids(&parsed))
		}
	}
}
