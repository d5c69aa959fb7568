package notify

import (
	"fmt"
	"strings"

	"fbay/internal/auction"
	"fbay/internal/auctionerrors"
	"fbay/internal/models"
)

// Message is one outbound notification.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Templates renders the notification texts.
type Templates struct {
	SiteName string
	Currency string
}

// DefaultTemplates returns the stock site name and currency symbol.
func DefaultTemplates() Templates {
	return Templates{SiteName: "fBay", Currency: "£"}
}

func (t Templates) body(lines ...string) string {
	return strings.Join(append(lines, "", "Sincerely,", t.SiteName), "\n") + "\n"
}

func (t Templates) amount(item *models.Item) string {
	return t.Currency + auction.FormatPrice(item.BidPrice.Decimal)
}

// Welcome is sent to a user right after signup.
func (t Templates) Welcome(user *models.User) Message {
	return Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Welcome to %s!", t.SiteName),
		Body:    t.body(fmt.Sprintf("Thank you for registering on %s!", t.SiteName)),
	}
}

// AuctionEndedOwner tells the owner how the auction of item ended.
func (t Templates) AuctionEndedOwner(item *models.Item) Message {
	if item.BidUser == nil {
		return Message{
			To:      item.Owner.Email,
			Subject: fmt.Sprintf("Auction ended - There were no bidders on your item %s", item.Title),
			Body: t.body(fmt.Sprintf(
				"Unfortunately, there were no bidders in your recent auction for %s.", item.Title)),
		}
	}
	return Message{
		To:      item.Owner.Email,
		Subject: fmt.Sprintf("Auction ended - Your item %s received a winning bid", item.Title),
		Body: t.body(fmt.Sprintf(
			"Congratulations! Your recent auction for %s ended with a winning bid of %s by %s.",
			item.Title, t.amount(item), item.BidUser.Email)),
	}
}

// HighestBidder tells the winning bidder the final price and how to reach
// the owner. It fails with ErrMissingBidder when the item has no bidder.
func (t Templates) HighestBidder(item *models.Item) (Message, error) {
	if item.BidUser == nil || !item.BidPrice.Valid {
		return Message{}, fmt.Errorf("item %s: %w", item.ID, auctionerrors.ErrMissingBidder)
	}
	return Message{
		To:      item.BidUser.Email,
		Subject: fmt.Sprintf("Auction ended - You are the highest bidder for %s", item.Title),
		Body: t.body(
			fmt.Sprintf("Congratulations! You are the highest bidder in the recent auction for %s. Your final bid amount was %s.",
				item.Title, t.amount(item)),
			"",
			fmt.Sprintf("You can proceed to purchase the item. Please contact the seller at: %s", item.Owner.Email),
		),
	}, nil
}
