package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is an auction listing.
//
// StartingPrice is fixed at creation. BidPrice and BidUserID are either both
// set or both empty and change only through an accepted bid. MailSent flips
// to true once, when the auction sweep has completed the item.
type Item struct {
	ID            string              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID       string              `json:"owner_id" gorm:"type:varchar(36);not null;index"`
	Owner         User                `json:"owner" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Title         string              `json:"title" gorm:"type:text;not null"`
	Description   string              `json:"desc" gorm:"type:text"`
	PhotoPath     *string             `json:"photo_path" gorm:"type:varchar(255)"`
	StartingPrice decimal.Decimal     `json:"starting_price" gorm:"type:decimal(32,2);not null"`
	BidPrice      decimal.NullDecimal `json:"bid_price" gorm:"type:decimal(32,2)"`
	BidUserID     *string             `json:"bid_user_id" gorm:"type:varchar(36);index"`
	BidUser       *User               `json:"bid_user" gorm:"foreignKey:BidUserID;constraint:OnDelete:CASCADE"`
	EndDate       time.Time           `json:"end_date" gorm:"not null;index"`
	MailSent      bool                `json:"mail_sent" gorm:"not null;default:false;index"`
	Queries       []ItemQuery         `json:"-" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `json:"-"`
	UpdatedAt     time.Time           `json:"-"`
}
