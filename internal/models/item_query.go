package models

import "time"

// ItemQuery is a question asked about an item, optionally answered by the
// item's owner.
type ItemQuery struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ItemID    string    `json:"item_id" gorm:"type:varchar(36);not null;index"`
	Question  string    `json:"question" gorm:"type:text;not null"`
	Answer    *string   `json:"answer" gorm:"type:text"`
	AskedByID string    `json:"asked_by_id" gorm:"type:varchar(36);not null;index"`
	AskedBy   User      `json:"asked_by" gorm:"foreignKey:AskedByID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
