package models

import "time"

// User represents a marketplace account. Email is the login identity.
type User struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email      string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password   string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	DOB        time.Time `json:"dob" gorm:"type:date;not null"`
	AvatarPath *string   `json:"avatar_path" gorm:"type:varchar(255)"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
