package models

import "time"

// DreamPrivacy mirrors the journal's visibility setting.
type DreamPrivacy string

const (
	DreamPrivacyPrivate DreamPrivacy = "private"
	DreamPrivacyFriends DreamPrivacy = "friends"
	DreamPrivacyPublic  DreamPrivacy = "public"
)

// Dream is the journal entry a post is published from. The journal owns
// these rows; the social core only reads id, owner and display fields.
type Dream struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Privacy     DreamPrivacy `gorm:"type:varchar(20);not null;default:'private'" json:"privacy"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
