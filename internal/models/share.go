package models

import "time"

// Share is a repost of a post by a user, at most one per (user, post).
type Share struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_shares_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_shares_user_post;index" json:"post_id"`
	Caption   string    `gorm:"type:text" json:"caption"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"original_post,omitempty"`
}
