package models

import "time"

// Comment is a node in a post's reply tree. ParentCommentID, when set,
// references a comment of the same post and never changes after creation.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	User            *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	PostID          uint      `gorm:"not null;index:idx_comments_post_parent" json:"post_id"`
	Text            string    `gorm:"type:text;not null" json:"text"`
	ParentCommentID *uint     `gorm:"index:idx_comments_post_parent;index" json:"parent_comment_id"`
	IsFlagged       bool      `gorm:"not null;default:false" json:"is_flagged"`
	IsHidden        bool      `gorm:"not null;default:false" json:"is_hidden"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}
