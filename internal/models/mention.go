package models

import "time"

// Mention attaches a mentioned user to exactly one post or comment.
type Mention struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	MentionedBy uint      `gorm:"not null" json:"mentioned_by"`
	PostID      *uint     `gorm:"index;check:chk_mentions_one_target,(post_id IS NULL) <> (comment_id IS NULL)" json:"post_id"`
	CommentID   *uint     `gorm:"index" json:"comment_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasSingleTarget reports whether exactly one of PostID and CommentID is set.
func (m Mention) HasSingleTarget() bool {
	return (m.PostID == nil) != (m.CommentID == nil)
}
