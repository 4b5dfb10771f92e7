package models

import "time"

// Post publishes one dream to the social feed.
type Post struct {
	ID                     uint   `gorm:"primaryKey" json:"id"`
	UserID                 uint   `gorm:"not null;index" json:"user_id"`
	User                   *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	DreamID                uint   `gorm:"not null;uniqueIndex" json:"dream_id"`
	Dream                  *Dream `gorm:"foreignKey:DreamID;constraint:OnDelete:CASCADE" json:"dream,omitempty"`
	Caption                string `gorm:"type:text" json:"caption"`
	InterpretationIncluded bool   `gorm:"not null;default:false" json:"interpretation_included"`

	// Derived counters; written only by the engagement ledger and comment tree.
	LikesCount    int64 `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int64 `gorm:"not null;default:0" json:"comments_count"`
	SharesCount   int64 `gorm:"not null;default:0" json:"shares_count"`

	IsFlagged bool `gorm:"not null;default:false" json:"is_flagged"`
	IsHidden  bool `gorm:"not null;default:false;index" json:"is_hidden"`

	// Viewer-relative flags, filled by feed queries.
	IsLiked  bool `gorm:"->;-:migration" json:"is_liked"`
	IsShared bool `gorm:"->;-:migration" json:"is_shared"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostList is one page of a feed.
type PostList struct {
	Posts    []*Post `json:"posts"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	HasMore  bool    `json:"has_more"`
}
