// Package models contains data structures for the application's domain models.
package models

import "time"

// UserRole is the coarse role of an account as supplied by the identity provider.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleImam  UserRole = "imam"
	UserRoleAdmin UserRole = "admin"
)

// User is the subset of an account the social core reads and the counters it owns.
// Authentication data lives with the identity provider.
type User struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	Username  string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email     string   `gorm:"size:255;uniqueIndex;not null" json:"-"`
	FullName  string   `gorm:"size:200" json:"full_name"`
	Bio       string   `gorm:"size:500" json:"bio"`
	AvatarURL string   `gorm:"size:500" json:"avatar_url"`
	IsActive  bool     `gorm:"not null;index" json:"is_active"`
	Role      UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Maintained by the follow graph in the same transaction as the edge.
	FollowersCount int64 `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int64 `gorm:"not null;default:0" json:"following_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the public card embedded in lists.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Summary returns the public card for u.
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// UserListEntry is a row in follower/following lists and user search.
type UserListEntry struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	FullName       string     `json:"full_name"`
	AvatarURL      string     `json:"avatar_url"`
	Bio            string     `json:"bio"`
	FollowersCount int64      `json:"followers_count"`
	FollowingCount int64      `json:"following_count"`
	IsFollowing    bool       `json:"is_following"`
	FollowedAt     *time.Time `json:"followed_at,omitempty"`
}

// UserStats summarizes social activity for a profile.
type UserStats struct {
	FollowersCount   int64 `json:"followers_count"`
	FollowingCount   int64 `json:"following_count"`
	PostsCount       int64 `json:"posts_count"`
	LikesReceived    int64 `json:"likes_received"`
	CommentsReceived int64 `json:"comments_received"`
	SharesReceived   int64 `json:"shares_received"`
}
