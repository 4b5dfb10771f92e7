package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow edge operations
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uint) (int64, error)
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	ListFollowers(ctx context.Context, userID, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error)
	ListFollowing(ctx context.Context, userID, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	return conn(ctx, r.db).Omit("Follower", "Following").Create(follow).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint) (int64, error) {
	res := conn(ctx, r.db).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	return res.RowsAffected, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	return n > 0, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error) {
	return r.list(ctx, "following_id", "follower_id", userID, viewerID, page)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error) {
	return r.list(ctx, "follower_id", "following_id", userID, viewerID, page)
}

// list pages the users on the other end of userID's edges, newest edge first.
// anchor is the column holding userID, other the column joined to users.
func (r *followRepository) list(ctx context.Context, anchor, other string, userID, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.Follow{}).Where(anchor+" = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.UserListEntry
	err := paginate(conn(ctx, r.db).Table("follows"), page).
		Select("users.id, users.username, users.full_name, users.avatar_url, users.bio, "+
			"users.followers_count, users.following_count, follows.created_at AS followed_at, "+
			"EXISTS(SELECT 1 FROM follows vf WHERE vf.follower_id = ? AND vf.following_id = users.id) AS is_following", viewerID).
		Joins("JOIN users ON users.id = follows."+other).
		Where("follows."+anchor+" = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}
