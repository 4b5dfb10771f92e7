package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	AdjustFollowCounts(ctx context.Context, followerID, followingID uint, delta int64) error
	Search(ctx context.Context, query string, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := conn(ctx, r.db).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// AdjustFollowCounts moves followers_count of followingID and following_count
// of followerID by delta.
func (r *userRepository) AdjustFollowCounts(ctx context.Context, followerID, followingID uint, delta int64) error {
	db := conn(ctx, r.db)
	res := db.Model(&models.User{}).Where("id = ?", followingID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	res = db.Model(&models.User{}).Where("id = ?", followerID).
		UpdateColumn("following_count", gorm.Expr("following_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Search(ctx context.Context, query string, viewerID uint, page models.Page) ([]models.UserListEntry, int64, error) {
	pattern := containsPattern(query)
	base := func() *gorm.DB {
		return conn(ctx, r.db).Model(&models.User{}).
			Where("users.is_active = ?", true).
			Where(`(LOWER(users.username) LIKE ? ESCAPE '\' OR LOWER(users.full_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.UserListEntry
	err := paginate(base(), page).
		Select("users.id, users.username, users.full_name, users.avatar_url, users.bio, "+
			"users.followers_count, users.following_count, "+
			"EXISTS(SELECT 1 FROM follows vf WHERE vf.follower_id = ? AND vf.following_id = users.id) AS is_following", viewerID).
		Order("users.username ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
