package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines the interface for like edge operations
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, postID uint) (int64, error)
	Exists(ctx context.Context, userID, postID uint) (bool, error)
	ListByPost(ctx context.Context, postID uint, page models.Page) ([]*models.Like, int64, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	DeleteByPost(ctx context.Context, postID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	return conn(ctx, r.db).Omit("User").Create(like).Error
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID uint) (int64, error) {
	res := conn(ctx, r.db).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	return res.RowsAffected, res.Error
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&n).Error
	return n > 0, err
}

func (r *likeRepository) ListByPost(ctx context.Context, postID uint, page models.Page) ([]*models.Like, int64, error) {
	total, err := r.CountByPost(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	likes := []*models.Like{}
	err = paginate(conn(ctx, r.db), page).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&likes).Error
	return likes, total, err
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *likeRepository) DeleteByPost(ctx context.Context, postID uint) (int64, error) {
	res := conn(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Like{})
	return res.RowsAffected, res.Error
}
