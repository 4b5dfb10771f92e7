package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// ShareRepository defines the interface for share operations
type ShareRepository interface {
	Create(ctx context.Context, share *models.Share) error
	GetByID(ctx context.Context, id uint) (*models.Share, error)
	Delete(ctx context.Context, id uint) error
	ListByPost(ctx context.Context, postID uint, page models.Page) ([]*models.Share, int64, error)
	ListByUser(ctx context.Context, userID uint, page models.Page) ([]*models.Share, int64, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	DeleteByPost(ctx context.Context, postID uint) (int64, error)
}

type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new share repository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, share *models.Share) error {
	return conn(ctx, r.db).Omit("User", "Post").Create(share).Error
}

func (r *shareRepository) GetByID(ctx context.Context, id uint) (*models.Share, error) {
	var share models.Share
	if err := conn(ctx, r.db).Preload("User").First(&share, id).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

func (r *shareRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.Share{}, id).Error
}

func (r *shareRepository) ListByPost(ctx context.Context, postID uint, page models.Page) ([]*models.Share, int64, error) {
	total, err := r.CountByPost(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	shares := []*models.Share{}
	err = paginate(conn(ctx, r.db), page).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&shares).Error
	return shares, total, err
}

func (r *shareRepository) ListByUser(ctx context.Context, userID uint, page models.Page) ([]*models.Share, int64, error) {
	var total int64
	if err := conn(ctx, r.db).Model(&models.Share{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	shares := []*models.Share{}
	err := paginate(conn(ctx, r.db), page).
		Preload("Post").
		Preload("Post.User").
		Preload("Post.Dream").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&shares).Error
	return shares, total, err
}

func (r *shareRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Share{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *shareRepository) DeleteByPost(ctx context.Context, postID uint) (int64, error) {
	res := conn(ctx, r.db).Where("post_id = ?", postID).Delete(&models.Share{})
	return res.RowsAffected, res.Error
}
