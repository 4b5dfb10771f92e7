package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// MentionRepository defines the interface for mention operations
type MentionRepository interface {
	Create(ctx context.Context, mention *models.Mention) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Mention, error)
	IDsByTargets(ctx context.Context, postIDs, commentIDs []uint) ([]uint, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

type mentionRepository struct {
	db *gorm.DB
}

// NewMentionRepository creates a new mention repository
func NewMentionRepository(db *gorm.DB) MentionRepository {
	return &mentionRepository{db: db}
}

func (r *mentionRepository) Create(ctx context.Context, mention *models.Mention) error {
	return conn(ctx, r.db).Create(mention).Error
}

func (r *mentionRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Mention, error) {
	mentions := []*models.Mention{}
	err := conn(ctx, r.db).Where("post_id = ?", postID).Order("id ASC").Find(&mentions).Error
	return mentions, err
}

// IDsByTargets returns the mentions attached to any of postIDs or commentIDs.
func (r *mentionRepository) IDsByTargets(ctx context.Context, postIDs, commentIDs []uint) ([]uint, error) {
	var ids []uint
	if len(postIDs) == 0 && len(commentIDs) == 0 {
		return ids, nil
	}
	q := conn(ctx, r.db).Model(&models.Mention{})
	switch {
	case len(postIDs) > 0 && len(commentIDs) > 0:
		q = q.Where("post_id IN ? OR comment_id IN ?", postIDs, commentIDs)
	case len(postIDs) > 0:
		q = q.Where("post_id IN ?", postIDs)
	default:
		q = q.Where("comment_id IN ?", commentIDs)
	}
	err := q.Pluck("id", &ids).Error
	return ids, err
}

func (r *mentionRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn(ctx, r.db).Where("id IN ?", ids).Delete(&models.Mention{})
	return res.RowsAffected, res.Error
}
