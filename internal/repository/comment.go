package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Comment, error)
	UpdateText(ctx context.Context, id uint, text string) error
	ListRoots(ctx context.Context, postID uint) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentIDs []uint) ([]*models.Comment, error)
	ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error)
	IDsByPost(ctx context.Context, postID uint) ([]uint, error)
	CountByPost(ctx context.Context, postID uint) (int64, error)
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return conn(ctx, r.db).Omit("User").Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := conn(ctx, r.db).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetForUpdate loads a comment and row-locks it. Callers lock the comment's
// post first.
func (r *commentRepository) GetForUpdate(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) UpdateText(ctx context.Context, id uint, text string) error {
	return conn(ctx, r.db).Model(&models.Comment{}).Where("id = ?", id).Update("text", text).Error
}

// ListRoots returns the visible top-level comments of a post, oldest first.
func (r *commentRepository) ListRoots(ctx context.Context, postID uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := conn(ctx, r.db).Preload("User").
		Where("post_id = ? AND parent_comment_id IS NULL AND is_hidden = ?", postID, false).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ListReplies returns the visible direct replies to parentIDs, oldest first.
func (r *commentRepository) ListReplies(ctx context.Context, parentIDs []uint) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	if len(parentIDs) == 0 {
		return comments, nil
	}
	err := conn(ctx, r.db).Preload("User").
		Where("parent_comment_id IN ? AND is_hidden = ?", parentIDs, false).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// ChildIDs returns the ids of all direct replies to parentIDs, hidden or not.
func (r *commentRepository) ChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	var ids []uint
	if len(parentIDs) == 0 {
		return ids, nil
	}
	err := conn(ctx, r.db).Model(&models.Comment{}).
		Where("parent_comment_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) IDsByPost(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	err := conn(ctx, r.db).Model(&models.Comment{}).Where("post_id = ?", postID).Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn(ctx, r.db).Where("id IN ?", ids).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}
