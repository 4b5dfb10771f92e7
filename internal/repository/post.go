package repository

import (
	"context"
	"fmt"

	"ruya/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostCounter names a denormalized counter column on posts.
type PostCounter string

const (
	CounterLikes    PostCounter = "likes_count"
	CounterComments PostCounter = "comments_count"
	CounterShares   PostCounter = "shares_count"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetForUpdate(ctx context.Context, id uint) (*models.Post, error)
	GetDetailed(ctx context.Context, id, viewerID uint) (*models.Post, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	AdjustCounter(ctx context.Context, postID uint, counter PostCounter, delta int64) error
	HomeFeed(ctx context.Context, userID uint, page models.Page) ([]*models.Post, int64, error)
	ByOwner(ctx context.Context, ownerID, viewerID uint, page models.Page) ([]*models.Post, int64, error)
	EngagementReceived(ctx context.Context, ownerID uint) (*models.UserStats, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return conn(ctx, r.db).Omit("User", "Dream").Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := conn(ctx, r.db).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetForUpdate loads a post and row-locks it until the surrounding
// transaction ends. Every write that attaches rows to a post or removes it
// takes this lock first.
func (r *postRepository) GetForUpdate(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetDetailed(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(conn(ctx, r.db), viewerID).
		Preload("User").
		Preload("Dream").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := conn(ctx, r.db).Model(&models.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return conn(ctx, r.db).Delete(&models.Post{}, id).Error
}

func (r *postRepository) AdjustCounter(ctx context.Context, postID uint, counter PostCounter, delta int64) error {
	switch counter {
	case CounterLikes, CounterComments, CounterShares:
	default:
		return fmt.Errorf("unknown post counter %q", counter)
	}
	col := string(counter)
	res := conn(ctx, r.db).Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HomeFeed pages userID's own posts and the posts of everyone userID follows.
func (r *postRepository) HomeFeed(ctx context.Context, userID uint, page models.Page) ([]*models.Post, int64, error) {
	return r.feed(ctx, userID, page, func(db *gorm.DB) *gorm.DB {
		followed := conn(ctx, r.db).Model(&models.Follow{}).
			Select("following_id").
			Where("follower_id = ?", userID)
		return db.Where("(posts.user_id = ? OR posts.user_id IN (?))", userID, followed)
	})
}

func (r *postRepository) ByOwner(ctx context.Context, ownerID, viewerID uint, page models.Page) ([]*models.Post, int64, error) {
	return r.feed(ctx, viewerID, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id = ?", ownerID)
	})
}

func (r *postRepository) feed(ctx context.Context, viewerID uint, page models.Page, scope func(*gorm.DB) *gorm.DB) ([]*models.Post, int64, error) {
	base := func() *gorm.DB {
		return scope(conn(ctx, r.db).Model(&models.Post{}).Where("posts.is_hidden = ?", false))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	posts := []*models.Post{}
	err := paginate(r.applyPostDetails(base(), viewerID), page).
		Preload("User").
		Preload("Dream").
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applyPostDetails selects the viewer-relative flags alongside the post columns.
func (r *postRepository) applyPostDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select("posts.*, "+
		"EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked, "+
		"EXISTS(SELECT 1 FROM shares WHERE shares.post_id = posts.id AND shares.user_id = ?) AS is_shared",
		viewerID, viewerID)
}

// EngagementReceived counts posts of ownerID and the live likes, comments and
// shares on them. Follow counters are filled by the caller.
func (r *postRepository) EngagementReceived(ctx context.Context, ownerID uint) (*models.UserStats, error) {
	db := conn(ctx, r.db)
	owned := func() *gorm.DB {
		return conn(ctx, r.db).Model(&models.Post{}).Select("id").Where("user_id = ?", ownerID)
	}

	var stats models.UserStats
	if err := db.Model(&models.Post{}).Where("user_id = ?", ownerID).Count(&stats.PostsCount).Error; err != nil {
		return nil, err
	}
	if err := conn(ctx, r.db).Model(&models.Like{}).Where("post_id IN (?)", owned()).Count(&stats.LikesReceived).Error; err != nil {
		return nil, err
	}
	if err := conn(ctx, r.db).Model(&models.Comment{}).Where("post_id IN (?)", owned()).Count(&stats.CommentsReceived).Error; err != nil {
		return nil, err
	}
	if err := conn(ctx, r.db).Model(&models.Share{}).Where("post_id IN (?)", owned()).Count(&stats.SharesReceived).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
