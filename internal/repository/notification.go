package repository

import (
	"context"

	"ruya/internal/models"

	"gorm.io/gorm"
)

// NotificationRefs selects notifications by the entities they point at.
type NotificationRefs struct {
	PostIDs    []uint
	CommentIDs []uint
	MentionIDs []uint
}

func (r NotificationRefs) empty() bool {
	return len(r.PostIDs) == 0 && len(r.CommentIDs) == 0 && len(r.MentionIDs) == 0
}

// NotificationRepository defines the interface for notification inbox operations.
// Every recipient-facing method is scoped by the recipient's user id.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID uint, unreadOnly bool, page models.Page) ([]*models.Notification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	GetForRecipient(ctx context.Context, id, userID uint) (*models.Notification, error)
	SetRead(ctx context.Context, id, userID uint, isRead bool) (int64, error)
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) (int64, error)
	DeleteAll(ctx context.Context, userID uint) (int64, error)
	DeleteReferencing(ctx context.Context, refs NotificationRefs) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return conn(ctx, r.db).Omit("Actor").Create(n).Error
}

func (r *notificationRepository) List(ctx context.Context, userID uint, unreadOnly bool, page models.Page) ([]*models.Notification, int64, error) {
	base := func() *gorm.DB {
		q := conn(ctx, r.db).Model(&models.Notification{}).Where("user_id = ?", userID)
		if unreadOnly {
			q = q.Where("is_read = ?", false)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []*models.Notification{}
	err := paginate(base(), page).
		Preload("Actor").
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, total, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *notificationRepository) GetForRecipient(ctx context.Context, id, userID uint) (*models.Notification, error) {
	var n models.Notification
	err := conn(ctx, r.db).Preload("Actor").
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) SetRead(ctx context.Context, id, userID uint, isRead bool) (int64, error) {
	res := conn(ctx, r.db).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", isRead)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := conn(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uint) (int64, error) {
	res := conn(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	res := conn(ctx, r.db).Where("user_id = ?", userID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

// DeleteReferencing removes notifications pointing at any of the given entities.
func (r *notificationRepository) DeleteReferencing(ctx context.Context, refs NotificationRefs) (int64, error) {
	if refs.empty() {
		return 0, nil
	}
	q := conn(ctx, r.db)
	cond := conn(ctx, r.db)
	first := true
	add := func(col string, ids []uint) {
		if len(ids) == 0 {
			return
		}
		if first {
			cond = cond.Where(col+" IN ?", ids)
			first = false
			return
		}
		cond = cond.Or(col+" IN ?", ids)
	}
	add("post_id", refs.PostIDs)
	add("comment_id", refs.CommentIDs)
	add("mention_id", refs.MentionIDs)

	res := q.Where(cond).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
