package service

import (
	"context"

	"ruya/internal/models"
	"ruya/internal/observability"
	"ruya/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// NotificationService creates notifications from events and serves the recipient inbox.
type NotificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Emit writes the single notification described by event, unless the actor is
// the recipient. It uses the caller's transaction when ctx carries one.
func (s *NotificationService) Emit(ctx context.Context, event models.NotificationEvent) error {
	n := event.Build()
	kind := string(event.Kind())
	if n.Suppressed() {
		observability.NotificationsSuppressed.WithLabelValues(kind).Inc()
		return nil
	}

	ctx, span := observability.StartSpan(ctx, "notifications.emit",
		attribute.String("notification.type", kind),
		attribute.Int64("notification.recipient", int64(n.UserID)),
	)
	err := s.repo.Create(ctx, &n)
	span.End(err)
	if err != nil {
		return err
	}
	observability.NotificationsEmitted.WithLabelValues(kind).Inc()
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uint, page models.Page, unreadOnly bool) (*models.NotificationList, error) {
	items, total, err := s.repo.List(ctx, userID, unreadOnly, page)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.NotificationList{
		Notifications: items,
		Total:         total,
		UnreadCount:   unread,
		Page:          page.Page,
		PageSize:      page.PageSize,
		HasMore:       page.HasMore(total),
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead sets the read flag of a notification owned by userID.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint, isRead bool) (_ *models.Notification, err error) {
	ctx, done := track(ctx, "mark_notification", idAttr("notification.id", id))
	defer func() { done(err) }()

	n, err := s.repo.SetRead(ctx, id, userID, isRead)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, models.NewNotFoundError("Notification", id)
	}
	got, err := s.repo.GetForRecipient(ctx, id, userID)
	if err != nil {
		return nil, notFound(err, "Notification", id, "")
	}
	return got, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (n int64, err error) {
	ctx, done := track(ctx, "mark_all_notifications", idAttr("user.id", userID))
	defer func() { done(err) }()

	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID uint) (err error) {
	ctx, done := track(ctx, "delete_notification", idAttr("notification.id", id))
	defer func() { done(err) }()

	n, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID uint) (n int64, err error) {
	ctx, done := track(ctx, "delete_all_notifications", idAttr("user.id", userID))
	defer func() { done(err) }()

	return s.repo.DeleteAll(ctx, userID)
}
