package service

import (
	"ruya/internal/database"
	"ruya/internal/repository"

	"gorm.io/gorm"
)

// Services is the wired set of domain services sharing one database.
type Services struct {
	Users         repository.UserRepository
	Dreams        repository.DreamRepository
	Follow        *FollowService
	Engagement    *EngagementService
	Comments      *CommentService
	Mentions      *MentionService
	Notifications *NotificationService
	Feed          *FeedService
	Posts         *PostService
}

// New builds every repository and service over db.
func New(db *gorm.DB) *Services {
	tx := database.NewTransactor(db)

	users := repository.NewUserRepository(db)
	dreams := repository.NewDreamRepository(db)
	follows := repository.NewFollowRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	likes := repository.NewLikeRepository(db)
	shares := repository.NewShareRepository(db)
	mentions := repository.NewMentionRepository(db)
	notifications := repository.NewNotificationRepository(db)

	notifier := NewNotificationService(notifications)
	mentionSvc := NewMentionService(tx, users, posts, comments, mentions, notifier)

	return &Services{
		Users:         users,
		Dreams:        dreams,
		Follow:        NewFollowService(tx, users, follows, notifier),
		Engagement:    NewEngagementService(tx, users, posts, likes, shares, notifier),
		Comments:      NewCommentService(tx, users, posts, comments, mentions, notifications, mentionSvc, notifier),
		Mentions:      mentionSvc,
		Notifications: notifier,
		Feed:          NewFeedService(users, posts),
		Posts: NewPostService(tx, PostRepos{
			Dreams:        dreams,
			Posts:         posts,
			Comments:      comments,
			Likes:         likes,
			Shares:        shares,
			Mentions:      mentions,
			Notifications: notifications,
		}, mentionSvc),
	}
}
