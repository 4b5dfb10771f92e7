package service

import (
	"context"

	"ruya/internal/models"
	"ruya/internal/repository"
)

// EngagementService records likes and shares and keeps the post counters exact.
type EngagementService struct {
	tx       TxRunner
	users    repository.UserRepository
	posts    repository.PostRepository
	likes    repository.LikeRepository
	shares   repository.ShareRepository
	notifier Notifier
}

func NewEngagementService(
	tx TxRunner,
	users repository.UserRepository,
	posts repository.PostRepository,
	likes repository.LikeRepository,
	shares repository.ShareRepository,
	notifier Notifier,
) *EngagementService {
	return &EngagementService{
		tx:       tx,
		users:    users,
		posts:    posts,
		likes:    likes,
		shares:   shares,
		notifier: notifier,
	}
}

// visiblePost loads a post the viewer may read. Hidden posts behave as
// missing for everyone but their owner.
func visiblePost(ctx context.Context, posts repository.PostRepository, postID, viewerID uint) (*models.Post, error) {
	post, err := posts.GetByID(ctx, postID)
	return checkVisible(post, err, postID, viewerID)
}

// lockedPost is visiblePost for writes. The post row stays locked until the
// transaction ends, so DeletePost never misses rows attached concurrently.
func lockedPost(ctx context.Context, posts repository.PostRepository, postID, viewerID uint) (*models.Post, error) {
	post, err := posts.GetForUpdate(ctx, postID)
	return checkVisible(post, err, postID, viewerID)
}

func checkVisible(post *models.Post, err error, postID, viewerID uint) (*models.Post, error) {
	if err != nil {
		return nil, notFound(err, "Post", postID, models.ReasonPostNotFound)
	}
	if post.IsHidden && post.UserID != viewerID {
		return nil, models.NewNotFoundError("Post", postID).WithReason(models.ReasonPostNotFound)
	}
	return post, nil
}

func (s *EngagementService) Like(ctx context.Context, userID, postID uint) (like *models.Like, err error) {
	ctx, done := track(ctx, "like", idAttr("post.id", postID), idAttr("user.id", userID))
	defer func() { done(err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := lockedPost(ctx, s.posts, postID, userID)
		if err != nil {
			return err
		}
		actor, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return notFound(err, "User", userID, "")
		}

		like = &models.Like{UserID: userID, PostID: postID}
		if err := s.likes.Create(ctx, like); err != nil {
			return conflictOn(err, models.ReasonAlreadyLiked, "Post already liked")
		}
		if err := s.posts.AdjustCounter(ctx, postID, repository.CounterLikes, 1); err != nil {
			return err
		}
		return s.notifier.Emit(ctx, models.LikeEvent{
			RecipientID:   post.UserID,
			ActorID:       userID,
			ActorUsername: actor.Username,
			PostID:        postID,
		})
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

// Unlike removes the like. Notifications already sent for it are kept.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID uint) (err error) {
	ctx, done := track(ctx, "unlike", idAttr("post.id", postID), idAttr("user.id", userID))
	defer func() { done(err) }()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.posts.GetForUpdate(ctx, postID); err != nil {
			return notFound(err, "Post", postID, models.ReasonPostNotFound)
		}
		n, err := s.likes.Delete(ctx, userID, postID)
		if err != nil {
			return err
		}
		if n == 0 {
			return models.NewNotFoundError("Like", postID).WithReason(models.ReasonNotLiked)
		}
		return s.posts.AdjustCounter(ctx, postID, repository.CounterLikes, -1)
	})
}

func (s *EngagementService) Share(ctx context.Context, userID, postID uint, caption string) (share *models.Share, err error) {
	ctx, done := track(ctx, "share", idAttr("post.id", postID), idAttr("user.id", userID))
	defer func() { done(err) }()

	caption, err = validateText(caption, "Caption", 0, maxCaptionLen)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := lockedPost(ctx, s.posts, postID, userID)
		if err != nil {
			return err
		}
		actor, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return notFound(err, "User", userID, "")
		}

		share = &models.Share{UserID: userID, PostID: postID, Caption: caption}
		if err := s.shares.Create(ctx, share); err != nil {
			return conflictOn(err, models.ReasonAlreadyShared, "Post already shared")
		}
		if err := s.posts.AdjustCounter(ctx, postID, repository.CounterShares, 1); err != nil {
			return err
		}
		return s.notifier.Emit(ctx, models.ShareEvent{
			RecipientID:   post.UserID,
			ActorID:       userID,
			ActorUsername: actor.Username,
			PostID:        postID,
		})
	})
	if err != nil {
		return nil, err
	}
	return share, nil
}

// Unshare deletes a share owned by userID.
func (s *EngagementService) Unshare(ctx context.Context, shareID, userID uint) (err error) {
	ctx, done := track(ctx, "unshare", idAttr("share.id", shareID), idAttr("user.id", userID))
	defer func() { done(err) }()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		share, err := s.shares.GetByID(ctx, shareID)
		if err != nil {
			return notFound(err, "Share", shareID, "")
		}
		if share.UserID != userID {
			return models.NewForbiddenError("You can only remove your own shares")
		}
		if _, err := s.posts.GetForUpdate(ctx, share.PostID); err != nil {
			return notFound(err, "Post", share.PostID, models.ReasonPostNotFound)
		}
		if err := s.shares.Delete(ctx, shareID); err != nil {
			return err
		}
		return s.posts.AdjustCounter(ctx, share.PostID, repository.CounterShares, -1)
	})
}

func (s *EngagementService) ListLikes(ctx context.Context, postID, viewerID uint, page models.Page) (*models.ListPage[*models.Like], error) {
	if _, err := visiblePost(ctx, s.posts, postID, viewerID); err != nil {
		return nil, err
	}
	likes, total, err := s.likes.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, err
	}
	return models.NewListPage(likes, total, page), nil
}

func (s *EngagementService) ListShares(ctx context.Context, postID, viewerID uint, page models.Page) (*models.ListPage[*models.Share], error) {
	if _, err := visiblePost(ctx, s.posts, postID, viewerID); err != nil {
		return nil, err
	}
	shares, total, err := s.shares.ListByPost(ctx, postID, page)
	if err != nil {
		return nil, err
	}
	return models.NewListPage(shares, total, page), nil
}

func (s *EngagementService) ListMyShares(ctx context.Context, userID uint, page models.Page) (*models.ListPage[*models.Share], error) {
	shares, total, err := s.shares.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return models.NewListPage(shares, total, page), nil
}
