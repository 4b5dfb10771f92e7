package service

import (
	"context"

	"ruya/internal/models"
	"ruya/internal/repository"
)

// FollowService maintains the directed follow graph and its per-user counters.
type FollowService struct {
	tx       TxRunner
	users    repository.UserRepository
	follows  repository.FollowRepository
	notifier Notifier
}

func NewFollowService(
	tx TxRunner,
	users repository.UserRepository,
	follows repository.FollowRepository,
	notifier Notifier,
) *FollowService {
	return &FollowService{
		tx:       tx,
		users:    users,
		follows:  follows,
		notifier: notifier,
	}
}

// Follow adds the edge followerID -> targetID, bumps both counters and
// notifies the target, all in one transaction.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) (follow *models.Follow, err error) {
	ctx, done := track(ctx, "follow", idAttr("follower.id", followerID), idAttr("target.id", targetID))
	defer func() { done(err) }()

	if followerID == targetID {
		return nil, models.NewValidationError("You cannot follow yourself").WithReason(models.ReasonSelfFollow)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return notFound(err, "User", targetID, models.ReasonTargetNotFound)
		}
		follower, err := s.users.GetByID(ctx, followerID)
		if err != nil {
			return notFound(err, "User", followerID, "")
		}

		follow = &models.Follow{FollowerID: followerID, FollowingID: targetID}
		if err := s.follows.Create(ctx, follow); err != nil {
			return conflictOn(err, models.ReasonAlreadyFollowing, "Already following this user")
		}
		if err := s.users.AdjustFollowCounts(ctx, followerID, targetID, 1); err != nil {
			return err
		}
		return s.notifier.Emit(ctx, models.FollowEvent{
			RecipientID:   targetID,
			ActorID:       followerID,
			ActorUsername: follower.Username,
		})
	})
	if err != nil {
		return nil, err
	}
	return follow, nil
}

// Unfollow removes the edge and decrements both counters.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) (err error) {
	ctx, done := track(ctx, "unfollow", idAttr("follower.id", followerID), idAttr("target.id", targetID))
	defer func() { done(err) }()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.follows.Delete(ctx, followerID, targetID)
		if err != nil {
			return err
		}
		if n == 0 {
			return models.NewNotFoundError("Follow", targetID).WithReason(models.ReasonNotFollowing)
		}
		return s.users.AdjustFollowCounts(ctx, followerID, targetID, -1)
	})
}

func (s *FollowService) ListFollowers(ctx context.Context, targetID, viewerID uint, page models.Page) (*models.ListPage[models.UserListEntry], error) {
	if err := s.requireUser(ctx, targetID); err != nil {
		return nil, err
	}
	entries, total, err := s.follows.ListFollowers(ctx, targetID, viewerID, page)
	if err != nil {
		return nil, err
	}
	return models.NewListPage(entries, total, page), nil
}

func (s *FollowService) ListFollowing(ctx context.Context, targetID, viewerID uint, page models.Page) (*models.ListPage[models.UserListEntry], error) {
	if err := s.requireUser(ctx, targetID); err != nil {
		return nil, err
	}
	entries, total, err := s.follows.ListFollowing(ctx, targetID, viewerID, page)
	if err != nil {
		return nil, err
	}
	return models.NewListPage(entries, total, page), nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.follows.Exists(ctx, followerID, targetID)
}

// SearchUsers matches active users whose username or full name contains query.
func (s *FollowService) SearchUsers(ctx context.Context, query string, viewerID uint, page models.Page) (*models.ListPage[models.UserListEntry], error) {
	query, err := validateText(query, "Search query", 1, 100)
	if err != nil {
		return nil, err
	}
	entries, total, err := s.users.Search(ctx, query, viewerID, page)
	if err != nil {
		return nil, err
	}
	return models.NewListPage(entries, total, page), nil
}

func (s *FollowService) requireUser(ctx context.Context, id uint) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", id)
	}
	return nil
}
