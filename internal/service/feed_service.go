package service

import (
	"context"

	"ruya/internal/models"
	"ruya/internal/repository"
)

// FeedService composes home and profile feeds and profile statistics.
type FeedService struct {
	users repository.UserRepository
	posts repository.PostRepository
}

func NewFeedService(users repository.UserRepository, posts repository.PostRepository) *FeedService {
	return &FeedService{users: users, posts: posts}
}

// HomeFeed pages the caller's own posts and those of everyone they follow, newest first.
func (s *FeedService) HomeFeed(ctx context.Context, userID uint, page models.Page) (*models.PostList, error) {
	posts, total, err := s.posts.HomeFeed(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return postList(posts, total, page), nil
}

// ProfileFeed pages ownerID's visible posts as seen by viewerID.
func (s *FeedService) ProfileFeed(ctx context.Context, ownerID, viewerID uint, page models.Page) (*models.PostList, error) {
	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("User", ownerID)
	}
	posts, total, err := s.posts.ByOwner(ctx, ownerID, viewerID, page)
	if err != nil {
		return nil, err
	}
	return postList(posts, total, page), nil
}

// UserStats combines the follow counters with live engagement counts.
func (s *FeedService) UserStats(ctx context.Context, userID uint) (*models.UserStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User", userID, "")
	}
	stats, err := s.posts.EngagementReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.FollowersCount = user.FollowersCount
	stats.FollowingCount = user.FollowingCount
	return stats, nil
}

func postList(posts []*models.Post, total int64, page models.Page) *models.PostList {
	if posts == nil {
		posts = []*models.Post{}
	}
	return &models.PostList{
		Posts:    posts,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  page.HasMore(total),
	}
}
