package service

import (
	"context"
	"testing"

	"ruya/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTx runs fn without a database transaction.
type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingNotifier captures emitted events.
type recordingNotifier struct {
	events []models.NotificationEvent
	err    error
}

func (n *recordingNotifier) Emit(_ context.Context, event models.NotificationEvent) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, uint) (*models.User, error)
	existsFn  func(context.Context, uint) (bool, error)
	adjustFn  func(context.Context, uint, uint, int64) error
	searchFn  func(context.Context, string, uint, models.Page) ([]models.UserListEntry, int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error { return s.createFn(ctx, u) }
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) { return s.existsFn(ctx, id) }
func (s *userRepoStub) AdjustFollowCounts(ctx context.Context, followerID, followingID uint, delta int64) error {
	return s.adjustFn(ctx, followerID, followingID, delta)
}
func (s *userRepoStub) Search(ctx context.Context, q string, viewerID uint, p models.Page) ([]models.UserListEntry, int64, error) {
	return s.searchFn(ctx, q, viewerID, p)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "user"}, nil
		},
		existsFn: func(_ context.Context, _ uint) (bool, error) { return true, nil },
		adjustFn: func(_ context.Context, _, _ uint, _ int64) error { return nil },
		searchFn: func(_ context.Context, _ string, _ uint, _ models.Page) ([]models.UserListEntry, int64, error) {
			return nil, 0, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn        func(context.Context, *models.Follow) error
	deleteFn        func(context.Context, uint, uint) (int64, error)
	existsFn        func(context.Context, uint, uint) (bool, error)
	listFollowersFn func(context.Context, uint, uint, models.Page) ([]models.UserListEntry, int64, error)
	listFollowingFn func(context.Context, uint, uint, models.Page) ([]models.UserListEntry, int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, f *models.Follow) error { return s.createFn(ctx, f) }
func (s *followRepoStub) Delete(ctx context.Context, a, b uint) (int64, error) {
	return s.deleteFn(ctx, a, b)
}
func (s *followRepoStub) Exists(ctx context.Context, a, b uint) (bool, error) {
	return s.existsFn(ctx, a, b)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, id, viewer uint, p models.Page) ([]models.UserListEntry, int64, error) {
	return s.listFollowersFn(ctx, id, viewer, p)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, id, viewer uint, p models.Page) ([]models.UserListEntry, int64, error) {
	return s.listFollowingFn(ctx, id, viewer, p)
}
func (s *followRepoStub) CountFollowers(context.Context, uint) (int64, error) { return 0, nil }
func (s *followRepoStub) CountFollowing(context.Context, uint) (int64, error) { return 0, nil }

func noopFollowRepo() *followRepoStub {
	list := func(_ context.Context, _, _ uint, _ models.Page) ([]models.UserListEntry, int64, error) {
		return nil, 0, nil
	}
	return &followRepoStub{
		createFn:        func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:        func(_ context.Context, _, _ uint) (int64, error) { return 1, nil },
		existsFn:        func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listFollowersFn: list,
		listFollowingFn: list,
	}
}

func assertAppError(t *testing.T, err error, code, reason string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	if reason != "" {
		assert.Equal(t, reason, appErr.Reason)
	}
}
