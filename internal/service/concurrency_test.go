package service

import (
	"context"
	"sync"
	"testing"

	"ruya/internal/models"
	"ruya/internal/testutil"

	"github.com/stretchr/testify/assert"
)

// race starts n calls of fn together and returns their errors.
func race(n int, fn func() error) []error {
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

// splitOutcomes counts successes and requires every failure to carry reason.
func splitOutcomes(t *testing.T, errs []error, reason string) int {
	t.Helper()
	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, models.HasReason(err, reason), "unexpected error: %v", err)
	}
	return ok
}

func TestConcurrentFollowSamePair(t *testing.T) {
	db := testutil.NewFileDB(t)
	s, ctx := New(db), context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	errs := race(4, func() error {
		_, err := s.Follow.Follow(ctx, alice.ID, bob.ID)
		return err
	})

	assert.Equal(t, 1, splitOutcomes(t, errs, models.ReasonAlreadyFollowing))

	var a, b models.User
	testutil.Reload(t, db, &a, alice.ID)
	testutil.Reload(t, db, &b, bob.ID)
	edges := testutil.Count(t, db, &models.Follow{}, "follower_id = ? AND following_id = ?", alice.ID, bob.ID)
	assert.Equal(t, int64(1), edges)
	assert.Equal(t, edges, a.FollowingCount)
	assert.Equal(t, edges, b.FollowersCount)
	assert.Equal(t, int64(1), notificationsOf(t, db, bob.ID, models.NotificationFollow))
}

func TestConcurrentLikeSamePost(t *testing.T) {
	db := testutil.NewFileDB(t)
	s, ctx := New(db), context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	post := testutil.CreatePost(t, db, owner.ID)

	errs := race(4, func() error {
		_, err := s.Engagement.Like(ctx, fan.ID, post.ID)
		return err
	})

	assert.Equal(t, 1, splitOutcomes(t, errs, models.ReasonAlreadyLiked))

	var p models.Post
	testutil.Reload(t, db, &p, post.ID)
	assert.Equal(t, int64(1), p.LikesCount)
	assert.Equal(t, p.LikesCount, testutil.Count(t, db, &models.Like{}, "post_id = ?", post.ID))
	assert.Equal(t, int64(1), notificationsOf(t, db, owner.ID, models.NotificationLike))
}

func TestConcurrentEngagementAndDeleteLeaveNoOrphans(t *testing.T) {
	db := testutil.NewFileDB(t)
	s, ctx := New(db), context.Background()
	owner := testutil.CreateUser(t, db, "owner")
	post := testutil.CreatePost(t, db, owner.ID)

	fans := make([]*models.User, 6)
	for i := range fans {
		fans[i] = testutil.CreateUser(t, db, "fan")
	}

	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, fan := range fans {
		wg.Add(2)
		go func(id uint) {
			defer wg.Done()
			<-start
			_, err := s.Engagement.Like(ctx, id, post.ID)
			if err != nil {
				assert.True(t, models.HasReason(err, models.ReasonPostNotFound), "like: %v", err)
			}
		}(fan.ID)
		go func(id uint) {
			defer wg.Done()
			<-start
			_, err := s.Comments.CreateComment(ctx, CreateCommentInput{UserID: id, PostID: post.ID, Text: "late"})
			if err != nil {
				assert.True(t, models.HasReason(err, models.ReasonPostNotFound), "comment: %v", err)
			}
		}(fan.ID)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		assert.NoError(t, s.Posts.DeletePost(ctx, post.ID, owner.ID))
	}()
	close(start)
	wg.Wait()

	assert.Zero(t, testutil.Count(t, db, &models.Post{}, "id = ?", post.ID))
	assert.Zero(t, testutil.Count(t, db, &models.Like{}, "post_id = ?", post.ID))
	assert.Zero(t, testutil.Count(t, db, &models.Comment{}, "post_id = ?", post.ID))
	assert.Zero(t, testutil.Count(t, db, &models.Notification{}, "post_id = ?", post.ID))
}
