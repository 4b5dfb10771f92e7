package seed

import (
	"context"
	"testing"

	"ruya/internal/models"
	"ruya/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_CountersMatchRows(t *testing.T) {
	db := testutil.NewDB(t)
	opts := Options{Users: 8, PostsPerUser: 2, FollowsPerUser: 3, LikesPerPost: 3, CommentsPerPost: 2, RandSeed: 42}

	res, err := NewSeeder(db, opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Users)
	assert.Equal(t, 16, res.Posts)
	assert.Equal(t, 32, res.Comments)

	assert.Equal(t, int64(res.Follows), testutil.Count(t, db, &models.Follow{}, ""))
	assert.Equal(t, int64(res.Likes), testutil.Count(t, db, &models.Like{}, ""))
	assert.Equal(t, int64(res.Shares), testutil.Count(t, db, &models.Share{}, ""))

	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.Equal(t, testutil.Count(t, db, &models.Like{}, "post_id = ?", p.ID), p.LikesCount)
		assert.Equal(t, testutil.Count(t, db, &models.Comment{}, "post_id = ?", p.ID), p.CommentsCount)
		assert.Equal(t, testutil.Count(t, db, &models.Share{}, "post_id = ?", p.ID), p.SharesCount)
	}

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	for _, u := range users {
		assert.Equal(t, testutil.Count(t, db, &models.Follow{}, "following_id = ?", u.ID), u.FollowersCount)
		assert.Equal(t, testutil.Count(t, db, &models.Follow{}, "follower_id = ?", u.ID), u.FollowingCount)
	}
}

func TestSeeder_Empty(t *testing.T) {
	db := testutil.NewDB(t)
	res, err := NewSeeder(db, Options{}).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Users)
}
