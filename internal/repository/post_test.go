package repository

import (
	"context"
	"testing"

	"ruya/internal/database"
	"ruya/internal/models"
	"ruya/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_CreateUniqueDream(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	u := testutil.CreateUser(t, db, "poster")
	d := testutil.CreateDream(t, db, u.ID)

	require.NoError(t, repo.Create(ctx, &models.Post{UserID: u.ID, DreamID: d.ID}))
	err := repo.Create(ctx, &models.Post{UserID: u.ID, DreamID: d.ID})
	assert.True(t, database.IsUniqueViolation(err))
}

func TestPostRepository_AdjustCounter(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	u := testutil.CreateUser(t, db, "poster")
	p := testutil.CreatePost(t, db, u.ID)

	require.NoError(t, repo.AdjustCounter(ctx, p.ID, CounterLikes, 1))
	require.NoError(t, repo.AdjustCounter(ctx, p.ID, CounterComments, 3))
	require.NoError(t, repo.AdjustCounter(ctx, p.ID, CounterComments, -2))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.Equal(t, int64(1), got.CommentsCount)
	assert.Zero(t, got.SharesCount)

	assert.Error(t, repo.AdjustCounter(ctx, p.ID, PostCounter("is_hidden"), 1))
	assert.ErrorIs(t, repo.AdjustCounter(ctx, 4242, CounterLikes, 1), gorm.ErrRecordNotFound)
}

func TestPostRepository_GetDetailed(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	owner := testutil.CreateUser(t, db, "owner")
	viewer := testutil.CreateUser(t, db, "viewer")
	p := testutil.CreatePost(t, db, owner.ID)

	require.NoError(t, NewLikeRepository(db).Create(ctx, &models.Like{UserID: viewer.ID, PostID: p.ID}))

	got, err := repo.GetDetailed(ctx, p.ID, viewer.ID)
	require.NoError(t, err)
	assert.True(t, got.IsLiked)
	assert.False(t, got.IsShared)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.Username, got.User.Username)
	require.NotNil(t, got.Dream)
	assert.Equal(t, p.DreamID, got.Dream.ID)

	got, err = repo.GetDetailed(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, got.IsLiked)
}

func TestPostRepository_HomeFeed(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	follows := NewFollowRepository(db)

	me := testutil.CreateUser(t, db, "me")
	friend := testutil.CreateUser(t, db, "friend")
	stranger := testutil.CreateUser(t, db, "stranger")
	require.NoError(t, follows.Create(ctx, &models.Follow{FollowerID: me.ID, FollowingID: friend.ID}))

	mine := testutil.CreatePost(t, db, me.ID)
	theirs := testutil.CreatePost(t, db, friend.ID)
	testutil.CreatePost(t, db, stranger.ID)
	hidden := testutil.CreatePost(t, db, friend.ID)
	require.NoError(t, db.Model(hidden).Update("is_hidden", true).Error)

	posts, total, err := repo.HomeFeed(ctx, me.ID, models.NewPage(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, posts, 2)
	assert.Equal(t, theirs.ID, posts[0].ID, "newest first")
	assert.Equal(t, mine.ID, posts[1].ID)
}

func TestPostRepository_ByOwnerPaging(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	owner := testutil.CreateUser(t, db, "owner")
	for i := 0; i < 5; i++ {
		testutil.CreatePost(t, db, owner.ID)
	}

	posts, total, err := repo.ByOwner(ctx, owner.ID, 0, models.NewPage(3, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, posts, 1)
}

func TestPostRepository_EngagementReceived(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	owner := testutil.CreateUser(t, db, "owner")
	fan := testutil.CreateUser(t, db, "fan")
	p1 := testutil.CreatePost(t, db, owner.ID)
	p2 := testutil.CreatePost(t, db, owner.ID)
	other := testutil.CreatePost(t, db, fan.ID)

	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: p1.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: fan.ID, PostID: p2.ID}).Error)
	require.NoError(t, db.Create(&models.Like{UserID: owner.ID, PostID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{UserID: fan.ID, PostID: p1.ID, Text: "hi"}).Error)
	require.NoError(t, db.Create(&models.Share{UserID: fan.ID, PostID: p2.ID}).Error)

	stats, err := repo.EngagementReceived(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PostsCount)
	assert.Equal(t, int64(2), stats.LikesReceived)
	assert.Equal(t, int64(1), stats.CommentsReceived)
	assert.Equal(t, int64(1), stats.SharesReceived)
}

func TestPostRepository_GetForUpdateLocksRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE "posts"\."id" = \$1 ORDER BY .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "dream_id"}).AddRow(7, 3, 11))

	post, err := repo.GetForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(3), post.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetForUpdateOnSQLite(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewPostRepository(db)
	u := testutil.CreateUser(t, db, "poster")
	p := testutil.CreatePost(t, db, u.ID)

	require.NoError(t, database.NewTransactor(db).WithinTx(ctx, func(ctx context.Context) error {
		got, err := repo.GetForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, p.ID, got.ID)
		return nil
	}))
}
