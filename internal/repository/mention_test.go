package repository

import (
	"testing"

	"ruya/internal/models"
	"ruya/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionRepository_Targets(t *testing.T) {
	db, ctx := setupDB(t)
	repo := NewMentionRepository(db)
	u := testutil.CreateUser(t, db, "u")
	p := testutil.CreatePost(t, db, u.ID)
	c := &models.Comment{UserID: u.ID, PostID: p.ID, Text: "c"}
	require.NoError(t, db.Create(c).Error)

	onPost := &models.Mention{UserID: u.ID, MentionedBy: u.ID, PostID: &p.ID}
	onComment := &models.Mention{UserID: u.ID, MentionedBy: u.ID, CommentID: &c.ID}
	require.NoError(t, repo.Create(ctx, onPost))
	require.NoError(t, repo.Create(ctx, onComment))

	ids, err := repo.IDsByTargets(ctx, []uint{p.ID}, []uint{c.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{onPost.ID, onComment.ID}, ids)

	ids, err = repo.IDsByTargets(ctx, nil, []uint{c.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{onComment.ID}, ids)

	ids, err = repo.IDsByTargets(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	listed, err := repo.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	n, err := repo.DeleteByIDs(ctx, []uint{onPost.ID, onComment.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
