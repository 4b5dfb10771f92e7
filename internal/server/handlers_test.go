package server

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"ruya/internal/models"
	"ruya/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowHandlers(t *testing.T) {
	env := newTestEnv(t)
	alice := testutil.CreateUser(t, env.db, "alice")
	bob := testutil.CreateUser(t, env.db, "bob")
	tok := env.token(alice)

	status, raw := env.do(http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bob.ID), tok, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = env.do(http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bob.ID), tok, nil)
	require.Equal(t, http.StatusConflict, status)
	errBody := decode[models.ErrorResponse](t, raw)
	assert.Equal(t, models.CodeConflict, errBody.Code)
	assert.Equal(t, models.ReasonAlreadyFollowing, errBody.Reason)

	status, raw = env.do(http.MethodPost, fmt.Sprintf("/api/users/%d/follow", alice.ID), tok, nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.ReasonSelfFollow, decode[models.ErrorResponse](t, raw).Reason)

	status, _ = env.do(http.MethodPost, "/api/users/abc/follow", tok, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, raw = env.do(http.MethodGet, fmt.Sprintf("/api/users/%d/is-following/%d", alice.ID, bob.ID), tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[map[string]bool](t, raw)["is_following"])

	status, raw = env.do(http.MethodGet, fmt.Sprintf("/api/users/%d/followers?page=1&page_size=10", bob.ID), tok, nil)
	require.Equal(t, http.StatusOK, status)
	followers := decode[models.ListPage[models.UserListEntry]](t, raw)
	require.Len(t, followers.Items, 1)
	assert.Equal(t, alice.ID, followers.Items[0].ID)
	assert.Equal(t, 10, followers.PageSize)
	assert.NotContains(t, string(raw), "email")

	status, raw = env.do(http.MethodGet, fmt.Sprintf("/api/users/%d/stats", bob.ID), tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[models.UserStats](t, raw).FollowersCount)

	status, raw = env.do(http.MethodGet, "/api/users/search?q="+bob.Username, tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[models.ListPage[models.UserListEntry]](t, raw).Items, 1)

	status, _ = env.do(http.MethodGet, "/api/users/search", tok, nil)
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", bob.ID), tok, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, raw = env.do(http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", bob.ID), tok, nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.ReasonNotFollowing, decode[models.ErrorResponse](t, raw).Reason)
}

func TestPostHandlers(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db, "owner")
	fan := testutil.CreateUser(t, env.db, "fan")
	dream := testutil.CreateDream(t, env.db, owner.ID)
	ownerTok, fanTok := env.token(owner), env.token(fan)

	status, _ := env.do(http.MethodPost, "/api/posts", ownerTok, map[string]interface{}{"caption": "no dream"})
	require.Equal(t, http.StatusBadRequest, status)

	status, raw := env.do(http.MethodPost, "/api/posts", ownerTok, map[string]interface{}{
		"dream_id": dream.ID,
		"caption":  strings.Repeat("x", 2001),
	})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[models.ErrorResponse](t, raw).Error, "caption")

	status, _ = env.do(http.MethodPost, "/api/posts", fanTok, map[string]interface{}{"dream_id": dream.ID})
	require.Equal(t, http.StatusForbidden, status)

	status, raw = env.do(http.MethodPost, "/api/posts", ownerTok, map[string]interface{}{
		"dream_id": dream.ID,
		"caption":  "a lantern over water",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	post := decode[models.Post](t, raw)

	status, raw = env.do(http.MethodPost, "/api/posts", ownerTok, map[string]interface{}{"dream_id": dream.ID})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonDreamAlreadyPosted, decode[models.ErrorResponse](t, raw).Reason)

	postPath := fmt.Sprintf("/api/posts/%d", post.ID)

	status, raw = env.do(http.MethodPost, postPath+"/like", fanTok, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	status, raw = env.do(http.MethodPost, postPath+"/like", fanTok, nil)
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonAlreadyLiked, decode[models.ErrorResponse](t, raw).Reason)

	status, raw = env.do(http.MethodGet, postPath, fanTok, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[models.Post](t, raw)
	assert.Equal(t, int64(1), got.LikesCount)
	assert.True(t, got.IsLiked)

	status, raw = env.do(http.MethodGet, postPath+"/likes", fanTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[models.ListPage[models.Like]](t, raw).Total)

	status, _ = env.do(http.MethodPatch, postPath, fanTok, map[string]interface{}{"caption": "mine now"})
	require.Equal(t, http.StatusForbidden, status)
	status, raw = env.do(http.MethodPatch, postPath, ownerTok, map[string]interface{}{"caption": "a lantern over the sea"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a lantern over the sea", decode[models.Post](t, raw).Caption)

	status, raw = env.do(http.MethodGet, "/api/posts?page_size=5", ownerTok, nil)
	require.Equal(t, http.StatusOK, status)
	feed := decode[models.PostList](t, raw)
	assert.Equal(t, int64(1), feed.Total)
	assert.Equal(t, 5, feed.PageSize)

	status, raw = env.do(http.MethodGet, fmt.Sprintf("/api/posts?user_id=%d", owner.ID), fanTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[models.PostList](t, raw).Posts, 1)

	status, _ = env.do(http.MethodDelete, postPath+"/like", fanTok, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(http.MethodDelete, postPath, fanTok, nil)
	require.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(http.MethodDelete, postPath, ownerTok, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, raw = env.do(http.MethodGet, postPath, ownerTok, nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.ReasonPostNotFound, decode[models.ErrorResponse](t, raw).Reason)
}

func TestCommentAndMentionHandlers(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db, "owner")
	fan := testutil.CreateUser(t, env.db, "fan")
	post := testutil.CreatePost(t, env.db, owner.ID)
	ownerTok, fanTok := env.token(owner), env.token(fan)

	status, _ := env.do(http.MethodPost, "/api/comments", fanTok, map[string]interface{}{"post_id": post.ID, "text": ""})
	require.Equal(t, http.StatusBadRequest, status)

	status, raw := env.do(http.MethodPost, "/api/comments", fanTok, map[string]interface{}{"post_id": post.ID, "text": "beautiful"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	root := decode[models.Comment](t, raw)

	status, raw = env.do(http.MethodPost, "/api/comments", ownerTok, map[string]interface{}{
		"post_id": post.ID, "text": "thank you", "parent_comment_id": root.ID, "mentions": []uint{fan.ID},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = env.do(http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", post.ID), fanTok, nil)
	require.Equal(t, http.StatusOK, status)
	listed := decode[map[string][]models.Comment](t, raw)["comments"]
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Replies, 1)

	status, _ = env.do(http.MethodPatch, fmt.Sprintf("/api/comments/%d", root.ID), ownerTok, map[string]string{"text": "hijack"})
	require.Equal(t, http.StatusNotFound, status)
	status, raw = env.do(http.MethodPatch, fmt.Sprintf("/api/comments/%d", root.ID), fanTok, map[string]string{"text": "stunning"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "stunning", decode[models.Comment](t, raw).Text)

	status, raw = env.do(http.MethodPost, "/api/mentions", ownerTok, map[string]interface{}{"mentioned_user_id": fan.ID})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, models.ReasonInvalidTarget, decode[models.ErrorResponse](t, raw).Reason)

	status, _ = env.do(http.MethodPost, "/api/mentions", fanTok, map[string]interface{}{"mentioned_user_id": owner.ID, "post_id": post.ID})
	require.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(http.MethodPost, "/api/mentions", ownerTok, map[string]interface{}{"mentioned_user_id": fan.ID, "post_id": post.ID})
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", root.ID), fanTok, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, testutil.Count(t, env.db, &models.Comment{}, "post_id = ?", post.ID))
}

func TestShareHandlers(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateUser(t, env.db, "owner")
	fan := testutil.CreateUser(t, env.db, "fan")
	post := testutil.CreatePost(t, env.db, owner.ID)
	ownerTok, fanTok := env.token(owner), env.token(fan)

	status, raw := env.do(http.MethodPost, "/api/shares", fanTok, map[string]interface{}{"post_id": post.ID, "caption": "read this"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	share := decode[models.Share](t, raw)

	status, raw = env.do(http.MethodPost, "/api/shares", fanTok, map[string]interface{}{"post_id": post.ID})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonAlreadyShared, decode[models.ErrorResponse](t, raw).Reason)

	status, raw = env.do(http.MethodGet, "/api/shares/my-shares", fanTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[models.ListPage[models.Share]](t, raw).Items, 1)

	status, raw = env.do(http.MethodGet, fmt.Sprintf("/api/posts/%d/shares", post.ID), ownerTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(1), decode[models.ListPage[models.Share]](t, raw).Total)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/shares/%d", share.ID), ownerTok, nil)
	require.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/shares/%d", share.ID), fanTok, nil)
	require.Equal(t, http.StatusNoContent, status)
}

func TestNotificationHandlers(t *testing.T) {
	env := newTestEnv(t)
	me := testutil.CreateUser(t, env.db, "me")
	tok := env.token(me)
	for i := 0; i < 3; i++ {
		fan := testutil.CreateUser(t, env.db, "fan")
		status, _ := env.do(http.MethodPost, fmt.Sprintf("/api/users/%d/follow", me.ID), env.token(fan), nil)
		require.Equal(t, http.StatusCreated, status)
	}

	status, raw := env.do(http.MethodGet, "/api/notifications/unread-count", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(3), decode[map[string]int64](t, raw)["unread_count"])

	status, raw = env.do(http.MethodGet, "/api/notifications?page_size=2", tok, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[models.NotificationList](t, raw)
	require.Len(t, list.Notifications, 2)
	assert.True(t, list.HasMore)
	first := list.Notifications[0]
	assert.Equal(t, models.NotificationFollow, first.Type)

	path := fmt.Sprintf("/api/notifications/%d", first.ID)
	status, _ = env.do(http.MethodPatch, path, tok, map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, status)
	status, raw = env.do(http.MethodPatch, path, tok, map[string]bool{"is_read": true})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[models.Notification](t, raw).IsRead)

	status, raw = env.do(http.MethodGet, "/api/notifications?unread_only=true", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[models.NotificationList](t, raw).Notifications, 2)

	status, raw = env.do(http.MethodPost, "/api/notifications/mark-all-read", tok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), decode[map[string]int64](t, raw)["updated_count"])

	other := testutil.CreateUser(t, env.db, "other")
	status, _ = env.do(http.MethodDelete, path, env.token(other), nil)
	require.Equal(t, http.StatusNotFound, status)
	status, _ = env.do(http.MethodDelete, path, tok, nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(http.MethodDelete, "/api/notifications", tok, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.Zero(t, testutil.Count(t, env.db, &models.Notification{}, "user_id = ?", me.ID))
}
