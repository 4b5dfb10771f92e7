package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotificationEventsBuild(t *testing.T) {
	commentID := uint(9)
	events := []struct {
		event NotificationEvent
		title string
	}{
		{FollowEvent{RecipientID: 1, ActorID: 2, ActorUsername: "sara"}, "New follower"},
		{LikeEvent{RecipientID: 1, ActorID: 2, ActorUsername: "sara", PostID: 3}, "New like"},
		{CommentEvent{RecipientID: 1, ActorID: 2, ActorUsername: "sara", PostID: 3, CommentID: 4, Text: "hi"}, "New comment"},
		{ShareEvent{RecipientID: 1, ActorID: 2, ActorUsername: "sara", PostID: 3}, "Post shared"},
		{MentionEvent{RecipientID: 1, ActorID: 2, ActorUsername: "sara", MentionID: 5, CommentID: &commentID}, "You were mentioned"},
		{InterpretationReceivedEvent{RecipientID: 1, DreamID: 6, InterpretationID: 7, DreamTitle: "Sea"}, "Interpretation ready"},
		{ImamAssignedEvent{RecipientID: 1, ImamID: 2, ImamUsername: "yusuf", DreamID: 6, DreamTitle: "Sea"}, "Imam assigned"},
	}
	for _, tc := range events {
		n := tc.event.Build()
		require.Equal(t, tc.event.Kind(), n.Type)
		require.Equal(t, uint(1), n.UserID)
		require.Equal(t, tc.title, n.Title)
		require.NotEmpty(t, n.Message)
		require.False(t, n.Suppressed())
	}
}

func TestNotificationSuppressedForSelf(t *testing.T) {
	n := LikeEvent{RecipientID: 4, ActorID: 4, PostID: 1}.Build()
	require.True(t, n.Suppressed())

	system := InterpretationReceivedEvent{RecipientID: 4, DreamID: 1, InterpretationID: 1}.Build()
	require.Nil(t, system.ActorID)
	require.False(t, system.Suppressed())
}

func TestCommentExcerpt(t *testing.T) {
	long := strings.Repeat("ر", 150)
	n := CommentEvent{RecipientID: 1, ActorID: 2, ActorUsername: "sara", Text: long}.Build()
	require.True(t, strings.HasSuffix(n.Message, "..."))
	require.Equal(t, "sara commented: "+strings.Repeat("ر", 100)+"...", n.Message)
}

func TestMentionSingleTarget(t *testing.T) {
	id := uint(1)
	require.True(t, Mention{PostID: &id}.HasSingleTarget())
	require.True(t, Mention{CommentID: &id}.HasSingleTarget())
	require.False(t, Mention{}.HasSingleTarget())
	require.False(t, Mention{PostID: &id, CommentID: &id}.HasSingleTarget())
}
