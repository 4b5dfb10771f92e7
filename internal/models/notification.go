package models

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// NotificationType identifies the event a notification was created for.
type NotificationType string

const (
	NotificationFollow                 NotificationType = "follow"
	NotificationLike                   NotificationType = "like"
	NotificationComment                NotificationType = "comment"
	NotificationShare                  NotificationType = "share"
	NotificationMention                NotificationType = "mention"
	NotificationInterpretationReceived NotificationType = "interpretation_received"
	NotificationImamAssigned           NotificationType = "imam_assigned"
)

// Notification is an inbox row owned by its recipient (UserID).
type Notification struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	UserID           uint             `gorm:"not null;index:idx_notifications_user_read" json:"user_id"`
	Type             NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	ActorID          *uint            `gorm:"index" json:"actor_id"`
	Actor            *User            `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"actor,omitempty"`
	Title            string           `gorm:"size:200;not null" json:"title"`
	Message          string           `gorm:"type:text" json:"message"`
	PostID           *uint            `gorm:"index" json:"post_id,omitempty"`
	CommentID        *uint            `gorm:"index" json:"comment_id,omitempty"`
	DreamID          *uint            `json:"dream_id,omitempty"`
	InterpretationID *uint            `json:"interpretation_id,omitempty"`
	MentionID        *uint            `gorm:"index" json:"mention_id,omitempty"`
	IsRead           bool             `gorm:"not null;default:false;index:idx_notifications_user_read" json:"is_read"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NotificationList is one page of a recipient's inbox.
type NotificationList struct {
	Notifications []*Notification `json:"notifications"`
	Total         int64           `json:"total"`
	UnreadCount   int64           `json:"unread_count"`
	Page          int             `json:"page"`
	PageSize      int             `json:"page_size"`
	HasMore       bool            `json:"has_more"`
}

// NotificationEvent is a domain event that produces at most one notification.
// The set of implementations is closed to this package.
type NotificationEvent interface {
	Kind() NotificationType
	Build() Notification
	sealed()
}

// Suppressed reports whether n would notify its own actor.
func (n Notification) Suppressed() bool {
	return n.ActorID != nil && *n.ActorID == n.UserID
}

func ref(id uint) *uint {
	return &id
}

const excerptLen = 100

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= excerptLen {
		return s
	}
	r := []rune(s)
	return string(r[:excerptLen]) + "..."
}

// FollowEvent fires when ActorID starts following RecipientID.
type FollowEvent struct {
	RecipientID   uint
	ActorID       uint
	ActorUsername string
}

func (FollowEvent) Kind() NotificationType { return NotificationFollow }
func (FollowEvent) sealed()                {}

func (e FollowEvent) Build() Notification {
	return Notification{
		UserID:  e.RecipientID,
		Type:    NotificationFollow,
		ActorID: ref(e.ActorID),
		Title:   "New follower",
		Message: fmt.Sprintf("%s started following you", e.ActorUsername),
	}
}

// LikeEvent fires when ActorID likes a post owned by RecipientID.
type LikeEvent struct {
	RecipientID   uint
	ActorID       uint
	ActorUsername string
	PostID        uint
}

func (LikeEvent) Kind() NotificationType { return NotificationLike }
func (LikeEvent) sealed()                {}

func (e LikeEvent) Build() Notification {
	return Notification{
		UserID:  e.RecipientID,
		Type:    NotificationLike,
		ActorID: ref(e.ActorID),
		Title:   "New like",
		Message: fmt.Sprintf("%s liked your post", e.ActorUsername),
		PostID:  ref(e.PostID),
	}
}

// CommentEvent fires when ActorID comments on a post owned by RecipientID.
type CommentEvent struct {
	RecipientID   uint
	ActorID       uint
	ActorUsername string
	PostID        uint
	CommentID     uint
	Text          string
}

func (CommentEvent) Kind() NotificationType { return NotificationComment }
func (CommentEvent) sealed()                {}

func (e CommentEvent) Build() Notification {
	return Notification{
		UserID:    e.RecipientID,
		Type:      NotificationComment,
		ActorID:   ref(e.ActorID),
		Title:     "New comment",
		Message:   fmt.Sprintf("%s commented: %s", e.ActorUsername, excerpt(e.Text)),
		PostID:    ref(e.PostID),
		CommentID: ref(e.CommentID),
	}
}

// ShareEvent fires when ActorID shares a post owned by RecipientID.
type ShareEvent struct {
	RecipientID   uint
	ActorID       uint
	ActorUsername string
	PostID        uint
}

func (ShareEvent) Kind() NotificationType { return NotificationShare }
func (ShareEvent) sealed()                {}

func (e ShareEvent) Build() Notification {
	return Notification{
		UserID:  e.RecipientID,
		Type:    NotificationShare,
		ActorID: ref(e.ActorID),
		Title:   "Post shared",
		Message: fmt.Sprintf("%s shared your post", e.ActorUsername),
		PostID:  ref(e.PostID),
	}
}

// MentionEvent fires when ActorID mentions RecipientID on a post or comment.
type MentionEvent struct {
	RecipientID   uint
	ActorID       uint
	ActorUsername string
	MentionID     uint
	PostID        *uint
	CommentID     *uint
}

func (MentionEvent) Kind() NotificationType { return NotificationMention }
func (MentionEvent) sealed()                {}

func (e MentionEvent) Build() Notification {
	where := "a post"
	if e.CommentID != nil {
		where = "a comment"
	}
	return Notification{
		UserID:    e.RecipientID,
		Type:      NotificationMention,
		ActorID:   ref(e.ActorID),
		Title:     "You were mentioned",
		Message:   fmt.Sprintf("%s mentioned you in %s", e.ActorUsername, where),
		PostID:    e.PostID,
		CommentID: e.CommentID,
		MentionID: ref(e.MentionID),
	}
}

// InterpretationReceivedEvent fires when an interpretation of a dream is ready.
// ActorID is nil for machine-generated interpretations.
type InterpretationReceivedEvent struct {
	RecipientID      uint
	ActorID          *uint
	DreamID          uint
	InterpretationID uint
	DreamTitle       string
}

func (InterpretationReceivedEvent) Kind() NotificationType {
	return NotificationInterpretationReceived
}
func (InterpretationReceivedEvent) sealed() {}

func (e InterpretationReceivedEvent) Build() Notification {
	return Notification{
		UserID:           e.RecipientID,
		Type:             NotificationInterpretationReceived,
		ActorID:          e.ActorID,
		Title:            "Interpretation ready",
		Message:          fmt.Sprintf("Your dream %q has a new interpretation", e.DreamTitle),
		DreamID:          ref(e.DreamID),
		InterpretationID: ref(e.InterpretationID),
	}
}

// ImamAssignedEvent fires when an imam takes a dream for interpretation.
type ImamAssignedEvent struct {
	RecipientID  uint
	ImamID       uint
	ImamUsername string
	DreamID      uint
	DreamTitle   string
}

func (ImamAssignedEvent) Kind() NotificationType { return NotificationImamAssigned }
func (ImamAssignedEvent) sealed()                {}

func (e ImamAssignedEvent) Build() Notification {
	return Notification{
		UserID:  e.RecipientID,
		Type:    NotificationImamAssigned,
		ActorID: ref(e.ImamID),
		Title:   "Imam assigned",
		Message: fmt.Sprintf("%s will interpret your dream %q", e.ImamUsername, e.DreamTitle),
		DreamID: ref(e.DreamID),
	}
}
