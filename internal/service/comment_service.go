package service

import (
	"context"

	"ruya/internal/models"
	"ruya/internal/observability"
	"ruya/internal/repository"
)

const maxCommentLen = 1000

// CommentService manages threaded comments and their reply subtrees.
type CommentService struct {
	tx            TxRunner
	users         repository.UserRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository
	mentions      repository.MentionRepository
	notifications repository.NotificationRepository
	mentionSvc    *MentionService
	notifier      Notifier
}

func NewCommentService(
	tx TxRunner,
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	mentions repository.MentionRepository,
	notifications repository.NotificationRepository,
	mentionSvc *MentionService,
	notifier Notifier,
) *CommentService {
	return &CommentService{
		tx:            tx,
		users:         users,
		posts:         posts,
		comments:      comments,
		mentions:      mentions,
		notifications: notifications,
		mentionSvc:    mentionSvc,
		notifier:      notifier,
	}
}

type CreateCommentInput struct {
	UserID          uint
	PostID          uint
	Text            string
	ParentCommentID *uint
	Mentions        []uint
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Text      string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (comment *models.Comment, err error) {
	ctx, done := track(ctx, "comment", idAttr("post.id", in.PostID), idAttr("user.id", in.UserID))
	defer func() { done(err) }()

	text, err := validateText(in.Text, "Comment text", 1, maxCommentLen)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		post, err := lockedPost(ctx, s.posts, in.PostID, in.UserID)
		if err != nil {
			return err
		}
		if in.ParentCommentID != nil {
			parent, err := s.comments.GetForUpdate(ctx, *in.ParentCommentID)
			if err != nil {
				return notFound(err, "Comment", *in.ParentCommentID, models.ReasonParentNotFound)
			}
			// Hidden comments are not listed, so they cannot be replied to either.
			if parent.IsHidden {
				return models.NewNotFoundError("Comment", *in.ParentCommentID).
					WithReason(models.ReasonParentNotFound)
			}
			if parent.PostID != in.PostID {
				return models.NewValidationError("Parent comment belongs to another post").
					WithReason(models.ReasonParentPostMismatch)
			}
		}
		actor, err := s.users.GetByID(ctx, in.UserID)
		if err != nil {
			return notFound(err, "User", in.UserID, "")
		}

		comment = &models.Comment{
			UserID:          in.UserID,
			PostID:          in.PostID,
			Text:            text,
			ParentCommentID: in.ParentCommentID,
		}
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
		if err := s.posts.AdjustCounter(ctx, in.PostID, repository.CounterComments, 1); err != nil {
			return err
		}
		if err := s.notifier.Emit(ctx, models.CommentEvent{
			RecipientID:   post.UserID,
			ActorID:       in.UserID,
			ActorUsername: actor.Username,
			PostID:        in.PostID,
			CommentID:     comment.ID,
			Text:          text,
		}); err != nil {
			return err
		}
		if err := s.mentionSvc.attach(ctx, in.UserID, in.Mentions, nil, &comment.ID); err != nil {
			return err
		}

		comment, err = s.comments.GetByID(ctx, comment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment edits the text of a comment owned by the caller. The parent
// reference never changes after creation.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (comment *models.Comment, err error) {
	ctx, done := track(ctx, "update_comment", idAttr("comment.id", in.CommentID))
	defer func() { done(err) }()

	text, err := validateText(in.Text, "Comment text", 1, maxCommentLen)
	if err != nil {
		return nil, err
	}

	comment, err = s.ownedComment(ctx, in.CommentID, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateText(ctx, comment.ID, text); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment owned by the caller together with its whole
// reply subtree, their mentions and notifications, and decrements the post's
// comment counter by the number of comments removed.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (removed int64, err error) {
	ctx, done := track(ctx, "delete_comment", idAttr("comment.id", in.CommentID))
	defer func() { done(err) }()

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		comment, err := s.ownedComment(ctx, in.CommentID, in.UserID)
		if err != nil {
			return err
		}
		// Lock order is post then comment, the same as CreateComment.
		if _, err := s.posts.GetForUpdate(ctx, comment.PostID); err != nil {
			return notFound(err, "Comment", in.CommentID, "")
		}
		if _, err := s.comments.GetForUpdate(ctx, comment.ID); err != nil {
			return notFound(err, "Comment", in.CommentID, "")
		}
		ids, err := s.subtree(ctx, comment.ID)
		if err != nil {
			return err
		}
		mentionIDs, err := s.mentions.IDsByTargets(ctx, nil, ids)
		if err != nil {
			return err
		}
		notes, err := s.notifications.DeleteReferencing(ctx, repository.NotificationRefs{
			CommentIDs: ids,
			MentionIDs: mentionIDs,
		})
		if err != nil {
			return err
		}
		if _, err := s.mentions.DeleteByIDs(ctx, mentionIDs); err != nil {
			return err
		}
		removed, err = s.comments.DeleteByIDs(ctx, ids)
		if err != nil {
			return err
		}
		observability.CascadeDeletedRows.WithLabelValues("comments").Add(float64(removed))
		observability.CascadeDeletedRows.WithLabelValues("mentions").Add(float64(len(mentionIDs)))
		observability.CascadeDeletedRows.WithLabelValues("notifications").Add(float64(notes))
		return s.posts.AdjustCounter(ctx, comment.PostID, repository.CounterComments, -removed)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// subtree returns rootID and the ids of every transitive reply, walking one
// level of parent_comment_id per query.
func (s *CommentService) subtree(ctx context.Context, rootID uint) ([]uint, error) {
	visited := map[uint]struct{}{rootID: {}}
	ids := []uint{rootID}
	frontier := []uint{rootID}

	for len(frontier) > 0 {
		children, err := s.comments.ChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		var next []uint
		for _, id := range children {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			ids = append(ids, id)
			next = append(next, id)
		}
		frontier = next
	}
	return ids, nil
}

// ListComments returns the visible root comments of a post, oldest first,
// each with its visible direct replies.
func (s *CommentService) ListComments(ctx context.Context, postID, viewerID uint) ([]*models.Comment, error) {
	if _, err := visiblePost(ctx, s.posts, postID, viewerID); err != nil {
		return nil, err
	}
	roots, err := s.comments.ListRoots(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return roots, nil
	}

	rootIDs := make([]uint, len(roots))
	byID := make(map[uint]*models.Comment, len(roots))
	for i, c := range roots {
		rootIDs[i] = c.ID
		byID[c.ID] = c
	}
	replies, err := s.comments.ListReplies(ctx, rootIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range replies {
		if parent := byID[*r.ParentCommentID]; parent != nil {
			parent.Replies = append(parent.Replies, r)
		}
	}
	return roots, nil
}

// ownedComment loads a comment and hides it from anyone but its author.
func (s *CommentService) ownedComment(ctx context.Context, commentID, userID uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "Comment", commentID, "")
	}
	if comment.UserID != userID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}
