package service

import (
	"context"

	"ruya/internal/database"
	"ruya/internal/models"
	"ruya/internal/repository"
)

// MentionService attaches user mentions to exactly one post or comment.
type MentionService struct {
	tx       TxRunner
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	mentions repository.MentionRepository
	notifier Notifier
}

func NewMentionService(
	tx TxRunner,
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	mentions repository.MentionRepository,
	notifier Notifier,
) *MentionService {
	return &MentionService{
		tx:       tx,
		users:    users,
		posts:    posts,
		comments: comments,
		mentions: mentions,
		notifier: notifier,
	}
}

type CreateMentionInput struct {
	MentionedUserID uint
	MentionedBy     uint
	PostID          *uint
	CommentID       *uint
}

// CreateMention records the mention and notifies the mentioned user. Only the
// author of the target may mention people on it.
func (s *MentionService) CreateMention(ctx context.Context, in CreateMentionInput) (mention *models.Mention, err error) {
	ctx, done := track(ctx, "mention", idAttr("user.id", in.MentionedUserID))
	defer func() { done(err) }()

	return s.create(ctx, in)
}

func (s *MentionService) create(ctx context.Context, in CreateMentionInput) (mention *models.Mention, err error) {
	mention = &models.Mention{
		UserID:      in.MentionedUserID,
		MentionedBy: in.MentionedBy,
		PostID:      in.PostID,
		CommentID:   in.CommentID,
	}
	if !mention.HasSingleTarget() {
		return nil, models.NewValidationError("A mention must target exactly one post or comment").
			WithReason(models.ReasonInvalidTarget)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetByID(ctx, in.MentionedUserID); err != nil {
			return notFound(err, "User", in.MentionedUserID, "")
		}
		actor, err := s.users.GetByID(ctx, in.MentionedBy)
		if err != nil {
			return notFound(err, "User", in.MentionedBy, "")
		}

		authorID, err := s.targetAuthor(ctx, in)
		if err != nil {
			return err
		}
		if authorID != in.MentionedBy {
			return models.NewForbiddenError("Only the author can mention users here")
		}

		if err := s.mentions.Create(ctx, mention); err != nil {
			if database.IsCheckViolation(err) {
				return models.NewValidationError("A mention must target exactly one post or comment").
					WithReason(models.ReasonInvalidTarget)
			}
			return err
		}
		return s.notifier.Emit(ctx, models.MentionEvent{
			RecipientID:   in.MentionedUserID,
			ActorID:       in.MentionedBy,
			ActorUsername: actor.Username,
			MentionID:     mention.ID,
			PostID:        in.PostID,
			CommentID:     in.CommentID,
		})
	})
	if err != nil {
		return nil, err
	}
	return mention, nil
}

// targetAuthor locks the mention target, post before comment, and returns its author.
func (s *MentionService) targetAuthor(ctx context.Context, in CreateMentionInput) (uint, error) {
	if in.PostID != nil {
		post, err := s.posts.GetForUpdate(ctx, *in.PostID)
		if err != nil {
			return 0, notFound(err, "Post", *in.PostID, models.ReasonPostNotFound)
		}
		return post.UserID, nil
	}
	comment, err := s.comments.GetByID(ctx, *in.CommentID)
	if err != nil {
		return 0, notFound(err, "Comment", *in.CommentID, "")
	}
	if _, err := s.posts.GetForUpdate(ctx, comment.PostID); err != nil {
		return 0, notFound(err, "Comment", *in.CommentID, "")
	}
	if comment, err = s.comments.GetForUpdate(ctx, *in.CommentID); err != nil {
		return 0, notFound(err, "Comment", *in.CommentID, "")
	}
	return comment.UserID, nil
}

// attach mentions each user in userIDs on the given target within ctx's transaction.
func (s *MentionService) attach(ctx context.Context, authorID uint, userIDs []uint, postID, commentID *uint) error {
	for _, uid := range uniqueIDs(userIDs) {
		if _, err := s.create(ctx, CreateMentionInput{
			MentionedUserID: uid,
			MentionedBy:     authorID,
			PostID:          postID,
			CommentID:       commentID,
		}); err != nil {
			return err
		}
	}
	return nil
}
