package service

import (
	"context"

	"ruya/internal/models"
	"ruya/internal/observability"
	"ruya/internal/repository"
)

const maxCaptionLen = 2000

// PostService publishes dreams as posts and removes posts with everything attached to them.
type PostService struct {
	tx            TxRunner
	dreams        repository.DreamRepository
	posts         repository.PostRepository
	comments      repository.CommentRepository
	likes         repository.LikeRepository
	shares        repository.ShareRepository
	mentions      repository.MentionRepository
	notifications repository.NotificationRepository
	mentionSvc    *MentionService
}

// PostRepos groups the repositories the post lifecycle touches.
type PostRepos struct {
	Dreams        repository.DreamRepository
	Posts         repository.PostRepository
	Comments      repository.CommentRepository
	Likes         repository.LikeRepository
	Shares        repository.ShareRepository
	Mentions      repository.MentionRepository
	Notifications repository.NotificationRepository
}

func NewPostService(tx TxRunner, repos PostRepos, mentionSvc *MentionService) *PostService {
	return &PostService{
		tx:            tx,
		dreams:        repos.Dreams,
		posts:         repos.Posts,
		comments:      repos.Comments,
		likes:         repos.Likes,
		shares:        repos.Shares,
		mentions:      repos.Mentions,
		notifications: repos.Notifications,
		mentionSvc:    mentionSvc,
	}
}

type CreatePostInput struct {
	UserID                 uint
	DreamID                uint
	Caption                string
	InterpretationIncluded bool
	Mentions               []uint
}

type UpdatePostInput struct {
	PostID                 uint
	UserID                 uint
	Caption                *string
	InterpretationIncluded *bool
}

// CreatePost publishes one of the caller's dreams. A dream can be posted once.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, done := track(ctx, "create_post", idAttr("dream.id", in.DreamID), idAttr("user.id", in.UserID))
	defer func() { done(err) }()

	caption, err := validateText(in.Caption, "Caption", 0, maxCaptionLen)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		dream, err := s.dreams.GetByID(ctx, in.DreamID)
		if err != nil {
			return notFound(err, "Dream", in.DreamID, "")
		}
		if dream.UserID != in.UserID {
			return models.NewForbiddenError("You can only post your own dreams")
		}

		post = &models.Post{
			UserID:                 in.UserID,
			DreamID:                in.DreamID,
			Caption:                caption,
			InterpretationIncluded: in.InterpretationIncluded,
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return conflictOn(err, models.ReasonDreamAlreadyPosted, "This dream has already been posted")
		}
		if err := s.mentionSvc.attach(ctx, in.UserID, in.Mentions, &post.ID, nil); err != nil {
			return err
		}

		post, err = s.posts.GetDetailed(ctx, post.ID, in.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a post with viewer flags. Hidden posts are only visible to their owner.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.posts.GetDetailed(ctx, postID, viewerID)
	if err != nil {
		return nil, notFound(err, "Post", postID, models.ReasonPostNotFound)
	}
	if post.IsHidden && post.UserID != viewerID {
		return nil, models.NewNotFoundError("Post", postID).WithReason(models.ReasonPostNotFound)
	}
	return post, nil
}

// UpdatePost edits the caption and interpretation flag. Counters and
// moderation flags are not writable here.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (post *models.Post, err error) {
	ctx, done := track(ctx, "update_post", idAttr("post.id", in.PostID))
	defer func() { done(err) }()

	fields := map[string]interface{}{}
	if in.Caption != nil {
		caption, err := validateText(*in.Caption, "Caption", 0, maxCaptionLen)
		if err != nil {
			return nil, err
		}
		fields["caption"] = caption
	}
	if in.InterpretationIncluded != nil {
		fields["interpretation_included"] = *in.InterpretationIncluded
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedPost(ctx, in.PostID, in.UserID); err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := s.posts.Update(ctx, in.PostID, fields); err != nil {
				return err
			}
		}
		post, err = s.posts.GetDetailed(ctx, in.PostID, in.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post owned by the caller together with its comments,
// likes, shares, mentions and every notification pointing at any of them.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) (err error) {
	ctx, done := track(ctx, "delete_post", idAttr("post.id", postID))
	defer func() { done(err) }()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ownedPost(ctx, postID, userID); err != nil {
			return err
		}

		commentIDs, err := s.comments.IDsByPost(ctx, postID)
		if err != nil {
			return err
		}
		mentionIDs, err := s.mentions.IDsByTargets(ctx, []uint{postID}, commentIDs)
		if err != nil {
			return err
		}
		notes, err := s.notifications.DeleteReferencing(ctx, repository.NotificationRefs{
			PostIDs:    []uint{postID},
			CommentIDs: commentIDs,
			MentionIDs: mentionIDs,
		})
		if err != nil {
			return err
		}
		if _, err := s.mentions.DeleteByIDs(ctx, mentionIDs); err != nil {
			return err
		}
		removed, err := s.comments.DeleteByIDs(ctx, commentIDs)
		if err != nil {
			return err
		}
		likes, err := s.likes.DeleteByPost(ctx, postID)
		if err != nil {
			return err
		}
		shares, err := s.shares.DeleteByPost(ctx, postID)
		if err != nil {
			return err
		}
		if err := s.posts.Delete(ctx, postID); err != nil {
			return err
		}

		observability.CascadeDeletedRows.WithLabelValues("notifications").Add(float64(notes))
		observability.CascadeDeletedRows.WithLabelValues("mentions").Add(float64(len(mentionIDs)))
		observability.CascadeDeletedRows.WithLabelValues("comments").Add(float64(removed))
		observability.CascadeDeletedRows.WithLabelValues("likes").Add(float64(likes))
		observability.CascadeDeletedRows.WithLabelValues("shares").Add(float64(shares))
		return nil
	})
}

// ownedPost locks a post owned by userID for the rest of the transaction.
func (s *PostService) ownedPost(ctx context.Context, postID, userID uint) (*models.Post, error) {
	post, err := s.posts.GetForUpdate(ctx, postID)
	if err != nil {
		return nil, notFound(err, "Post", postID, models.ReasonPostNotFound)
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("You can only modify your own posts")
	}
	return post, nil
}
