package server

import (
	"ruya/internal/models"
	"ruya/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	DreamID                uint   `json:"dream_id" validate:"required"`
	Caption                string `json:"caption" validate:"max=2000"`
	InterpretationIncluded bool   `json:"interpretation_included"`
	Mentions               []uint `json:"mentions" validate:"omitempty,max=50,dive,gt=0"`
}

type updatePostRequest struct {
	Caption                *string `json:"caption" validate:"omitempty,max=2000"`
	InterpretationIncluded *bool   `json:"interpretation_included"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	post, err := s.svc.Posts.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:                 currentUserID(c),
		DreamID:                req.DreamID,
		Caption:                req.Caption,
		InterpretationIncluded: req.InterpretationIncluded,
		Mentions:               req.Mentions,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetFeed handles GET /api/posts. With user_id it pages that user's profile,
// otherwise the caller's home feed.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()
	viewerID := currentUserID(c)
	page := parsePage(c)

	if c.Query("user_id") != "" {
		ownerID := c.QueryInt("user_id")
		if ownerID <= 0 {
			return s.fail(c, models.NewValidationError("Invalid user ID"))
		}
		feed, err := s.svc.Feed.ProfileFeed(ctx, uint(ownerID), viewerID, page)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(feed)
	}

	feed, err := s.svc.Feed.HomeFeed(ctx, viewerID, page)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.svc.Posts.GetPost(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PATCH /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updatePostRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	post, err := s.svc.Posts.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:                 postID,
		UserID:                 currentUserID(c),
		Caption:                req.Caption,
		InterpretationIncluded: req.InterpretationIncluded,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.svc.Posts.DeletePost(c.UserContext(), postID, currentUserID(c)); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	comments, err := s.svc.Comments.ListComments(c.UserContext(), postID, currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	like, err := s.svc.Engagement.Like(c.UserContext(), currentUserID(c), postID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// UnlikePost handles DELETE /api/posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.svc.Engagement.Unlike(c.UserContext(), currentUserID(c), postID); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostLikes handles GET /api/posts/:id/likes
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	likes, err := s.svc.Engagement.ListLikes(c.UserContext(), postID, currentUserID(c), parsePage(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(likes)
}

// GetPostShares handles GET /api/posts/:id/shares
func (s *Server) GetPostShares(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	shares, err := s.svc.Engagement.ListShares(c.UserContext(), postID, currentUserID(c), parsePage(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(shares)
}
