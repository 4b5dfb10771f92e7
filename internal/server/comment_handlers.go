package server

import (
	"ruya/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID          uint   `json:"post_id" validate:"required"`
	Text            string `json:"text" validate:"required,max=1000"`
	ParentCommentID *uint  `json:"parent_comment_id" validate:"omitempty,gt=0"`
	Mentions        []uint `json:"mentions" validate:"omitempty,max=50,dive,gt=0"`
}

type updateCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	comment, err := s.svc.Comments.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:          currentUserID(c),
		PostID:          req.PostID,
		Text:            req.Text,
		ParentCommentID: req.ParentCommentID,
		Mentions:        req.Mentions,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PATCH /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateCommentRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	comment, err := s.svc.Comments.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if _, err := s.svc.Comments.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	}); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
