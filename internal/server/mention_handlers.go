package server

import (
	"ruya/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createMentionRequest struct {
	MentionedUserID uint  `json:"mentioned_user_id" validate:"required"`
	PostID          *uint `json:"post_id" validate:"omitempty,gt=0"`
	CommentID       *uint `json:"comment_id" validate:"omitempty,gt=0"`
}

// CreateMention handles POST /api/mentions. Exactly one of post_id and
// comment_id must be set; the service enforces it.
func (s *Server) CreateMention(c *fiber.Ctx) error {
	var req createMentionRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	mention, err := s.svc.Mentions.CreateMention(c.UserContext(), service.CreateMentionInput{
		MentionedUserID: req.MentionedUserID,
		MentionedBy:     currentUserID(c),
		PostID:          req.PostID,
		CommentID:       req.CommentID,
	})
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(mention)
}
