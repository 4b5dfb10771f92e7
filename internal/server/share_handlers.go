package server

import (
	"github.com/gofiber/fiber/v2"
)

type shareRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	Caption string `json:"caption" validate:"max=2000"`
}

// SharePost handles POST /api/shares
func (s *Server) SharePost(c *fiber.Ctx) error {
	var req shareRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	share, err := s.svc.Engagement.Share(c.UserContext(), currentUserID(c), req.PostID, req.Caption)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(share)
}

// UnsharePost handles DELETE /api/shares/:id
func (s *Server) UnsharePost(c *fiber.Ctx) error {
	shareID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.svc.Engagement.Unshare(c.UserContext(), shareID, currentUserID(c)); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyShares handles GET /api/shares/my-shares
func (s *Server) GetMyShares(c *fiber.Ctx) error {
	shares, err := s.svc.Engagement.ListMyShares(c.UserContext(), currentUserID(c), parsePage(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(shares)
}
