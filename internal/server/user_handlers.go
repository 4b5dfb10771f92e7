package server

import (
	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	follow, err := s.svc.Follow.Follow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.svc.Follow.Unfollow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.svc.Follow.ListFollowers(c.UserContext(), userID, currentUserID(c), parsePage(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(page)
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page, err := s.svc.Follow.ListFollowing(c.UserContext(), userID, currentUserID(c), parsePage(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(page)
}

// IsFollowing handles GET /api/users/:id/is-following/:targetId
func (s *Server) IsFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}
	ok, err := s.svc.Follow.IsFollowing(c.UserContext(), userID, targetID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"is_following": ok})
}

// SearchUsers handles GET /api/users/search?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page, err := s.svc.Follow.SearchUsers(c.UserContext(), c.Query("q"), currentUserID(c), parsePage(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(page)
}

// GetUserStats handles GET /api/users/:id/stats
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	stats, err := s.svc.Feed.UserStats(c.UserContext(), userID)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(stats)
}
