package server

import (
	"github.com/gofiber/fiber/v2"
)

type markNotificationRequest struct {
	IsRead *bool `json:"is_read" validate:"required"`
}

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	list, err := s.svc.Notifications.List(c.UserContext(), currentUserID(c), parsePage(c), c.QueryBool("unread_only", false))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(list)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	n, err := s.svc.Notifications.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": n})
}

// MarkNotification handles PATCH /api/notifications/:id
func (s *Server) MarkNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req markNotificationRequest
	if err := s.bind(c, &req); err != nil {
		return nil
	}
	n, err := s.svc.Notifications.MarkRead(c.UserContext(), id, currentUserID(c), *req.IsRead)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(n)
}

// MarkAllNotificationsRead handles POST /api/notifications/mark-all-read
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	n, err := s.svc.Notifications.MarkAllRead(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"updated_count": n})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.svc.Notifications.Delete(c.UserContext(), id, currentUserID(c)); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllNotifications handles DELETE /api/notifications
func (s *Server) DeleteAllNotifications(c *fiber.Ctx) error {
	if _, err := s.svc.Notifications.DeleteAll(c.UserContext(), currentUserID(c)); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
