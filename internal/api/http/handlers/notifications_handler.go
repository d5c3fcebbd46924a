package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
)

// NotificationsHandler serves the notification center.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	items, unread, err := h.notifications.List(c.UserContext(), p.ID())
	if err != nil {
		return err
	}
	return c.JSON(dto.NotificationListResponse{Data: notificationResponses(items), UnreadCount: unread})
}

// MarkRead POST /api/notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	return h.setRead(c, true)
}

// MarkUnread POST /api/notifications/:id/unread.
func (h *NotificationsHandler) MarkUnread(c *fiber.Ctx) error {
	return h.setRead(c, false)
}

// MarkAllRead POST /api/notifications/read-all.
func (h *NotificationsHandler) MarkAllRead(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.MarkAllRead(c.UserContext(), p.ID())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"updated": count})
}

// Delete DELETE /api/notifications/:id.
func (h *NotificationsHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.notifications.Delete(c.UserContext(), p.ID(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationsHandler) setRead(c *fiber.Ctx, read bool) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.notifications.SetRead(c.UserContext(), p.ID(), c.Params("id"), read); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
