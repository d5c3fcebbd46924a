package handlers

import (
	"bufio"
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/api/dto"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
)

// LiveHandler streams live screens as server-sent events. Each connection
// owns one screen; disconnecting ends it.
type LiveHandler struct {
	ctx    context.Context
	live   *service.LiveService
	issues *service.IssueService
	logger *zap.Logger
}

// NewLiveHandler constructs handler. Streams end when ctx is cancelled.
func NewLiveHandler(ctx context.Context, liveService *service.LiveService, issueService *service.IssueService, logger *zap.Logger) *LiveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveHandler{ctx: ctx, live: liveService, issues: issueService, logger: logger}
}

// Stats GET /api/live/stats.
func (h *LiveHandler) Stats(c *fiber.Ctx) error {
	return h.stream(c, "stats", h.live.DashboardScreen())
}

// Notifications GET /api/live/notifications.
func (h *LiveHandler) Notifications(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	return h.stream(c, "notifications", h.live.NotificationScreen(p.ID()))
}

// IssueUpdates GET /api/live/issues/:id/updates.
func (h *LiveHandler) IssueUpdates(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.issues.Exists(c.UserContext(), id); err != nil {
		return err
	}
	return h.stream(c, "issue-updates", h.live.IssueThreadScreen(id))
}

func (h *LiveHandler) stream(c *fiber.Ctx, name string, screen service.Screen) error {
	encode := c.App().Config().JSONEncoder
	logger := h.logger.With(zap.String("screen", name), zap.String("remote", c.IP()))
	ctx, cancel := context.WithCancel(h.ctx)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		logger.Debug("live screen opened")

		err := screen.Run(ctx, func(f service.Frame) error {
			if f.Event == service.FrameHeartbeat {
				if _, err := w.WriteString(": heartbeat\n\n"); err != nil {
					return err
				}
				return w.Flush()
			}
			data, err := encode(framePayload(f))
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", f.Event, data); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil && ctx.Err() == nil {
			logger.Info("live screen ended", zap.Error(err))
			// best effort; the client may already be gone
			_, _ = fmt.Fprintf(w, "event: error\ndata: {\"message\":%q}\n\n", "stream closed")
			_ = w.Flush()
			return
		}
		logger.Debug("live screen closed")
	})
	return nil
}

func framePayload(f service.Frame) any {
	if f.Event == service.FrameAlert && f.Alert != nil {
		return dto.AlertFrame{Title: f.Alert.Title, Message: f.Alert.Message, UnreadCount: f.Unread}
	}
	switch state := f.State.(type) {
	case viewmodel.StatusCounts:
		return statusCountsResponse(state)
	case viewmodel.NotificationFeed:
		return dto.NotificationFeedFrame{Notifications: notificationResponses(state.Items), UnreadCount: state.Unread}
	case viewmodel.IssueThread:
		return dto.IssueThreadFrame{IssueID: state.IssueID, Updates: issueUpdateResponses(state.Updates)}
	}
	return f.State
}
