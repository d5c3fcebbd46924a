package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
	apperrors "github.com/dtvk027/v0-civic-issue-reporter/pkg/util"
)

// NotificationService serves a recipient's notification center.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
	limit  int
}

// NewNotificationService creates the service.
func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger, limit int) *NotificationService {
	if limit <= 0 {
		limit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, logger: logger, limit: limit}
}

// List returns the latest notifications and the total unread count.
func (n *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, int, error) {
	items, err := n.repo.ListByUser(ctx, userID, n.limit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := n.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

// SetRead marks one notification read or unread.
func (n *NotificationService) SetRead(ctx context.Context, userID, id string, read bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	err := n.repo.SetRead(ctx, userID, id, read)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	return err
}

// MarkAllRead marks every unread notification of userID read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	count, err := n.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	n.logger.Debug("notifications marked read", zap.String("user_id", userID), zap.Int64("count", count))
	return count, nil
}

// Delete removes a notification owned by userID.
func (n *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	err := n.repo.Delete(ctx, userID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	return err
}
