package service_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
)

const noteID = "55555555-5555-5555-5555-555555555555"

func TestNotificationService_SetReadScopedToOwner(t *testing.T) {
	repo := &stubNotificationRepo{items: []domain.Notification{{ID: noteID, UserID: citizenID}}, unread: 1}
	svc := service.NewNotificationService(repo, nil, 0)

	gt.NoError(t, svc.SetRead(context.Background(), citizenID, noteID, true))
	gt.Bool(t, repo.items[0].Read).True()

	gt.Value(t, httpStatus(svc.SetRead(context.Background(), staffID, noteID, false))).Equal(404)
	gt.Value(t, httpStatus(svc.SetRead(context.Background(), citizenID, "nope", true))).Equal(404)
}

func TestNotificationService_ListAndDelete(t *testing.T) {
	repo := &stubNotificationRepo{items: []domain.Notification{{ID: noteID, UserID: citizenID}}, unread: 1}
	svc := service.NewNotificationService(repo, nil, 20)

	items, unread, err := svc.List(context.Background(), citizenID)
	gt.NoError(t, err).Required()
	gt.Array(t, items).Length(1)
	gt.Value(t, unread).Equal(1)

	gt.NoError(t, svc.Delete(context.Background(), citizenID, noteID))
	gt.Value(t, httpStatus(svc.Delete(context.Background(), citizenID, noteID))).Equal(404)

	count, err := svc.MarkAllRead(context.Background(), citizenID)
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(int64(1))
}
