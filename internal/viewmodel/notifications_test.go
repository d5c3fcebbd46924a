package viewmodel_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
)

func notificationRow(id string, read bool) events.Row {
	return events.Row{"id": id, "user_id": "u1", "title": "Issue updated", "message": "msg " + id, "read": read}
}

func insertNotification(id string, read bool) events.ChangeEvent {
	return events.ChangeEvent{Table: events.TableNotifications, Type: events.EventInsert, New: notificationRow(id, read)}
}

func markRead(id string, from, to bool) events.ChangeEvent {
	return events.ChangeEvent{
		Table: events.TableNotifications,
		Type:  events.EventUpdate,
		Old:   notificationRow(id, from),
		New:   notificationRow(id, to),
	}
}

func deleteNotification(id string, read bool) events.ChangeEvent {
	return events.ChangeEvent{Table: events.TableNotifications, Type: events.EventDelete, Old: notificationRow(id, read)}
}

func snapshot() viewmodel.NotificationFeed {
	return viewmodel.NewNotificationFeed([]domain.Notification{
		{ID: "n2", UserID: "u1", Read: false},
		{ID: "n1", UserID: "u1", Read: true},
	}, 1, 20)
}

func TestNotificationFeed_InsertPrependsAndCountsUnread(t *testing.T) {
	f := snapshot().Apply(insertNotification("n3", false))

	gt.Array(t, f.Items).Length(3)
	gt.Value(t, f.Items[0].ID).Equal("n3")
	gt.Value(t, f.Unread).Equal(2)
}

func TestNotificationFeed_ReplayedInsertIgnored(t *testing.T) {
	f := viewmodel.Fold(snapshot(), insertNotification("n3", false), insertNotification("n3", false))
	gt.Array(t, f.Items).Length(3)
	gt.Value(t, f.Unread).Equal(2)
}

func TestNotificationFeed_InsertRespectsLimit(t *testing.T) {
	f := viewmodel.NewNotificationFeed(nil, 0, 3)
	for i := 0; i < 5; i++ {
		f = f.Apply(insertNotification(fmt.Sprintf("n%d", i), false))
	}
	gt.Array(t, f.Items).Length(3)
	gt.Value(t, f.Items[0].ID).Equal("n4")
	gt.Value(t, f.Unread).Equal(5)
}

func TestNotificationFeed_MarkReadTwiceNeverGoesNegative(t *testing.T) {
	f := viewmodel.Fold(snapshot(), markRead("n2", false, true), markRead("n2", false, true))
	gt.Value(t, f.Unread).Equal(0)
	gt.Bool(t, f.Items[0].Read).True()

	// an entry outside the listed window falls back to the old image
	f = viewmodel.Fold(f, markRead("old", false, true), markRead("old", false, true))
	gt.Value(t, f.Unread).Equal(0)
}

func TestNotificationFeed_MarkUnreadIncrements(t *testing.T) {
	f := snapshot().Apply(markRead("n1", true, false))
	gt.Value(t, f.Unread).Equal(2)
	gt.Bool(t, f.Items[1].Read).False()
}

func TestNotificationFeed_Delete(t *testing.T) {
	tests := []struct {
		name       string
		ev         events.ChangeEvent
		wantUnread int
		wantLen    int
	}{
		{name: "unread entry decrements once", ev: deleteNotification("n2", false), wantUnread: 0, wantLen: 1},
		{name: "read entry leaves count", ev: deleteNotification("n1", true), wantUnread: 1, wantLen: 1},
		{name: "unlisted unread entry decrements once", ev: deleteNotification("nx", false), wantUnread: 0, wantLen: 2},
		{name: "unlisted read entry leaves count", ev: deleteNotification("nx", true), wantUnread: 1, wantLen: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := viewmodel.Fold(snapshot(), tt.ev, tt.ev)
			gt.Value(t, f.Unread).Equal(tt.wantUnread)
			gt.Array(t, f.Items).Length(tt.wantLen)
		})
	}
}

func TestNotificationFeed_DeleteBeyondWindowUsesOldImage(t *testing.T) {
	f := viewmodel.NewNotificationFeed([]domain.Notification{{ID: "n1", UserID: "u1"}}, 3, 1)

	f = viewmodel.Fold(f, deleteNotification("old-unread", false), deleteNotification("old-unread", false))
	gt.Value(t, f.Unread).Equal(2)
	gt.Array(t, f.Items).Length(1)

	// a listed entry replayed after removal is not counted again
	f = viewmodel.Fold(f, deleteNotification("n1", false), deleteNotification("n1", false))
	gt.Value(t, f.Unread).Equal(1)
	gt.Array(t, f.Items).Length(0)
}

func TestNotificationFeed_DoesNotMutateInput(t *testing.T) {
	before := snapshot()
	_ = before.Apply(markRead("n2", false, true))
	gt.Bool(t, before.Items[0].Read).False()
	gt.Value(t, before.Unread).Equal(1)
}
