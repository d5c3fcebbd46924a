package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/config"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/service"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
)

type liveHarness struct {
	hub    *events.Hub
	frames chan service.Frame
	cancel context.CancelFunc
	done   chan error
}

func startScreen(t *testing.T, hub *events.Hub, screen service.Screen) *liveHarness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := &liveHarness{hub: hub, frames: make(chan service.Frame, 16), cancel: cancel, done: make(chan error, 1)}
	go func() {
		h.done <- screen.Run(ctx, func(f service.Frame) error {
			h.frames <- f
			return nil
		})
	}()
	return h
}

func (h *liveHarness) next(t *testing.T) service.Frame {
	t.Helper()
	select {
	case f := <-h.frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame emitted")
		return service.Frame{}
	}
}

func (h *liveHarness) stop(t *testing.T) {
	t.Helper()
	h.cancel()
	select {
	case err := <-h.done:
		gt.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("screen did not stop")
	}
	gt.Value(t, h.hub.Len()).Equal(0)
}

func newLiveService(hub *events.Hub, issues *stubIssueRepo, notes *stubNotificationRepo) *service.LiveService {
	return service.NewLiveService(service.LiveDependencies{
		Feed:             hub,
		Analytics:        service.NewAnalyticsService(issues, newStubProfileRepo(), fixedClock),
		NotificationRepo: notes,
		UpdateRepo:       &stubUpdateRepo{},
		Config:           config.LiveConfig{NotificationLimit: 20},
	})
}

func TestLiveService_NotificationScreenAlertsOnInsert(t *testing.T) {
	hub := events.NewHub(events.HubOptions{})
	defer hub.Close()
	notes := &stubNotificationRepo{
		items:  []domain.Notification{{ID: "n1", UserID: citizenID, Title: "Issue received"}},
		unread: 1,
	}
	live := newLiveService(hub, newStubIssueRepo(), notes)

	h := startScreen(t, hub, live.NotificationScreen(citizenID))
	first := h.next(t)
	gt.Value(t, first.Event).Equal(service.FrameState)
	gt.Value(t, first.State.(viewmodel.NotificationFeed).Unread).Equal(1)

	// another recipient's row must not reach this screen
	gt.NoError(t, hub.Publish(context.Background(), events.ChangeEvent{
		ID: "e0", Table: events.TableNotifications, Type: events.EventInsert,
		New: events.Row{"id": "nx", "user_id": staffID, "title": "x", "message": "x", "read": false},
	}))
	gt.NoError(t, hub.Publish(context.Background(), events.ChangeEvent{
		ID: "e1", Table: events.TableNotifications, Type: events.EventInsert,
		New: events.Row{"id": "n2", "user_id": citizenID, "title": "Status changed", "message": "now in progress", "read": false},
	}))

	alert := h.next(t)
	gt.Value(t, alert.Event).Equal(service.FrameAlert)
	gt.Value(t, alert.Alert.Title).Equal("Status changed")
	gt.Value(t, alert.Unread).Equal(2)

	state := h.next(t)
	gt.Value(t, state.Event).Equal(service.FrameState)
	feed := state.State.(viewmodel.NotificationFeed)
	gt.Array(t, feed.Items).Length(2)
	gt.Value(t, feed.Items[0].ID).Equal("n2")

	h.stop(t)
}

func TestLiveService_DashboardScreenFoldsStatusChanges(t *testing.T) {
	hub := events.NewHub(events.HubOptions{})
	defer hub.Close()
	issues := newStubIssueRepo()
	issues.counts = map[domain.IssueStatus]int{
		domain.IssueStatusPending:    4,
		domain.IssueStatusInProgress: 3,
		domain.IssueStatusResolved:   3,
	}
	live := newLiveService(hub, issues, &stubNotificationRepo{})

	h := startScreen(t, hub, live.DashboardScreen())
	first := h.next(t).State.(viewmodel.StatusCounts)
	gt.Value(t, first.Total()).Equal(10)

	gt.NoError(t, hub.Publish(context.Background(), events.ChangeEvent{
		ID: "e1", Table: events.TableIssues, Type: events.EventUpdate,
		Old: events.Row{"id": issueID, "status": "pending"},
		New: events.Row{"id": issueID, "status": "resolved"},
	}))

	counts := h.next(t).State.(viewmodel.StatusCounts)
	gt.Value(t, counts).Equal(viewmodel.StatusCounts{Pending: 3, InProgress: 3, Resolved: 4})
	gt.Value(t, counts.Total()).Equal(10)

	h.stop(t)
}

func TestLiveService_FeedClosedEndsScreen(t *testing.T) {
	hub := events.NewHub(events.HubOptions{})
	live := newLiveService(hub, newStubIssueRepo(), &stubNotificationRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	started := make(chan struct{}, 1)
	go func() {
		done <- live.IssueThreadScreen(issueID).Run(ctx, func(service.Frame) error {
			started <- struct{}{}
			return nil
		})
	}()

	<-started
	hub.Close()
	select {
	case err := <-done:
		gt.Error(t, err).Is(service.ErrFeedClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("screen did not observe feed shutdown")
	}
}

func TestLiveService_ResnapshotDiscardsQueuedEvents(t *testing.T) {
	hub := events.NewHub(events.HubOptions{SubscriberBuffer: 1})
	defer hub.Close()
	issues := newStubIssueRepo()
	issues.counts = map[domain.IssueStatus]int{}
	live := newLiveService(hub, issues, &stubNotificationRepo{})

	entered := make(chan service.Frame, 16)
	gate := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	first := true
	go func() {
		done <- live.DashboardScreen().Run(ctx, func(f service.Frame) error {
			entered <- f
			if first {
				first = false
				return nil
			}
			select {
			case <-gate:
			case <-ctx.Done():
			}
			return nil
		})
	}()

	frame := func() service.Frame {
		t.Helper()
		select {
		case f := <-entered:
			return f
		case <-time.After(2 * time.Second):
			t.Fatal("no frame emitted")
			return service.Frame{}
		}
	}
	insert := func(id string) events.ChangeEvent {
		return events.ChangeEvent{ID: "e-" + id, Table: events.TableIssues, Type: events.EventInsert,
			New: events.Row{"id": id, "status": "pending"}}
	}

	gt.Value(t, frame().State.(viewmodel.StatusCounts).Pending).Equal(0)

	gt.NoError(t, hub.Publish(ctx, insert("i1")))
	gt.Value(t, frame().State.(viewmodel.StatusCounts).Pending).Equal(1)

	// the screen is stuck emitting; these queue up and overflow
	for _, id := range []string{"i2", "i3", "i4"} {
		gt.NoError(t, hub.Publish(ctx, insert(id)))
	}
	issues.counts = map[domain.IssueStatus]int{domain.IssueStatusPending: 4}
	close(gate)

	gt.Value(t, frame().State.(viewmodel.StatusCounts)).Equal(viewmodel.StatusCounts{Pending: 4})
	select {
	case f := <-entered:
		t.Fatalf("stale event folded after resnapshot: %+v", f)
	case <-time.After(100 * time.Millisecond):
	}

	gt.NoError(t, hub.Publish(ctx, insert("i5")))
	gt.Value(t, frame().State.(viewmodel.StatusCounts).Pending).Equal(5)

	cancel()
	gt.NoError(t, <-done)
}

func TestLiveService_TruncatedEventReloadsThread(t *testing.T) {
	hub := events.NewHub(events.HubOptions{})
	defer hub.Close()
	dana := "Dana"
	full := strings.Repeat("long note ", 200)
	updates := &stubUpdateRepo{updates: map[string][]domain.IssueUpdate{}}
	live := service.NewLiveService(service.LiveDependencies{
		Feed:             hub,
		Analytics:        service.NewAnalyticsService(newStubIssueRepo(), newStubProfileRepo(), fixedClock),
		NotificationRepo: &stubNotificationRepo{},
		UpdateRepo:       updates,
		Config:           config.LiveConfig{NotificationLimit: 20},
	})

	h := startScreen(t, hub, live.IssueThreadScreen(issueID))
	gt.Array(t, h.next(t).State.(viewmodel.IssueThread).Updates).Length(0)

	// the committed row is visible to the reload before the event arrives
	updates.updates[issueID] = []domain.IssueUpdate{
		{ID: "u1", IssueID: issueID, Message: full, Author: &domain.ProfileRef{FullName: &dana}},
	}
	gt.NoError(t, hub.Publish(context.Background(), events.ChangeEvent{
		ID: "e1", Table: events.TableIssueUpdates, Type: events.EventInsert, Truncated: true,
		New: events.Row{"id": "u1", "issue_id": issueID, "message": full[:40]},
	}))

	thread := h.next(t).State.(viewmodel.IssueThread)
	gt.Array(t, thread.Updates).Length(1)
	gt.Value(t, thread.Updates[0].Message).Equal(full)
	gt.Value(t, thread.Updates[0].Author.Name()).Equal("Dana")

	h.stop(t)
}
