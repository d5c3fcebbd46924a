package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/config"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/repository"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/viewmodel"
)

// Frame kinds emitted by live screens.
const (
	FrameState     = "state"
	FrameAlert     = "alert"
	FrameHeartbeat = "heartbeat"
)

// ErrFeedClosed is returned when the change feed shuts down under a screen.
var ErrFeedClosed = errors.New("change feed closed")

// Frame is one message pushed to a live screen. State holds the reducer
// state for state frames; Alert is set for alert frames.
type Frame struct {
	Event  string
	State  any
	Alert  *domain.Notification
	Unread int
}

// Emit delivers a frame to the client. An error ends the screen.
type Emit func(Frame) error

// Screen is a live view bound to one client connection.
type Screen interface {
	Run(ctx context.Context, emit Emit) error
}

// LiveService builds live screens over the change feed.
type LiveService struct {
	feed          events.Feed
	analytics     *AnalyticsService
	notifications repository.NotificationRepository
	updates       repository.IssueUpdateRepository
	cfg           config.LiveConfig
	logger        *zap.Logger
}

// LiveDependencies bundles collaborators for the live service.
type LiveDependencies struct {
	Feed             events.Feed
	Analytics        *AnalyticsService
	NotificationRepo repository.NotificationRepository
	UpdateRepo       repository.IssueUpdateRepository
	Config           config.LiveConfig
	Logger           *zap.Logger
}

// NewLiveService constructs the service.
func NewLiveService(deps LiveDependencies) *LiveService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveService{
		feed:          deps.Feed,
		analytics:     deps.Analytics,
		notifications: deps.NotificationRepo,
		updates:       deps.UpdateRepo,
		cfg:           deps.Config,
		logger:        logger,
	}
}

// DashboardScreen streams live status counts.
func (s *LiveService) DashboardScreen() Screen {
	return &screen[viewmodel.StatusCounts]{
		feed:      s.feed,
		channel:   "dashboard-stats",
		table:     events.TableIssues,
		snapshot:  s.analytics.StatusCounts,
		resync:    s.cfg.ResyncInterval(),
		heartbeat: s.cfg.HeartbeatInterval(),
		logger:    s.logger,
	}
}

// NotificationScreen streams userID's notification center. Every new
// notification also produces an alert frame carrying the badge count.
func (s *LiveService) NotificationScreen(userID string) Screen {
	limit := s.cfg.NotificationLimit
	return &screen[viewmodel.NotificationFeed]{
		feed:    s.feed,
		channel: "notifications-" + userID,
		table:   events.TableNotifications,
		filter:  events.Eq("user_id", userID),
		snapshot: func(ctx context.Context) (viewmodel.NotificationFeed, error) {
			items, err := s.notifications.ListByUser(ctx, userID, limit)
			if err != nil {
				return viewmodel.NotificationFeed{}, err
			}
			unread, err := s.notifications.CountUnread(ctx, userID)
			if err != nil {
				return viewmodel.NotificationFeed{}, err
			}
			return viewmodel.NewNotificationFeed(items, unread, limit), nil
		},
		alerts:    notificationAlerts,
		resync:    s.cfg.ResyncInterval(),
		heartbeat: s.cfg.HeartbeatInterval(),
		logger:    s.logger,
	}
}

// IssueThreadScreen streams the update thread of one issue.
func (s *LiveService) IssueThreadScreen(issueID string) Screen {
	return &screen[viewmodel.IssueThread]{
		feed:    s.feed,
		channel: "issue-updates-" + issueID,
		table:   events.TableIssueUpdates,
		filter:  events.Eq("issue_id", issueID),
		snapshot: func(ctx context.Context) (viewmodel.IssueThread, error) {
			updates, err := s.updates.ListByIssue(ctx, issueID)
			if err != nil {
				return viewmodel.IssueThread{}, err
			}
			return viewmodel.NewIssueThread(issueID, updates), nil
		},
		resync:    s.cfg.ResyncInterval(),
		heartbeat: s.cfg.HeartbeatInterval(),
		logger:    s.logger,
	}
}

func notificationAlerts(prev, next viewmodel.NotificationFeed, ev events.ChangeEvent) []Frame {
	if ev.Type != events.EventInsert || len(next.Items) == 0 {
		return nil
	}
	if len(prev.Items) > 0 && prev.Items[0].ID == next.Items[0].ID {
		return nil
	}
	alert := next.Items[0]
	return []Frame{{Event: FrameAlert, Alert: &alert, Unread: next.Unread}}
}

// screen is the controller behind every live view: snapshot, subscribe, fold,
// emit. It owns a registry so teardown releases exactly what it opened.
type screen[S viewmodel.State[S]] struct {
	feed      events.Feed
	channel   string
	table     string
	filter    *events.Filter
	snapshot  func(ctx context.Context) (S, error)
	alerts    func(prev, next S, ev events.ChangeEvent) []Frame
	resync    time.Duration
	heartbeat time.Duration
	logger    *zap.Logger
}

func (sc *screen[S]) Run(ctx context.Context, emit Emit) error {
	state, err := sc.snapshot(ctx)
	if err != nil {
		return err
	}

	registry := events.NewRegistry()
	defer registry.ReleaseAll()

	sub, err := registry.Subscribe(sc.feed, sc.channel, sc.table, sc.filter)
	if err != nil {
		return err
	}
	if err := emit(Frame{Event: FrameState, State: state}); err != nil {
		return err
	}

	resyncC, stopResync := ticker(sc.resync)
	defer stopResync()
	heartbeatC, stopHeartbeat := ticker(sc.heartbeat)
	defer stopHeartbeat()

	var seenDrops int64
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-sub.Events():
			if !ok {
				return ErrFeedClosed
			}
			if dropped := sub.Dropped(); dropped > seenDrops {
				seenDrops = dropped
				// queued events predate the snapshot below
				stale := sub.Drain()
				sc.logger.Info("live screen fell behind; resnapshotting",
					zap.String("channel", sc.channel),
					zap.Int64("dropped", dropped),
					zap.Int("discarded", stale))
				state = sc.reload(ctx, state)
				if err := emit(Frame{Event: FrameState, State: state}); err != nil {
					return err
				}
				continue
			}

			next := state.Apply(ev)
			if ev.Truncated {
				next = sc.reload(ctx, next)
			}
			if sc.alerts != nil {
				for _, f := range sc.alerts(state, next, ev) {
					if err := emit(f); err != nil {
						return err
					}
				}
			}
			state = next
			if err := emit(Frame{Event: FrameState, State: state}); err != nil {
				return err
			}

		case <-resyncC:
			state = sc.reload(ctx, state)
			if err := emit(Frame{Event: FrameState, State: state}); err != nil {
				return err
			}

		case <-heartbeatC:
			if err := emit(Frame{Event: FrameHeartbeat}); err != nil {
				return err
			}
		}
	}
}

// reload replaces state with a fresh snapshot. A failed reload keeps the
// current state; the next resync tries again.
func (sc *screen[S]) reload(ctx context.Context, current S) S {
	fresh, err := sc.snapshot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			sc.logger.Warn("live screen resnapshot failed", zap.String("channel", sc.channel), zap.Error(err))
		}
		return current
	}
	return fresh
}

func ticker(every time.Duration) (<-chan time.Time, func()) {
	if every <= 0 {
		return nil, func() {}
	}
	t := time.NewTicker(every)
	return t.C, t.Stop
}
