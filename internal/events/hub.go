package events

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/observability"
)

var ErrHubClosed = errors.New("change feed hub closed")

// Feed opens subscriptions on the change feed.
type Feed interface {
	Subscribe(name, table string, filter *Filter) (*Subscription, error)
}

// Publisher accepts change events from a source.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// Deduper remembers event ids. Seen marks id and reports whether it had
// already been marked.
type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
}

// HubOptions configures a Hub. Zero values are usable.
type HubOptions struct {
	SubscriberBuffer int
	Deduper          Deduper
	Metrics          *observability.Metrics
	Logger           *zap.Logger
}

// Hub fans change events out to in-process subscriptions.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	closed  bool
	buffer  int
	dedup   Deduper
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewHub creates a hub.
func NewHub(opts HubOptions) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	buffer := opts.SubscriberBuffer
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:    make(map[*Subscription]struct{}),
		buffer:  buffer,
		dedup:   opts.Deduper,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Subscribe opens a subscription for table, optionally restricted by filter.
func (h *Hub) Subscribe(name, table string, filter *Filter) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}
	sub := newSubscription(name, table, filter, h.buffer, h.remove)
	h.subs[sub] = struct{}{}
	h.metrics.SubscriptionOpened()
	h.logger.Debug("feed subscribe",
		zap.String("channel", name),
		zap.String("table", table),
		zap.String("filter", filter.String()))
	return sub, nil
}

// Publish delivers event to every matching subscription without blocking on
// slow consumers.
func (h *Hub) Publish(ctx context.Context, event ChangeEvent) error {
	if h.dedup != nil && event.ID != "" {
		seen, err := h.dedup.Seen(ctx, event.ID)
		if err != nil {
			h.logger.Warn("feed dedup check failed", zap.String("event_id", event.ID), zap.Error(err))
		} else if seen {
			h.metrics.FeedDuplicate()
			return nil
		}
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHubClosed
	}
	targets := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		if sub.matches(event) {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	h.metrics.FeedPublished(event.Table, string(event.Type))
	for _, sub := range targets {
		if !sub.offer(event) {
			h.metrics.FeedDropped(event.Table)
			h.logger.Warn("feed subscriber lagging; event dropped",
				zap.String("channel", sub.Name()),
				zap.String("event_id", event.ID))
		}
	}
	return nil
}

// Len returns the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscription and rejects further use.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		h.metrics.SubscriptionClosed()
	}
}
