package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
)

// Relay forwards hub events to another transport.
type Relay interface {
	Run(ctx context.Context, feed events.Feed) error
}

// FeedWorker drives the change feed: a source publishing into the hub and an
// optional relay reading back out of it.
type FeedWorker struct {
	hub    *events.Hub
	source events.Source
	relay  Relay
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewFeedWorker wires the worker. source and relay may be nil.
func NewFeedWorker(hub *events.Hub, source events.Source, relay Relay, logger *zap.Logger) *FeedWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedWorker{hub: hub, source: source, relay: relay, logger: logger}
}

// Start launches the goroutines. They stop when ctx is cancelled.
func (w *FeedWorker) Start(ctx context.Context) {
	if w.source != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.report("change feed source", w.source.Run(ctx, w.hub))
		}()
	}
	if w.relay != nil {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.report("change feed relay", w.relay.Run(ctx, w.hub))
		}()
	}
}

// Wait blocks until every goroutine started by Start has returned.
func (w *FeedWorker) Wait() {
	w.wg.Wait()
}

func (w *FeedWorker) report(what string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		w.logger.Info(what+" stopped")
		return
	}
	w.logger.Error(what+" failed", zap.Error(err))
}
