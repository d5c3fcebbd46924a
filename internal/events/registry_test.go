package events_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
)

type countingHandle struct{ closed int }

func (h *countingHandle) Close() { h.closed++ }

func TestRegistry_RegisterReplacesAndClosesPrevious(t *testing.T) {
	reg := events.NewRegistry()
	first := &countingHandle{}
	second := &countingHandle{}

	gt.Bool(t, reg.Register("dashboard", first)).False()
	gt.Bool(t, reg.Register("dashboard", second)).True()

	gt.Value(t, first.closed).Equal(1)
	gt.Value(t, second.closed).Equal(0)
	gt.Value(t, reg.Len()).Equal(1)

	got, ok := reg.Get("dashboard")
	gt.Bool(t, ok).True()
	gt.Value(t, got).Equal(events.Handle(second))
}

func TestRegistry_ReleaseIsIdempotent(t *testing.T) {
	reg := events.NewRegistry()
	h := &countingHandle{}
	reg.Register("thread:i1", h)

	gt.Bool(t, reg.Release("thread:i1")).True()
	gt.Bool(t, reg.Release("thread:i1")).False()
	gt.Bool(t, reg.Release("never-registered")).False()
	gt.Value(t, h.closed).Equal(1)
	gt.Value(t, reg.Len()).Equal(0)
}

func TestRegistry_ReleaseAll(t *testing.T) {
	reg := events.NewRegistry()
	a, b := &countingHandle{}, &countingHandle{}
	reg.Register("a", a)
	reg.Register("b", b)

	reg.ReleaseAll()
	gt.Value(t, a.closed).Equal(1)
	gt.Value(t, b.closed).Equal(1)
	gt.Value(t, reg.Len()).Equal(0)
}

func TestRegistry_SubscribeThroughHub(t *testing.T) {
	hub := events.NewHub(events.HubOptions{})
	defer hub.Close()
	reg := events.NewRegistry()

	first, err := reg.Subscribe(hub, "issues", events.TableIssues, nil)
	gt.NoError(t, err).Required()
	_, err = reg.Subscribe(hub, "issues", events.TableIssues, nil)
	gt.NoError(t, err).Required()

	// the replaced subscription is closed and detached from the hub
	_, ok := <-first.Events()
	gt.Bool(t, ok).False()
	gt.Value(t, hub.Len()).Equal(1)

	reg.ReleaseAll()
	gt.Value(t, hub.Len()).Equal(0)
}
