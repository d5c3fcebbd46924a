package events

import (
	"sync"
	"sync/atomic"
)

// Subscription is a live feed of change events for one (table, filter) pair.
// Close is the cancellation token: once it returns, Events is closed and no
// further event is delivered.
type Subscription struct {
	name   string
	table  string
	filter *Filter

	inbox   chan ChangeEvent
	out     chan ChangeEvent
	drain   chan chan int
	done    chan struct{}
	stopped chan struct{}

	closeOnce sync.Once
	dropped   atomic.Int64
	onClose   func(*Subscription)
}

func newSubscription(name, table string, filter *Filter, buffer int, onClose func(*Subscription)) *Subscription {
	if buffer <= 0 {
		buffer = 1
	}
	s := &Subscription{
		name:    name,
		table:   table,
		filter:  filter,
		inbox:   make(chan ChangeEvent, buffer),
		out:     make(chan ChangeEvent),
		drain:   make(chan chan int),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		onClose: onClose,
	}
	go s.pump()
	return s
}

// Name returns the channel name the subscription was opened with.
func (s *Subscription) Name() string { return s.name }

// Table returns the subscribed table.
func (s *Subscription) Table() string { return s.table }

// Events delivers matching events in publish order. It is closed by Close.
func (s *Subscription) Events() <-chan ChangeEvent { return s.out }

// Dropped returns how many events were lost because the inbox was full.
// A growing value means local state may be stale and should be resnapshotted.
func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

// Drain discards every event queued but not yet received and returns how many
// were discarded. Events published afterwards are delivered normally.
func (s *Subscription) Drain() int {
	reply := make(chan int, 1)
	select {
	case s.drain <- reply:
		return <-reply
	case <-s.stopped:
		return 0
	}
}

// Close stops delivery and waits for the delivery goroutine to exit. Safe to
// call more than once and from any goroutine.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.stopped
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

func (s *Subscription) matches(ev ChangeEvent) bool {
	if s.table != AnyTable && s.table != ev.Table {
		return false
	}
	return s.filter.Matches(ev)
}

// offer queues ev without blocking. It returns false when the event was dropped.
func (s *Subscription) offer(ev ChangeEvent) bool {
	select {
	case <-s.done:
		return true
	default:
	}
	select {
	case s.inbox <- ev:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

func (s *Subscription) pump() {
	defer close(s.stopped)
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case reply := <-s.drain:
			reply <- s.discard(0)
		case ev := <-s.inbox:
			select {
			case s.out <- ev:
			case reply := <-s.drain:
				reply <- s.discard(1)
			case <-s.done:
				return
			}
		}
	}
}

// discard empties the inbox. held counts an event already taken from it.
func (s *Subscription) discard(held int) int {
	for {
		select {
		case <-s.inbox:
			held++
		default:
			return held
		}
	}
}
