// Package viewmodel holds the pure reducers that fold change-feed events into
// screen state.
package viewmodel

import "github.com/dtvk027/v0-civic-issue-reporter/internal/events"

// State is a view model that folds change events into a new value of itself.
type State[S any] interface {
	Apply(ev events.ChangeEvent) S
}

// Fold applies evs to state in order.
func Fold[S State[S]](state S, evs ...events.ChangeEvent) S {
	for _, ev := range evs {
		state = state.Apply(ev)
	}
	return state
}
