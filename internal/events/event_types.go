package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventType enumerates row-level change kinds.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
	EventDelete EventType = "delete"
)

// Tables carried by the change feed.
const (
	TableIssues        = "issues"
	TableIssueUpdates  = "issue_updates"
	TableNotifications = "notifications"

	// AnyTable subscribes to every table.
	AnyTable = "*"
)

// Row is a raw row image as emitted by the database.
type Row map[string]any

// String returns the column as a string, or "" when absent or null.
func (r Row) String(column string) string {
	if r == nil {
		return ""
	}
	switch v := r[column].(type) {
	case string:
		return v
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the column as a bool and whether it was present.
func (r Row) Bool(column string) (bool, bool) {
	if r == nil {
		return false, false
	}
	v, ok := r[column].(bool)
	return v, ok
}

// Time parses a timestamp column; zero when absent or malformed.
func (r Row) Time(column string) time.Time {
	raw := r.String(column)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ChangeEvent is one row-level change delivered by the feed.
type ChangeEvent struct {
	ID          string    `json:"id"`
	Table       string    `json:"table"`
	Type        EventType `json:"type"`
	New         Row       `json:"new,omitempty"`
	Old         Row       `json:"old,omitempty"`
	CommittedAt time.Time `json:"committed_at"`

	// Truncated marks a payload whose long text values were cut to fit the
	// transport. Row ids and short columns are intact.
	Truncated bool `json:"truncated,omitempty"`
}

// Image returns the row image a filter applies to: the old image for deletes,
// the new image otherwise.
func (e ChangeEvent) Image() Row {
	if e.Type == EventDelete {
		return e.Old
	}
	return e.New
}

var ErrMalformedEvent = errors.New("malformed change event")

// DecodeChangeEvent parses the JSON payload published by the row triggers.
func DecodeChangeEvent(payload []byte) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return ChangeEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	ev.Type = EventType(strings.ToLower(string(ev.Type)))
	switch ev.Type {
	case EventInsert, EventUpdate:
		if ev.New == nil {
			return ChangeEvent{}, fmt.Errorf("%w: %s without new row", ErrMalformedEvent, ev.Type)
		}
	case EventDelete:
		if ev.Old == nil {
			return ChangeEvent{}, fmt.Errorf("%w: delete without old row", ErrMalformedEvent)
		}
	default:
		return ChangeEvent{}, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, ev.Type)
	}
	if ev.Table == "" {
		return ChangeEvent{}, fmt.Errorf("%w: missing table", ErrMalformedEvent)
	}
	return ev, nil
}

// Filter restricts a subscription to rows whose column equals value.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) *Filter {
	return &Filter{Column: column, Value: value}
}

// Matches reports whether the event's row image satisfies the filter.
func (f *Filter) Matches(ev ChangeEvent) bool {
	if f == nil {
		return true
	}
	return ev.Image().String(f.Column) == f.Value
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.Column + "=eq." + f.Value
}
