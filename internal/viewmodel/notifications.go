package viewmodel

import (
	"slices"

	"github.com/dtvk027/v0-civic-issue-reporter/internal/domain"
	"github.com/dtvk027/v0-civic-issue-reporter/internal/events"
)

// DefaultNotificationLimit is how many notifications the center keeps.
const DefaultNotificationLimit = 20

// deletedMemory bounds how many deleted ids a feed remembers for replays.
const deletedMemory = 64

// NotificationFeed is the notification center state: newest first, capped,
// with an unread badge count that may cover entries beyond the cap.
type NotificationFeed struct {
	Items  []domain.Notification
	Unread int
	Limit  int

	deleted []string
}

// NewNotificationFeed builds the state from a snapshot.
func NewNotificationFeed(items []domain.Notification, unread, limit int) NotificationFeed {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return NotificationFeed{
		Items:  append([]domain.Notification(nil), items...),
		Unread: max(unread, 0),
		Limit:  limit,
	}
}

// Apply folds one notifications-table change event into the feed.
func (f NotificationFeed) Apply(ev events.ChangeEvent) NotificationFeed {
	switch ev.Type {
	case events.EventInsert:
		return f.insert(NotificationFromRow(ev.New))
	case events.EventUpdate:
		return f.update(ev)
	case events.EventDelete:
		return f.remove(ev.Old)
	}
	return f
}

func (f NotificationFeed) insert(n domain.Notification) NotificationFeed {
	if n.ID == "" || f.index(n.ID) >= 0 {
		return f
	}
	items := make([]domain.Notification, 0, len(f.Items)+1)
	items = append(items, n)
	items = append(items, f.Items...)
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	f.Items = items
	if !n.Read {
		f.Unread++
	}
	return f
}

func (f NotificationFeed) update(ev events.ChangeEvent) NotificationFeed {
	next := NotificationFromRow(ev.New)
	if next.ID == "" {
		return f
	}

	wasRead, known := false, false
	if i := f.index(next.ID); i >= 0 {
		wasRead, known = f.Items[i].Read, true
		items := append([]domain.Notification(nil), f.Items...)
		items[i] = next
		f.Items = items
	} else if old, ok := ev.Old.Bool("read"); ok {
		wasRead, known = old, true
	}
	if !known {
		return f
	}

	switch {
	case !wasRead && next.Read:
		f.Unread = max(f.Unread-1, 0)
	case wasRead && !next.Read:
		f.Unread++
	}
	return f
}

// remove drops the deleted entry. Entries beyond the listed window still
// count toward unread, so the old image decides for them.
func (f NotificationFeed) remove(old events.Row) NotificationFeed {
	id := old.String("id")
	if id == "" || slices.Contains(f.deleted, id) {
		return f
	}
	f.deleted = remember(f.deleted, id)

	wasRead, known := false, false
	if i := f.index(id); i >= 0 {
		wasRead, known = f.Items[i].Read, true
		items := make([]domain.Notification, 0, len(f.Items)-1)
		items = append(items, f.Items[:i]...)
		items = append(items, f.Items[i+1:]...)
		f.Items = items
	} else if read, ok := old.Bool("read"); ok {
		wasRead, known = read, true
	}
	if known && !wasRead {
		f.Unread = max(f.Unread-1, 0)
	}
	return f
}

func remember(ids []string, id string) []string {
	if len(ids) >= deletedMemory {
		ids = ids[len(ids)-deletedMemory+1:]
	}
	next := make([]string, 0, len(ids)+1)
	next = append(next, ids...)
	return append(next, id)
}

func (f NotificationFeed) index(id string) int {
	for i, n := range f.Items {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// NotificationFromRow converts a raw notifications row image.
func NotificationFromRow(row events.Row) domain.Notification {
	read, _ := row.Bool("read")
	n := domain.Notification{
		ID:        row.String("id"),
		UserID:    row.String("user_id"),
		Title:     row.String("title"),
		Message:   row.String("message"),
		Read:      read,
		CreatedAt: row.Time("created_at"),
	}
	if issueID := row.String("issue_id"); issueID != "" {
		n.IssueID = &issueID
	}
	return n
}
