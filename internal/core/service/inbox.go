package service

import (
	"context"
	"sync"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// NotificationAPI is the slice of the backend the inbox needs.
type NotificationAPI interface {
	MarkNotificationRead(ctx context.Context, id int64) error
}

// Inbox holds the local unread notification list for the lifetime of a
// viewing session, strictly most-recent-first. Realtime events are
// prepended in arrival order; the list is never re-sorted by timestamp.
type Inbox struct {
	api NotificationAPI

	mu    sync.Mutex
	items []domain.Notification
}

// NewInbox builds an empty inbox backed by api for read receipts.
func NewInbox(api NotificationAPI) *Inbox {
	return &Inbox{api: api}
}

// Prepend puts n at the head of the list. Arrival order is delivery
// order.
func (b *Inbox) Prepend(n domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append([]domain.Notification{n}, b.items...)
}

// ReplaceAll swaps the list wholesale, used when (re)loading the unread
// list from the backend.
func (b *Inbox) ReplaceAll(items []domain.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append([]domain.Notification(nil), items...)
}

// MarkRead flags the notification read server-side and removes it from
// the local list; read entries do not linger with a flag.
func (b *Inbox) MarkRead(ctx context.Context, id int64) error {
	if err := b.api.MarkNotificationRead(ctx, id); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.items[:0]
	for _, n := range b.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	b.items = kept
	return nil
}

// Snapshot returns a copy of the current list, newest first.
func (b *Inbox) Snapshot() []domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Notification(nil), b.items...)
}

// Len returns the number of unread notifications held locally.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
