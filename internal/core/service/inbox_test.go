package service

import (
	"context"
	"errors"
	"testing"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

type stubNotificationAPI struct {
	markErr   error
	markCalls []int64
}

func (a *stubNotificationAPI) MarkNotificationRead(_ context.Context, id int64) error {
	a.markCalls = append(a.markCalls, id)
	return a.markErr
}

func TestInbox_StrictPrependOrdering(t *testing.T) {
	b := NewInbox(&stubNotificationAPI{})
	b.ReplaceAll([]domain.Notification{{ID: 100}})

	b.Prepend(domain.Notification{ID: 1})
	b.Prepend(domain.Notification{ID: 2})
	b.Prepend(domain.Notification{ID: 3})

	got := b.Snapshot()
	want := []int64{3, 2, 1, 100}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestInbox_MarkReadRemovesLocally(t *testing.T) {
	api := &stubNotificationAPI{}
	b := NewInbox(api)
	b.ReplaceAll([]domain.Notification{{ID: 1}, {ID: 2}, {ID: 3}})

	if err := b.MarkRead(context.Background(), 2); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	for _, n := range b.Snapshot() {
		if n.ID == 2 {
			t.Fatalf("notification 2 should be gone from the local list")
		}
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", b.Len())
	}
	if len(api.markCalls) != 1 || api.markCalls[0] != 2 {
		t.Fatalf("expected one read receipt for id 2, got %v", api.markCalls)
	}
}

func TestInbox_MarkReadFailureKeepsEntry(t *testing.T) {
	api := &stubNotificationAPI{markErr: errors.New("boom")}
	b := NewInbox(api)
	b.ReplaceAll([]domain.Notification{{ID: 1}})

	if err := b.MarkRead(context.Background(), 1); err == nil {
		t.Fatalf("expected error")
	}
	if b.Len() != 1 {
		t.Fatalf("entry must remain when the read receipt fails")
	}
}

func TestInbox_SnapshotIsACopy(t *testing.T) {
	b := NewInbox(&stubNotificationAPI{})
	b.ReplaceAll([]domain.Notification{{ID: 1}})

	snap := b.Snapshot()
	snap[0].ID = 99

	if b.Snapshot()[0].ID != 1 {
		t.Fatalf("snapshot must not alias internal state")
	}
}
