package ports

import (
	"context"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// AuthAPI is the slice of the backend the session service depends on.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Me(ctx context.Context) (*domain.Session, error)
}

// NotificationSink receives notifications decoded from the realtime
// channel. Prepend must keep arrival order: the newest event goes to the
// head of the list, no re-sorting by timestamp.
type NotificationSink interface {
	Prepend(n domain.Notification)
}
