package client

import (
	"context"
	"fmt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// ListUnreadNotifications returns the unread notifications for a user.
// Pass 0 to use the authenticated caller. This endpoint returns a bare
// array rather than the usual envelope; Normalize absorbs the difference.
func (c *Client) ListUnreadNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	path := "/notifications/unread"
	if userID != 0 {
		path = fmt.Sprintf("/notifications/user/%d/unread", userID)
	}
	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := unmarshalPayload(raw, emptyList, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := c.put(ctx, fmt.Sprintf("/notifications/%d/read", id), nil)
	return err
}

// SendNotification creates a notification for another user.
func (c *Client) SendNotification(ctx context.Context, n domain.Notification) error {
	_, err := c.post(ctx, "/notifications", n)
	return err
}
