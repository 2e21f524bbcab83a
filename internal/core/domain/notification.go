package domain

import "time"

// NotificationType tags the event that produced a notification.
type NotificationType string

const (
	NotifyTaskAssigned         NotificationType = "TASK_ASSIGNED"
	NotifyTaskStatusChanged    NotificationType = "TASK_STATUS_CHANGED"
	NotifyNewComment           NotificationType = "NEW_COMMENT"
	NotifyProjectInvitation    NotificationType = "PROJECT_INVITATION"
	NotifyInvitationAccepted   NotificationType = "INVITATION_ACCEPTED"
	NotifyProjectStatusChanged NotificationType = "PROJECT_STATUS_CHANGED"
)

// Notification is a message pushed over the realtime channel or fetched
// from the unread list. The local list is most-recent-first; marking one
// read removes it from the list rather than flagging it.
type Notification struct {
	ID          int64            `json:"id"`
	Message     string           `json:"message"`
	Type        NotificationType `json:"type"`
	RecipientID int64            `json:"recipientId"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
}
