package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// NotificationHandler serves the unread list and read receipts.
type NotificationHandler struct {
	store    *Store
	notifier *Notifier
}

func NewNotificationHandler(store *Store, notifier *Notifier) *NotificationHandler {
	return &NotificationHandler{store: store, notifier: notifier}
}

// Unread returns the caller's unread notifications. Unlike the rest of the
// API this endpoint responds with a bare array, matching the production
// backend's quirk that clients already normalize around.
func (h *NotificationHandler) Unread(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.store.UnreadForUser(userID))
}

// UnreadForUser returns another user's unread notifications as a bare
// array. Self or manager only.
func (h *NotificationHandler) UnreadForUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	callerID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if userID != callerID && role != domain.RoleManager {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, h.store.UnreadForUser(userID))
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.store.MarkNotificationRead(id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Notification marked read", nil)
}

type sendNotificationRequest struct {
	Message     string `json:"message" validate:"required"`
	Type        string `json:"type" validate:"required"`
	RecipientID int64  `json:"recipientId" validate:"required"`
}

// Send queues a notification for another user.
func (h *NotificationHandler) Send(c echo.Context) error {
	var req sendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if _, err := h.store.GetUser(req.RecipientID); err != nil {
		return err
	}
	h.notifier.Notify(req.RecipientID, domain.NotificationType(req.Type), req.Message)
	return ok(c, http.StatusCreated, "Notification queued", nil)
}
