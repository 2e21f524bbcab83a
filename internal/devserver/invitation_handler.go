package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// InvitationHandler serves the project invitation flow.
type InvitationHandler struct {
	store    *Store
	notifier *Notifier
}

func NewInvitationHandler(store *Store, notifier *Notifier) *InvitationHandler {
	return &InvitationHandler{store: store, notifier: notifier}
}

// Create invites a user to a project. Manager of the project only.
func (h *InvitationHandler) Create(c echo.Context) error {
	projectID, err := queryID(c, "projectId")
	if err != nil {
		return err
	}
	invitedUserID, err := queryID(c, "invitedUserId")
	if err != nil {
		return err
	}

	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	project, err := h.store.GetProject(projectID)
	if err != nil {
		return err
	}
	if project.ManagerID != userID {
		return domain.ErrForbidden
	}

	invitation, err := h.store.CreateInvitation(projectID, invitedUserID)
	if err != nil {
		return err
	}
	h.notifier.Notify(invitedUserID, domain.NotifyProjectInvitation,
		fmt.Sprintf("You have been invited to project %q", project.Name))
	return ok(c, http.StatusCreated, "Invitation sent", invitation)
}

// ListPending returns the caller's open invitations.
func (h *InvitationHandler) ListPending(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Invitations", h.store.PendingInvitationsForUser(userID))
}

// ListPendingForUser returns another user's open invitations. Self or
// manager only.
func (h *InvitationHandler) ListPendingForUser(c echo.Context) error {
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
	return ok(c, http.StatusOK, "Invitations", h.store.PendingInvitationsForUser(userID))
}

// Respond accepts or rejects an invitation. Invited user only; accepting
// joins the project and notifies its manager.
func (h *InvitationHandler) Respond(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	status := domain.InvitationStatus(c.QueryParam("status"))
	if status != domain.InvitationAccepted && status != domain.InvitationRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	invitation, err := h.store.RespondInvitation(id, userID, status)
	if err != nil {
		return err
	}

	if status == domain.InvitationAccepted {
		if project, err := h.store.GetProject(invitation.ProjectID); err == nil {
			if user, err := h.store.GetUser(userID); err == nil {
				h.notifier.Notify(project.ManagerID, domain.NotifyInvitationAccepted,
					fmt.Sprintf("%s joined project %q", user.Username, project.Name))
			}
		}
	}
	return ok(c, http.StatusOK, "Invitation "+string(status), invitation)
}
