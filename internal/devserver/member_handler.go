package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// MemberHandler serves read-only membership lookups.
type MemberHandler struct {
	store *Store
}

func NewMemberHandler(store *Store) *MemberHandler {
	return &MemberHandler{store: store}
}

// ListByProject returns the members of one project. Members only.
func (h *MemberHandler) ListByProject(c echo.Context) error {
	projectID, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if _, err := h.store.GetProject(projectID); err != nil {
		return err
	}
	if !h.store.IsMember(projectID, userID) {
		return domain.ErrForbidden
	}
	return ok(c, http.StatusOK, "Members", h.store.ListMembersByProject(projectID))
}

// ListByUser returns one user's memberships across projects.
func (h *MemberHandler) ListByUser(c echo.Context) error {
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
	return ok(c, http.StatusOK, "Memberships", h.store.ListMembershipsByUser(userID))
}
