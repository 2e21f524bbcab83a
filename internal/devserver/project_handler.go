package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// ProjectHandler serves project CRUD plus direct membership management.
type ProjectHandler struct {
	store    *Store
	notifier *Notifier
}

func NewProjectHandler(store *Store, notifier *Notifier) *ProjectHandler {
	return &ProjectHandler{store: store, notifier: notifier}
}

type projectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// List returns the projects the caller manages or belongs to.
func (h *ProjectHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Projects", h.store.ListProjectsForUser(userID))
}

// Get returns one project. Members only.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	project, err := h.store.GetProject(id)
	if err != nil {
		return err
	}
	if !h.store.IsMember(id, userID) {
		return domain.ErrForbidden
	}
	return ok(c, http.StatusOK, "Project", project)
}

// Create opens a new project managed by the caller.
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	project, err := h.store.CreateProject(req.Name, req.Description, userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Project created", project)
}

// Update replaces a project's writable fields. Manager of the project only.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, id); err != nil {
		return err
	}
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	project, err := h.store.UpdateProject(id, req.Name, req.Description)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Project updated", project)
}

// UpdateStatus moves a project to the status named in the query parameter
// and notifies the other members.
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, id); err != nil {
		return err
	}

	status := domain.ProjectStatus(c.QueryParam("status"))
	if !domain.ValidProjectStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	project, err := h.store.SetProjectStatus(id, status)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Project %q is now %s", project.Name, status)
	for _, m := range h.store.ListMembersByProject(id) {
		if m.UserID != userID {
			h.notifier.Notify(m.UserID, domain.NotifyProjectStatusChanged, msg)
		}
	}
	return ok(c, http.StatusOK, "Project status updated", project)
}

// AddMember attaches a user directly, bypassing the invitation flow.
func (h *ProjectHandler) AddMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, id); err != nil {
		return err
	}
	userID, err := queryID(c, "userId")
	if err != nil {
		return err
	}
	member, err := h.store.AddMember(id, userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "Member added", member)
}

// RemoveMember detaches a user from a project.
func (h *ProjectHandler) RemoveMember(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, id); err != nil {
		return err
	}
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if err := h.store.RemoveMember(id, userID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Member removed", nil)
}

// requireManagerOf rejects callers who do not manage the given project.
func (h *ProjectHandler) requireManagerOf(c echo.Context, projectID int64) error {
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
	return nil
}
