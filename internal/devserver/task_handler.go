package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// TaskHandler serves task CRUD, status changes and reassignment.
type TaskHandler struct {
	store    *Store
	notifier *Notifier
}

func NewTaskHandler(store *Store, notifier *Notifier) *TaskHandler {
	return &TaskHandler{store: store, notifier: notifier}
}

type taskRequest struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description"`
	Priority       string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ProjectID      int64  `json:"projectId"`
	AssignedUserID int64  `json:"assignedUserId"`
	DueDate        string `json:"dueDate"`
}

// List returns every task in projects visible to the caller.
func (h *TaskHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Tasks", h.store.ListTasksForUser(userID))
}

// ListByProject returns the tasks of one project. Members only.
func (h *TaskHandler) ListByProject(c echo.Context) error {
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
	return ok(c, http.StatusOK, "Tasks", h.store.ListTasksByProject(projectID))
}

// Get returns one task. Members of its project only.
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(id)
	if err != nil {
		return err
	}
	if !h.store.IsMember(task.ProjectID, userID) {
		return domain.ErrForbidden
	}
	return ok(c, http.StatusOK, "Task", task)
}

// Create adds a task to a project. Manager of the project only. Assigning
// a user at creation time notifies them.
func (h *TaskHandler) Create(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ProjectID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId is required")
	}
	if err := h.requireManagerOf(c, req.ProjectID); err != nil {
		return err
	}

	task, err := h.store.CreateTask(req.Title, req.Description,
		domain.TaskPriority(req.Priority), req.ProjectID, req.AssignedUserID, req.DueDate)
	if err != nil {
		return err
	}
	if task.AssignedUserID != 0 {
		h.notifier.Notify(task.AssignedUserID, domain.NotifyTaskAssigned,
			fmt.Sprintf("You have been assigned to task %q", task.Title))
	}
	return ok(c, http.StatusCreated, "Task created", task)
}

// Update replaces a task's writable fields. Manager of the project only.
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(id)
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, task.ProjectID); err != nil {
		return err
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.store.UpdateTask(id, req.Title, req.Description,
		domain.TaskPriority(req.Priority), req.DueDate)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Task updated", updated)
}

// UpdateStatus moves a task to the status named in the query parameter.
// Only the assigned user may do this; the store enforces it. The project
// manager is notified of the change.
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	status := domain.TaskStatus(c.QueryParam("status"))
	if !domain.ValidTaskStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	task, err := h.store.SetTaskStatus(id, userID, status)
	if err != nil {
		return err
	}

	if project, err := h.store.GetProject(task.ProjectID); err == nil && project.ManagerID != userID {
		h.notifier.Notify(project.ManagerID, domain.NotifyTaskStatusChanged,
			fmt.Sprintf("Task %q is now %s", task.Title, status))
	}
	return ok(c, http.StatusOK, "Task status updated", task)
}

// Reassign hands a task to another project member and resets its status
// to PENDING. Manager of the project only.
func (h *TaskHandler) Reassign(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(id)
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, task.ProjectID); err != nil {
		return err
	}
	newAssigneeID, err := queryID(c, "newAssigneeId")
	if err != nil {
		return err
	}

	updated, err := h.store.ReassignTask(id, newAssigneeID)
	if err != nil {
		return err
	}
	h.notifier.Notify(newAssigneeID, domain.NotifyTaskAssigned,
		fmt.Sprintf("You have been assigned to task %q", updated.Title))
	return ok(c, http.StatusOK, "Task reassigned", updated)
}

// Delete removes a task and its comments. Manager of the project only.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(id)
	if err != nil {
		return err
	}
	if err := h.requireManagerOf(c, task.ProjectID); err != nil {
		return err
	}
	if err := h.store.DeleteTask(id); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Task deleted", nil)
}

func (h *TaskHandler) requireManagerOf(c echo.Context, projectID int64) error {
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
