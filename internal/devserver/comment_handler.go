package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// CommentHandler serves comments on projects and tasks.
type CommentHandler struct {
	store    *Store
	notifier *Notifier
}

func NewCommentHandler(store *Store, notifier *Notifier) *CommentHandler {
	return &CommentHandler{store: store, notifier: notifier}
}

type commentRequest struct {
	Message string `json:"message" validate:"required"`
}

// ListForProject returns a project's own comments. Members only.
func (h *CommentHandler) ListForProject(c echo.Context) error {
	projectID, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	if err := h.requireMember(c, projectID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Comments", h.store.ListProjectComments(projectID))
}

// AddToProject attaches a comment to a project and notifies its manager.
func (h *CommentHandler) AddToProject(c echo.Context) error {
	projectID, err := pathID(c, "projectId")
	if err != nil {
		return err
	}
	if err := h.requireMember(c, projectID); err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.store.AddComment(req.Message, userID, projectID, 0)
	if err != nil {
		return err
	}
	if project, err := h.store.GetProject(projectID); err == nil && project.ManagerID != userID {
		h.notifier.Notify(project.ManagerID, domain.NotifyNewComment,
			fmt.Sprintf("New comment on project %q", project.Name))
	}
	return ok(c, http.StatusCreated, "Comment added", comment)
}

// ListForTask returns a task's comments. Members of its project only.
func (h *CommentHandler) ListForTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if err := h.requireMember(c, task.ProjectID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Comments", h.store.ListTaskComments(taskID))
}

// AddToTask attaches a comment to a task. The assignee is notified, or the
// project manager when the assignee wrote the comment.
func (h *CommentHandler) AddToTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	task, err := h.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if err := h.requireMember(c, task.ProjectID); err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.store.AddComment(req.Message, userID, 0, taskID)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("New comment on task %q", task.Title)
	if task.AssignedUserID != 0 && task.AssignedUserID != userID {
		h.notifier.Notify(task.AssignedUserID, domain.NotifyNewComment, msg)
	} else if project, err := h.store.GetProject(task.ProjectID); err == nil && project.ManagerID != userID {
		h.notifier.Notify(project.ManagerID, domain.NotifyNewComment, msg)
	}
	return ok(c, http.StatusCreated, "Comment added", comment)
}

// Update rewrites a comment. Author only; the store enforces it.
func (h *CommentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.store.UpdateComment(id, userID, req.Message)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Comment updated", comment)
}

// Delete removes a comment. Author or manager.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteComment(id, userID, role); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Comment deleted", nil)
}

func (h *CommentHandler) requireMember(c echo.Context, projectID int64) error {
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
	return nil
}
