package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// TaskInput carries the writable fields of a task.
type TaskInput struct {
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Priority       domain.TaskPriority `json:"priority,omitempty"`
	ProjectID      int64               `json:"projectId"`
	AssignedUserID int64               `json:"assignedUserId,omitempty"`
	DueDate        string              `json:"dueDate,omitempty"`
}

// ListTasks returns every task visible to the caller.
func (c *Client) ListTasks(ctx context.Context) ([]domain.Task, error) {
	raw, err := c.get(ctx, "/tasks")
	if err != nil {
		return nil, err
	}
	var tasks []domain.Task
	if err := unmarshalPayload(raw, emptyList, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListProjectTasks returns the tasks of one project.
func (c *Client) ListProjectTasks(ctx context.Context, projectID int64) ([]domain.Task, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/tasks/project/%d", projectID))
	if err != nil {
		return nil, err
	}
	var tasks []domain.Task
	if err := unmarshalPayload(raw, emptyList, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask fetches one task by id.
func (c *Client) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/tasks/%d", id))
	if err != nil {
		return nil, err
	}
	var task domain.Task
	if err := unmarshalPayload(raw, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CreateTask creates a task inside a project.
func (c *Client) CreateTask(ctx context.Context, in TaskInput) (*domain.Task, error) {
	raw, err := c.post(ctx, "/tasks", in)
	if err != nil {
		return nil, err
	}
	var task domain.Task
	if err := unmarshalPayload(raw, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces a task's writable fields.
func (c *Client) UpdateTask(ctx context.Context, id int64, in TaskInput) (*domain.Task, error) {
	raw, err := c.put(ctx, fmt.Sprintf("/tasks/%d", id), in)
	if err != nil {
		return nil, err
	}
	var task domain.Task
	if err := unmarshalPayload(raw, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus moves a task to the given status. Only the assigned
// user may do this; the backend enforces it.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) error {
	path := fmt.Sprintf("/tasks/%d/status?status=%s", id, url.QueryEscape(string(status)))
	_, err := c.put(ctx, path, nil)
	return err
}

// ReassignTask hands a task to a different project member. The backend
// resets the task status to PENDING.
func (c *Client) ReassignTask(ctx context.Context, id, newAssigneeID int64) error {
	path := fmt.Sprintf("/tasks/%d/reassign?newAssigneeId=%d", id, newAssigneeID)
	_, err := c.put(ctx, path, nil)
	return err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	_, err := c.delete(ctx, fmt.Sprintf("/tasks/%d", id))
	return err
}
