package client

import (
	"context"
	"fmt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

type commentRequest struct {
	Message   string `json:"message"`
	ProjectID int64  `json:"projectId,omitempty"`
	TaskID    int64  `json:"taskId,omitempty"`
}

// ListProjectComments returns the comments attached to a project.
func (c *Client) ListProjectComments(ctx context.Context, projectID int64) ([]domain.Comment, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/comments/project/%d", projectID))
	if err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := unmarshalPayload(raw, emptyList, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddProjectComment attaches a comment to a project.
func (c *Client) AddProjectComment(ctx context.Context, projectID int64, message string) (*domain.Comment, error) {
	raw, err := c.post(ctx, fmt.Sprintf("/comments/project/%d", projectID), commentRequest{
		Message:   message,
		ProjectID: projectID,
	})
	if err != nil {
		return nil, err
	}
	var comment domain.Comment
	if err := unmarshalPayload(raw, nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListTaskComments returns the comments attached to a task.
func (c *Client) ListTaskComments(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/comments/task/%d", taskID))
	if err != nil {
		return nil, err
	}
	var comments []domain.Comment
	if err := unmarshalPayload(raw, emptyList, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddTaskComment attaches a comment to a task.
func (c *Client) AddTaskComment(ctx context.Context, taskID int64, message string) (*domain.Comment, error) {
	raw, err := c.post(ctx, fmt.Sprintf("/comments/task/%d", taskID), commentRequest{
		Message: message,
		TaskID:  taskID,
	})
	if err != nil {
		return nil, err
	}
	var comment domain.Comment
	if err := unmarshalPayload(raw, nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment rewrites a comment's message (author only).
func (c *Client) UpdateComment(ctx context.Context, id int64, message string) (*domain.Comment, error) {
	raw, err := c.put(ctx, fmt.Sprintf("/comments/%d", id), commentRequest{Message: message})
	if err != nil {
		return nil, err
	}
	var comment domain.Comment
	if err := unmarshalPayload(raw, nil, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment (author or manager).
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	_, err := c.delete(ctx, fmt.Sprintf("/comments/%d", id))
	return err
}
