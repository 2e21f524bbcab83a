package client

import (
	"context"
	"fmt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// ListProjectMembers returns the membership records of one project.
func (c *Client) ListProjectMembers(ctx context.Context, projectID int64) ([]domain.ProjectMember, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/project-members/project/%d", projectID))
	if err != nil {
		return nil, err
	}
	var members []domain.ProjectMember
	if err := unmarshalPayload(raw, emptyList, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// ListUserProjects returns the memberships of one user across projects.
func (c *Client) ListUserProjects(ctx context.Context, userID int64) ([]domain.ProjectMember, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/project-members/user/%d", userID))
	if err != nil {
		return nil, err
	}
	var members []domain.ProjectMember
	if err := unmarshalPayload(raw, emptyList, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// AddProjectMember assigns a user to a project directly (manager action).
func (c *Client) AddProjectMember(ctx context.Context, projectID, userID int64) error {
	_, err := c.post(ctx, fmt.Sprintf("/projects/%d/members?userId=%d", projectID, userID), nil)
	return err
}

// RemoveProjectMember removes a user from a project (manager action).
func (c *Client) RemoveProjectMember(ctx context.Context, projectID, userID int64) error {
	_, err := c.delete(ctx, fmt.Sprintf("/projects/%d/members/%d", projectID, userID))
	return err
}
