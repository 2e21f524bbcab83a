package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

var emptyList = json.RawMessage("[]")

// ProjectInput carries the writable fields of a project.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListProjects returns every project visible to the caller.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	raw, err := c.get(ctx, "/projects")
	if err != nil {
		return nil, err
	}
	var projects []domain.Project
	if err := unmarshalPayload(raw, emptyList, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/projects/%d", id))
	if err != nil {
		return nil, err
	}
	var project domain.Project
	if err := unmarshalPayload(raw, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project managed by the caller.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	raw, err := c.post(ctx, "/projects", in)
	if err != nil {
		return nil, err
	}
	var project domain.Project
	if err := unmarshalPayload(raw, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject replaces a project's writable fields.
func (c *Client) UpdateProject(ctx context.Context, id int64, in ProjectInput) (*domain.Project, error) {
	raw, err := c.put(ctx, fmt.Sprintf("/projects/%d", id), in)
	if err != nil {
		return nil, err
	}
	var project domain.Project
	if err := unmarshalPayload(raw, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProjectStatus moves a project to the given status. The status
// travels as a query parameter, matching the wire contract.
func (c *Client) UpdateProjectStatus(ctx context.Context, id int64, status domain.ProjectStatus) error {
	path := fmt.Sprintf("/projects/%d/status?status=%s", id, url.QueryEscape(string(status)))
	_, err := c.patch(ctx, path, nil)
	return err
}
