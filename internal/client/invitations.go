package client

import (
	"context"
	"fmt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// ListPendingInvitations returns the pending invitations addressed to a
// user. Pass 0 to use the authenticated caller.
func (c *Client) ListPendingInvitations(ctx context.Context, userID int64) ([]domain.Invitation, error) {
	path := "/project-invitations/pending"
	if userID != 0 {
		path = fmt.Sprintf("/project-invitations/user/%d/pending", userID)
	}
	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var invitations []domain.Invitation
	if err := unmarshalPayload(raw, emptyList, &invitations); err != nil {
		return nil, err
	}
	return invitations, nil
}

// RespondToInvitation accepts or rejects an invitation.
func (c *Client) RespondToInvitation(ctx context.Context, id int64, status domain.InvitationStatus) error {
	path := fmt.Sprintf("/project-invitations/%d/respond?status=%s", id, status)
	_, err := c.put(ctx, path, nil)
	return err
}

// CreateInvitation invites a user to a project (manager action).
func (c *Client) CreateInvitation(ctx context.Context, projectID, invitedUserID int64) (*domain.Invitation, error) {
	path := fmt.Sprintf("/project-invitations?projectId=%d&invitedUserId=%d", projectID, invitedUserID)
	raw, err := c.post(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	var invitation domain.Invitation
	if err := unmarshalPayload(raw, nil, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}
