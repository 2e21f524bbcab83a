package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// ListUsers returns every registered user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := c.get(ctx, "/users")
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := unmarshalPayload(raw, emptyList, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user by id.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/users/%d", id))
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := unmarshalPayload(raw, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers finds users whose username or email matches query.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	raw, err := c.get(ctx, "/users/search?query="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := unmarshalPayload(raw, emptyList, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser replaces a user's profile fields and returns the updated
// record; the caller is responsible for refreshing the local session.
func (c *Client) UpdateUser(ctx context.Context, id int64, username, email string) (*domain.User, error) {
	raw, err := c.put(ctx, fmt.Sprintf("/users/%d", id), map[string]string{
		"username": username,
		"email":    email,
	})
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := unmarshalPayload(raw, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := c.put(ctx, "/users/change-password", map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	})
	return err
}
