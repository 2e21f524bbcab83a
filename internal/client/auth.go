package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// unmarshalPayload normalizes raw and decodes the payload into v. fallback
// is substituted for a missing or null payload before decoding.
func unmarshalPayload(raw, fallback json.RawMessage, v any) error {
	payload := Normalize(raw, fallback)
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("client: decode payload: %w", err)
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Login authenticates with username and password and returns the token
// plus identity payload. It does not persist anything; that is the session
// service's job.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	raw, err := c.post(ctx, "/auth/login", loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	var result domain.AuthResult
	if err := unmarshalPayload(raw, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.User, error) {
	raw, err := c.post(ctx, "/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
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

// Me asks the backend who the persisted credential belongs to.
func (c *Client) Me(ctx context.Context) (*domain.Session, error) {
	raw, err := c.get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}
	var session domain.Session
	if err := unmarshalPayload(raw, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ForgotPassword triggers out-of-band delivery of a reset code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.post(ctx, "/auth/forgot-password", map[string]string{"email": email})
	return err
}

// ResetPassword exchanges a reset code for a new password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	_, err := c.post(ctx, "/auth/reset-password", map[string]string{
		"email":       email,
		"otp":         otp,
		"newPassword": newPassword,
	})
	return err
}
