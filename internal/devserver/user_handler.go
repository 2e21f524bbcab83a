package devserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// UserHandler serves the user directory and profile updates.
type UserHandler struct {
	store *Store
}

func NewUserHandler(store *Store) *UserHandler {
	return &UserHandler{store: store}
}

// List returns every registered account.
func (h *UserHandler) List(c echo.Context) error {
	return ok(c, http.StatusOK, "Users", h.store.ListUsers())
}

// Get returns one account by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.store.GetUser(id)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "User", user)
}

// Search matches accounts by username or email substring.
func (h *UserHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	return ok(c, http.StatusOK, "Users", h.store.SearchUsers(query))
}

type updateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// Update replaces the caller's own profile fields.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if id != userID {
		return domain.ErrForbidden
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.UpdateUser(id, req.Username, req.Email)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "User updated", user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ChangePassword rotates the caller's password after verifying the old one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.GetUser(userID)
	if err != nil {
		return err
	}
	rec, err := h.store.FindUserByUsername(user.Username)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.OldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.store.UpdatePassword(userID, string(hash)); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Password changed", nil)
}
