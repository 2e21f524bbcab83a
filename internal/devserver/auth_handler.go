package devserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

const resetCodeTTL = 15 * time.Minute

// AuthHandler serves registration, login and the identity probe.
type AuthHandler struct {
	store  *Store
	tokens *Tokens
	log    zerolog.Logger
}

func NewAuthHandler(store *Store, tokens *Tokens, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, log: log}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

// Login verifies credentials and returns a signed token plus the identity
// fields the client derives a session from.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.store.FindUserByUsername(req.Username)
	if err != nil {
		return domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)) != nil {
		return domain.ErrInvalidCredentials
	}

	token, err := h.tokens.Issue(&rec.User)
	if err != nil {
		return err
	}

	return ok(c, http.StatusOK, "Login successful", domain.AuthResult{
		Token:    token,
		UserID:   rec.ID,
		Username: rec.Username,
		Email:    rec.Email,
		Role:     rec.Role,
	})
}

// Register creates a new account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role := domain.Role(req.Role)
	if !role.Valid() {
		return domain.ErrMissingRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := h.store.CreateUser(req.Username, req.Email, string(hash), role)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, "User registered", user)
}

// Me resolves the bearer token to the account it belongs to.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.store.GetUser(userID)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Authenticated", domain.Session{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword issues a one-time reset code. The stub has no mail
// transport, so the code lands in the server log instead.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// The response does not reveal whether the account exists.
	if _, err := h.store.FindUserByEmail(req.Email); err == nil {
		code := uuid.NewString()[:8]
		h.store.SetResetCode(req.Email, code, resetCodeTTL)
		h.log.Info().Str("email", req.Email).Str("otp", code).Msg("password reset code issued")
	}
	return ok(c, http.StatusOK, "If the account exists, a reset code has been sent", nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ResetPassword exchanges a valid reset code for a new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.ConsumeResetCode(req.Email, req.OTP); err != nil {
		return err
	}
	rec, err := h.store.FindUserByEmail(req.Email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.store.UpdatePassword(rec.ID, string(hash)); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Password updated", nil)
}
