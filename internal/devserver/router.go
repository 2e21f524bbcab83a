package devserver

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// NewRouter builds the Echo instance with all routes registered. The
// caller owns the notifier lifecycle and must Start it before serving.
func NewRouter(store *Store, tokens *Tokens, hub *Hub, notifier *Notifier, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("taskbuddy"))

	// --- Handlers ---
	authHandler := NewAuthHandler(store, tokens, log)
	userHandler := NewUserHandler(store)
	projectHandler := NewProjectHandler(store, notifier)
	taskHandler := NewTaskHandler(store, notifier)
	memberHandler := NewMemberHandler(store)
	invitationHandler := NewInvitationHandler(store, notifier)
	commentHandler := NewCommentHandler(store, notifier)
	notificationHandler := NewNotificationHandler(store, notifier)
	wsHandler := NewWSHandler(tokens, hub, log)

	requireAuth := Auth(tokens)
	managerOnly := RequireRole(domain.RoleManager)

	// --- Probes and metrics (no auth required) ---
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echoprometheus.NewHandler())

	api := e.Group("/api")

	// --- Public auth routes ---
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)

	// The WebSocket handshake carries its token as a query parameter and
	// authenticates itself.
	api.GET("/ws/notifications", wsHandler.Subscribe)

	// --- Authenticated routes ---
	authed := api.Group("", requireAuth)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/users", userHandler.List)
	authed.GET("/users/search", userHandler.Search)
	authed.PUT("/users/change-password", userHandler.ChangePassword)
	authed.GET("/users/:id", userHandler.Get)
	authed.PUT("/users/:id", userHandler.Update)

	authed.GET("/projects", projectHandler.List)
	authed.GET("/projects/:id", projectHandler.Get)
	authed.POST("/projects", projectHandler.Create, managerOnly)
	authed.PUT("/projects/:id", projectHandler.Update, managerOnly)
	authed.PATCH("/projects/:id/status", projectHandler.UpdateStatus, managerOnly)
	authed.POST("/projects/:id/members", projectHandler.AddMember, managerOnly)
	authed.DELETE("/projects/:id/members/:userId", projectHandler.RemoveMember, managerOnly)

	authed.GET("/tasks", taskHandler.List)
	authed.GET("/tasks/project/:projectId", taskHandler.ListByProject)
	authed.GET("/tasks/:id", taskHandler.Get)
	authed.POST("/tasks", taskHandler.Create, managerOnly)
	authed.PUT("/tasks/:id", taskHandler.Update, managerOnly)
	authed.PUT("/tasks/:id/status", taskHandler.UpdateStatus)
	authed.PUT("/tasks/:id/reassign", taskHandler.Reassign, managerOnly)
	authed.DELETE("/tasks/:id", taskHandler.Delete, managerOnly)

	authed.GET("/project-members/project/:projectId", memberHandler.ListByProject)
	authed.GET("/project-members/user/:userId", memberHandler.ListByUser)

	authed.POST("/project-invitations", invitationHandler.Create, managerOnly)
	authed.GET("/project-invitations/pending", invitationHandler.ListPending)
	authed.GET("/project-invitations/user/:userId/pending", invitationHandler.ListPendingForUser)
	authed.PUT("/project-invitations/:id/respond", invitationHandler.Respond)

	authed.GET("/comments/project/:projectId", commentHandler.ListForProject)
	authed.POST("/comments/project/:projectId", commentHandler.AddToProject)
	authed.GET("/comments/task/:taskId", commentHandler.ListForTask)
	authed.POST("/comments/task/:taskId", commentHandler.AddToTask)
	authed.PUT("/comments/:id", commentHandler.Update)
	authed.DELETE("/comments/:id", commentHandler.Delete)

	authed.GET("/notifications/unread", notificationHandler.Unread)
	authed.GET("/notifications/user/:userId/unread", notificationHandler.UnreadForUser)
	authed.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	authed.POST("/notifications", notificationHandler.Send)

	return e
}
