package devserver

import "github.com/labstack/echo/v4"

// envelope is the wrapper the backend puts around most responses. Errors
// reuse it with success=false and no data.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ok renders a wrapped success response.
func ok(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, envelope{Success: true, Message: message, Data: data})
}
