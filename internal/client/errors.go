package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the rejection surface exposed to callers: every failed call
// carries the HTTP status and the server's displayable message when one
// was present. Views branch on Status to choose user-facing copy.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// newAPIError builds an APIError from a failed response body, falling back
// to canned copy per status class when the body carries no message.
func newAPIError(status int, body json.RawMessage) *APIError {
	msg := Message(body)
	if msg == "" {
		var alt struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &alt) == nil {
			msg = alt.Error
		}
	}
	if msg == "" {
		msg = defaultMessage(status)
	}
	return &APIError{Status: status, Message: msg}
}

func defaultMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Authentication failed. Please login again."
	case status == http.StatusForbidden:
		return "You do not have permission to perform this action."
	case status == http.StatusNotFound:
		return "Resource not found."
	case status >= http.StatusInternalServerError:
		return "Server error. Please try again later."
	default:
		return http.StatusText(status)
	}
}
