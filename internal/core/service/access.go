package service

import (
	"fmt"
	"strings"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

// GuardDecision is the route guard's verdict for a protected view.
type GuardDecision int

const (
	// GuardPending: the session probe has not resolved; show neutral
	// pending UI and never redirect.
	GuardPending GuardDecision = iota
	// GuardAllow: render the protected content.
	GuardAllow
	// GuardRedirectLogin: replace-navigate to the login view.
	GuardRedirectLogin
)

// Decide derives the route guard verdict from session store state. Pure:
// the guard holds no state of its own.
func Decide(loading, authenticated bool) GuardDecision {
	if loading {
		return GuardPending
	}
	if authenticated {
		return GuardAllow
	}
	return GuardRedirectLogin
}

// Allowed reports whether session passes a role gate. A nil session is
// always denied. An empty role set is an open gate: any authenticated
// session passes.
func Allowed(session *domain.Session, allowedRoles []domain.Role) bool {
	if session == nil {
		return false
	}
	if len(allowedRoles) == 0 {
		return true
	}
	for _, r := range allowedRoles {
		if session.Role == r {
			return true
		}
	}
	return false
}

// DenialReason explains a role-gate denial, distinguishing "no session"
// from "wrong role" and naming the accepted roles. Returns "" when access
// would be granted.
func DenialReason(session *domain.Session, allowedRoles []domain.Role) string {
	if Allowed(session, allowedRoles) {
		return ""
	}
	if session == nil {
		return "you must be signed in to access this feature"
	}
	names := make([]string, len(allowedRoles))
	for i, r := range allowedRoles {
		names[i] = string(r)
	}
	return fmt.Sprintf("your role %s does not grant access; accepted: %s",
		session.Role, strings.Join(names, ", "))
}
