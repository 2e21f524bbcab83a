package service

import (
	"strings"
	"testing"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name          string
		loading       bool
		authenticated bool
		want          GuardDecision
	}{
		{"loading unauthenticated", true, false, GuardPending},
		{"loading authenticated", true, true, GuardPending},
		{"ready authenticated", false, true, GuardAllow},
		{"ready unauthenticated", false, false, GuardRedirectLogin},
	}
	for _, tc := range cases {
		if got := Decide(tc.loading, tc.authenticated); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAllowed_NilSessionDenied(t *testing.T) {
	if Allowed(nil, nil) {
		t.Fatalf("nil session must be denied even with an open gate")
	}
}

func TestAllowed_EmptySetIsOpenGate(t *testing.T) {
	s := &domain.Session{ID: 1, Username: "bob", Role: domain.RoleMember}
	if !Allowed(s, nil) {
		t.Fatalf("empty role set must grant any authenticated session")
	}
	if !Allowed(s, []domain.Role{}) {
		t.Fatalf("empty role set must grant any authenticated session")
	}
}

func TestAllowed_RoleMembership(t *testing.T) {
	member := &domain.Session{ID: 1, Username: "bob", Role: domain.RoleMember}
	manager := &domain.Session{ID: 2, Username: "alice", Role: domain.RoleManager}

	managerOnly := []domain.Role{domain.RoleManager}
	if Allowed(member, managerOnly) {
		t.Fatalf("MEMBER must be denied by a MANAGER-only gate")
	}
	if !Allowed(manager, managerOnly) {
		t.Fatalf("MANAGER must pass a MANAGER-only gate")
	}
	if !Allowed(member, []domain.Role{domain.RoleManager, domain.RoleMember}) {
		t.Fatalf("MEMBER must pass a MANAGER-or-MEMBER gate")
	}
}

func TestDenialReason(t *testing.T) {
	if got := DenialReason(&domain.Session{Role: domain.RoleManager}, []domain.Role{domain.RoleManager}); got != "" {
		t.Fatalf("expected empty reason when allowed, got %q", got)
	}

	noSession := DenialReason(nil, []domain.Role{domain.RoleManager})
	if !strings.Contains(noSession, "signed in") {
		t.Fatalf("no-session reason should mention signing in: %q", noSession)
	}

	wrongRole := DenialReason(&domain.Session{Role: domain.RoleMember}, []domain.Role{domain.RoleManager})
	if !strings.Contains(wrongRole, "MEMBER") || !strings.Contains(wrongRole, "MANAGER") {
		t.Fatalf("wrong-role reason should name current and accepted roles: %q", wrongRole)
	}
}
