package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

type stubStore struct {
	kv map[string]string
}

func newStubStore() *stubStore {
	return &stubStore{kv: make(map[string]string)}
}

func (s *stubStore) Get(key string) string { return s.kv[key] }

func (s *stubStore) Set(key, value string) error {
	s.kv[key] = value
	return nil
}

func (s *stubStore) Delete(key string) error {
	delete(s.kv, key)
	return nil
}

func (s *stubStore) ClearAuth() error {
	delete(s.kv, ports.KeyToken)
	delete(s.kv, ports.KeyIdentity)
	return nil
}

type stubAuthAPI struct {
	loginResult *domain.AuthResult
	loginErr    error
	meResult    *domain.Session
	meErr       error
	loginCalls  int
	meCalls     int
}

func (a *stubAuthAPI) Login(_ context.Context, _, _ string) (*domain.AuthResult, error) {
	a.loginCalls++
	return a.loginResult, a.loginErr
}

func (a *stubAuthAPI) Me(_ context.Context) (*domain.Session, error) {
	a.meCalls++
	return a.meResult, a.meErr
}

func TestProbe_NoCredential_NoNetworkCall(t *testing.T) {
	api := &stubAuthAPI{}
	svc := NewSessionService(api, newStubStore())

	if !svc.Loading() {
		t.Fatalf("expected loading before probe")
	}
	svc.Probe(context.Background())

	if svc.Loading() {
		t.Fatalf("expected loading resolved after probe")
	}
	if svc.Authenticated() {
		t.Fatalf("expected unauthenticated")
	}
	if api.meCalls != 0 {
		t.Fatalf("probe without credential must not call the backend, got %d calls", api.meCalls)
	}
}

func TestProbe_ValidCredential_PopulatesSession(t *testing.T) {
	store := newStubStore()
	store.Set(ports.KeyToken, "tok")
	api := &stubAuthAPI{meResult: &domain.Session{ID: 3, Username: "alice", Email: "a@x.io", Role: domain.RoleManager}}
	svc := NewSessionService(api, store)

	svc.Probe(context.Background())

	if !svc.Authenticated() {
		t.Fatalf("expected authenticated")
	}
	got := svc.Current()
	if got == nil || got.Username != "alice" || got.Role != domain.RoleManager {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestProbe_RejectedCredential_ClearsBothKeys(t *testing.T) {
	store := newStubStore()
	store.Set(ports.KeyToken, "stale")
	store.Set(ports.KeyIdentity, `{"id":3}`)
	api := &stubAuthAPI{meErr: domain.ErrInvalidCredentials}
	svc := NewSessionService(api, store)

	svc.Probe(context.Background())

	if svc.Loading() {
		t.Fatalf("expected loading resolved")
	}
	if svc.Authenticated() {
		t.Fatalf("expected unauthenticated")
	}
	if store.Get(ports.KeyToken) != "" || store.Get(ports.KeyIdentity) != "" {
		t.Fatalf("expected persisted keys cleared")
	}
}

func TestProbe_RunsAtMostOnce(t *testing.T) {
	store := newStubStore()
	store.Set(ports.KeyToken, "tok")
	api := &stubAuthAPI{meResult: &domain.Session{ID: 1, Username: "a", Role: domain.RoleMember}}
	svc := NewSessionService(api, store)

	svc.Probe(context.Background())
	svc.Probe(context.Background())

	if api.meCalls != 1 {
		t.Fatalf("expected exactly one probe call, got %d", api.meCalls)
	}
}

func TestLogin_Success_PersistsCredentialAndIdentity(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{loginResult: &domain.AuthResult{
		Token: "tok-9", UserID: 7, Username: "alice", Email: "a@x.io", Role: domain.RoleManager,
	}}
	svc := NewSessionService(api, store)

	session, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Role != domain.RoleManager || session.ID != 7 {
		t.Fatalf("unexpected session: %+v", session)
	}
	if !svc.Authenticated() {
		t.Fatalf("expected authenticated after login")
	}
	if store.Get(ports.KeyToken) != "tok-9" {
		t.Fatalf("token not persisted")
	}

	var mirror domain.Session
	if err := json.Unmarshal([]byte(store.Get(ports.KeyIdentity)), &mirror); err != nil {
		t.Fatalf("identity mirror not valid JSON: %v", err)
	}
	if mirror.Username != "alice" {
		t.Fatalf("unexpected identity mirror: %+v", mirror)
	}
}

func TestLogin_MissingRole_IsContractViolation(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{loginResult: &domain.AuthResult{Token: "tok", UserID: 1, Username: "x"}}
	svc := NewSessionService(api, store)

	if _, err := svc.Login(context.Background(), "x", "pw"); err != domain.ErrMissingRole {
		t.Fatalf("expected ErrMissingRole, got %v", err)
	}
	if svc.Authenticated() {
		t.Fatalf("expected unauthenticated")
	}
	if store.Get(ports.KeyToken) != "" {
		t.Fatalf("expected no persisted token")
	}
}

func TestLogin_Failure_ClearsStaleStateAndSurfacesError(t *testing.T) {
	store := newStubStore()
	store.Set(ports.KeyToken, "old")
	store.Set(ports.KeyIdentity, `{"id":1}`)
	api := &stubAuthAPI{loginErr: domain.ErrInvalidCredentials}
	svc := NewSessionService(api, store)

	if _, err := svc.Login(context.Background(), "alice", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected error surfaced, got %v", err)
	}
	if store.Get(ports.KeyToken) != "" || store.Get(ports.KeyIdentity) != "" {
		t.Fatalf("expected stale keys cleared")
	}
	if svc.Authenticated() {
		t.Fatalf("expected unauthenticated")
	}
}

func TestLogout_ClearsEverythingAndFiresHook(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{loginResult: &domain.AuthResult{
		Token: "tok", UserID: 1, Username: "a", Role: domain.RoleMember,
	}}
	hookCalls := 0
	svc := NewSessionService(api, store, WithSessionEndHook(func() { hookCalls++ }))

	if _, err := svc.Login(context.Background(), "a", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	svc.Logout()

	if svc.Authenticated() || svc.Current() != nil {
		t.Fatalf("expected session gone")
	}
	if store.Get(ports.KeyToken) != "" || store.Get(ports.KeyIdentity) != "" {
		t.Fatalf("expected persisted keys cleared")
	}
	if hookCalls != 1 {
		t.Fatalf("expected session-end hook fired once, got %d", hookCalls)
	}

	// Idempotent: logging out again is a no-op beyond the hook.
	svc.Logout()
	if hookCalls != 2 {
		t.Fatalf("expected hook fired again, got %d", hookCalls)
	}
}

func TestUpdateIdentity_ReplacesWholesaleKeepsCredential(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{loginResult: &domain.AuthResult{
		Token: "tok", UserID: 1, Username: "old", Email: "old@x.io", Role: domain.RoleMember,
	}}
	svc := NewSessionService(api, store)
	if _, err := svc.Login(context.Background(), "old", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	updated := domain.Session{ID: 1, Username: "new", Email: "new@x.io", Role: domain.RoleMember}
	if err := svc.UpdateIdentity(updated); err != nil {
		t.Fatalf("UpdateIdentity: %v", err)
	}

	if got := svc.Current(); got.Username != "new" || got.Email != "new@x.io" {
		t.Fatalf("session not replaced: %+v", got)
	}
	if store.Get(ports.KeyToken) != "tok" {
		t.Fatalf("credential must be untouched")
	}
	var mirror domain.Session
	if err := json.Unmarshal([]byte(store.Get(ports.KeyIdentity)), &mirror); err != nil || mirror.Username != "new" {
		t.Fatalf("persisted mirror not updated: %+v %v", mirror, err)
	}
}

func TestAuthenticated_RequiresBothSessionAndCredential(t *testing.T) {
	store := newStubStore()
	api := &stubAuthAPI{loginResult: &domain.AuthResult{
		Token: "tok", UserID: 1, Username: "a", Role: domain.RoleMember,
	}}
	svc := NewSessionService(api, store)
	if _, err := svc.Login(context.Background(), "a", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Simulate storage tampering: token removed behind the store's back.
	store.Delete(ports.KeyToken)
	if svc.Authenticated() {
		t.Fatalf("in-memory session alone must not count as authenticated")
	}
}
