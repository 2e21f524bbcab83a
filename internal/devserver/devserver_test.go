package devserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/client"
	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
	"github.com/taskbuddy/taskbuddy-go/internal/devserver"
)

type memStore struct {
	mu sync.Mutex
	kv map[string]string
}

func newMemStore() *memStore { return &memStore{kv: make(map[string]string)} }

func (s *memStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv[key]
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

func (s *memStore) ClearAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, ports.KeyToken)
	delete(s.kv, ports.KeyIdentity)
	return nil
}

// startServer boots the full router backed by a fresh store and returns
// its base URL.
func startServer(t *testing.T) string {
	t.Helper()
	// The router registers its collectors with the process-global default
	// registry; swap in a fresh one so repeated startServer calls do not
	// trip duplicate-registration panics.
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	log := zerolog.Nop()
	store := devserver.NewStore()
	tokens := devserver.NewTokens("test-secret", time.Hour)
	hub := devserver.NewHub(log)
	notifier := devserver.NewNotifier(2, store, hub, log)

	ctx, cancel := context.WithCancel(context.Background())
	notifier.Start(ctx)

	srv := httptest.NewServer(devserver.NewRouter(store, tokens, hub, notifier, log))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv.URL
}

// signup registers and logs in an account, returning a client whose store
// carries the bearer token.
func signup(t *testing.T, baseURL, username string, role domain.Role) (*client.Client, *domain.AuthResult) {
	t.Helper()
	st := newMemStore()
	c := client.New(baseURL+"/api", st)

	ctx := context.Background()
	if _, err := c.Register(ctx, username, username+"@example.com", "secret123", role); err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	res, err := c.Login(ctx, username, "secret123")
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	if err := st.Set(ports.KeyToken, res.Token); err != nil {
		t.Fatalf("persist token: %v", err)
	}
	return c, res
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}

func TestAuthRoundTrip(t *testing.T) {
	baseURL := startServer(t)
	c, res := signup(t, baseURL, "alice", domain.RoleManager)

	if res.Token == "" || res.Role != domain.RoleManager {
		t.Fatalf("unexpected login payload: %+v", res)
	}

	session, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if session.Username != "alice" || session.Role != domain.RoleManager {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	baseURL := startServer(t)

	resp, err := http.Get(baseURL + "/api/auth/me")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", resp.StatusCode)
	}
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.Success || body.Message == "" {
		t.Fatalf("expected failure envelope, got %+v", body)
	}

	req, _ := http.NewRequest(http.MethodGet, baseURL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token: expected 401, got %d", resp2.StatusCode)
	}
}

func TestRoleGateOnProjectCreation(t *testing.T) {
	baseURL := startServer(t)
	member, _ := signup(t, baseURL, "bob", domain.RoleMember)

	_, err := member.CreateProject(context.Background(), client.ProjectInput{Name: "nope"})
	if !client.IsStatus(err, http.StatusForbidden) {
		t.Fatalf("expected 403 for MEMBER, got %v", err)
	}
}

func TestInvitationFlowAndNotifications(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	manager, _ := signup(t, baseURL, "carol", domain.RoleManager)
	member, memberAuth := signup(t, baseURL, "dave", domain.RoleMember)

	project, err := manager.CreateProject(ctx, client.ProjectInput{Name: "Apollo", Description: "moon"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if _, err := manager.CreateInvitation(ctx, project.ID, memberAuth.UserID); err != nil {
		t.Fatalf("invite: %v", err)
	}

	// Delivery is async via the dispatcher.
	waitFor(t, func() bool {
		list, err := member.ListUnreadNotifications(ctx, 0)
		return err == nil && len(list) == 1
	}, "invitation notification")

	invitations, err := member.ListPendingInvitations(ctx, 0)
	if err != nil {
		t.Fatalf("pending invitations: %v", err)
	}
	if len(invitations) != 1 || invitations[0].ProjectID != project.ID {
		t.Fatalf("unexpected invitations: %+v", invitations)
	}

	if err := member.RespondToInvitation(ctx, invitations[0].ID, domain.InvitationAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// Responding twice must conflict.
	err = member.RespondToInvitation(ctx, invitations[0].ID, domain.InvitationAccepted)
	if !client.IsStatus(err, http.StatusConflict) {
		t.Fatalf("expected 409 on second response, got %v", err)
	}

	members, err := manager.ListProjectMembers(ctx, project.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	found := false
	for _, m := range members {
		if m.UserID == memberAuth.UserID {
			found = true
		}
	}
	if !found {
		t.Fatalf("accepted member missing from project: %+v", members)
	}
}

func TestTaskLifecycle(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	manager, managerAuth := signup(t, baseURL, "erin", domain.RoleManager)
	member, memberAuth := signup(t, baseURL, "frank", domain.RoleMember)

	project, err := manager.CreateProject(ctx, client.ProjectInput{Name: "Gemini"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := manager.AddProjectMember(ctx, project.ID, memberAuth.UserID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	task, err := manager.CreateTask(ctx, client.TaskInput{
		Title:          "wire the capsule",
		ProjectID:      project.ID,
		AssignedUserID: memberAuth.UserID,
		Priority:       domain.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != domain.TaskPending {
		t.Fatalf("new task must be PENDING, got %s", task.Status)
	}

	// Only the assignee may move the status.
	err = manager.UpdateTaskStatus(ctx, task.ID, domain.TaskInProgress)
	if !client.IsStatus(err, http.StatusForbidden) {
		t.Fatalf("manager status change should be 403, got %v", err)
	}
	if err := member.UpdateTaskStatus(ctx, task.ID, domain.TaskInProgress); err != nil {
		t.Fatalf("assignee status change: %v", err)
	}

	// Reassignment resets the status to PENDING.
	if err := manager.ReassignTask(ctx, task.ID, managerAuth.UserID); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	got, err := manager.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != domain.TaskPending || got.AssignedUserID != managerAuth.UserID {
		t.Fatalf("reassigned task not reset: %+v", got)
	}
}

func TestUnreadListIsBareArrayAndMarkRead(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	manager, _ := signup(t, baseURL, "grace", domain.RoleManager)
	member, memberAuth := signup(t, baseURL, "henry", domain.RoleMember)

	project, err := manager.CreateProject(ctx, client.ProjectInput{Name: "Mercury"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := manager.CreateInvitation(ctx, project.ID, memberAuth.UserID); err != nil {
		t.Fatalf("invite: %v", err)
	}

	waitFor(t, func() bool {
		list, err := member.ListUnreadNotifications(ctx, 0)
		return err == nil && len(list) == 1
	}, "unread notification")

	// The wire shape really is a bare array, not the envelope.
	req, _ := http.NewRequest(http.MethodGet, baseURL+"/api/notifications/unread", nil)
	req.Header.Set("Authorization", "Bearer "+memberAuth.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("raw unread: %v", err)
	}
	defer resp.Body.Close()
	var bare []domain.Notification
	if err := json.NewDecoder(resp.Body).Decode(&bare); err != nil {
		t.Fatalf("unread endpoint must return a bare array: %v", err)
	}
	if len(bare) != 1 || bare[0].Type != domain.NotifyProjectInvitation {
		t.Fatalf("unexpected unread payload: %+v", bare)
	}

	if err := member.MarkNotificationRead(ctx, bare[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	list, err := member.ListUnreadNotifications(ctx, 0)
	if err != nil {
		t.Fatalf("unread after read: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty unread list, got %+v", list)
	}
}

func TestWebSocketPushAndHandshakeAuth(t *testing.T) {
	baseURL := startServer(t)
	ctx := context.Background()

	manager, _ := signup(t, baseURL, "iris", domain.RoleManager)
	_, memberAuth := signup(t, baseURL, "jack", domain.RoleMember)

	wsBase := "ws" + strings.TrimPrefix(baseURL, "http")

	// A bad token must be rejected at the handshake.
	_, resp, err := websocket.DefaultDialer.Dial(wsBase+"/api/ws/notifications?token=bogus", nil)
	if err == nil {
		t.Fatalf("handshake with bogus token must fail")
	}
	if resp != nil && resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake, got %d", resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial(
		wsBase+"/api/ws/notifications?token="+memberAuth.Token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	project, err := manager.CreateProject(ctx, client.ProjectInput{Name: "Voyager"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if _, err := manager.CreateInvitation(ctx, project.ID, memberAuth.UserID); err != nil {
		t.Fatalf("invite: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read push: %v", err)
	}
	var n domain.Notification
	if err := json.Unmarshal(frame, &n); err != nil {
		t.Fatalf("decode push: %v", err)
	}
	if n.Type != domain.NotifyProjectInvitation || n.RecipientID != memberAuth.UserID {
		t.Fatalf("unexpected push: %+v", n)
	}
}
