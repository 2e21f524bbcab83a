package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

// memStore is an in-memory ports.CredentialStore for tests.
type memStore struct {
	mu sync.Mutex
	kv map[string]string
}

func newMemStore() *memStore {
	return &memStore{kv: make(map[string]string)}
}

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

func TestClient_AttachesBearerWhenCredentialPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"message":"ok","data":[]}`))
	}))
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok-1")
	c := New(srv.URL, store)

	if _, err := c.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClient_OmitsBearerWhenNoCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"message":"ok","data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, newMemStore())
	if _, err := c.ListProjects(context.Background()); err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_CredentialReadPerRequest(t *testing.T) {
	var headers []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	store := newMemStore()
	c := New(srv.URL, store)

	c.ListProjects(context.Background())
	store.Set(ports.KeyToken, "fresh")
	c.ListProjects(context.Background())

	if len(headers) != 2 || headers[0] != "" || headers[1] != "Bearer fresh" {
		t.Fatalf("credential not re-read per request: %v", headers)
	}
}

func TestClient_UnauthorizedClearsAuthAndFiresHookAndPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "stale")
	store.Set(ports.KeyIdentity, `{"id":1}`)

	hookCalls := 0
	c := New(srv.URL, store, WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := c.ListProjects(context.Background())
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if store.Get(ports.KeyToken) != "" || store.Get(ports.KeyIdentity) != "" {
		t.Fatalf("expected both persisted keys cleared")
	}
	if hookCalls != 1 {
		t.Fatalf("expected hook fired once, got %d", hookCalls)
	}
}

func TestClient_OtherStatusesPropagateWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/1":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Project not found!"}`))
		case "/projects/2":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"forbidden"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok")
	c := New(srv.URL, store)

	_, err := c.GetProject(context.Background(), 1)
	var apiErr *APIError
	if !asAPIError(err, &apiErr) || apiErr.Status != http.StatusNotFound || apiErr.Message != "Project not found!" {
		t.Fatalf("unexpected 404 error: %v", err)
	}

	_, err = c.GetProject(context.Background(), 2)
	if !asAPIError(err, &apiErr) || apiErr.Status != http.StatusForbidden || apiErr.Message != "forbidden" {
		t.Fatalf("unexpected 403 error: %v", err)
	}

	_, err = c.GetProject(context.Background(), 3)
	if !asAPIError(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected 5xx error: %v", err)
	}
	if apiErr.Message != "Server error. Please try again later." {
		t.Fatalf("expected canned 5xx copy, got %q", apiErr.Message)
	}

	// Non-401 failures must not touch the credential.
	if store.Get(ports.KeyToken) != "tok" {
		t.Fatalf("credential cleared on non-401 status")
	}
}

func TestClient_EnvelopeAndBareListBothDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects":
			w.Write([]byte(`{"success":true,"message":"ok","data":[{"id":1,"name":"Apollo"}]}`))
		case "/notifications/unread":
			w.Write([]byte(`[{"id":5,"message":"hi","type":"NEW_COMMENT"}]`))
		}
	}))
	defer srv.Close()

	c := New(srv.URL, newMemStore())

	projects, err := c.ListProjects(context.Background())
	if err != nil || len(projects) != 1 || projects[0].Name != "Apollo" {
		t.Fatalf("wrapped list decode failed: %v %v", projects, err)
	}

	notifications, err := c.ListUnreadNotifications(context.Background(), 0)
	if err != nil || len(notifications) != 1 || notifications[0].ID != 5 {
		t.Fatalf("bare list decode failed: %v %v", notifications, err)
	}
}

func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}
