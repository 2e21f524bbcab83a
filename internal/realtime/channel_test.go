package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
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

// recordingSink collects prepends most-recent-first like the real inbox.
type recordingSink struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (s *recordingSink) Prepend(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]domain.Notification{n}, s.items...)
}

func (s *recordingSink) snapshot() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.items...)
}

var upgrader = websocket.Upgrader{}

// pushServer upgrades /ws/notifications and writes the given frames in
// order, then blocks until the test finishes.
func pushServer(t *testing.T, gotToken *string, frames ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/notifications" {
			http.NotFound(w, r)
			return
		}
		if gotToken != nil {
			*gotToken = r.URL.Query().Get("token")
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection open; teardown comes from the client.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout waiting for %s", msg)
}

func TestChannel_RequiresCredential(t *testing.T) {
	c := NewChannel("ws://127.0.0.1:0", newMemStore(), &recordingSink{}, zerolog.Nop())
	if err := c.Open(context.Background()); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if c.State() != StateClosed {
		t.Fatalf("expected closed state, got %v", c.State())
	}
}

func TestChannel_TokenTravelsAsQueryParameter(t *testing.T) {
	var gotToken string
	srv := pushServer(t, &gotToken)
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok-ws")
	c := NewChannel(wsURL(srv), store, &recordingSink{}, zerolog.Nop())

	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	waitFor(t, func() bool { return c.State() == StateOpen }, "open state")
	if gotToken != "tok-ws" {
		t.Fatalf("expected token in query, got %q", gotToken)
	}
}

func TestChannel_PrependsInArrivalOrder(t *testing.T) {
	srv := pushServer(t, nil,
		`{"id":1,"message":"m1","type":"NEW_COMMENT"}`,
		`{"id":2,"message":"m2","type":"TASK_ASSIGNED"}`,
		`{"id":3,"message":"m3","type":"NEW_COMMENT"}`,
	)
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok")
	sink := &recordingSink{}
	c := NewChannel(wsURL(srv), store, sink, zerolog.Nop())

	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	waitFor(t, func() bool { return len(sink.snapshot()) == 3 }, "3 notifications")
	got := sink.snapshot()
	want := []int64{3, 2, 1}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestChannel_ParseFailureDroppedChannelSurvives(t *testing.T) {
	srv := pushServer(t, nil,
		`{"id":1,"message":"ok","type":"NEW_COMMENT"}`,
		`{{{not json`,
		`{"id":2,"message":"still alive","type":"NEW_COMMENT"}`,
	)
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok")
	sink := &recordingSink{}
	c := NewChannel(wsURL(srv), store, sink, zerolog.Nop())

	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	// The invalid frame must be dropped and the one after it delivered.
	waitFor(t, func() bool { return len(sink.snapshot()) == 2 }, "2 valid notifications")
	got := sink.snapshot()
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Fatalf("unexpected order after dropped frame: %+v", got)
	}
	if c.State() != StateOpen {
		t.Fatalf("channel must survive a parse failure, state %v", c.State())
	}
}

func TestChannel_TransportErrorClosesWithoutReconnect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close() // drop immediately
	}))
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok")
	c := NewChannel(wsURL(srv), store, &recordingSink{}, zerolog.Nop())

	if err := c.Open(context.Background()); err != nil {
		// Some dials fail during the handshake when the server hangs up
		// fast; a failed Open must also land in StateClosed.
		if c.State() != StateClosed {
			t.Fatalf("failed open must leave channel closed")
		}
		return
	}
	waitFor(t, func() bool { return c.State() == StateClosed }, "closed after transport error")
}

func TestChannel_CloseIsIdempotentAndOpenOnceOnly(t *testing.T) {
	srv := pushServer(t, nil)
	defer srv.Close()

	store := newMemStore()
	store.Set(ports.KeyToken, "tok")
	c := NewChannel(wsURL(srv), store, &recordingSink{}, zerolog.Nop())

	if err := c.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Open(context.Background()); err == nil {
		t.Fatalf("second Open on a live channel must fail")
	}

	c.Close()
	c.Close()
	if c.State() != StateClosed {
		t.Fatalf("expected closed after Close")
	}
}

func TestWSBaseFromAPI(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8080/api": "ws://localhost:8080/api",
		"https://tb.example/api":    "wss://tb.example/api",
		"ws://already/api":          "ws://already/api",
	}
	for in, want := range cases {
		if got := WSBaseFromAPI(in); got != want {
			t.Fatalf("WSBaseFromAPI(%q) = %q, want %q", in, got, want)
		}
	}
}
