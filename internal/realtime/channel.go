// Package realtime maintains the client side of the notification push
// channel: one WebSocket per authenticated viewing session, receive-only,
// decoding JSON events into the local notification list.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/core/ports"
)

// State is the lifecycle state of a Channel.
type State int

const (
	StateClosed State = iota
	StateConnecting
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// Channel is a single-use notification subscription. Open dials once;
// after the transport errors or Close is called the channel stays closed —
// reconnect policy, if ever wanted, belongs to a supervisor above this
// layer. Keeping at most one live channel per viewing session is the
// caller's responsibility.
type Channel struct {
	wsBase string
	store  ports.CredentialStore
	sink   ports.NotificationSink
	log    zerolog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
}

// NewChannel builds a closed channel that will dial wsBase (scheme ws or
// wss, including the /api prefix) when opened.
func NewChannel(wsBase string, store ports.CredentialStore, sink ports.NotificationSink, log zerolog.Logger) *Channel {
	return &Channel{
		wsBase: strings.TrimRight(wsBase, "/"),
		store:  store,
		sink:   sink,
		log:    log,
		state:  StateClosed,
	}
}

// Open dials the notification endpoint and starts the read loop. It
// requires a persisted credential; the token travels as a query parameter
// because this transport has no header channel — a known, accepted
// exposure of the wire contract, so the full target URL must never be
// logged.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateClosed {
		c.mu.Unlock()
		return fmt.Errorf("realtime: channel already %s", c.state)
	}

	token := c.store.Get(ports.KeyToken)
	if token == "" {
		c.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	c.state = StateConnecting
	c.mu.Unlock()

	target := c.wsBase + "/ws/notifications?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target, nil)
	if err != nil {
		c.setState(StateClosed)
		return fmt.Errorf("realtime: dial notification channel: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// readLoop decodes inbound frames until the transport fails. A frame that
// is not valid JSON is logged and dropped; the loop keeps running.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug().Msg("notification channel closed")
			} else {
				c.log.Warn().Err(err).Msg("notification channel transport error")
			}
			c.setState(StateClosed)
			return
		}

		var n domain.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			c.log.Warn().Err(err).Msg("dropping unparseable notification frame")
			continue
		}
		c.sink.Prepend(n)
	}
}

// Close tears down the underlying transport so no live connection outlasts
// the owning view. Safe to call on an already closed channel.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), closeDeadline())
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state = StateClosed
}

// State returns the channel's current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func closeDeadline() time.Time {
	return time.Now().Add(time.Second)
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// WSBaseFromAPI derives the realtime base from the REST base by swapping
// the scheme: http→ws, https→wss. The /api path prefix is kept.
func WSBaseFromAPI(apiURL string) string {
	switch {
	case strings.HasPrefix(apiURL, "https://"):
		return "wss://" + strings.TrimPrefix(apiURL, "https://")
	case strings.HasPrefix(apiURL, "http://"):
		return "ws://" + strings.TrimPrefix(apiURL, "http://")
	default:
		return apiURL
	}
}
