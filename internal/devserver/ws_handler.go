package devserver

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// WSHandler upgrades notification subscriptions. The token travels as a
// query parameter because the browser WebSocket API cannot set headers;
// it is verified before the upgrade.
type WSHandler struct {
	tokens   *Tokens
	hub      *Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(tokens *Tokens, hub *Hub, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		tokens: tokens,
		hub:    hub,
		upgrader: websocket.Upgrader{
			// Dev fixture: cross-origin clients are expected.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// Subscribe authenticates the handshake, registers the connection with the
// hub and drains inbound frames until the peer goes away.
func (h *WSHandler) Subscribe(c echo.Context) error {
	id, err := h.tokens.Verify(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sessionID := h.hub.Register(id.UserID, conn)
	defer func() {
		h.hub.Unregister(id.UserID, sessionID)
		_ = conn.Close()
	}()

	// The channel is push-only; reads exist to detect disconnects and
	// answer control frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug().Err(err).Int64("user_id", id.UserID).Msg("ws session ended")
			}
			return nil
		}
	}
}
