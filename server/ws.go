package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const wsWriteTimeout = 10 * time.Second

// handleWebSocket serves the same response stream as /subscribe over a
// websocket, one JSON Response per text message.
func (h *HTTPHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	userId, name, err := identity(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	sub := h.server.Subscribe(userId, name)

	// Reader exists only to observe the close; inbound traffic belongs on
	// the request endpoints.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.server.Unsubscribe(sub)
				return
			}
		}
	}()

	defer func() {
		h.server.Unsubscribe(sub)
		conn.Close()
	}()
	for response := range sub.Chan() {
		data, err := json.Marshal(response)
		if err != nil {
			h.log.Error().Err(err).Msg("marshal response")
			return
		}
		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
