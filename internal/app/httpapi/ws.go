package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are already filtered by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const (
	wsWriteWait  = 10 * time.Second
	wsIdleWait   = 5 * time.Minute
	wsMaxMessage = 4096
)

type chatFrame struct {
	Message string `json:"message,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// handleChatbotWS runs a request/reply chat conversation over a websocket.
// The first frame sent is the greeting; each client frame gets one reply.
func (s *Server) handleChatbotWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsMaxMessage)

	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(chatFrame{Reply: s.bot.Greeting()}); err != nil {
		return
	}

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleWait))
		var frame chatFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Debug("websocket closed")
			}
			return
		}
		if frame.Message == "" {
			continue
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(chatFrame{Reply: s.bot.Reply(frame.Message)}); err != nil {
			return
		}
	}
}
