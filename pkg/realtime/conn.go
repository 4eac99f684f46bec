package realtime

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/taskboardhq/taskboard/pkg/interfaces/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// joinPayload is the client-to-server body of a join-user message.
type joinPayload struct {
	UserID string `json:"userId"`
}

// ServeConn runs the connection lifecycle against the hub: register, then
// pump messages until the peer goes away. The read loop drives the join
// state machine; any read error ends the connection and unregisters it.
func ServeConn(hub *Hub, lgr logger.Logger, conn *websocket.Conn) {
	if lgr == nil {
		lgr = &logger.Nop{}
	}
	client := NewClient(uuid.NewString())
	hub.Register(client)

	defer func() {
		hub.Unregister(client)
		conn.Close()
		lgr.Debug("connection closed", logger.Field{Key: "conn", Value: client.ID})
	}()

	go writePump(conn, client, lgr)
	readLoop(hub, conn, client, lgr)
}

func readLoop(hub *Hub, conn *websocket.Conn, client *Client, lgr logger.Logger) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			lgr.Warn("discarding malformed frame", logger.Field{Key: "conn", Value: client.ID})
			continue
		}
		switch env.Event {
		case "join-user":
			var join joinPayload
			if err := json.Unmarshal(env.Payload, &join); err != nil || strings.TrimSpace(join.UserID) == "" {
				lgr.Warn("join-user without userId", logger.Field{Key: "conn", Value: client.ID})
				continue
			}
			hub.Join(client.ID, join.UserID)
		default:
			lgr.Debug("ignoring client event",
				logger.Field{Key: "conn", Value: client.ID},
				logger.Field{Key: "event", Value: env.Event},
			)
		}
	}
}

func writePump(conn *websocket.Conn, client *Client, lgr logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.Send:
			if !ok {
				// Hub dropped us; tell the peer before going away.
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				lgr.Debug("write failed", logger.Field{Key: "conn", Value: client.ID})
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
