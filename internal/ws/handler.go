package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmccrae/buzzer-backend/internal/engine"
	"github.com/jmccrae/buzzer-backend/internal/room"
	"github.com/jmccrae/buzzer-backend/internal/types"
)

const writeTimeout = 3 * time.Second

func Handler(rm *room.Room, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan room.Outbound, 8)
		clientID := uuid.NewString()
		log.Debug("client connected", zap.String("client", clientID))

		rm.Inbox() <- room.Join{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ClientID: clientID} }()

		// Writer goroutine. When the room closes the outbox (leave, slow
		// client, or shutdown) the connection is closed so the reader below
		// unblocks.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ob := range out {
				payload, err := json.Marshal(encodeOutbound(ob))
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			conn.Close(websocket.StatusGoingAway, "outbox closed")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (room.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"bad json"}`))
				continue
			}

			if cm.Type == "admin-login" {
				rm.Inbox() <- room.AdminLogin{ClientID: clientID, Username: cm.Username, Password: cm.Password}
				continue
			}

			cmd, ok := toCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"unknown type"}`))
				continue
			}

			rm.Inbox() <- room.FromClient{ClientID: clientID, Cmd: cmd}
		}
	}
}

func toCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case "register":
		return engine.Command{Type: engine.CmdRegister, Name: m.Name}, true
	case "buzz":
		return engine.Command{Type: engine.CmdBuzz, Name: m.Name}, true
	case "start-buzzer":
		return engine.Command{Type: engine.CmdStart}, true
	case "lock-buzzers":
		return engine.Command{Type: engine.CmdLock}, true
	case "reset-buzzers":
		return engine.Command{Type: engine.CmdReset}, true
	default:
		return engine.Command{}, false
	}
}

func encodeOutbound(ob room.Outbound) types.ServerMessage {
	switch msg := ob.(type) {
	case room.Snapshot:
		return types.ServerMessage{
			Type:         "state",
			Version:      msg.Version,
			State:        &msg.State,
			AdminPresent: msg.AdminPresent,
		}
	case room.LoginResult:
		if msg.OK {
			return types.ServerMessage{Type: "admin-login-success"}
		}
		return types.ServerMessage{Type: "admin-login-fail"}
	default:
		return types.ServerMessage{Type: "error", Error: "unknown outbound"}
	}
}
