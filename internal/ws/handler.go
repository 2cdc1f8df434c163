package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardczar/cah-table-backend/internal/room"
	"github.com/cardczar/cah-table-backend/internal/types"
)

// Handler upgrades the connection, registers it with the room, and shuttles
// messages both ways. The connection identity is a uuid minted here; the room
// uses it as the player id once the client joins.
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

		out := make(chan types.ServerMessage, 16)
		clientID := uuid.NewString()

		rm.Inbox() <- room.Connect{ClientID: clientID, Outbox: out}
		defer func() { rm.Inbox() <- room.Disconnect{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			// The room dropped us (slow consumer or shutdown).
			conn.Close(websocket.StatusGoingAway, "dropped")
		}()

		// Reader loop. No per-read deadline: a judge legitimately sits idle
		// while others play; the room's AFK deadline handles true absence.
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"bad json"}`))
				continue
			}

			msg, ok := toRoomMsg(clientID, cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"error","error":"unknown type"}`))
				continue
			}
			rm.Inbox() <- msg
		}
	}
}

func toRoomMsg(clientID string, m types.ClientMessage) (room.Msg, bool) {
	switch m.Type {
	case "join":
		return room.Join{ClientID: clientID, Name: m.Name}, true
	case "ready":
		return room.ReadyUp{ClientID: clientID}, true
	case "submit":
		return room.Submit{ClientID: clientID, Card: m.Card, CustomText: m.CustomText}, true
	case "pick":
		return room.Pick{ClientID: clientID, SubmissionID: m.SubmissionID}, true
	case "chat":
		return room.Chat{ClientID: clientID, Text: m.Text}, true
	case "admin":
		return room.Admin{ClientID: clientID, Password: m.Password, Command: m.Command}, true
	case "music":
		return room.Music{ClientID: clientID, Payload: m.Payload}, true
	default:
		return nil, false
	}
}
