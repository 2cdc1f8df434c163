package types

import (
	"encoding/json"

	"github.com/cardczar/cah-table-backend/internal/game"
)

type ClientMessage struct {
	Type         string          `json:"type"` // "join" | "ready" | "submit" | "pick" | "chat" | "admin" | "music"
	Name         string          `json:"name,omitempty"`
	Card         string          `json:"card,omitempty"`
	CustomText   string          `json:"customText,omitempty"`
	SubmissionID string          `json:"submissionId,omitempty"`
	Text         string          `json:"text,omitempty"`
	Password     string          `json:"password,omitempty"`
	Command      string          `json:"command,omitempty"` // admin: "login" | "reset" | "addBot"
	Payload      json.RawMessage `json:"payload,omitempty"` // music passthrough
}

type ServerMessage struct {
	Type    string          `json:"type"` // "state" | "winner" | "gameOver" | "forceReload" | "chat" | "music" | "adminOK" | "adminFail" | "error"
	Version int             `json:"version,omitempty"`
	State   *game.Snapshot  `json:"state,omitempty"`
	You     string          `json:"you,omitempty"`  // recipient's player id
	Hand    []string        `json:"hand,omitempty"` // recipient's hand
	Name    string          `json:"name,omitempty"` // winner / gameOver subject
	From    string          `json:"from,omitempty"` // chat sender
	Text    string          `json:"text,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	Error   string          `json:"error,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
