package game

// EventType identifies a table-level transition the room reacts to: arming or
// canceling timers and emitting discrete client notifications.
type EventType string

const (
	EvtRoundStarted   EventType = "RoundStarted"   // new round, Gen carries the generation
	EvtJudgingStarted EventType = "JudgingStarted" // submissions complete and shuffled
	EvtWinnerPicked   EventType = "WinnerPicked"   // Name/PlayerID of the round winner
	EvtGameOver       EventType = "GameOver"       // Name hit the win threshold
	EvtForcedLobby    EventType = "ForcedLobby"    // round discarded, back to lobby
	EvtPlayerEvicted  EventType = "PlayerEvicted"  // PlayerID missed the round deadline
	EvtGameReset      EventType = "GameReset"      // table wiped, everyone must rejoin
)

type Event struct {
	Type     EventType
	Gen      uint64
	PlayerID string
	Name     string
	Reason   string
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
