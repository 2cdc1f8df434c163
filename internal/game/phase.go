package game

// Phase is the table's lifecycle phase.
type Phase string

const (
	PhaseLobby       Phase = "LOBBY"        // waiting for enough ready players
	PhaseRoundActive Phase = "ROUND_ACTIVE" // prompt out, collecting submissions
	PhaseJudging     Phase = "JUDGING"      // submissions closed, judge picking
	PhaseGameOver    Phase = "GAME_OVER"    // someone hit the win threshold
)

func (p Phase) String() string { return string(p) }
