package game

// Snapshot is the broadcast-ready view of the table emitted after every
// mutation. Submissions appear only once the round has closed, in their
// anonymized order. Hands are personalized by the room per recipient.
type Snapshot struct {
	Phase          Phase            `json:"phase"`
	Players        []Info           `json:"players"`
	Prompt         string           `json:"promptCard,omitempty"`
	Submissions    []SubmissionView `json:"submissions,omitempty"`
	SubmittedCount int              `json:"submittedCount"`
	JudgeName      string           `json:"judgeName,omitempty"`
	ReadyCount     int              `json:"readyCount"`
	Round          int              `json:"round"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:   s.phase,
		Players: make([]Info, 0, len(s.order)),
		Round:   s.roundsPlayed,
	}
	for _, id := range s.order {
		p := s.players[id]
		snap.Players = append(snap.Players, p.ToInfo())
		if !p.IsBot() && p.Ready {
			snap.ReadyCount++
		}
		if p.IsJudge {
			snap.JudgeName = p.Name
		}
	}
	if s.round != nil {
		snap.Prompt = s.round.Prompt
		snap.Submissions = s.round.views()
		snap.SubmittedCount = len(s.round.subs)
	}
	return snap
}
