package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Submission is one player's play for the current round. Judges pick by the
// opaque submission ID so player identity never crosses the wire.
type Submission struct {
	ID       string
	PlayerID string
	Text     string
}

// SubmissionView is the anonymized form exposed to clients once the round is
// complete.
type SubmissionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Round is the context of one active round. It is created at round start and
// destroyed when the round resolves or is discarded.
type Round struct {
	Gen       uint64
	Prompt    string
	JudgeID   string
	Accepting bool

	subs  map[string]*Submission // playerID -> submission
	order []*Submission          // presentation order; shuffled once complete
}

func newRound(gen uint64, prompt, judgeID string) *Round {
	return &Round{
		Gen:       gen,
		Prompt:    prompt,
		JudgeID:   judgeID,
		Accepting: true,
		subs:      make(map[string]*Submission),
	}
}

// record stores a submission for playerID. One per player per round.
func (r *Round) record(playerID, text string) (*Submission, error) {
	if !r.Accepting {
		return nil, ErrNotAccepting
	}
	if playerID == r.JudgeID {
		return nil, ErrJudgeCannotPlay
	}
	if _, dup := r.subs[playerID]; dup {
		return nil, ErrAlreadySubmitted
	}
	sub := &Submission{ID: uuid.NewString(), PlayerID: playerID, Text: text}
	r.subs[playerID] = sub
	r.order = append(r.order, sub)
	return sub, nil
}

// drop deletes any pending submission for playerID. A disconnect can turn an
// incomplete round complete, so callers must re-check completeness after.
func (r *Round) drop(playerID string) {
	sub, ok := r.subs[playerID]
	if !ok {
		return
	}
	delete(r.subs, playerID)
	for i, s := range r.order {
		if s == sub {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// complete reports whether every non-judge seat has played.
func (r *Round) complete(nonJudgeCount int) bool {
	return len(r.subs) >= nonJudgeCount
}

// close stops accepting plays and shuffles the presentation order exactly once,
// so the judge sees submissions in an identity-free random order.
func (r *Round) close(rng *rand.Rand) {
	if !r.Accepting {
		return
	}
	r.Accepting = false
	rng.Shuffle(len(r.order), func(i, j int) {
		r.order[i], r.order[j] = r.order[j], r.order[i]
	})
}

// bySubmissionID resolves a judge's pick.
func (r *Round) bySubmissionID(id string) (*Submission, bool) {
	for _, s := range r.order {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// views returns the anonymized submissions, only once the round has closed.
func (r *Round) views() []SubmissionView {
	if r.Accepting {
		return nil
	}
	out := make([]SubmissionView, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, SubmissionView{ID: s.ID, Text: s.Text})
	}
	return out
}
