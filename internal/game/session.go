package game

import (
	"math/rand"
	"strings"

	"github.com/cardczar/cah-table-backend/internal/deck"
)

// Rules are the table parameters. See internal/config for the env knobs.
type Rules struct {
	HandSize      int
	MinPlayers    int
	WinThreshold  int
	NameMax       int
	CustomTextMax int
	RequireReady  bool
}

// TextFilter cleans free text from blank-card submissions. Pure function, no
// side effects.
type TextFilter interface {
	Clean(s string, max int) string
}

// BlankPlaceholder is what a bot plays when it auto-selects the blank card.
const BlankPlaceholder = "a deeply uncomfortable silence"

var botNames = []string{
	"Botrick", "Robotica", "Beep", "Circuit", "Servo", "Gigawatt", "Crouton",
}

// Session is the root aggregate for one table: player registry, current round
// context, judge rotation and phase. It has no goroutines and no locks; the
// room actor is its single writer. Mutating methods return the events the room
// reacts to (timer arming, discrete client notifications).
type Session struct {
	rules  Rules
	deck   *deck.Deck
	filter TextFilter
	rng    *rand.Rand

	phase        Phase
	order        []string // seat ids in join order; rotation runs over this
	players      map[string]*Player
	round        *Round
	gen          uint64 // round generation; stale timers check against this
	lastJudgeID  string
	roundsPlayed int
	botSeq       int
}

func NewSession(rules Rules, d *deck.Deck, f TextFilter, rng *rand.Rand) *Session {
	return &Session{
		rules:   rules,
		deck:    d,
		filter:  f,
		rng:     rng,
		phase:   PhaseLobby,
		players: make(map[string]*Player),
	}
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Gen() uint64  { return s.gen }

// Players returns the seats in join order.
func (s *Session) Players() []*Player {
	out := make([]*Player, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.players[id])
	}
	return out
}

func (s *Session) Player(id string) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// HandOf returns the player's current hand, for snapshot personalization.
func (s *Session) HandOf(id string) []string {
	p, ok := s.players[id]
	if !ok {
		return nil
	}
	return append([]string(nil), p.Hand...)
}

// PendingBots lists bots that still owe a play this round.
func (s *Session) PendingBots() []string {
	if s.phase != PhaseRoundActive {
		return nil
	}
	var ids []string
	for _, id := range s.order {
		p := s.players[id]
		if p.IsBot() && !p.IsJudge && !p.HasSubmitted {
			ids = append(ids, id)
		}
	}
	return ids
}

// Join seats a new human player with a freshly dealt hand. Blank names are
// rejected, overlong names truncated.
func (s *Session) Join(id, name string) ([]Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.seat(id, truncateRunes(name, s.rules.NameMax), KindHuman)
}

// AddBot seats a bot player. Bots never need to ready up.
func (s *Session) AddBot(id string) ([]Event, error) {
	name := botNames[s.botSeq%len(botNames)]
	s.botSeq++
	return s.seat(id, name, KindBot)
}

func (s *Session) seat(id, name string, kind Kind) ([]Event, error) {
	if _, dup := s.players[id]; dup {
		return nil, ErrAlreadyJoined
	}
	hand, err := s.deal(s.rules.HandSize)
	if err != nil {
		return nil, err
	}
	s.players[id] = &Player{
		ID:    id,
		Name:  name,
		Kind:  kind,
		Hand:  hand,
		Ready: kind == KindBot,
	}
	s.order = append(s.order, id)
	return s.maybeStart(), nil
}

// Ready marks a human player ready. With readiness gating on, the first round
// starts once every human at a full table is ready.
func (s *Session) Ready(id string) ([]Event, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if p.Ready {
		return nil, nil
	}
	p.Ready = true
	return s.maybeStart(), nil
}

// Submit records a play for the current round. The played card leaves the hand
// and exactly one fresh draw replaces it, for bots and humans alike.
func (s *Session) Submit(id, card, custom string) ([]Event, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if s.phase != PhaseRoundActive || s.round == nil {
		return nil, ErrNotAccepting
	}
	if p.IsJudge {
		return nil, ErrJudgeCannotPlay
	}
	if p.HasSubmitted {
		return nil, ErrAlreadySubmitted
	}
	if !p.holdsCard(card) {
		return nil, ErrCardNotInHand
	}
	text := card
	if card == deck.Blank {
		if strings.TrimSpace(custom) == "" {
			return nil, ErrBlankNeedsText
		}
		text = s.filter.Clean(custom, s.rules.CustomTextMax)
	}
	if _, err := s.round.record(id, text); err != nil {
		return nil, err
	}
	p.dropCard(card)
	if fresh, err := s.deck.DrawResponse(); err == nil {
		p.Hand = append(p.Hand, fresh)
	}
	p.HasSubmitted = true
	return s.checkComplete(), nil
}

// PickWinner resolves the round. Only the current judge may pick, only while
// judging, and only a submission id from this round counts.
func (s *Session) PickWinner(callerID, submissionID string) ([]Event, error) {
	if s.phase != PhaseJudging || s.round == nil {
		return nil, ErrNotJudge
	}
	if callerID != s.round.JudgeID {
		return nil, ErrNotJudge
	}
	sub, ok := s.round.bySubmissionID(submissionID)
	if !ok {
		return nil, ErrUnknownWinner
	}
	winner, ok := s.players[sub.PlayerID]
	if !ok {
		return nil, ErrUnknownWinner
	}
	winner.Score++
	for _, pid := range s.order {
		s.players[pid].IsJudge = false
	}
	s.round = nil
	events := []Event{{Type: EvtWinnerPicked, Gen: s.gen, PlayerID: winner.ID, Name: winner.Name}}
	if winner.Score >= s.rules.WinThreshold {
		s.phase = PhaseGameOver
		events = append(events, Event{Type: EvtGameOver, Gen: s.gen, PlayerID: winner.ID, Name: winner.Name})
	}
	return events, nil
}

// AdvanceRound starts the next round after the celebratory delay. gen guards
// against a stale timer racing a reset or force-lobby.
func (s *Session) AdvanceRound(gen uint64) []Event {
	if s.phase != PhaseJudging || s.round != nil || gen != s.gen {
		return nil
	}
	events, _ := s.beginRound()
	return events
}

// Remove takes a player out of the registry, dropping any pending submission.
// Losing the judge discards the round and rotates straight into the next one.
func (s *Session) Remove(id string) ([]Event, error) {
	p, ok := s.players[id]
	if !ok {
		return nil, ErrUnknownPlayer
	}
	wasJudge := p.IsJudge
	s.removeSeat(id)

	if s.phase != PhaseRoundActive && s.phase != PhaseJudging {
		return nil, nil
	}
	if len(s.order) < s.rules.MinPlayers {
		return s.forceLobby("not enough players"), nil
	}
	if s.round == nil {
		return nil, nil
	}
	if wasJudge {
		s.round = nil
		events, _ := s.beginRound()
		return events, nil
	}
	return s.checkComplete(), nil
}

// DeadlineExpire handles the AFK timer: every non-judge seat that has not
// submitted is evicted, then the round force-advances. Stale generations are
// already handled and do nothing.
func (s *Session) DeadlineExpire(gen uint64) []Event {
	if s.phase != PhaseRoundActive || s.round == nil || s.round.Gen != gen {
		return nil
	}
	var events []Event
	for _, id := range append([]string(nil), s.order...) {
		p := s.players[id]
		if p.IsJudge || p.HasSubmitted {
			continue
		}
		events = append(events, Event{Type: EvtPlayerEvicted, Gen: gen, PlayerID: id, Name: p.Name, Reason: "missed the round deadline"})
		s.removeSeat(id)
	}
	s.round = nil
	if len(s.order) < s.rules.MinPlayers {
		return append(events, s.forceLobby("not enough players")...)
	}
	next, _ := s.beginRound()
	return append(events, next...)
}

// BotPlay auto-submits a uniformly random hand card for a bot, through the
// normal submission path so every invariant applies identically. Stale or
// irrelevant fires are no-ops.
func (s *Session) BotPlay(gen uint64, botID string) ([]Event, error) {
	if s.phase != PhaseRoundActive || s.round == nil || s.round.Gen != gen {
		return nil, nil
	}
	p, ok := s.players[botID]
	if !ok || !p.IsBot() || p.IsJudge || p.HasSubmitted || len(p.Hand) == 0 {
		return nil, nil
	}
	card := p.Hand[s.rng.Intn(len(p.Hand))]
	custom := ""
	if card == deck.Blank {
		custom = BlankPlaceholder
	}
	return s.Submit(botID, card, custom)
}

// Reset wipes the table back to an empty lobby. Everyone must rejoin.
func (s *Session) Reset() []Event {
	s.players = make(map[string]*Player)
	s.order = nil
	s.round = nil
	s.phase = PhaseLobby
	s.lastJudgeID = ""
	s.gen++
	s.roundsPlayed = 0
	s.botSeq = 0
	return []Event{{Type: EvtGameReset, Gen: s.gen}}
}

func (s *Session) maybeStart() []Event {
	if s.phase != PhaseLobby || len(s.order) < s.rules.MinPlayers {
		return nil
	}
	if s.rules.RequireReady {
		for _, id := range s.order {
			p := s.players[id]
			if !p.IsBot() && !p.Ready {
				return nil
			}
		}
	}
	// An empty prompt pool refuses the round and keeps us in the lobby.
	events, err := s.beginRound()
	if err != nil {
		return nil
	}
	return events
}

func (s *Session) beginRound() ([]Event, error) {
	if len(s.order) < s.rules.MinPlayers {
		return s.forceLobby("not enough players"), nil
	}
	prompt, err := s.deck.DrawPrompt()
	if err != nil {
		var events []Event
		if s.phase != PhaseLobby {
			events = s.forceLobby("prompt pool empty")
		}
		return events, err
	}
	s.gen++
	s.roundsPlayed++
	judgeID := s.nextJudge()
	s.lastJudgeID = judgeID
	for _, id := range s.order {
		p := s.players[id]
		p.HasSubmitted = false
		p.IsJudge = id == judgeID
		s.topUp(p)
	}
	s.round = newRound(s.gen, prompt, judgeID)
	s.phase = PhaseRoundActive
	return []Event{{Type: EvtRoundStarted, Gen: s.gen}}, nil
}

// nextJudge is the successor of the previous judge's id in the live seat
// order, wrapping. Removals shift who is next; that is accepted.
func (s *Session) nextJudge() string {
	if len(s.order) == 0 {
		return ""
	}
	if s.lastJudgeID == "" {
		return s.order[0]
	}
	for i, id := range s.order {
		if id == s.lastJudgeID {
			return s.order[(i+1)%len(s.order)]
		}
	}
	return s.order[0]
}

func (s *Session) removeSeat(id string) {
	if _, ok := s.players[id]; !ok {
		return
	}
	for i, pid := range s.order {
		if pid != id {
			continue
		}
		if id == s.lastJudgeID {
			// Re-anchor rotation on the previous seat so the judge after a
			// departed judge is still the seat that followed them.
			if len(s.order) > 1 {
				s.lastJudgeID = s.order[(i-1+len(s.order))%len(s.order)]
			} else {
				s.lastJudgeID = ""
			}
		}
		s.order = append(s.order[:i], s.order[i+1:]...)
		break
	}
	delete(s.players, id)
	if s.round != nil {
		s.round.drop(id)
	}
}

func (s *Session) checkComplete() []Event {
	if s.round == nil || !s.round.Accepting {
		return nil
	}
	if !s.round.complete(len(s.order) - 1) {
		return nil
	}
	s.round.close(s.rng)
	s.phase = PhaseJudging
	return []Event{{Type: EvtJudgingStarted, Gen: s.round.Gen}}
}

func (s *Session) forceLobby(reason string) []Event {
	s.round = nil
	s.phase = PhaseLobby
	for _, id := range s.order {
		p := s.players[id]
		p.IsJudge = false
		p.HasSubmitted = false
	}
	return []Event{{Type: EvtForcedLobby, Gen: s.gen, Reason: reason}}
}

func (s *Session) deal(n int) ([]string, error) {
	hand := make([]string, 0, n)
	for i := 0; i < n; i++ {
		card, err := s.deck.DrawResponse()
		if err != nil {
			return nil, err
		}
		hand = append(hand, card)
	}
	return hand, nil
}

// topUp refills a hand to HandSize, one draw at a time.
func (s *Session) topUp(p *Player) {
	for len(p.Hand) < s.rules.HandSize {
		card, err := s.deck.DrawResponse()
		if err != nil {
			return
		}
		p.Hand = append(p.Hand, card)
	}
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
