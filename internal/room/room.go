package room

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cardczar/cah-table-backend/internal/auth"
	"github.com/cardczar/cah-table-backend/internal/config"
	"github.com/cardczar/cah-table-backend/internal/game"
	"github.com/cardczar/cah-table-backend/internal/types"
)

type Msg interface{ isRoomMsg() }

// Connect registers a connection's outbox before the player has joined, so it
// receives snapshots immediately (spectating the lobby).
type Connect struct {
	ClientID string
	Outbox   chan types.ServerMessage
}

type Disconnect struct{ ClientID string }

type Join struct {
	ClientID string
	Name     string
}

type ReadyUp struct{ ClientID string }

type Submit struct {
	ClientID   string
	Card       string
	CustomText string
}

type Pick struct {
	ClientID     string
	SubmissionID string
}

type Chat struct {
	ClientID string
	Text     string
}

type Music struct {
	ClientID string
	Payload  json.RawMessage
}

type Admin struct {
	ClientID string
	Password string
	Command  string
}

// GetView reflects internal state without data races; used by tests and the
// /state endpoint.
type GetView struct{ Reply chan View }

type Shutdown struct{}

type timerKind int

const (
	kindBot timerKind = iota
	kindAFK
	kindAdvance
	kindReset
)

type timerFired struct {
	gen  uint64
	kind timerKind
	id   string // bot id for kindBot
}

func (Connect) isRoomMsg()    {}
func (Disconnect) isRoomMsg() {}
func (Join) isRoomMsg()       {}
func (ReadyUp) isRoomMsg()    {}
func (Submit) isRoomMsg()     {}
func (Pick) isRoomMsg()       {}
func (Chat) isRoomMsg()       {}
func (Music) isRoomMsg()      {}
func (Admin) isRoomMsg()      {}
func (GetView) isRoomMsg()    {}
func (Shutdown) isRoomMsg()   {}
func (timerFired) isRoomMsg() {}

type View struct {
	Version    int
	NumClients int
	Gen        uint64
	Snapshot   game.Snapshot
}

// Room is the single-writer actor owning the table. Every inbound event
// (player action, disconnect, timer fire) is processed to completion on one
// goroutine; the game session is never touched from anywhere else. Timers
// re-enter as messages tagged with the round generation they belong to, so a
// superseded timer is a no-op.
type Room struct {
	inbox   chan Msg
	session *game.Session
	gate    *auth.Gate
	filter  game.TextFilter
	timing  config.TimingConfig
	chatMax int
	rng     *rand.Rand
	log     *zap.Logger

	clients map[string]chan types.ServerMessage
	joined  map[string]bool
	version int

	afkTimer   *time.Timer
	botTimers  map[string]*time.Timer
	nextTimer  *time.Timer
	resetTimer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
}

func NewRoom(parent context.Context, session *game.Session, gate *auth.Gate, f game.TextFilter,
	timing config.TimingConfig, chatMax int, rng *rand.Rand, log *zap.Logger) *Room {

	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:     make(chan Msg, 64),
		session:   session,
		gate:      gate,
		filter:    f,
		timing:    timing,
		chatMax:   chatMax,
		rng:       rng,
		log:       log,
		clients:   make(map[string]chan types.ServerMessage),
		joined:    make(map[string]bool),
		botTimers: make(map[string]*time.Timer),
		ctx:       ctx,
		cancel:    cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Connect:
				r.clients[msg.ClientID] = msg.Outbox
				r.sendTo(msg.ClientID, r.stateFor(msg.ClientID))

			case Disconnect:
				delete(r.clients, msg.ClientID)
				if r.joined[msg.ClientID] {
					delete(r.joined, msg.ClientID)
					events, err := r.session.Remove(msg.ClientID)
					if err == nil {
						r.handleEvents(events)
						r.broadcastState()
					}
				}

			case Join:
				events, err := r.session.Join(msg.ClientID, msg.Name)
				if err != nil {
					r.sendErr(msg.ClientID, err)
					break
				}
				r.joined[msg.ClientID] = true
				r.handleEvents(events)
				r.broadcastState()

			case ReadyUp:
				events, err := r.session.Ready(msg.ClientID)
				if err != nil {
					r.sendErr(msg.ClientID, err)
					break
				}
				r.handleEvents(events)
				r.broadcastState()

			case Submit:
				events, err := r.session.Submit(msg.ClientID, msg.Card, msg.CustomText)
				if err != nil {
					r.sendErr(msg.ClientID, err)
					break
				}
				r.handleEvents(events)
				r.broadcastState()

			case Pick:
				events, err := r.session.PickWinner(msg.ClientID, msg.SubmissionID)
				if err != nil {
					r.sendErr(msg.ClientID, err)
					break
				}
				r.handleEvents(events)
				r.broadcastState()

			case Chat:
				if !r.joined[msg.ClientID] {
					break
				}
				p, ok := r.session.Player(msg.ClientID)
				if !ok {
					break
				}
				r.broadcastMsg(types.ServerMessage{
					Type: "chat",
					From: p.Name,
					Text: r.filter.Clean(msg.Text, r.chatMax),
				})

			case Music:
				r.broadcastMsg(types.ServerMessage{Type: "music", Payload: msg.Payload})

			case Admin:
				r.handleAdmin(msg)

			case GetView:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					Gen:        r.session.Gen(),
					Snapshot:   r.session.Snapshot(),
				}

			case timerFired:
				r.handleTimer(msg)

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleAdmin(msg Admin) {
	if !r.gate.Verify(msg.Password) {
		r.log.Warn("admin auth failed", zap.String("client", msg.ClientID))
		r.sendTo(msg.ClientID, types.ServerMessage{Type: "adminFail"})
		return
	}
	switch msg.Command {
	case "login":
		r.sendTo(msg.ClientID, types.ServerMessage{Type: "adminOK"})

	case "reset":
		r.log.Info("admin reset")
		r.handleEvents(r.session.Reset())
		r.broadcastState()

	case "addBot":
		events, err := r.session.AddBot(uuid.NewString())
		if err != nil {
			r.sendErr(msg.ClientID, err)
			return
		}
		r.handleEvents(events)
		r.syncBotTimers()
		r.broadcastState()

	default:
		r.sendErr(msg.ClientID, game.ErrNotAccepting)
	}
}

func (r *Room) handleTimer(msg timerFired) {
	switch msg.kind {
	case kindBot:
		delete(r.botTimers, msg.id)
		events, err := r.session.BotPlay(msg.gen, msg.id)
		if err != nil {
			r.log.Warn("bot play rejected", zap.String("bot", msg.id), zap.Error(err))
			return
		}
		r.handleEvents(events)
		r.broadcastState()

	case kindAFK:
		events := r.session.DeadlineExpire(msg.gen)
		if len(events) == 0 {
			return // stale deadline, already handled
		}
		r.handleEvents(events)
		r.broadcastState()

	case kindAdvance:
		events := r.session.AdvanceRound(msg.gen)
		if len(events) == 0 {
			return
		}
		r.handleEvents(events)
		r.broadcastState()

	case kindReset:
		if r.session.Phase() != game.PhaseGameOver {
			return
		}
		r.handleEvents(r.session.Reset())
		r.broadcastState()
	}
}

// handleEvents reacts to table transitions: arming and canceling timers and
// emitting the discrete client notifications.
func (r *Room) handleEvents(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EvtRoundStarted:
			r.cancelRoundTimers()
			r.stopTimer(&r.nextTimer)
			r.armAFK(ev.Gen)
			r.syncBotTimers()
			r.log.Info("round started", zap.Uint64("gen", ev.Gen))

		case game.EvtJudgingStarted:
			// Submissions closed; the deadline no longer applies.
			r.cancelRoundTimers()

		case game.EvtWinnerPicked:
			r.cancelRoundTimers()
			r.broadcastMsg(types.ServerMessage{Type: "winner", Name: ev.Name})
			if !game.ContainsEvent(events, game.EvtGameOver) {
				r.armAdvance(r.session.Gen())
			}

		case game.EvtGameOver:
			r.cancelRoundTimers()
			r.stopTimer(&r.nextTimer)
			r.broadcastMsg(types.ServerMessage{Type: "gameOver", Name: ev.Name})
			r.armReset()
			r.log.Info("game over", zap.String("winner", ev.Name))

		case game.EvtForcedLobby:
			r.cancelRoundTimers()
			r.stopTimer(&r.nextTimer)
			r.log.Info("forced back to lobby", zap.String("reason", ev.Reason))

		case game.EvtPlayerEvicted:
			delete(r.joined, ev.PlayerID)
			r.sendTo(ev.PlayerID, types.ServerMessage{Type: "forceReload", Reason: ev.Reason})
			r.log.Info("player evicted", zap.String("player", ev.Name), zap.String("reason", ev.Reason))

		case game.EvtGameReset:
			r.cancelRoundTimers()
			r.stopTimer(&r.nextTimer)
			r.stopTimer(&r.resetTimer)
			r.joined = make(map[string]bool)
			r.broadcastMsg(types.ServerMessage{Type: "forceReload", Reason: "table reset"})
		}
	}
}

func (r *Room) armAFK(gen uint64) {
	r.afkTimer = time.AfterFunc(r.timing.AFKDeadline, func() {
		r.post(timerFired{gen: gen, kind: kindAFK})
	})
}

func (r *Room) armAdvance(gen uint64) {
	r.nextTimer = time.AfterFunc(r.timing.NextRoundDelay, func() {
		r.post(timerFired{gen: gen, kind: kindAdvance})
	})
}

func (r *Room) armReset() {
	r.resetTimer = time.AfterFunc(r.timing.GameOverReset, func() {
		r.post(timerFired{kind: kindReset})
	})
}

// syncBotTimers arms one randomized-delay timer per bot that still owes a
// play. Idempotent, so it also covers a bot added mid-round.
func (r *Room) syncBotTimers() {
	gen := r.session.Gen()
	for _, id := range r.session.PendingBots() {
		if _, armed := r.botTimers[id]; armed {
			continue
		}
		delay := r.timing.BotDelayMin
		if window := r.timing.BotDelayMax - r.timing.BotDelayMin; window > 0 {
			delay += time.Duration(r.rng.Int63n(int64(window)))
		}
		botID := id
		r.botTimers[id] = time.AfterFunc(delay, func() {
			r.post(timerFired{gen: gen, kind: kindBot, id: botID})
		})
	}
}

func (r *Room) cancelRoundTimers() {
	r.stopTimer(&r.afkTimer)
	for id, t := range r.botTimers {
		t.Stop()
		delete(r.botTimers, id)
	}
}

func (r *Room) stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}

// post re-enters the actor loop from a timer goroutine.
func (r *Room) post(m Msg) {
	select {
	case r.inbox <- m:
	case <-r.ctx.Done():
	}
}

func (r *Room) stateFor(clientID string) types.ServerMessage {
	snap := r.session.Snapshot()
	msg := types.ServerMessage{Type: "state", Version: r.version, State: &snap, You: clientID}
	if r.joined[clientID] {
		msg.Hand = r.session.HandOf(clientID)
	}
	return msg
}

// broadcastState emits one personalized snapshot per client after a mutation.
func (r *Room) broadcastState() {
	r.version++
	snap := r.session.Snapshot()
	for id := range r.clients {
		perClient := snap
		msg := types.ServerMessage{Type: "state", Version: r.version, State: &perClient, You: id}
		if r.joined[id] {
			msg.Hand = r.session.HandOf(id)
		}
		r.sendTo(id, msg)
	}
}

func (r *Room) broadcastMsg(msg types.ServerMessage) {
	for id := range r.clients {
		r.sendTo(id, msg)
	}
}

func (r *Room) sendErr(clientID string, err error) {
	r.sendTo(clientID, types.ServerMessage{Type: "error", Error: err.Error()})
}

func (r *Room) sendTo(clientID string, msg types.ServerMessage) {
	ch, ok := r.clients[clientID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		// Client is slow/full - drop them. The transport layer notices the
		// closed channel and tears the connection down.
		close(ch)
		delete(r.clients, clientID)
	}
}

func (r *Room) shutdown() {
	r.cancelRoundTimers()
	r.stopTimer(&r.nextTimer)
	r.stopTimer(&r.resetTimer)
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
