package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardczar/cah-table-backend/internal/deck"
)

type passthroughFilter struct{}

func (passthroughFilter) Clean(s string, max int) string { return truncateRunes(s, max) }

func testRules() Rules {
	return Rules{
		HandSize:      4,
		MinPlayers:    3,
		WinThreshold:  10,
		NameMax:       15,
		CustomTextMax: 140,
	}
}

func newTestSession(rules Rules) *Session {
	rng := rand.New(rand.NewSource(7))
	prompts := make([]string, 8)
	for i := range prompts {
		prompts[i] = fmt.Sprintf("prompt-%d", i)
	}
	responses := make([]string, 30)
	for i := range responses {
		responses[i] = fmt.Sprintf("card-%d", i)
	}
	return NewSession(rules, deck.New(prompts, responses, 0, rng), passthroughFilter{}, rng)
}

// seatThree joins p1, p2, p3 in order and returns the events of the last join.
func seatThree(t *testing.T, s *Session) []Event {
	t.Helper()
	_, err := s.Join("p1", "P1")
	require.NoError(t, err)
	_, err = s.Join("p2", "P2")
	require.NoError(t, err)
	events, err := s.Join("p3", "P3")
	require.NoError(t, err)
	return events
}

func judgeCount(s *Session) int {
	n := 0
	for _, p := range s.Players() {
		if p.IsJudge {
			n++
		}
	}
	return n
}

// submitFirstCard plays the first card in the player's hand and returns its text.
func submitFirstCard(t *testing.T, s *Session, id string) (string, []Event) {
	t.Helper()
	hand := s.HandOf(id)
	require.NotEmpty(t, hand)
	events, err := s.Submit(id, hand[0], "")
	require.NoError(t, err)
	return hand[0], events
}

func submissionIDFor(t *testing.T, s *Session, text string) string {
	t.Helper()
	for _, v := range s.Snapshot().Submissions {
		if v.Text == text {
			return v.ID
		}
	}
	t.Fatalf("no submission with text %q", text)
	return ""
}

func TestJoinRejectsBlankNamesAndTruncatesLongOnes(t *testing.T) {
	s := newTestSession(testRules())

	_, err := s.Join("x", "   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = s.Join("p1", "AVeryVeryLongDisplayName")
	require.NoError(t, err)
	p, _ := s.Player("p1")
	assert.Equal(t, "AVeryVeryLongDi", p.Name)
	assert.Len(t, p.Hand, 4, "hand dealt to HandSize on join")
}

func TestThirdJoinStartsRoundWithFirstSeatJudging(t *testing.T) {
	s := newTestSession(testRules())
	events := seatThree(t, s)

	assert.True(t, ContainsEvent(events, EvtRoundStarted))
	assert.Equal(t, PhaseRoundActive, s.Phase())
	p1, _ := s.Player("p1")
	assert.True(t, p1.IsJudge, "judge = first seat on the first rotation")
	assert.Equal(t, 1, judgeCount(s))
	assert.NotEmpty(t, s.Snapshot().Prompt)
}

func TestReadyGatingHoldsStartUntilAllHumansReady(t *testing.T) {
	rules := testRules()
	rules.RequireReady = true
	s := newTestSession(rules)

	seatThree(t, s)
	assert.Equal(t, PhaseLobby, s.Phase())

	_, err := s.Ready("p1")
	require.NoError(t, err)
	_, err = s.Ready("p2")
	require.NoError(t, err)
	assert.Equal(t, PhaseLobby, s.Phase())

	events, err := s.Ready("p3")
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtRoundStarted))
	assert.Equal(t, PhaseRoundActive, s.Phase())
}

func TestBotsCountTowardMinimumWithoutReadying(t *testing.T) {
	rules := testRules()
	rules.RequireReady = true
	s := newTestSession(rules)

	_, err := s.Join("p1", "P1")
	require.NoError(t, err)
	_, err = s.Join("p2", "P2")
	require.NoError(t, err)
	_, err = s.AddBot("b1")
	require.NoError(t, err)

	_, err = s.Ready("p1")
	require.NoError(t, err)
	events, err := s.Ready("p2")
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtRoundStarted), "bot is always ready")
}

// Scenario: P2 and P3 submit, judge P1 picks P2, next round starts with P2 judging.
func TestFullRoundWinnerAndRotation(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	p2card, events := submitFirstCard(t, s, "p2")
	assert.False(t, ContainsEvent(events, EvtJudgingStarted))
	assert.Empty(t, s.Snapshot().Submissions, "submissions hidden until complete")

	_, events = submitFirstCard(t, s, "p3")
	assert.True(t, ContainsEvent(events, EvtJudgingStarted))
	assert.Equal(t, PhaseJudging, s.Phase())
	assert.Len(t, s.Snapshot().Submissions, 2)

	events, err := s.PickWinner("p1", submissionIDFor(t, s, p2card))
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtWinnerPicked))
	p2, _ := s.Player("p2")
	assert.Equal(t, 1, p2.Score)
	assert.Equal(t, 0, judgeCount(s), "no judge between rounds")

	events = s.AdvanceRound(s.Gen())
	assert.True(t, ContainsEvent(events, EvtRoundStarted))
	p2, _ = s.Player("p2")
	assert.True(t, p2.IsJudge, "judge rotates to P2")
}

func TestHandSizeRoundTrip(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	for _, p := range s.Players() {
		assert.Len(t, p.Hand, 4)
	}
	submitFirstCard(t, s, "p2")
	p2, _ := s.Player("p2")
	assert.Len(t, p2.Hand, 4, "played card replaced by exactly one draw")
	assert.True(t, p2.HasSubmitted)
}

func TestSubmissionRejections(t *testing.T) {
	s := newTestSession(testRules())

	_, err := s.Submit("ghost", "card", "")
	assert.ErrorIs(t, err, ErrUnknownPlayer)

	_, err = s.Join("p1", "P1")
	require.NoError(t, err)
	_, err = s.Submit("p1", s.HandOf("p1")[0], "")
	assert.ErrorIs(t, err, ErrNotAccepting, "no round in the lobby")

	seatTwoMore(t, s)

	_, err = s.Submit("p1", s.HandOf("p1")[0], "")
	assert.ErrorIs(t, err, ErrJudgeCannotPlay)

	_, err = s.Submit("p2", "not-in-hand", "")
	assert.ErrorIs(t, err, ErrCardNotInHand)

	submitFirstCard(t, s, "p2")
	_, err = s.Submit("p2", s.HandOf("p2")[0], "")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func seatTwoMore(t *testing.T, s *Session) {
	t.Helper()
	_, err := s.Join("p2", "P2")
	require.NoError(t, err)
	_, err = s.Join("p3", "P3")
	require.NoError(t, err)
}

func TestBlankCardNeedsCustomText(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	p2, _ := s.Player("p2")
	p2.Hand[0] = deck.Blank

	_, err := s.Submit("p2", deck.Blank, "  ")
	assert.ErrorIs(t, err, ErrBlankNeedsText)

	_, err = s.Submit("p2", deck.Blank, "something I typed")
	require.NoError(t, err)
	submitFirstCard(t, s, "p3")

	assert.NotEqual(t, "", submissionIDFor(t, s, "something I typed"),
		"stored text is the custom text, not the sentinel")
}

func TestPickWinnerGuards(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	_, err := s.PickWinner("p1", "whatever")
	assert.ErrorIs(t, err, ErrNotJudge, "table not complete yet")

	p2card, _ := submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p3")

	_, err = s.PickWinner("p2", submissionIDFor(t, s, p2card))
	assert.ErrorIs(t, err, ErrNotJudge)

	_, err = s.PickWinner("p1", "no-such-submission")
	assert.ErrorIs(t, err, ErrUnknownWinner)

	winID := submissionIDFor(t, s, p2card)
	_, err = s.PickWinner("p1", winID)
	require.NoError(t, err)

	// Idempotence: the same pick again is rejected, score stays at 1.
	_, err = s.PickWinner("p1", winID)
	assert.ErrorIs(t, err, ErrNotJudge)
	p2, _ := s.Player("p2")
	assert.Equal(t, 1, p2.Score)
}

// Scenario: a player at threshold-1 wins the round and the game ends.
func TestWinThresholdEndsGame(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	p2, _ := s.Player("p2")
	p2.Score = 9

	p2card, _ := submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p3")

	events, err := s.PickWinner("p1", submissionIDFor(t, s, p2card))
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtGameOver))
	assert.Equal(t, PhaseGameOver, s.Phase())

	assert.Empty(t, s.AdvanceRound(s.Gen()), "no new round after game over")
}

// Scenario: a disconnect can turn an incomplete round complete.
func TestDisconnectCompletesRound(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)
	_, err := s.Join("p4", "P4")
	require.NoError(t, err)

	submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p4")

	events, err := s.Remove("p3")
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtJudgingStarted))
	assert.Equal(t, PhaseJudging, s.Phase())
	assert.Len(t, s.Snapshot().Submissions, 2)
}

// Scenario: dropping below the minimum forces the lobby and discards the round.
func TestDropBelowMinimumForcesLobby(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	submitFirstCard(t, s, "p2")
	events, err := s.Remove("p3")
	require.NoError(t, err)

	assert.True(t, ContainsEvent(events, EvtForcedLobby))
	assert.Equal(t, PhaseLobby, s.Phase())
	assert.Equal(t, 0, judgeCount(s))
	snap := s.Snapshot()
	assert.Empty(t, snap.Prompt)
	assert.Empty(t, snap.Submissions)
}

func TestJudgeLeavingRestartsRoundWithRotatedJudge(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)
	_, err := s.Join("p4", "P4")
	require.NoError(t, err)

	submitFirstCard(t, s, "p2")

	events, err := s.Remove("p1")
	require.NoError(t, err)
	assert.True(t, ContainsEvent(events, EvtRoundStarted))
	assert.Equal(t, PhaseRoundActive, s.Phase())
	p2, _ := s.Player("p2")
	assert.True(t, p2.IsJudge, "rotation anchored past the departed judge")
	assert.Equal(t, 1, judgeCount(s))
	p4, _ := s.Player("p4")
	assert.False(t, p4.HasSubmitted, "fresh round cleared submission flags")
}

// Scenario: deadline fires, the idle player is evicted, the round force-advances.
func TestDeadlineEvictsIdlePlayers(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)
	_, err := s.Join("p4", "P4")
	require.NoError(t, err)

	submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p3")
	gen := s.Gen()

	events := s.DeadlineExpire(gen)
	assert.True(t, ContainsEvent(events, EvtPlayerEvicted))
	assert.True(t, ContainsEvent(events, EvtRoundStarted), "three seats remain, round force-advances")
	_, evicted := s.Player("p4")
	assert.False(t, evicted)
	p2, _ := s.Player("p2")
	assert.True(t, p2.IsJudge, "judge rotated")
}

func TestDeadlineBelowMinimumForcesLobby(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	gen := s.Gen()
	events := s.DeadlineExpire(gen)

	evictions := 0
	for _, ev := range events {
		if ev.Type == EvtPlayerEvicted {
			evictions++
		}
	}
	assert.Equal(t, 2, evictions, "both idle non-judges evicted")
	assert.True(t, ContainsEvent(events, EvtForcedLobby))
	assert.Equal(t, PhaseLobby, s.Phase())
}

func TestStaleDeadlineIsNoOp(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)
	stale := s.Gen()

	p2card, _ := submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p3")
	_, err := s.PickWinner("p1", submissionIDFor(t, s, p2card))
	require.NoError(t, err)
	s.AdvanceRound(s.Gen())

	assert.Empty(t, s.DeadlineExpire(stale), "superseded generation already handled")
	assert.Equal(t, PhaseRoundActive, s.Phase())
}

func TestBotAutoPlayGoesThroughNormalPath(t *testing.T) {
	s := newTestSession(testRules())
	_, err := s.Join("p1", "P1")
	require.NoError(t, err)
	_, err = s.Join("p2", "P2")
	require.NoError(t, err)
	_, err = s.AddBot("b1")
	require.NoError(t, err)

	require.Equal(t, PhaseRoundActive, s.Phase())
	require.Equal(t, []string{"b1"}, s.PendingBots())

	_, err = s.BotPlay(s.Gen(), "b1")
	require.NoError(t, err)
	bot, _ := s.Player("b1")
	assert.True(t, bot.HasSubmitted)
	assert.Len(t, bot.Hand, 4, "bot hand refilled like a human's")
	assert.Empty(t, s.PendingBots())

	// A duplicate fire is a no-op.
	events, err := s.BotPlay(s.Gen(), "b1")
	assert.NoError(t, err)
	assert.Empty(t, events)
}

func TestBotPlaysPlaceholderForBlank(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)
	_, err := s.AddBot("b1")
	require.NoError(t, err)

	bot, _ := s.Player("b1")
	for i := range bot.Hand {
		bot.Hand[i] = deck.Blank
	}
	_, err = s.BotPlay(s.Gen(), "b1")
	require.NoError(t, err)

	submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p3")
	assert.NotEqual(t, "", submissionIDFor(t, s, BlankPlaceholder))
}

func TestEmptyPromptPoolRefusesToStart(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	responses := make([]string, 20)
	for i := range responses {
		responses[i] = fmt.Sprintf("card-%d", i)
	}
	s := NewSession(testRules(), deck.New(nil, responses, 0, rng), passthroughFilter{}, rng)

	seatThree(t, s)
	assert.Equal(t, PhaseLobby, s.Phase(), "round start refused, not crashed")
}

func TestResetWipesTable(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)

	events := s.Reset()
	assert.True(t, ContainsEvent(events, EvtGameReset))
	assert.Equal(t, PhaseLobby, s.Phase())
	assert.Empty(t, s.Players())
	assert.Empty(t, s.Snapshot().Players)
}

func TestSubmissionViewsCarryNoIdentityAndUniqueIDs(t *testing.T) {
	s := newTestSession(testRules())
	seatThree(t, s)
	_, err := s.Join("p4", "P4")
	require.NoError(t, err)

	submitFirstCard(t, s, "p2")
	submitFirstCard(t, s, "p3")
	submitFirstCard(t, s, "p4")

	views := s.Snapshot().Submissions
	require.Len(t, views, 3)
	ids := make(map[string]bool)
	for _, v := range views {
		assert.NotEmpty(t, v.ID)
		assert.False(t, ids[v.ID])
		ids[v.ID] = true
		assert.NotContains(t, []string{"p2", "p3", "p4"}, v.ID,
			"submission ids are opaque, never player ids")
	}
}

func TestSnapshotCountsReadyHumansOnly(t *testing.T) {
	rules := testRules()
	rules.RequireReady = true
	s := newTestSession(rules)

	_, err := s.Join("p1", "P1")
	require.NoError(t, err)
	_, err = s.AddBot("b1")
	require.NoError(t, err)
	_, err = s.Ready("p1")
	require.NoError(t, err)

	assert.Equal(t, 1, s.Snapshot().ReadyCount)
}
