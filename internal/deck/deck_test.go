package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestDrawReshufflesOnExhaustion(t *testing.T) {
	// Two response cards, five draws: at least one automatic reshuffle, every
	// draw still a member of the original pool.
	d := New([]string{"p"}, []string{"a", "b"}, 0, testRng())

	for i := 0; i < 5; i++ {
		card, err := d.DrawResponse()
		assert.NoError(t, err)
		assert.Contains(t, []string{"a", "b"}, card)
	}
}

func TestDrawCycleIsPermutation(t *testing.T) {
	pool := []string{"a", "b", "c", "d", "e"}
	d := New([]string{"p"}, pool, 0, testRng())

	seen := make(map[string]bool)
	for range pool {
		card, err := d.DrawResponse()
		assert.NoError(t, err)
		assert.False(t, seen[card], "no repeats within one cycle")
		seen[card] = true
	}
	assert.Len(t, seen, len(pool))
}

func TestEmptyPoolFailsDraws(t *testing.T) {
	d := New(nil, nil, 0, testRng())

	_, err := d.DrawPrompt()
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = d.DrawResponse()
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestEmptyPoolFailsEvenWithBlankChance(t *testing.T) {
	d := New(nil, nil, 1.0, testRng())

	_, err := d.DrawResponse()
	assert.ErrorIs(t, err, ErrEmptyPool, "blank chance never papers over a misconfigured pool")
}

func TestBlankChance(t *testing.T) {
	always := New([]string{"p"}, []string{"a"}, 1.0, testRng())
	for i := 0; i < 10; i++ {
		card, err := always.DrawResponse()
		assert.NoError(t, err)
		assert.Equal(t, Blank, card)
	}

	never := New([]string{"p"}, []string{"a"}, 0, testRng())
	for i := 0; i < 10; i++ {
		card, err := never.DrawResponse()
		assert.NoError(t, err)
		assert.Equal(t, "a", card)
	}
}

func TestPromptsAndResponsesAreIndependentPiles(t *testing.T) {
	d := New([]string{"p1", "p2"}, []string{"r1"}, 0, testRng())

	prompt, err := d.DrawPrompt()
	assert.NoError(t, err)
	assert.Contains(t, []string{"p1", "p2"}, prompt)

	card, err := d.DrawResponse()
	assert.NoError(t, err)
	assert.Equal(t, "r1", card)
}
