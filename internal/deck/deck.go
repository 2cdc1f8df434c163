package deck

import (
	"errors"
	"math/rand"
)

// Blank is the sentinel response card meaning "the player writes their own text".
const Blank = "__BLANK__"

var ErrEmptyPool = errors.New("card pool is empty")

// pile draws from a shuffled working copy of its pool. When the working copy
// runs out it is refilled from a fresh shuffle of the full pool, so draws never
// stop but repeats become possible once a full cycle completes.
type pile struct {
	pool    []string
	working []string
	rng     *rand.Rand
}

func newPile(pool []string, rng *rand.Rand) *pile {
	return &pile{pool: pool, rng: rng}
}

func (p *pile) draw() (string, error) {
	if len(p.pool) == 0 {
		return "", ErrEmptyPool
	}
	if len(p.working) == 0 {
		p.working = make([]string, len(p.pool))
		copy(p.working, p.pool)
		p.rng.Shuffle(len(p.working), func(i, j int) {
			p.working[i], p.working[j] = p.working[j], p.working[i]
		})
	}
	card := p.working[len(p.working)-1]
	p.working = p.working[:len(p.working)-1]
	return card, nil
}

// Deck supplies prompt and response cards for the table. It is not safe for
// concurrent use; the room actor is its only caller.
type Deck struct {
	prompts     *pile
	responses   *pile
	blankChance float64
	rng         *rand.Rand
}

// New builds a deck over the two pools. blankChance is the probability that a
// response draw yields Blank instead of a pool card.
func New(prompts, responses []string, blankChance float64, rng *rand.Rand) *Deck {
	return &Deck{
		prompts:     newPile(prompts, rng),
		responses:   newPile(responses, rng),
		blankChance: blankChance,
		rng:         rng,
	}
}

func (d *Deck) DrawPrompt() (string, error) {
	return d.prompts.draw()
}

func (d *Deck) DrawResponse() (string, error) {
	if len(d.responses.pool) == 0 {
		return "", ErrEmptyPool
	}
	if d.blankChance > 0 && d.rng.Float64() < d.blankChance {
		return Blank, nil
	}
	return d.responses.draw()
}
