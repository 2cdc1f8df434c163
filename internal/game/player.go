package game

// Kind tags the player variant. Bot-only behavior (auto-play) keys off this so
// it never leaks into human paths.
type Kind string

const (
	KindHuman Kind = "human"
	KindBot   Kind = "bot"
)

// Player is a seat at the table. The session is the only mutator.
type Player struct {
	ID           string
	Name         string
	Kind         Kind
	Score        int
	Hand         []string
	IsJudge      bool
	HasSubmitted bool
	Ready        bool
}

func (p *Player) IsBot() bool { return p.Kind == KindBot }

// holdsCard reports whether card is in the player's hand.
func (p *Player) holdsCard(card string) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// dropCard removes one instance of card from the hand.
func (p *Player) dropCard(card string) {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// Info is the safe per-player view included in snapshots. Hands are delivered
// only to their owner.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	IsJudge      bool   `json:"isJudge"`
	HasSubmitted bool   `json:"hasSubmitted"`
	Ready        bool   `json:"ready"`
	IsBot        bool   `json:"isBot"`
}

func (p *Player) ToInfo() Info {
	return Info{
		ID:           p.ID,
		Name:         p.Name,
		Score:        p.Score,
		IsJudge:      p.IsJudge,
		HasSubmitted: p.HasSubmitted,
		Ready:        p.Ready,
		IsBot:        p.IsBot(),
	}
}
