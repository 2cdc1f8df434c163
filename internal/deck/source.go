package deck

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

// Built-in pools used when no card files are configured or readable. Small on
// purpose; the deck reshuffles once a pool cycles.
var (
	DefaultPrompts = []string{
		"What's that smell? ____.",
		"I could not have won the game without ____.",
		"Next on the news: scientists discover ____.",
		"The secret ingredient is ____.",
		"My therapist says it all goes back to ____.",
		"Instead of studying, I spent the night with ____.",
		"The real treasure was ____ all along.",
		"Nothing ruins a party faster than ____.",
	}
	DefaultResponses = []string{
		"an unexplained puddle",
		"aggressive interpretive dance",
		"my collection of rubber ducks",
		"a suspiciously friendly pigeon",
		"forty minutes of buffering",
		"the world's saddest trombone solo",
		"an off-brand superhero",
		"lukewarm decaf",
		"a motivational poster of a cat",
		"the wrong group chat",
		"three raccoons in a trench coat",
		"a firm handshake that lasts too long",
		"someone else's leftovers",
		"an extremely detailed apology",
		"the printer demanding a sacrifice",
		"unsolicited life advice",
	}
)

// LoadFile reads one card per line from path, skipping blank lines. A missing
// or unreadable file falls back to the given pool so the server always starts.
func LoadFile(path string, fallback []string, log *zap.Logger) []string {
	if path == "" {
		return fallback
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("card file unavailable, using built-in pool",
			zap.String("path", path), zap.Error(err))
		return fallback
	}
	var cards []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			cards = append(cards, line)
		}
	}
	if len(cards) == 0 {
		log.Warn("card file empty, using built-in pool", zap.String("path", path))
		return fallback
	}
	return cards
}
