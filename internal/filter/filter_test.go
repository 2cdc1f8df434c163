package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "héllo", Truncate("héllo world", 5), "truncation counts runes, not bytes")
	assert.Equal(t, "abc", Truncate("abc", 0), "non-positive max means no cap")
}

func TestCleanCapsLength(t *testing.T) {
	f := New()

	long := make([]byte, 0, 300)
	for i := 0; i < 300; i++ {
		long = append(long, 'a')
	}
	got := f.Clean(string(long), 140)
	assert.Len(t, got, 140)
}

func TestCleanPassesInnocentText(t *testing.T) {
	f := New()
	assert.Equal(t, "a perfectly nice card", f.Clean("a perfectly nice card", 140))
}
