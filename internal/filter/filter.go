// Package filter wraps the profanity filter applied to free-text input
// (custom blank cards and chat). The core treats it as a pure function.
package filter

import (
	goaway "github.com/TwiN/go-away"
)

type Filter struct {
	detector *goaway.ProfanityDetector
}

func New() *Filter {
	return &Filter{detector: goaway.NewProfanityDetector()}
}

// Clean censors profanity in s after capping it to max runes.
func (f *Filter) Clean(s string, max int) string {
	return f.detector.Censor(Truncate(s, max))
}

// Truncate caps s to max runes without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
