package block

import (
	"strings"
	"time"
)

// MaxGuessChars is the design-target character budget for a guess: CLIP's
// 77-token limit at roughly 4 characters per token.
const MaxGuessChars = 300

// Guess is a participant's textual prediction of the target frame.
type Guess struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	// Embedding caches the text embedding once computed, so repeated scoring
	// passes (e.g. a resumed processor run) don't re-hit the embedding backend.
	Embedding []float64 `json:"embedding,omitempty"`
}

// NewGuess trims the text and stamps the creation time.
func NewGuess(text string) Guess {
	return Guess{
		Text:      strings.TrimSpace(text),
		Timestamp: time.Now().UTC(),
	}
}

// Valid reports whether the guess text is non-empty and within the token
// budget. An empty guess is allowed before reveal (the participant has only
// committed so far); callers that need reveal-time validation should check
// this explicitly.
func (g Guess) Valid() bool {
	if strings.TrimSpace(g.Text) == "" {
		return false
	}
	return len(g.Text) <= MaxGuessChars
}
