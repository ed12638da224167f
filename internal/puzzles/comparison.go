package puzzles

import (
	"math/rand"
	"strings"
)

// Comparison signs
const (
	SignGreater = ">"
	SignLess    = "<"
	SignEqual   = "="
)

// ComparisonEmojis are the glyphs the two groups are drawn with
var ComparisonEmojis = []string{"🍎", "🍌", "🍪", "🐶", "🐱", "⚽", "🚗", "⭐", "🐞", "🦋"}

// equalChance is how often both groups are generated with the same size
const equalChance = 0.3

// Comparison asks which of two groups is bigger
type Comparison struct {
	Left  int    `json:"left"`
	Right int    `json:"right"`
	Emoji string `json:"emoji"`
}

// NewComparison generates two groups of 1 to 10 items
func NewComparison(rng *rand.Rand) Comparison {
	left := rng.Intn(10) + 1
	right := left
	if rng.Float64() >= equalChance {
		right = rng.Intn(10) + 1
	}
	return Comparison{
		Left:  left,
		Right: right,
		Emoji: ComparisonEmojis[rng.Intn(len(ComparisonEmojis))],
	}
}

// CorrectSign returns the sign that makes "left sign right" true
func CorrectSign(left, right int) string {
	switch {
	case left > right:
		return SignGreater
	case left < right:
		return SignLess
	default:
		return SignEqual
	}
}

// Check reports whether sign is the right answer
func (c Comparison) Check(sign string) bool {
	return strings.TrimSpace(sign) == CorrectSign(c.Left, c.Right)
}
