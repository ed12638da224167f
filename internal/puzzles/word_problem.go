// Package puzzles holds the rules of the math mini-games: random problem generation, answer checking
// and the small state machines behind the interactive boards. Every generator takes a *rand.Rand so
// callers control reproducibility with a seed.
package puzzles

import (
	"math/rand"

	"mathgames/internal/models"
)

// Themes are the glyphs a word problem can be narrated with
var Themes = []string{
	"🍪", "🍎", "🍌", "🍦", "🐶", "🐱", "🐸", "🦁",
	"🐰", "🚗", "🚀", "⚽", "🎈", "👽", "🤖", "👾",
}

// NewRand returns a generator seeded with seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandomTheme picks one of Themes
func RandomTheme(rng *rand.Rand) string {
	return Themes[rng.Intn(len(Themes))]
}

// RandomProblemSpec generates a word problem whose operands and answer stay within 0..10.
// Addition keeps the sum at most 10, subtraction never goes below zero.
func RandomProblemSpec(rng *rand.Rand) models.ProblemSpec {
	op := models.OperationSubtract
	if rng.Float64() > 0.5 {
		op = models.OperationAdd
	}

	num1 := rng.Intn(9) + 1
	limit := 10 - num1
	if op == models.OperationSubtract {
		limit = num1
	}
	num2 := rng.Intn(limit) + 1

	return models.ProblemSpec{Num1: num1, Num2: num2, Operation: op}
}

// ClampSubtraction raises a subtraction whose second operand exceeds the first so the answer is zero
func ClampSubtraction(spec models.ProblemSpec) models.ProblemSpec {
	if spec.Operation == models.OperationSubtract && spec.Num1 < spec.Num2 {
		spec.Num2 = spec.Num1
	}
	return spec
}

// Answer is the expected result of spec
func Answer(spec models.ProblemSpec) int {
	return spec.Answer()
}

// WordProblem is a ready-to-play problem with its theme glyph
type WordProblem struct {
	models.ProblemSpec
	Emoji  string `json:"emoji"`
	Answer int    `json:"answer"`
}

// NewWordProblem generates a spec and theme together
func NewWordProblem(rng *rand.Rand) WordProblem {
	spec := RandomProblemSpec(rng)
	emoji := RandomTheme(rng)
	spec.ForcedEmoji = emoji
	return WordProblem{ProblemSpec: spec, Emoji: emoji, Answer: spec.Answer()}
}
