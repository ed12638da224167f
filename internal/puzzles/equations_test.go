package puzzles

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func correctAndWrong(p *EquationPuzzle) (correct, wrong []int) {
	for i, opt := range p.Options {
		if opt.Correct {
			correct = append(correct, i)
		} else {
			wrong = append(wrong, i)
		}
	}
	return correct, wrong
}

func TestNewEquationPuzzle_Shape(t *testing.T) {
	rng := NewRand(5)
	for i := 0; i < 200; i++ {
		p := NewEquationPuzzle(rng)

		assert.GreaterOrEqual(t, p.Part, 2)
		assert.LessOrEqual(t, p.Part, 6)
		assert.GreaterOrEqual(t, p.Missing, 2)
		assert.LessOrEqual(t, p.Missing, 6)
		assert.Equal(t, p.Whole, p.Part+p.Missing)
		assert.Contains(t, DetectiveNames, p.Name)
		assert.Contains(t, DetectiveShapes, p.Shape)

		require.Len(t, p.Options, 4)
		seen := map[string]bool{}
		for _, opt := range p.Options {
			assert.False(t, seen[opt.Text], "duplicate option %q", opt.Text)
			seen[opt.Text] = true
		}
		assert.True(t, seen[fmt.Sprintf("%d + ⬜ = %d", p.Part, p.Whole)])
		assert.True(t, seen[fmt.Sprintf("%d - %d = ⬜", p.Whole, p.Part)])

		correct, wrong := correctAndWrong(p)
		assert.Len(t, correct, 2)
		assert.Len(t, wrong, 2)
	}
}

func TestEquationPuzzle_SelectSolves(t *testing.T) {
	p := NewEquationPuzzle(NewRand(9))
	correct, _ := correctAndWrong(p)

	assert.False(t, p.Select(correct[0]))
	assert.True(t, p.Select(correct[1]))
	assert.True(t, p.Solved)

	// frozen once solved
	assert.True(t, p.Select(correct[0]))
	assert.Len(t, p.Selected, 2)
}

func TestEquationPuzzle_SelectToggleAndLimit(t *testing.T) {
	p := NewEquationPuzzle(NewRand(10))
	correct, wrong := correctAndWrong(p)

	p.Select(correct[0])
	p.Select(correct[0])
	assert.Empty(t, p.Selected)

	p.Select(correct[0])
	p.Select(wrong[0])
	assert.False(t, p.Solved)

	// a third pick is ignored
	p.Select(correct[1])
	assert.Equal(t, []int{correct[0], wrong[0]}, p.Selected)
	assert.False(t, p.Solved)

	assert.False(t, p.Select(-1))
	assert.False(t, p.Select(len(p.Options)))

	p.Select(wrong[0])
	assert.True(t, p.Select(correct[1]))
}

func TestPronounAndStory(t *testing.T) {
	assert.Equal(t, "he", Pronoun("Sam"))
	assert.Equal(t, "he", Pronoun("Leo"))
	assert.Equal(t, "he", Pronoun("Ben"))
	assert.Equal(t, "she", Pronoun("Mia"))
	assert.Equal(t, "she", Pronoun("Zoe"))
	assert.Equal(t, "she", Pronoun("Ava"))

	p := &EquationPuzzle{Name: "Mia", Emoji: "🐞", Shape: "🟢", Part: 3, Whole: 8}
	assert.Equal(t, "Mia drew 3 🐞. Then she drew some 🟢. Now there are 8 shapes altogether.", p.Story())
}
