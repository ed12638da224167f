package puzzles

import (
	"fmt"
	"math/rand"
)

// Blank marks the unknown in an equation option
const Blank = "⬜"

// DetectiveNames are the characters an equation story can be about
var DetectiveNames = []string{"Sam", "Mia", "Leo", "Zoe", "Ben", "Ava"}

// DetectiveShapes are the glyphs of the missing part
var DetectiveShapes = []string{"🟦", "🟢", "🔺", "🟧"}

// EquationOption is one candidate equation the player may pick
type EquationOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// EquationPuzzle asks the player to find the two equations that describe a part-part-whole story
type EquationPuzzle struct {
	Name     string           `json:"name"`
	Emoji    string           `json:"emoji"`
	Shape    string           `json:"shape"`
	Part     int              `json:"part"`
	Whole    int              `json:"whole"`
	Missing  int              `json:"missing"`
	Options  []EquationOption `json:"options"`
	Selected []int            `json:"selected"`
	Solved   bool             `json:"solved"`
}

// NewEquationPuzzle builds a story with two correct and two wrong equations in random order
func NewEquationPuzzle(rng *rand.Rand) *EquationPuzzle {
	part := rng.Intn(5) + 2
	whole := part + rng.Intn(5) + 2
	missing := whole - part

	p := &EquationPuzzle{
		Name:     DetectiveNames[rng.Intn(len(DetectiveNames))],
		Emoji:    ComparisonEmojis[rng.Intn(len(ComparisonEmojis))],
		Shape:    DetectiveShapes[rng.Intn(len(DetectiveShapes))],
		Part:     part,
		Whole:    whole,
		Missing:  missing,
		Selected: []int{},
	}

	wrong := []string{
		fmt.Sprintf("%d + %d = %s", whole, part, Blank),
		fmt.Sprintf("%d - %d = %s", part, whole, Blank),
		fmt.Sprintf("%d - %d = %d", missing, whole, part),
		fmt.Sprintf("%s + %d = %d", Blank, whole, part),
	}
	rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })

	p.Options = []EquationOption{
		{Text: fmt.Sprintf("%d + %s = %d", part, Blank, whole), Correct: true},
		{Text: fmt.Sprintf("%d - %d = %s", whole, part, Blank), Correct: true},
		{Text: wrong[0]},
		{Text: wrong[1]},
	}
	rng.Shuffle(len(p.Options), func(i, j int) { p.Options[i], p.Options[j] = p.Options[j], p.Options[i] })

	return p
}

// Select toggles option index. At most two options can be selected and nothing changes once solved.
// It returns whether the puzzle is solved afterwards.
func (p *EquationPuzzle) Select(index int) bool {
	if p.Solved || index < 0 || index >= len(p.Options) {
		return p.Solved
	}

	for i, sel := range p.Selected {
		if sel == index {
			p.Selected = append(p.Selected[:i], p.Selected[i+1:]...)
			return p.Solved
		}
	}

	if len(p.Selected) >= 2 {
		return p.Solved
	}
	p.Selected = append(p.Selected, index)

	if len(p.Selected) == 2 && p.Options[p.Selected[0]].Correct && p.Options[p.Selected[1]].Correct {
		p.Solved = true
	}
	return p.Solved
}

// Pronoun returns the pronoun the story uses for name
func Pronoun(name string) string {
	switch name {
	case "Sam", "Ben", "Leo":
		return "he"
	default:
		return "she"
	}
}

// Story narrates the puzzle
func (p *EquationPuzzle) Story() string {
	return fmt.Sprintf("%s drew %d %s. Then %s drew some %s. Now there are %d shapes altogether.",
		p.Name, p.Part, p.Emoji, Pronoun(p.Name), p.Shape, p.Whole)
}
