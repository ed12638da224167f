package puzzles

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	contextutils "mathgames/internal/utils"
)

// FrameSize is the number of cells in a ten frame
const FrameSize = 10

// TenFrameMode selects between filling up to ten and taking away from ten
type TenFrameMode string

// Ten frame modes
const (
	TenFrameAdd      TenFrameMode = "ADD"
	TenFrameSubtract TenFrameMode = "SUBTRACT"
)

// ParseTenFrameMode accepts "add"/"subtract" in any case; empty means add
func ParseTenFrameMode(s string) (TenFrameMode, error) {
	switch TenFrameMode(strings.ToUpper(strings.TrimSpace(s))) {
	case "", TenFrameAdd:
		return TenFrameAdd, nil
	case TenFrameSubtract:
		return TenFrameSubtract, nil
	}
	return "", contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown ten frame mode %q", s)
}

// TenFrame is the make-ten board. In ADD mode the first Start cells hold red dots and the player
// fills the rest. In SUBTRACT mode all ten cells are red and the player crosses out Target of them.
type TenFrame struct {
	Mode   TenFrameMode
	Start  int
	Target int
	marked map[int]struct{}
	solved bool
}

// NewTenFrame starts a random board in mode
func NewTenFrame(rng *rand.Rand, mode TenFrameMode) *TenFrame {
	f := &TenFrame{Mode: mode, marked: make(map[int]struct{})}
	if mode == TenFrameSubtract {
		f.Start = FrameSize
		f.Target = rng.Intn(9) + 1
	} else {
		f.Mode = TenFrameAdd
		f.Start = rng.Intn(9)
		f.Target = FrameSize - f.Start
	}
	return f
}

// Toggle marks or unmarks cell index. Pre-filled cells in ADD mode and every cell after success are
// ignored. It returns whether the board is solved.
func (f *TenFrame) Toggle(index int) bool {
	if f.solved || index < 0 || index >= FrameSize {
		return f.solved
	}
	if f.Mode == TenFrameAdd && index < f.Start {
		return f.solved
	}

	if _, ok := f.marked[index]; ok {
		delete(f.marked, index)
	} else {
		f.marked[index] = struct{}{}
	}

	if f.Mode == TenFrameAdd {
		f.solved = f.Start+len(f.marked) == FrameSize
	} else {
		f.solved = len(f.marked) == f.Target
	}
	return f.solved
}

// Solved reports whether the goal was reached
func (f *TenFrame) Solved() bool {
	return f.solved
}

// Marked returns the cells the player touched, in order
func (f *TenFrame) Marked() []int {
	out := make([]int, 0, len(f.marked))
	for i := range f.marked {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Instruction is the prompt shown above the board for its current state
func (f *TenFrame) Instruction() string {
	count := len(f.marked)

	if f.Mode == TenFrameAdd {
		if f.solved {
			return fmt.Sprintf("Hooray! %d + %d = 10!", f.Start, count)
		}
		if count == 0 {
			return fmt.Sprintf("We have %d red dots. How many more to make 10?", f.Start)
		}
		remaining := FrameSize - f.Start - count
		if remaining > 0 {
			return fmt.Sprintf("You added %d. Need %d more!", count, remaining)
		}
		return "Oops! Too many."
	}

	if f.solved {
		return fmt.Sprintf("Perfect! 10 - %d = %d left.", f.Target, FrameSize-f.Target)
	}
	if count == 0 {
		return fmt.Sprintf("We have 10 red dots. Take away %d dots!", f.Target)
	}
	left := f.Target - count
	switch {
	case left > 0:
		return fmt.Sprintf("Tap %d more dots to cross them out.", left)
	case left < 0:
		return "Oops! You crossed out too many. Unclick some."
	default:
		return fmt.Sprintf("Great! You took away %d.", f.Target)
	}
}

// TenFrameView is the JSON shape of a board
type TenFrameView struct {
	Mode        TenFrameMode `json:"mode"`
	Start       int          `json:"start"`
	Target      int          `json:"target"`
	Marked      []int        `json:"marked"`
	Solved      bool         `json:"solved"`
	Instruction string       `json:"instruction"`
}

// View snapshots the board
func (f *TenFrame) View() TenFrameView {
	return TenFrameView{
		Mode:        f.Mode,
		Start:       f.Start,
		Target:      f.Target,
		Marked:      f.Marked(),
		Solved:      f.solved,
		Instruction: f.Instruction(),
	}
}
