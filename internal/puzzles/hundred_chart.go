package puzzles

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	contextutils "mathgames/internal/utils"
)

// ChartSize is the largest number on the hundred chart
const ChartSize = 100

// randomHiddenCount is how many cells a RANDOM activity hides
const randomHiddenCount = 15

// Activity names a hide-and-seek game on the hundred chart
type Activity string

// Hide-and-seek activities
const (
	ActivityRandom Activity = "RANDOM"
	ActivityEvens  Activity = "EVENS"
	ActivityOdds   Activity = "ODDS"
	ActivityRow    Activity = "ROW"
	ActivityTens   Activity = "TENS"
)

// Activities lists every activity in draw order
var Activities = []Activity{ActivityRandom, ActivityEvens, ActivityOdds, ActivityRow, ActivityTens}

// ParseActivity accepts an activity name in any case
func ParseActivity(s string) (Activity, error) {
	want := Activity(strings.ToUpper(strings.TrimSpace(s)))
	for _, a := range Activities {
		if a == want {
			return a, nil
		}
	}
	return "", contextutils.WrapErrorf(contextutils.ErrInvalidInput, "unknown activity %q", s)
}

// Multiples returns n, 2n, 3n... up to 100. n <= 1 highlights nothing.
func Multiples(n int) []int {
	if n <= 1 {
		return []int{}
	}
	out := make([]int, 0, ChartSize/n)
	for i := n; i <= ChartSize; i += n {
		out = append(out, i)
	}
	return out
}

// HundredChart tracks which numbers are highlighted and which are hidden behind a "?"
type HundredChart struct {
	Activity Activity
	Message  string
	hidden   map[int]struct{}
	active   map[int]struct{}
}

// NewHundredChart returns a chart with the multiples of n highlighted
func NewHundredChart(n int) *HundredChart {
	c := &HundredChart{hidden: make(map[int]struct{}), active: make(map[int]struct{})}
	for _, m := range Multiples(n) {
		c.active[m] = struct{}{}
	}
	return c
}

// NewHideAndSeek starts a random activity
func NewHideAndSeek(rng *rand.Rand) *HundredChart {
	return NewActivity(rng, Activities[rng.Intn(len(Activities))])
}

// NewActivity starts the given activity. rng is only consulted by RANDOM and ROW.
func NewActivity(rng *rand.Rand, activity Activity) *HundredChart {
	c := NewHundredChart(1)
	c.Activity = activity

	switch activity {
	case ActivityRandom:
		c.Message = "Find the missing numbers! 🕵️‍♀️"
		for len(c.hidden) < randomHiddenCount {
			c.hidden[rng.Intn(ChartSize)+1] = struct{}{}
		}
	case ActivityEvens:
		c.Message = "Where are the Even numbers? (2, 4, 6...)"
		c.hideStep(2, 2)
	case ActivityOdds:
		c.Message = "Where are the Odd numbers? (1, 3, 5...)"
		c.hideStep(1, 2)
	case ActivityRow:
		start := rng.Intn(9)*10 + 1
		c.Message = fmt.Sprintf("Fill in the missing row! (%d-%d)", start, start+9)
		for i := 0; i < 10; i++ {
			c.hidden[start+i] = struct{}{}
		}
	case ActivityTens:
		c.Message = "Find the Tens! (10, 20, 30...)"
		c.hideStep(10, 10)
	}
	return c
}

func (c *HundredChart) hideStep(from, step int) {
	for i := from; i <= ChartSize; i += step {
		c.hidden[i] = struct{}{}
	}
}

// Reveal handles a tap on n. A hidden number is uncovered and highlighted; any other number has its
// highlight toggled. It reports whether n was hidden.
func (c *HundredChart) Reveal(n int) bool {
	if n < 1 || n > ChartSize {
		return false
	}
	if _, ok := c.hidden[n]; ok {
		delete(c.hidden, n)
		c.active[n] = struct{}{}
		return true
	}
	if _, ok := c.active[n]; ok {
		delete(c.active, n)
	} else {
		c.active[n] = struct{}{}
	}
	return false
}

// Complete reports whether nothing is left hidden
func (c *HundredChart) Complete() bool {
	return len(c.hidden) == 0
}

// Hidden returns the hidden numbers in order
func (c *HundredChart) Hidden() []int {
	return sortedKeys(c.hidden)
}

// Active returns the highlighted numbers in order
func (c *HundredChart) Active() []int {
	return sortedKeys(c.active)
}

func sortedKeys(m map[int]struct{}) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// HundredChartView is the JSON shape of a chart
type HundredChartView struct {
	Activity Activity `json:"activity,omitempty"`
	Message  string   `json:"message,omitempty"`
	Hidden   []int    `json:"hidden"`
	Active   []int    `json:"active"`
}

// View snapshots the chart
func (c *HundredChart) View() HundredChartView {
	return HundredChartView{
		Activity: c.Activity,
		Message:  c.Message,
		Hidden:   c.Hidden(),
		Active:   c.Active(),
	}
}
