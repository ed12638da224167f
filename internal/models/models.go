// Package models defines the value types exchanged between the math games UI, the story
// endpoint and the content requester. Nothing here is persisted.
package models

import (
	"fmt"
	"strings"
)

// Operation is the arithmetic operation of a word problem
type Operation string

// Operation constants
const (
	OperationAdd      Operation = "+" // OperationAdd represents addition
	OperationSubtract Operation = "-" // OperationSubtract represents subtraction
)

// IsValid reports whether the operation is one the games know how to narrate
func (o Operation) IsValid() bool {
	return o == OperationAdd || o == OperationSubtract
}

// Apply computes num1 op num2
func (o Operation) Apply(num1, num2 int) int {
	if o == OperationAdd {
		return num1 + num2
	}
	return num1 - num2
}

// ProblemSpec describes one arithmetic word problem to narrate.
// For subtraction a well-formed spec has Num1 >= Num2; nothing here enforces it.
type ProblemSpec struct {
	Num1        int       `json:"num1" validate:"gte=0"`
	Num2        int       `json:"num2" validate:"gte=0"`
	Operation   Operation `json:"operation" validate:"required,oneof=+ -"`
	ForcedEmoji string    `json:"forcedEmoji,omitempty"`
}

// WellFormed reports whether the spec can be answered with a non-negative count
func (p ProblemSpec) WellFormed() bool {
	if p.Num1 < 0 || p.Num2 < 0 || !p.Operation.IsValid() {
		return false
	}
	return p.Operation == OperationAdd || p.Num1 >= p.Num2
}

// Answer returns the result of the problem
func (p ProblemSpec) Answer() int {
	return p.Operation.Apply(p.Num1, p.Num2)
}

// Fingerprint identifies specs that would produce the same request
func (p ProblemSpec) Fingerprint() string {
	return fmt.Sprintf("%d|%s|%d|%s", p.Num1, p.Operation, p.Num2, strings.TrimSpace(p.ForcedEmoji))
}

// Equation renders the spec as "5 + 3"
func (p ProblemSpec) Equation() string {
	return fmt.Sprintf("%d %s %d", p.Num1, p.Operation, p.Num2)
}
