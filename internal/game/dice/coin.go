// Package dice provides the randomness abstraction and coin-flip helpers used
// by the battle engine.
package dice

import (
	"fmt"
	"strings"
)

// Face is the result of a single coin flip.
type Face int

const (
	Heads Face = iota
	Tails
)

// String returns "heads" or "tails".
func (f Face) String() string {
	if f == Heads {
		return "heads"
	}
	return "tails"
}

// Flip tosses a fair coin. Heads is Intn(2) == 0.
//
// Precondition: src must be non-nil.
func Flip(src Source) Face {
	if src.Intn(2) == 0 {
		return Heads
	}
	return Tails
}

// FlipResult holds the audit trail for a sequence of flips.
//
// Postcondition: Heads() + Tails() == len(Faces).
type FlipResult struct {
	Reason string // what the flip was for, e.g. "confusion"
	Faces  []Face
}

// FlipN tosses n coins for reason.
//
// Precondition: n >= 0; src must be non-nil.
func FlipN(reason string, n int, src Source) FlipResult {
	faces := make([]Face, n)
	for i := range faces {
		faces[i] = Flip(src)
	}
	return FlipResult{Reason: reason, Faces: faces}
}

// Heads returns the number of heads in r.
func (r FlipResult) Heads() int {
	h := 0
	for _, f := range r.Faces {
		if f == Heads {
			h++
		}
	}
	return h
}

// Tails returns the number of tails in r.
func (r FlipResult) Tails() int {
	return len(r.Faces) - r.Heads()
}

// String returns an audit string such as "confusion: [heads tails] 1 heads".
func (r FlipResult) String() string {
	parts := make([]string, len(r.Faces))
	for i, f := range r.Faces {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: [%s] %d heads", r.Reason, strings.Join(parts, " "), r.Heads())
}

// Shuffle permutes n elements in place through swap using Fisher-Yates.
//
// Precondition: n >= 0; src and swap must be non-nil.
func Shuffle(n int, src Source, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Pick returns a uniformly chosen index in [0, n).
//
// Precondition: n > 0.
func Pick(n int, src Source) int {
	return src.Intn(n)
}
