package card

import (
	"fmt"
	"strings"
)

// Cost is an ordered attack or retreat cost. Each entry is one energy.
type Cost []Element

// String renders c as "[grass colorless]".
func (c Cost) String() string {
	parts := make([]string, len(c))
	for i, e := range c {
		parts[i] = string(e)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ColorlessCost returns a cost of n colorless energy.
func ColorlessCost(n int) Cost {
	c := make(Cost, n)
	for i := range c {
		c[i] = Colorless
	}
	return c
}

// Energy is the attached energy of a creature, keyed by element.
// Counts are never negative and zero entries are removed.
type Energy map[Element]int

// Total returns the number of attached energy.
func (e Energy) Total() int {
	n := 0
	for _, v := range e {
		n += v
	}
	return n
}

// Clone returns an independent copy. The result is never nil.
func (e Energy) Clone() Energy {
	out := make(Energy, len(e))
	for k, v := range e {
		if v > 0 {
			out[k] = v
		}
	}
	return out
}

// Add attaches n energy of element el.
//
// Precondition: e must be non-nil; n >= 0.
func (e Energy) Add(el Element, n int) {
	if n <= 0 {
		return
	}
	e[el] += n
}

// CanPay reports whether cost can be paid from e.
func (e Energy) CanPay(cost Cost) bool {
	_, err := e.plan(cost)
	return err == nil
}

// Pay removes cost from e. Typed requirements consume their exact element
// first; Colorless requirements then consume any remaining energy in
// Elements order. If the cost cannot be paid, e is not modified.
//
// Postcondition: on success e.Total() decreases by len(cost).
func (e Energy) Pay(cost Cost) error {
	next, err := e.plan(cost)
	if err != nil {
		return err
	}
	for k := range e {
		delete(e, k)
	}
	for k, v := range next {
		e[k] = v
	}
	return nil
}

// plan computes the energy left after paying cost, working on a copy.
func (e Energy) plan(cost Cost) (Energy, error) {
	left := e.Clone()
	colorless := 0
	for _, req := range cost {
		if req == Colorless {
			colorless++
			continue
		}
		if left[req] == 0 {
			return nil, fmt.Errorf("missing %s energy for cost %s", req, cost)
		}
		left[req]--
		if left[req] == 0 {
			delete(left, req)
		}
	}
	for _, el := range Elements {
		for colorless > 0 && left[el] > 0 {
			left[el]--
			colorless--
		}
		if left[el] == 0 {
			delete(left, el)
		}
	}
	if colorless > 0 {
		return nil, fmt.Errorf("missing %d energy for cost %s", colorless, cost)
	}
	return left, nil
}

// String renders e in Elements order, e.g. "grass:2 fire:1".
func (e Energy) String() string {
	var parts []string
	for _, el := range Elements {
		if n := e[el]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", el, n))
		}
	}
	return strings.Join(parts, " ")
}
