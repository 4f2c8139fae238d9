package key

import "fmt"

// Set is an immutable collection of key specifications. It answers whether
// a live event is one of the listed keystrokes.
type Set struct {
	events []Event
}

// NewSet parses specs into a Set. The first invalid spec aborts with an
// error naming it.
func NewSet(specs ...string) (Set, error) {
	events := make([]Event, 0, len(specs))
	for _, spec := range specs {
		e, err := Parse(spec)
		if err != nil {
			return Set{}, fmt.Errorf("key set: %w", err)
		}
		events = append(events, e)
	}
	return Set{events: events}, nil
}

// MustSet is like NewSet but panics on an invalid spec.
func MustSet(specs ...string) Set {
	s, err := NewSet(specs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Contains reports whether e is the same keystroke as any member.
func (s Set) Contains(e Event) bool {
	for _, member := range s.events {
		if member.Same(e) {
			return true
		}
	}
	return false
}

// Len returns the number of specifications in the set.
func (s Set) Len() int {
	return len(s.events)
}

// Specs returns the members in canonical Vim notation.
func (s Set) Specs() []string {
	specs := make([]string, len(s.events))
	for i, e := range s.events {
		specs[i] = FormatSpec(e)
	}
	return specs
}
