package console

import "github.com/dshills/keyread/internal/input/key"

// Filter reports whether a line read should discard ev.
//
// Filters may keep state; build a fresh one for every read.
type Filter func(ev key.Event) bool

// RejectKeys discards every event contained in set.
func RejectKeys(set key.Set) Filter {
	return func(ev key.Event) bool {
		return set.Contains(ev)
	}
}

// RejectControl discards control characters other than carriage return.
func RejectControl() Filter {
	return func(ev key.Event) bool {
		if ev.Rune == '\r' {
			return false
		}
		return ev.Rune < 0x20 && ev.Rune != 0 || ev.Rune == 0x7f
	}
}

// LimitLength discards characters once n have passed through it.
// Carriage return and events without a character always pass.
func LimitLength(n int) Filter {
	accepted := 0
	return func(ev key.Event) bool {
		if ev.Rune == 0 || ev.Rune == '\r' {
			return false
		}
		if accepted >= n {
			return true
		}
		accepted++
		return false
	}
}

// AnyOf discards an event if any filter does. Filters run in order and
// stop at the first that discards, so later filters never see it.
func AnyOf(filters ...Filter) Filter {
	return func(ev key.Event) bool {
		for _, f := range filters {
			if f != nil && f(ev) {
				return true
			}
		}
		return false
	}
}
