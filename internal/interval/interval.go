// Package interval turns time-stamped annotation events into run-length
// encoded intervals.
package interval

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for event lists Collapse cannot handle.
var ErrInvalidInput = errors.New("invalid input")

// Event is one annotation at a tick position.
type Event[L any] struct {
	Time  int64
	Label L
}

// Interval is a maximal run of events sharing a normalized label.
// End is inclusive.
type Interval[K comparable] struct {
	Start int64
	End   int64
	Label K
}

// Collapse merges consecutive events whose normalized labels are equal.
//
// The first interval always starts at 0. Every interval but the last ends one
// tick before the next one starts; the last one ends at the time of the last
// event.
func Collapse[L any, K comparable](events []Event[L], normalize func(L) K) ([]Interval[K], error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no events", ErrInvalidInput)
	}
	var prev int64
	for i, ev := range events {
		if ev.Time < 0 {
			return nil, fmt.Errorf("%w: event %d at negative time %d", ErrInvalidInput, i, ev.Time)
		}
		if ev.Time < prev {
			return nil, fmt.Errorf("%w: event %d at time %d precedes time %d", ErrInvalidInput, i, ev.Time, prev)
		}
		prev = ev.Time
	}

	out := []Interval[K]{
		{
			Start: 0,
			Label: normalize(events[0].Label),
		},
	}
	for _, ev := range events[1:] {
		key := normalize(ev.Label)
		cur := &out[len(out)-1]
		if key == cur.Label {
			continue
		}
		cur.End = ev.Time - 1
		out = append(out, Interval[K]{
			Start: ev.Time,
			Label: key,
		})
	}
	out[len(out)-1].End = events[len(events)-1].Time
	return out, nil
}
