package report

import (
	"sort"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// MaxConcurrent runs a sweep line over the legs' [start, start+duration)
// intervals and returns the maximum number open at once. At equal timestamps
// all interval ends are processed before any start, so a call ending exactly
// when another begins never counts as overlap.
func MaxConcurrent(legs []cdr.CallLeg) int {
	type event struct {
		at    int64 // unix seconds
		delta int
		key   string // stable tie-break inside the same (at, delta) class
	}

	events := make([]event, 0, 2*len(legs))
	for _, l := range legs {
		if l.DurationSeconds <= 0 {
			continue // empty interval, occupies nothing
		}
		start := l.CallDate.Unix()
		events = append(events,
			event{at: start, delta: +1, key: l.UniqueID},
			event{at: start + int64(l.DurationSeconds), delta: -1, key: l.UniqueID},
		)
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		if events[i].delta != events[j].delta {
			return events[i].delta < events[j].delta // ends (-1) before starts (+1)
		}
		return events[i].key < events[j].key
	})

	cur, max := 0, 0
	for _, e := range events {
		cur += e.delta
		if cur > max {
			max = cur
		}
	}
	return max
}
