package report

import (
	"sort"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// Call is the aggregate of all legs sharing a group key: one logical call
// attempt. It is derived per request and never persisted.

type Call struct {
	GroupID   string    `json:"group_id"`
	StartTime time.Time `json:"start_time"`

	// Representative fields come from the first leg by time (ties broken by
	// smallest uniqueid, so repeated runs pick the same leg).
	CallerID    string `json:"clid"`
	Source      string `json:"src"`
	Destination string `json:"dst"`
	Channel     string `json:"channel"`
	DstChannel  string `json:"dstchannel"`

	AnyAnswered        bool `json:"answered"`
	AnyQueueContext    bool `json:"queue"`
	TotalBilledSeconds int  `json:"total_billsec"`
	LegCount           int  `json:"legs"`

	// Legs holds the group's legs in time order.
	Legs []cdr.CallLeg `json:"-"`
}

// FirstLeg is the earliest leg of the group; classification keys off it.
func (c Call) FirstLeg() cdr.CallLeg {
	if len(c.Legs) == 0 {
		return cdr.CallLeg{}
	}
	return c.Legs[0]
}

// Status collapses the group to a single display disposition: ANSWERED when
// any leg answered, otherwise the first leg's disposition.
func (c Call) Status() string {
	if c.AnyAnswered {
		return cdr.DispositionAnswered
	}
	return c.FirstLeg().Disposition
}

// SortLegs orders legs by (calldate, uniqueid). This ordering is load-bearing:
// first-leg selection and the classification rules depend on it being
// identical across runs over the same leg multiset.
func SortLegs(legs []cdr.CallLeg) {
	sort.Slice(legs, func(i, j int) bool {
		if !legs[i].CallDate.Equal(legs[j].CallDate) {
			return legs[i].CallDate.Before(legs[j].CallDate)
		}
		return legs[i].UniqueID < legs[j].UniqueID
	})
}

// GroupCalls collapses legs into Calls in one pass. Input order does not
// matter; the result is the same for any permutation of the same legs.
func GroupCalls(legs []cdr.CallLeg) []Call {
	ordered := make([]cdr.CallLeg, len(legs))
	copy(ordered, legs)
	SortLegs(ordered)

	byKey := make(map[string]*Call)
	var keys []string
	for _, l := range ordered {
		key := l.GroupKey()
		c, ok := byKey[key]
		if !ok {
			c = &Call{
				GroupID:     key,
				StartTime:   l.CallDate,
				CallerID:    l.CallerID,
				Source:      l.Source,
				Destination: l.Destination,
				Channel:     l.Channel,
				DstChannel:  l.DstChannel,
			}
			byKey[key] = c
			keys = append(keys, key)
		}
		c.AnyAnswered = c.AnyAnswered || l.Answered()
		c.AnyQueueContext = c.AnyQueueContext || l.InQueueContext()
		c.TotalBilledSeconds += l.BilledSeconds
		c.LegCount++
		c.Legs = append(c.Legs, l)
	}

	// keys were appended in first-leg order, so the result is already
	// deterministic: by start time, ties by group id via the leg sort.
	out := make([]Call, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out
}
