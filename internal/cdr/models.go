package cdr

import (
	"strings"
	"time"
)

// CallLeg is one row of the call-detail source: a single channel's
// participation in a call attempt.
//
// Legs are immutable, append-only facts written by the switch. The reporting
// engine never mutates them; derived data (grouped calls, rollups) is
// recomputed per request.

type CallLeg struct {
	CallDate    time.Time `json:"calldate" db:"calldate"`
	CallerID    string    `json:"clid" db:"clid"`
	Source      string    `json:"src" db:"src"`
	Destination string    `json:"dst" db:"dst"`
	Channel     string    `json:"channel" db:"channel"`
	DstChannel  string    `json:"dstchannel" db:"dstchannel"`
	Context     string    `json:"dcontext" db:"dcontext"`
	Disposition string    `json:"disposition" db:"disposition"`

	// DurationSeconds covers the whole leg including ring/setup time;
	// BilledSeconds is talk time only.
	DurationSeconds int `json:"duration" db:"duration"`
	BilledSeconds   int `json:"billsec" db:"billsec"`

	// UniqueID identifies this leg; LinkedID is shared by all legs of one
	// logical call and may be empty on older CDR schemas.
	UniqueID string `json:"uniqueid" db:"uniqueid"`
	LinkedID string `json:"linkedid,omitempty" db:"linkedid"`

	RecordingFile string `json:"recordingfile,omitempty" db:"recordingfile"`
}

// GroupKey collapses legs into logical calls: linkedid when the switch
// assigned one, otherwise the leg stands alone under its own uniqueid.
func (l CallLeg) GroupKey() string {
	if l.LinkedID != "" {
		return l.LinkedID
	}
	return l.UniqueID
}

func (l CallLeg) Answered() bool { return l.Disposition == DispositionAnswered }

func (l CallLeg) InQueueContext() bool { return IsQueueContext(l.Context) }

// Disposition values as the switch writes them. NO ANSWER and CONGESTION
// each have two observed spellings.
const (
	DispositionAnswered      = "ANSWERED"
	DispositionBusy          = "BUSY"
	DispositionNoAnswer      = "NO ANSWER"
	DispositionNoAnswerAlt   = "NOANSWER"
	DispositionFailed        = "FAILED"
	DispositionCongestion    = "CONGESTION"
	DispositionCongestionAlt = "CONGESTED"
)

func IsNoAnswer(disposition string) bool {
	return disposition == DispositionNoAnswer || disposition == DispositionNoAnswerAlt
}

func IsCongested(disposition string) bool {
	return disposition == DispositionCongestion || disposition == DispositionCongestionAlt
}

// DispositionMatches reports whether a leg's disposition satisfies a filter
// value, treating the alternate spellings of NO ANSWER and CONGESTION as
// equivalent in either direction.
func DispositionMatches(want, got string) bool {
	switch {
	case want == "":
		return true
	case IsNoAnswer(want):
		return IsNoAnswer(got)
	case IsCongested(want):
		return IsCongested(got)
	default:
		return want == got
	}
}

// IsQueueContext reports whether a dial context belongs to queue handling
// (FreePBX-style ext-queues / from-queue contexts).
func IsQueueContext(dcontext string) bool {
	return strings.Contains(strings.ToLower(dcontext), "queue")
}
