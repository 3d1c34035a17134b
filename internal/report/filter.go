package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// ErrInvalidFilter marks report requests rejected before any data is read:
// malformed dates, an inverted range, non-numeric number filters. Cosmetic
// inputs (sort, preset, page) never produce this error; they degrade to
// defaults instead because they only affect display ordering, never access.
var ErrInvalidFilter = errors.New("report: invalid filter")

// Preset is a named business classification applied to calls.
type Preset string

const (
	PresetAll       Preset = "all"
	PresetInbound   Preset = "inbound"
	PresetOutbound  Preset = "outbound"
	PresetMissed    Preset = "missed"
	PresetMissedIn  Preset = "missed_in"
	PresetMissedOut Preset = "missed_out"
	PresetInternal  Preset = "internal"
	PresetAbandoned Preset = "abandoned"
)

// ParsePreset maps UI input to a preset; unknown values fall back to all.
func ParsePreset(s string) Preset {
	switch Preset(strings.ToLower(strings.TrimSpace(s))) {
	case PresetInbound:
		return PresetInbound
	case PresetOutbound:
		return PresetOutbound
	case PresetMissed:
		return PresetMissed
	case PresetMissedIn:
		return PresetMissedIn
	case PresetMissedOut:
		return PresetMissedOut
	case PresetInternal:
		return PresetInternal
	case PresetAbandoned:
		return PresetAbandoned
	default:
		return PresetAll
	}
}

type Sort struct {
	Column string
	Desc   bool
}

type PageSpec struct {
	Number int
	Size   int
}

// Filter carries the UI-level report filters. From/To are inclusive calendar
// days. Everything is optional except the date range.
type Filter struct {
	From time.Time
	To   time.Time

	// Query is a case-insensitive substring searched across src, dst, clid,
	// uniqueid, channel and dstchannel.
	Query string

	// Src and Dst are digit strings matching either the number column or the
	// corresponding channel by extension-style prefix.
	Src string
	Dst string

	Disposition string
	MinBillsec  int

	Preset  Preset
	Gateway string

	Sort Sort
	Page PageSpec
}

func (f Filter) Validate() error {
	if f.From.IsZero() || f.To.IsZero() {
		return fmt.Errorf("%w: date range is required", ErrInvalidFilter)
	}
	if f.To.Before(f.From) {
		return fmt.Errorf("%w: To must be same or later than From", ErrInvalidFilter)
	}
	if f.Src != "" && !isDigits(f.Src) {
		return fmt.Errorf("%w: src must be numeric", ErrInvalidFilter)
	}
	if f.Dst != "" && !isDigits(f.Dst) {
		return fmt.Errorf("%w: dst must be numeric", ErrInvalidFilter)
	}
	if f.MinBillsec < 0 {
		return fmt.Errorf("%w: min billsec must not be negative", ErrInvalidFilter)
	}
	return nil
}

// RangeStart / RangeEnd expand the calendar days to the inclusive
// [from 00:00:00, to 23:59:59] window the original report used.
func (f Filter) RangeStart() time.Time {
	y, m, d := f.From.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.From.Location())
}

func (f Filter) RangeEnd() time.Time {
	y, m, d := f.To.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, f.To.Location())
}

// predicate compiles every sub-filter except access control and presets into
// one conjunction. Each optional input contributes an independent combinator,
// so the pieces stay testable away from any storage engine.
func (f Filter) predicate() LegPredicate {
	preds := []LegPredicate{f.datePredicate()}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		preds = append(preds, func(l cdr.CallLeg) bool {
			for _, field := range []string{l.Source, l.Destination, l.CallerID, l.UniqueID, l.Channel, l.DstChannel} {
				if strings.Contains(strings.ToLower(field), q) {
					return true
				}
			}
			return false
		})
	}

	if f.Src != "" {
		pat, _ := cdr.NewExtensionPattern(f.Src)
		src := f.Src
		preds = append(preds, func(l cdr.CallLeg) bool {
			return l.Source == src || pat.Matches(l.Channel)
		})
	}
	if f.Dst != "" {
		pat, _ := cdr.NewExtensionPattern(f.Dst)
		dst := f.Dst
		preds = append(preds, func(l cdr.CallLeg) bool {
			return l.Destination == dst || pat.Matches(l.DstChannel)
		})
	}

	if disp := strings.ToUpper(strings.TrimSpace(f.Disposition)); disp != "" {
		preds = append(preds, func(l cdr.CallLeg) bool {
			return cdr.DispositionMatches(disp, l.Disposition)
		})
	}

	if f.MinBillsec > 0 {
		minSec := f.MinBillsec
		preds = append(preds, func(l cdr.CallLeg) bool {
			return l.BilledSeconds >= minSec
		})
	}

	return conjoin(preds...)
}

func (f Filter) datePredicate() LegPredicate {
	start, end := f.RangeStart(), f.RangeEnd()
	return func(l cdr.CallLeg) bool {
		return !l.CallDate.Before(start) && !l.CallDate.After(end)
	}
}

// legacyPresetPredicate is the leg-level preset table used by the non-grouped
// report path and the flat CSV export. The group-aware classifier in
// classify.go is the authoritative form for grouped reports; the two must not
// be mixed within one report.
func legacyPresetPredicate(preset Preset, gw cdr.GatewayPattern) LegPredicate {
	if preset == PresetAll || preset == "" {
		return allowAll
	}
	if preset != PresetAbandoned && gw.IsZero() {
		return allowAll
	}

	notBridged := func(l cdr.CallLeg) bool {
		return l.DstChannel == "" || l.Destination == "s"
	}

	switch preset {
	case PresetInbound:
		return func(l cdr.CallLeg) bool { return gw.Matches(l.Channel) }
	case PresetOutbound:
		return func(l cdr.CallLeg) bool { return gw.Matches(l.DstChannel) }
	case PresetMissed:
		return func(l cdr.CallLeg) bool {
			return gw.MatchesLeg(l) && notBridged(l) && !l.InQueueContext()
		}
	case PresetMissedIn:
		return func(l cdr.CallLeg) bool {
			return gw.Matches(l.Channel) && notBridged(l) && !l.InQueueContext()
		}
	case PresetMissedOut:
		return func(l cdr.CallLeg) bool {
			return gw.Matches(l.DstChannel) && notBridged(l) && !l.InQueueContext()
		}
	case PresetInternal:
		return func(l cdr.CallLeg) bool { return !gw.MatchesLeg(l) }
	case PresetAbandoned:
		return func(l cdr.CallLeg) bool {
			return l.DstChannel == "" && l.InQueueContext()
		}
	default:
		return allowAll
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
