package report

import (
	"sort"
	"strings"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// Sort columns are allow-listed; anything else silently falls back to the
// default (calldate descending) rather than erroring, since ordering is a
// display concern only.

const (
	SortCallDate    = "calldate"
	SortSrc         = "src"
	SortDst         = "dst"
	SortDisposition = "disposition"
	SortDuration    = "duration"
	SortBillsec     = "billsec"
	SortLegCount    = "legs"
)

const (
	minPageSize     = 10
	maxPageSize     = 200
	defaultPageSize = 50
)

func normalizeSort(s Sort, allowed ...string) Sort {
	col := strings.ToLower(strings.TrimSpace(s.Column))
	for _, a := range allowed {
		if col == a {
			return Sort{Column: col, Desc: s.Desc}
		}
	}
	return Sort{Column: SortCallDate, Desc: true}
}

// clampPage applies the page-size window [10,200] and clamps the page number
// into [1, lastPage]. A request beyond the last page lands on the last page,
// so a narrowed filter never produces a blank page.
func clampPage(spec PageSpec, total int) (page, size, offset int) {
	size = spec.Size
	if size == 0 {
		size = defaultPageSize
	}
	if size < minPageSize {
		size = minPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	last := (total + size - 1) / size
	if last < 1 {
		last = 1
	}
	page = spec.Number
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}
	return page, size, (page - 1) * size
}

func pageWindow(n, offset, size int) (lo, hi int) {
	lo = offset
	if lo > n {
		lo = n
	}
	hi = lo + size
	if hi > n {
		hi = n
	}
	return lo, hi
}

// SortCalls orders grouped calls. The incoming slice is already in the
// deterministic aggregation order, so equal keys keep a stable relative order.
func SortCalls(calls []Call, s Sort) {
	s = normalizeSort(s, SortCallDate, SortSrc, SortDst, SortDisposition, SortBillsec, SortLegCount)
	less := callLess(s.Column)
	sort.SliceStable(calls, func(i, j int) bool {
		if s.Desc {
			i, j = j, i
		}
		return less(calls[i], calls[j])
	})
}

func callLess(column string) func(a, b Call) bool {
	switch column {
	case SortSrc:
		return func(a, b Call) bool { return a.Source < b.Source }
	case SortDst:
		return func(a, b Call) bool { return a.Destination < b.Destination }
	case SortDisposition:
		return func(a, b Call) bool { return a.Status() < b.Status() }
	case SortBillsec:
		return func(a, b Call) bool { return a.TotalBilledSeconds < b.TotalBilledSeconds }
	case SortLegCount:
		return func(a, b Call) bool { return a.LegCount < b.LegCount }
	default:
		return func(a, b Call) bool { return a.StartTime.Before(b.StartTime) }
	}
}

// SortLegRows orders flat leg rows for the legacy (non-grouped) page mode.
func SortLegRows(legs []cdr.CallLeg, s Sort) {
	s = normalizeSort(s, SortCallDate, SortSrc, SortDst, SortDisposition, SortDuration, SortBillsec)
	less := legLess(s.Column)
	sort.SliceStable(legs, func(i, j int) bool {
		if s.Desc {
			i, j = j, i
		}
		return less(legs[i], legs[j])
	})
}

func legLess(column string) func(a, b cdr.CallLeg) bool {
	switch column {
	case SortSrc:
		return func(a, b cdr.CallLeg) bool { return a.Source < b.Source }
	case SortDst:
		return func(a, b cdr.CallLeg) bool { return a.Destination < b.Destination }
	case SortDisposition:
		return func(a, b cdr.CallLeg) bool { return a.Disposition < b.Disposition }
	case SortDuration:
		return func(a, b cdr.CallLeg) bool { return a.DurationSeconds < b.DurationSeconds }
	case SortBillsec:
		return func(a, b cdr.CallLeg) bool { return a.BilledSeconds < b.BilledSeconds }
	default:
		return func(a, b cdr.CallLeg) bool { return a.CallDate.Before(b.CallDate) }
	}
}
