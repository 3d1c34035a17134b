package report

import (
	"sort"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// ExtensionKPI is one row of the by-extension rollup.
type ExtensionKPI struct {
	Extension string `json:"extension"`

	TotalCalls int `json:"total_calls"`
	Answered   int `json:"answered"`
	Missed     int `json:"missed"`
	Abandoned  int `json:"abandoned"`
	Busy       int `json:"busy"`

	TotalBilledSeconds int       `json:"total_billsec"`
	LastCall           time.Time `json:"last_call"`
}

// RollupByExtension aggregates per-call KPIs by the extension attributed to
// each call. Calls that no extension can claim are dropped from the rollup.
// Rows come back in numeric extension order.
func RollupByExtension(calls []Call, cls Classifier) []ExtensionKPI {
	byExt := make(map[string]*ExtensionKPI)

	for _, call := range calls {
		ext, ok := cls.attributedExtension(call)
		if !ok {
			continue
		}
		row, ok := byExt[ext]
		if !ok {
			row = &ExtensionKPI{Extension: ext}
			byExt[ext] = row
		}

		row.TotalCalls++
		if call.AnyAnswered {
			row.Answered++
		} else {
			row.Missed++
			if call.AnyQueueContext {
				row.Abandoned++
			}
			if anyLegBusy(call) {
				row.Busy++
			}
		}
		row.TotalBilledSeconds += call.TotalBilledSeconds
		if call.StartTime.After(row.LastCall) {
			row.LastCall = call.StartTime
		}
	}

	out := make([]ExtensionKPI, 0, len(byExt))
	for _, row := range byExt {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Extension, out[j].Extension
		if len(a) != len(b) {
			return len(a) < len(b) // digit strings: shorter means smaller
		}
		return a < b
	})
	return out
}

func anyLegBusy(call Call) bool {
	for _, l := range call.Legs {
		if l.Disposition == cdr.DispositionBusy {
			return true
		}
	}
	return false
}
