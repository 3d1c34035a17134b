package report

import (
	"context"
	"fmt"
	"strconv"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

// Service runs the reporting pipeline: fetch legs for the range, apply the
// access predicate and row filters, aggregate into calls, classify against
// the preset, then shape the result for the requested view.
type Service struct {
	repo     Repository
	gateways *GatewayResolver
}

func NewService(repo Repository, gateways *GatewayResolver) *Service {
	return &Service{repo: repo, gateways: gateways}
}

// Summary holds the disposition tallies for a filtered, grouped result set.
type Summary struct {
	Total              int `json:"total"`
	Answered           int `json:"answered"`
	Missed             int `json:"missed"`
	Abandoned          int `json:"abandoned"`
	Busy               int `json:"busy"`
	Failed             int `json:"failed"`
	Congested          int `json:"congested"`
	TotalBilledSeconds int `json:"total_billsec"`
	MaxConcurrent      int `json:"max_concurrent"`
}

// PageResult is one page of grouped calls plus paging metadata.
type PageResult struct {
	Calls      []Call `json:"calls"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// LegacyPageResult is one page of raw legs for the non-grouped view.
type LegacyPageResult struct {
	Rows       []cdr.CallLeg `json:"rows"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// exportColumns is the historical CDR export layout, kept stable so
// downstream spreadsheets keep working.
var exportColumns = []string{
	"calldate", "clid", "src", "dst", "channel", "dstchannel",
	"dcontext", "disposition", "duration", "billsec", "uniqueid", "recordingfile",
}

const legTimeLayout = "2006-01-02 15:04:05"

func (s *Service) legs(ctx context.Context, f Filter, p Principal) ([]cdr.CallLeg, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	all, err := s.repo.ListLegs(ctx, f.RangeStart(), f.RangeEnd())
	if err != nil {
		return nil, fmt.Errorf("list legs: %w", err)
	}
	keep := conjoin(p.Predicate(), f.predicate())
	out := make([]cdr.CallLeg, 0, len(all))
	for _, l := range all {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) classifier(ctx context.Context, f Filter, p Principal) (Classifier, error) {
	gw, err := s.gateways.Resolve(ctx, f.Gateway)
	if err != nil {
		return Classifier{}, fmt.Errorf("resolve gateway: %w", err)
	}
	pat, _ := cdr.NewGatewayPattern(gw)
	return NewClassifier(pat, p.Extensions), nil
}

// calls returns the grouped calls matching the filter's preset.
func (s *Service) calls(ctx context.Context, f Filter, p Principal) ([]Call, Classifier, error) {
	legs, err := s.legs(ctx, f, p)
	if err != nil {
		return nil, Classifier{}, err
	}
	cls, err := s.classifier(ctx, f, p)
	if err != nil {
		return nil, Classifier{}, err
	}
	grouped := GroupCalls(legs)
	out := make([]Call, 0, len(grouped))
	for _, c := range grouped {
		if cls.Matches(c, f.Preset) {
			out = append(out, c)
		}
	}
	return out, cls, nil
}

// Summary tallies the grouped calls matching the filter, including the peak
// trunk concurrency over the matched legs.
func (s *Service) Summary(ctx context.Context, f Filter, p Principal) (Summary, error) {
	calls, cls, err := s.calls(ctx, f, p)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	var trunkLegs []cdr.CallLeg
	for _, c := range calls {
		sum.Total++
		sum.TotalBilledSeconds += c.TotalBilledSeconds
		if c.AnyAnswered {
			sum.Answered++
		} else {
			sum.Missed++
			if c.AnyQueueContext {
				sum.Abandoned++
			}
			switch {
			case cdr.DispositionMatches(cdr.DispositionBusy, c.Status()):
				sum.Busy++
			case cdr.DispositionMatches(cdr.DispositionFailed, c.Status()):
				sum.Failed++
			case cdr.DispositionMatches(cdr.DispositionCongestion, c.Status()):
				sum.Congested++
			}
		}
		for _, l := range c.Legs {
			if cls.Gateway.MatchesLeg(l) {
				trunkLegs = append(trunkLegs, l)
			}
		}
	}
	sum.MaxConcurrent = MaxConcurrent(trunkLegs)
	return sum, nil
}

// Page returns the requested page of grouped calls, sorted and clamped.
func (s *Service) Page(ctx context.Context, f Filter, p Principal) (PageResult, error) {
	calls, _, err := s.calls(ctx, f, p)
	if err != nil {
		return PageResult{}, err
	}
	SortCalls(calls, f.Sort)

	page, size, offset := clampPage(f.Page, len(calls))
	lo, hi := pageWindow(len(calls), offset, size)
	return PageResult{
		Calls:      calls[lo:hi],
		Total:      len(calls),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages(len(calls), size),
	}, nil
}

// LegacyPage returns raw legs for the non-grouped view. Presets are applied
// per leg against the historical disposition rules.
func (s *Service) LegacyPage(ctx context.Context, f Filter, p Principal) (LegacyPageResult, error) {
	rows, err := s.legacyRows(ctx, f, p)
	if err != nil {
		return LegacyPageResult{}, err
	}
	SortLegRows(rows, f.Sort)

	page, size, offset := clampPage(f.Page, len(rows))
	lo, hi := pageWindow(len(rows), offset, size)
	return LegacyPageResult{
		Rows:       rows[lo:hi],
		Total:      len(rows),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages(len(rows), size),
	}, nil
}

func (s *Service) legacyRows(ctx context.Context, f Filter, p Principal) ([]cdr.CallLeg, error) {
	legs, err := s.legs(ctx, f, p)
	if err != nil {
		return nil, err
	}
	gw, err := s.gateways.Resolve(ctx, f.Gateway)
	if err != nil {
		return nil, fmt.Errorf("resolve gateway: %w", err)
	}
	pat, _ := cdr.NewGatewayPattern(gw)
	keep := legacyPresetPredicate(f.Preset, pat)
	out := make([]cdr.CallLeg, 0, len(legs))
	for _, l := range legs {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// ExtensionRollup computes per-extension KPI rows over the matched calls.
func (s *Service) ExtensionRollup(ctx context.Context, f Filter, p Principal) ([]ExtensionKPI, error) {
	calls, cls, err := s.calls(ctx, f, p)
	if err != nil {
		return nil, err
	}
	return RollupByExtension(calls, cls), nil
}

// MaxConcurrency computes the peak number of simultaneous legs on the named
// gateway over the filter range. An empty gateway falls back to the default.
func (s *Service) MaxConcurrency(ctx context.Context, f Filter, p Principal, gateway string) (int, error) {
	legs, err := s.legs(ctx, f, p)
	if err != nil {
		return 0, err
	}
	gw, err := s.gateways.Resolve(ctx, gateway)
	if err != nil {
		return 0, fmt.Errorf("resolve gateway: %w", err)
	}
	pat, ok := cdr.NewGatewayPattern(gw)
	if !ok {
		return 0, nil
	}
	trunk := legs[:0:0]
	for _, l := range legs {
		if pat.MatchesLeg(l) {
			trunk = append(trunk, l)
		}
	}
	return MaxConcurrent(trunk), nil
}

// Gateways lists the trunk identifiers available to the report UI.
func (s *Service) Gateways(ctx context.Context) ([]string, error) {
	return s.gateways.List(ctx)
}

// ExportRows produces the full leg-level result set for export: all filters
// applied, page window ignored, historical column order.
func (s *Service) ExportRows(ctx context.Context, f Filter, p Principal) ([]string, [][]string, error) {
	rows, err := s.legacyRows(ctx, f, p)
	if err != nil {
		return nil, nil, err
	}
	SortLegRows(rows, f.Sort)

	out := make([][]string, 0, len(rows))
	for _, l := range rows {
		out = append(out, []string{
			l.CallDate.Format(legTimeLayout),
			l.CallerID,
			l.Source,
			l.Destination,
			l.Channel,
			l.DstChannel,
			l.Context,
			l.Disposition,
			strconv.Itoa(l.DurationSeconds),
			strconv.Itoa(l.BilledSeconds),
			l.UniqueID,
			l.RecordingFile,
		})
	}
	headers := make([]string, len(exportColumns))
	copy(headers, exportColumns)
	return headers, out, nil
}

// ExportFilename derives the download name from the filter range.
func ExportFilename(f Filter, ext string) string {
	return fmt.Sprintf("cdr_%s_to_%s.%s", f.From.Format("2006-01-02"), f.To.Format("2006-01-02"), ext)
}

func totalPages(total, size int) int {
	if total == 0 {
		return 1
	}
	return (total + size - 1) / size
}
