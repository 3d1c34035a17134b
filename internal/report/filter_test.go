package report

import (
	"errors"
	"testing"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

func validFilter() Filter {
	return Filter{From: testDay, To: testDay.Add(24 * time.Hour)}
}

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Filter)
		wantErr bool
	}{
		{"valid", func(*Filter) {}, false},
		{"missing from", func(f *Filter) { f.From = time.Time{} }, true},
		{"missing to", func(f *Filter) { f.To = time.Time{} }, true},
		{"inverted range", func(f *Filter) { f.To = f.From.Add(-24 * time.Hour) }, true},
		{"same day", func(f *Filter) { f.To = f.From }, false},
		{"non-numeric src", func(f *Filter) { f.Src = "10a" }, true},
		{"non-numeric dst", func(f *Filter) { f.Dst = "abc" }, true},
		{"negative billsec", func(f *Filter) { f.MinBillsec = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFilter()
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFilter) {
					t.Fatalf("expected ErrInvalidFilter, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParsePresetFallsBackToAll(t *testing.T) {
	tests := []struct {
		in   string
		want Preset
	}{
		{"inbound", PresetInbound},
		{" Missed_In ", PresetMissedIn},
		{"ABANDONED", PresetAbandoned},
		{"", PresetAll},
		{"bogus", PresetAll},
		{"DELETE FROM cdr", PresetAll},
	}
	for _, tt := range tests {
		if got := ParsePreset(tt.in); got != tt.want {
			t.Errorf("ParsePreset(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFilterPredicateFreeText(t *testing.T) {
	f := validFilter()
	f.Query = "GW1"
	pred := f.predicate()

	hit := testLeg(60, "u1", "", "PJSIP/gw1-000001", "", cdr.DispositionAnswered, 5)
	miss := testLeg(60, "u2", "", "PJSIP/101-000002", "", cdr.DispositionAnswered, 5)

	if !pred(hit) {
		t.Error("case-insensitive channel substring should match")
	}
	if pred(miss) {
		t.Error("unrelated leg should not match")
	}
}

func TestFilterPredicateSrcMatchesNumberOrChannel(t *testing.T) {
	f := validFilter()
	f.Src = "101"
	pred := f.predicate()

	byNumber := testLeg(60, "u1", "", "DAHDI/4-1", "", cdr.DispositionAnswered, 5)
	byNumber.Source = "101"
	byChannel := testLeg(60, "u2", "", "PJSIP/101-000001", "", cdr.DispositionAnswered, 5)
	byChannel.Source = "9999"
	neither := testLeg(60, "u3", "", "PJSIP/102-000001", "", cdr.DispositionAnswered, 5)
	neither.Source = "102"

	if !pred(byNumber) || !pred(byChannel) {
		t.Error("src filter must match either the number or the channel extension")
	}
	if pred(neither) {
		t.Error("src filter matched an unrelated leg")
	}
}

func TestFilterPredicateDispositionAliases(t *testing.T) {
	f := validFilter()
	f.Disposition = "no answer"
	pred := f.predicate()

	canonical := testLeg(60, "u1", "", "PJSIP/101-1", "", cdr.DispositionNoAnswer, 0)
	alias := testLeg(60, "u2", "", "PJSIP/101-1", "", cdr.DispositionNoAnswerAlt, 0)
	other := testLeg(60, "u3", "", "PJSIP/101-1", "", cdr.DispositionBusy, 0)

	if !pred(canonical) || !pred(alias) {
		t.Error("NO ANSWER filter must accept both spellings")
	}
	if pred(other) {
		t.Error("BUSY leg matched a NO ANSWER filter")
	}
}

func TestFilterPredicateMinBillsec(t *testing.T) {
	f := validFilter()
	f.MinBillsec = 10
	pred := f.predicate()

	if pred(testLeg(60, "u1", "", "PJSIP/101-1", "", cdr.DispositionAnswered, 9)) {
		t.Error("9s leg passed a 10s minimum")
	}
	if !pred(testLeg(60, "u2", "", "PJSIP/101-1", "", cdr.DispositionAnswered, 10)) {
		t.Error("boundary value must pass (inclusive minimum)")
	}
}

func TestFilterPredicateDateRangeInclusive(t *testing.T) {
	f := validFilter()
	pred := f.predicate()

	lastSecond := testLeg(0, "u1", "", "PJSIP/101-1", "", cdr.DispositionAnswered, 5)
	lastSecond.CallDate = f.RangeEnd()
	after := lastSecond
	after.CallDate = f.RangeEnd().Add(time.Second)

	if !pred(lastSecond) {
		t.Error("23:59:59 on the last day must be inside the range")
	}
	if pred(after) {
		t.Error("midnight after the range leaked in")
	}
}

func TestLegacyPresetPredicates(t *testing.T) {
	gw, _ := cdr.NewGatewayPattern("gw1")

	inbound := testLeg(0, "u1", "", "PJSIP/gw1-1", "PJSIP/101-1", cdr.DispositionAnswered, 20)
	outbound := testLeg(1, "u2", "", "PJSIP/101-1", "PJSIP/gw1-2", cdr.DispositionAnswered, 20)
	missedIn := testLeg(2, "u3", "", "PJSIP/gw1-3", "", cdr.DispositionNoAnswer, 0)
	abandoned := testLeg(3, "u4", "", "PJSIP/gw1-4", "", cdr.DispositionNoAnswer, 0)
	abandoned.Context = "ext-queues"
	internal := testLeg(4, "u5", "", "PJSIP/101-1", "PJSIP/102-1", cdr.DispositionAnswered, 10)

	tests := []struct {
		preset Preset
		leg    cdr.CallLeg
		want   bool
	}{
		{PresetAll, internal, true},
		{PresetInbound, inbound, true},
		{PresetInbound, outbound, false},
		{PresetOutbound, outbound, true},
		{PresetOutbound, inbound, false},
		{PresetMissedIn, missedIn, true},
		{PresetMissedIn, inbound, false},
		{PresetMissedIn, abandoned, false}, // queue legs are not missed
		{PresetInternal, internal, true},
		{PresetInternal, inbound, false},
		{PresetAbandoned, abandoned, true},
		{PresetAbandoned, missedIn, false},
	}
	for _, tt := range tests {
		pred := legacyPresetPredicate(tt.preset, gw)
		if got := pred(tt.leg); got != tt.want {
			t.Errorf("preset %s leg %s: got %v, want %v", tt.preset, tt.leg.UniqueID, got, tt.want)
		}
	}
}

func TestLegacyPresetWithoutGatewayDegradesToAll(t *testing.T) {
	var zero cdr.GatewayPattern
	pred := legacyPresetPredicate(PresetInbound, zero)
	if !pred(testLeg(0, "u1", "", "PJSIP/101-1", "", cdr.DispositionAnswered, 5)) {
		t.Error("gateway presets without a gateway must not hide rows")
	}

	// Abandoned needs no gateway and still filters.
	pred = legacyPresetPredicate(PresetAbandoned, zero)
	if pred(testLeg(0, "u2", "", "PJSIP/101-1", "PJSIP/102-1", cdr.DispositionAnswered, 5)) {
		t.Error("abandoned preset must keep filtering without a gateway")
	}
}
