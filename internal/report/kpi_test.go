package report

import (
	"testing"
	"time"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

func TestRollupByExtension(t *testing.T) {
	cls := testClassifier(t, "gw1")

	queueLeg := testLeg(40, "u5", "q1", "PJSIP/gw1-5", "Local/102@ext-queues", cdr.DispositionNoAnswer, 0)
	queueLeg.Context = "ext-queues"

	calls := GroupCalls([]cdr.CallLeg{
		// 101: one answered inbound, one missed with a busy leg.
		testLeg(0, "u1", "a", "PJSIP/gw1-1", "PJSIP/101-1", cdr.DispositionAnswered, 30),
		testLeg(10, "u2", "b", "PJSIP/gw1-2", "PJSIP/101-2", cdr.DispositionBusy, 0),
		// 102: one abandoned queue call.
		queueLeg,
		// trunk-only call, attributable to nobody.
		testLeg(60, "u6", "t", "PJSIP/gw1-6", "", cdr.DispositionNoAnswer, 0),
	})

	rows := RollupByExtension(calls, cls)
	if len(rows) != 2 {
		t.Fatalf("expected 2 extensions, got %d", len(rows))
	}

	r101 := rows[0]
	if r101.Extension != "101" {
		t.Fatalf("expected extension 101 first, got %s", r101.Extension)
	}
	if r101.TotalCalls != 2 || r101.Answered != 1 || r101.Missed != 1 || r101.Busy != 1 {
		t.Errorf("101 counters wrong: %+v", r101)
	}
	if r101.TotalBilledSeconds != 30 {
		t.Errorf("101 billsec = %d, want 30", r101.TotalBilledSeconds)
	}
	if !r101.LastCall.Equal(testDay.Add(10 * time.Second)) {
		t.Errorf("101 last call = %v", r101.LastCall)
	}

	r102 := rows[1]
	if r102.Extension != "102" {
		t.Fatalf("expected extension 102, got %s", r102.Extension)
	}
	if r102.TotalCalls != 1 || r102.Missed != 1 || r102.Abandoned != 1 {
		t.Errorf("102 counters wrong: %+v", r102)
	}
}

func TestRollupNumericOrder(t *testing.T) {
	cls := testClassifier(t, "gw1")
	calls := GroupCalls([]cdr.CallLeg{
		testLeg(0, "u1", "a", "PJSIP/1000-1", "PJSIP/9-1", cdr.DispositionAnswered, 1),
		testLeg(1, "u2", "b", "PJSIP/99-1", "PJSIP/8-1", cdr.DispositionAnswered, 1),
	})
	rows := RollupByExtension(calls, cls)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Extension != "99" || rows[1].Extension != "1000" {
		t.Errorf("expected numeric order [99 1000], got [%s %s]", rows[0].Extension, rows[1].Extension)
	}
}
