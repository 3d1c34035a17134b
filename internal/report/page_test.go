package report

import (
	"testing"

	"github.com/asm2me/Asterisk-Reporting/internal/cdr"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		spec       PageSpec
		total      int
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{"defaults", PageSpec{}, 120, 1, 50, 0},
		{"size below minimum", PageSpec{Number: 1, Size: 3}, 120, 1, 10, 0},
		{"size above maximum", PageSpec{Number: 1, Size: 5000}, 120, 1, 200, 0},
		{"second page", PageSpec{Number: 2, Size: 50}, 120, 2, 50, 50},
		{"beyond last clamps to last", PageSpec{Number: 999, Size: 50}, 120, 3, 50, 100},
		{"zero rows still page one", PageSpec{Number: 7, Size: 50}, 0, 1, 50, 0},
		{"negative page", PageSpec{Number: -2, Size: 50}, 120, 1, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size, offset := clampPage(tt.spec, tt.total)
			if page != tt.wantPage || size != tt.wantSize || offset != tt.wantOffset {
				t.Errorf("clampPage = (%d, %d, %d), want (%d, %d, %d)",
					page, size, offset, tt.wantPage, tt.wantSize, tt.wantOffset)
			}
		})
	}
}

func TestNormalizeSortAllowList(t *testing.T) {
	tests := []struct {
		in   Sort
		want Sort
	}{
		{Sort{Column: "src"}, Sort{Column: SortSrc}},
		{Sort{Column: " BILLSEC ", Desc: true}, Sort{Column: SortBillsec, Desc: true}},
		{Sort{Column: "calldate; DROP TABLE cdr"}, Sort{Column: SortCallDate, Desc: true}},
		{Sort{Column: "password"}, Sort{Column: SortCallDate, Desc: true}},
		{Sort{}, Sort{Column: SortCallDate, Desc: true}},
	}
	for _, tt := range tests {
		got := normalizeSort(tt.in, SortCallDate, SortSrc, SortDst, SortDisposition, SortBillsec)
		if got != tt.want {
			t.Errorf("normalizeSort(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSortCalls(t *testing.T) {
	calls := GroupCalls([]cdr.CallLeg{
		testLeg(0, "u1", "a", "PJSIP/101-1", "", cdr.DispositionAnswered, 30),
		testLeg(10, "u2", "b", "PJSIP/102-1", "", cdr.DispositionAnswered, 10),
		testLeg(20, "u3", "c", "PJSIP/103-1", "", cdr.DispositionAnswered, 20),
	})

	SortCalls(calls, Sort{Column: SortBillsec})
	if calls[0].TotalBilledSeconds != 10 || calls[2].TotalBilledSeconds != 30 {
		t.Errorf("ascending billsec sort wrong: %d, %d, %d",
			calls[0].TotalBilledSeconds, calls[1].TotalBilledSeconds, calls[2].TotalBilledSeconds)
	}

	SortCalls(calls, Sort{Column: "nonsense"})
	if !calls[0].StartTime.After(calls[1].StartTime) {
		t.Error("unknown column must fall back to calldate descending")
	}
}

func TestSortLegRowsStable(t *testing.T) {
	legs := []cdr.CallLeg{
		testLeg(0, "u1", "", "PJSIP/101-1", "", cdr.DispositionAnswered, 5),
		testLeg(1, "u2", "", "PJSIP/102-1", "", cdr.DispositionAnswered, 5),
		testLeg(2, "u3", "", "PJSIP/103-1", "", cdr.DispositionAnswered, 5),
	}
	// Equal billsec everywhere: stable sort must keep time order.
	SortLegRows(legs, Sort{Column: SortBillsec})
	for i, want := range []string{"u1", "u2", "u3"} {
		if legs[i].UniqueID != want {
			t.Fatalf("stable sort reordered equal keys: %v", legs)
		}
	}
}

func TestPageWindow(t *testing.T) {
	if lo, hi := pageWindow(7, 5, 10); lo != 5 || hi != 7 {
		t.Errorf("short tail window = [%d,%d), want [5,7)", lo, hi)
	}
	if lo, hi := pageWindow(3, 10, 10); lo != 3 || hi != 3 {
		t.Errorf("offset past end = [%d,%d), want empty [3,3)", lo, hi)
	}
}
