package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestWriteCSVQuoting(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"a", "b"}
	rows := [][]string{
		{`a,b"c`, "plain"},
		{"line\nbreak", "x"},
	}
	if err := WriteCSV(&buf, headers, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"a,b""c"`) {
		t.Errorf("expected RFC 4180 quoting, got %q", out)
	}

	// Round-trip through a standard parser.
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[1][0] != `a,b"c` {
		t.Errorf("round-trip mangled the field: %q", records[1][0])
	}
	if records[2][0] != "line\nbreak" {
		t.Errorf("newline field mangled: %q", records[2][0])
	}
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"calldate", "src"}, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != "calldate,src\n" {
		t.Errorf("got %q", got)
	}
}
