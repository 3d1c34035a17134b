package cdr

import "testing"

func TestGatewayPattern_Normalization(t *testing.T) {
	cases := []struct {
		in      string
		channel string
		want    bool
	}{
		{"gw1", "PJSIP/gw1-000001", true},
		{"gw1-%", "PJSIP/gw1-000001", true},
		{"gw1-", "SIP/gw1-00aa", true},
		{"PJSIP/gw1", "PJSIP/gw1-000001", true},
		{"PJSIP/gw1", "SIP/gw1-000001", false},
		{"gw1", "PJSIP/gw10-000001", false},
		{"gw1", "PJSIP/101-000002", false},
		{"gw1", "", false},
	}
	for _, c := range cases {
		p, ok := NewGatewayPattern(c.in)
		if !ok {
			t.Fatalf("pattern %q rejected", c.in)
		}
		if got := p.Matches(c.channel); got != c.want {
			t.Fatalf("pattern %q vs %q: got %v, want %v", c.in, c.channel, got, c.want)
		}
	}
}

func TestGatewayPattern_RejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "%", "-", "-%", "\x00"} {
		if _, ok := NewGatewayPattern(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestExtensionPattern_Matches(t *testing.T) {
	p, ok := NewExtensionPattern("101")
	if !ok {
		t.Fatalf("expected 101 to be accepted")
	}
	for channel, want := range map[string]bool{
		"SIP/101-000001":   true,
		"PJSIP/101-00ab":   true,
		"Local/101@from-internal": true,
		"SIP/1010-000001":  false,
		"PJSIP/gw1-000001": false,
		"":                 false,
	} {
		if got := p.Matches(channel); got != want {
			t.Fatalf("101 vs %q: got %v, want %v", channel, got, want)
		}
	}
}

func TestExtensionPattern_RejectsNonDigits(t *testing.T) {
	for _, in := range []string{"", "gw1", "10a", "10 1"} {
		if _, ok := NewExtensionPattern(in); ok {
			t.Fatalf("expected %q to be rejected", in)
		}
	}
}

func TestExtensionFromChannel(t *testing.T) {
	cases := []struct {
		channel string
		ext     string
		ok      bool
	}{
		{"SIP/101-000001", "101", true},
		{"PJSIP/2001-00ab12", "2001", true},
		{"Local/101@from-internal", "101", true},
		{"PJSIP/gw1-000001", "", false},
		{"DAHDI/1-1", "1", true},
		{"no-slash", "", false},
		{"SIP/101", "", false},
	}
	for _, c := range cases {
		ext, ok := ExtensionFromChannel(c.channel)
		if ok != c.ok || ext != c.ext {
			t.Fatalf("%q: got (%q,%v), want (%q,%v)", c.channel, ext, ok, c.ext, c.ok)
		}
	}
}

func TestDispositionMatches_Aliases(t *testing.T) {
	if !DispositionMatches("NO ANSWER", "NOANSWER") {
		t.Fatalf("NO ANSWER should match NOANSWER")
	}
	if !DispositionMatches("NOANSWER", "NO ANSWER") {
		t.Fatalf("NOANSWER should match NO ANSWER")
	}
	if !DispositionMatches("CONGESTED", "CONGESTION") {
		t.Fatalf("CONGESTED should match CONGESTION")
	}
	if DispositionMatches("ANSWERED", "BUSY") {
		t.Fatalf("ANSWERED should not match BUSY")
	}
	if !DispositionMatches("", "BUSY") {
		t.Fatalf("empty filter matches anything")
	}
}

func TestIsQueueContext(t *testing.T) {
	for ctx, want := range map[string]bool{
		"ext-queues":    true,
		"from-queue":    true,
		"from-internal": false,
		"":              false,
	} {
		if got := IsQueueContext(ctx); got != want {
			t.Fatalf("%q: got %v, want %v", ctx, got, want)
		}
	}
}
