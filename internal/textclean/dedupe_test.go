package textclean

import "testing"

func TestDedupeBulletExample(t *testing.T) {
	in := "- Acme released Product X.\n* acme released product x\n- New pricing starts in July."
	want := "- Acme released Product X.\n- New pricing starts in July."
	if got := Dedupe(in); got != want {
		t.Fatalf("Dedupe bullets:\n got %q\nwant %q", got, want)
	}
}

func TestDedupeProseExample(t *testing.T) {
	in := "The system is fast. The system is fast. It also scales well."
	want := "The system is fast. It also scales well."
	if got := Dedupe(in); got != want {
		t.Fatalf("Dedupe prose: got %q, want %q", got, want)
	}
}

func TestDedupeCases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank lines only", "  \n\t\n", ""},
		{"bare markers dropped", "-\n*\n• \n- kept", "- kept"},
		{"marker styles unified", "• one\n* two\n  - three", "- one\n- two\n- three"},
		{"stacked markers stripped", "-- * double", "- double"},
		{"tab between markers", "-\t- x", "- x"},
		{"nbsp between markers", "- \u00a0* y", "- y"},
		{"prose line becomes bullet in bullet mode", "Intro line\n- item", "- Intro line\n- item"},
		{"bullet blank lines collapse", "- a\n\n\n- b", "- a\n- b"},
		{"crlf lines", "- a\r\n- A\r\n- b", "- a\n- b"},
		{"later duplicates dropped", "- b\n- a\n- B!", "- b\n- a"},
		{"prose keeps casing", "Hello World! hello, world? Bye.", "Hello World! Bye."},
		{"prose newlines split", "First one.\nSecond one.\nfirst ONE.", "First one. Second one."},
		{"prose without terminal punctuation", "no punctuation here", "no punctuation here"},
		{"prose decimals not special", "Pi is 3. 14 today.", "Pi is 3. 14 today."},
		{"prose surrounding space", "   A.   B.  ", "A. B."},
		{"punctuation-only sentences share key", "Hi. !!! ???", "Hi. !!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dedupe(tt.in); got != tt.want {
				t.Fatalf("Dedupe(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDedupeIdempotent(t *testing.T) {
	inputs := []string{
		"- Acme released Product X.\n* acme released product x\n- New pricing starts in July.",
		"The system is fast. The system is fast. It also scales well.",
		"Intro\n  • point one\n- POINT ONE\n\n*   \n- last",
		"One! Two? three. one Two? Four",
		"",
		"Café au lait. Cafe au lait. Thé.",
		"-\t- x",
		"- \u00a0* y",
		"*\t•\u00a0- stacked\n- stacked",
	}
	for _, in := range inputs {
		once := Dedupe(in)
		if twice := Dedupe(once); twice != once {
			t.Errorf("not idempotent for %q: once %q, twice %q", in, once, twice)
		}
	}
}

func TestDetectMode(t *testing.T) {
	tests := []struct {
		lines []string
		want  Mode
	}{
		{[]string{"plain", "text"}, ModeProse},
		{[]string{"plain", "   * starred"}, ModeBullet},
		{[]string{"\t• dot"}, ModeBullet},
		{[]string{"a - b"}, ModeProse},
		{nil, ModeProse},
	}
	for _, tt := range tests {
		if got := DetectMode(tt.lines); got != tt.want {
			t.Errorf("DetectMode(%q) = %v, want %v", tt.lines, got, tt.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if a, b := NormalizeKey("Acme Corp!"), NormalizeKey("acme   corp"); a != b || a != "acme corp" {
		t.Fatalf("NormalizeKey mismatch: %q vs %q", a, b)
	}
	tests := map[string]string{
		"  --Hello,   World--  ": "hello world",
		"Version 2.0":            "version 2 0",
		"café":                   "caf",
		"\u0130x":                "i x",
		"ISTANBUL":               "istanbul",
		"":                       "",
		"!!!":                    "",
	}
	for in, want := range tests {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}
