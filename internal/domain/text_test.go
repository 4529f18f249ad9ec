package domain

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "cozy cafe", "cozy cafe"},
		{"collapse whitespace", "  cozy\t\ncafe  ", "cozy cafe"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"nfkc fullwidth", "ｃａｆｅ", "cafe"},
		{"invalid utf8 stripped", "caf\xffe", "cafe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 3); got != "hel" {
		t.Errorf("TruncateRunes = %q, want %q", got, "hel")
	}
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Errorf("short input must pass through, got %q", got)
	}
	if got := TruncateRunes("hello", 0); got != "hello" {
		t.Errorf("n<=0 must disable truncation, got %q", got)
	}
	// Rune-safe: no broken multibyte sequences.
	if got := TruncateRunes("привет", 4); got != "прив" {
		t.Errorf("TruncateRunes = %q, want %q", got, "прив")
	}
}
