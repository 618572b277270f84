package toolutil

import (
	"testing"
	"unicode/utf8"
)

func TestNormLang(t *testing.T) {
	tests := []struct {
		in, fallback, want string
	}{
		{"zh", "en", "zh"},
		{" ZH-CN ", "en", "zh"},
		{"English", "zh", "en"},
		{"", "zh", "zh"},
		{"fr", "", "en"},
	}
	for _, tt := range tests {
		if got := NormLang(tt.in, tt.fallback); got != tt.want {
			t.Errorf("NormLang(%q, %q) = %q, want %q", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey(""); got != "" {
		t.Errorf("empty: %q", got)
	}
	if got := MaskKey("short"); got != "***" {
		t.Errorf("short: %q", got)
	}
	if got := MaskKey("AIzaSyD-1234567890xyz"); got != "AIza…xyz" {
		t.Errorf("long: %q", got)
	}
	if got := MaskKey("ключ-секретный-ёж"); got != "ключ…-ёж" || !utf8.ValidString(got) {
		t.Errorf("cyrillic: %q", got)
	}
	if got := MaskKey("ключключ"); got != "***" {
		t.Errorf("eight runes: %q", got)
	}
}

func TestClampLimit(t *testing.T) {
	if got := ClampLimit(0, 50); got != 50 {
		t.Errorf("unset: %d", got)
	}
	if got := ClampLimit(80, 50); got != 50 {
		t.Errorf("above: %d", got)
	}
	if got := ClampLimit(10, 50); got != 10 {
		t.Errorf("within: %d", got)
	}
}
