// Package toolutil provides input helpers shared by the MCP tools and the dashboard.
package toolutil

import (
	"strings"
)

// NormLang normalises a language field to a supported UI language.
func NormLang(lang, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "zh", "zh-cn", "cn", "chinese":
		return "zh"
	case "en", "en-us", "english":
		return "en"
	}
	if fallback == "" {
		return "en"
	}
	return fallback
}

// NormKey trims an API key pasted into a form or tool call.
func NormKey(key string) string {
	return strings.TrimSpace(key)
}

// MaskKey hides all but the edges of a credential for logs.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	r := []rune(key)
	if len(r) <= 8 {
		return "***"
	}
	return string(r[:4]) + "…" + string(r[len(r)-3:])
}

// ClampLimit returns n, or upper when n is unset or above it.
func ClampLimit(n, upper int) int {
	if n <= 0 || n > upper {
		return upper
	}
	return n
}
