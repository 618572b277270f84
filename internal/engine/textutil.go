package engine

import (
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentBot identifies API calls made by the radar.
const UserAgentBot = "GoViral/1.0"

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// TruncateAtWord truncates a string to maxLen runes at a word boundary.
func TruncateAtWord(s string, maxLen int) string {
	return strutil.TruncateAtWord(s, maxLen)
}

// FormatThousands renders a view count as "12.3k".
func FormatThousands(n int64) string {
	return fmt.Sprintf("%.1fk", float64(n)/1000)
}

// NormKeyword trims a keyword and collapses inner whitespace.
func NormKeyword(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
