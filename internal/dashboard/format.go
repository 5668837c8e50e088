// Package dashboard provides display formatting and watchlist statistics
// for the terminal views.
package dashboard

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var b strings.Builder
		start := len(s) % 3
		if start > 0 {
			b.WriteString(s[:start])
		}
		for i := start; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatPrice formats a price as $X.XX, or "-" when no price is known.
func FormatPrice(p float64) string {
	if p == 0 {
		return "-"
	}
	return fmt.Sprintf("$%.2f", p)
}

// FormatChange formats a percent change with an explicit sign, or "-" when
// no change is known.
func FormatChange(pct float64) string {
	if pct == 0 {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}

// FormatMarketCap formats a dollar market cap with K/M/B/T suffixes.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.1fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	case v > 0:
		return fmt.Sprintf("$%.0f", v)
	default:
		return "-"
	}
}

// FormatVolume formats a share volume, or "-" when unknown.
func FormatVolume(v int64) string {
	if v == 0 {
		return "-"
	}
	return FormatInt(v)
}

// Truncate shortens s to at most max runes, replacing the tail with "..."
// when it is cut. Truncation counts runes, not bytes, so multi-byte names
// are never split mid-character.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
