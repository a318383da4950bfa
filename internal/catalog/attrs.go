package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Attribute namespaces used by the catalog.
const (
	nsFlight      = "flight"
	nsDestination = "destination"
	nsCustom      = "custom"
)

// intPrefix reads the leading integer of s the way a lenient numeric-prefix
// reader does: leading spaces, optional sign, then digits. "4h 15m" -> 4.
// Digit runs beyond the int range clamp to math.MaxInt or math.MinInt.
// ok is false when s has no leading digits.
func intPrefix(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.ParseInt(s[:end], 10, strconv.IntSize)
	if errors.Is(err, strconv.ErrRange) {
		if s[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// floatPrefix reads the longest leading decimal number of s, with an
// optional exponent. "4.5 stars" -> 4.5, "1e3" -> 1000.
func floatPrefix(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	num := strings.TrimSuffix(s[:end], ".") + s[end:exponentEnd(s, end)]
	v, err := strconv.ParseFloat(num, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// exponentEnd extends a mantissa ending at end over an "e", optional sign
// and at least one digit. Without digits the exponent is not consumed.
func exponentEnd(s string, end int) int {
	i := end
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return end
	}
	i++
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return end
	}
	return i
}

// intOr returns the integer prefix of s, or def.
func intOr(s string, def int) int {
	if v, ok := intPrefix(s); ok {
		return v
	}
	return def
}

// floatOr returns the decimal prefix of s, or def.
func floatOr(s string, def float64) float64 {
	if v, ok := floatPrefix(s); ok {
		return v
	}
	return def
}

// parseAmount parses a price amount. Absent or malformed amounts yield NaN.
func parseAmount(s string) float64 {
	if v, ok := floatPrefix(s); ok {
		return v
	}
	return math.NaN()
}

// stringList decodes a JSON array of strings. ok is false on absence or any
// decode failure; callers choose the fallback.
func stringList(raw string) (out []string, ok bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	if out == nil {
		out = []string{}
	}
	return out, true
}

// lastSegment returns the part of a catalog global id after the final "/".
// "gid://shopify/Product/123" -> "123".
func lastSegment(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}

// firstImage returns the first image URL or "".
func firstImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}

// DurationHours returns the leading hour count of a duration such as
// "4h 15m". Minutes are ignored.
func DurationHours(duration string) (int, bool) {
	return intPrefix(duration)
}
