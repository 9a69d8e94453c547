// Package showtime derives coarse time-of-day buckets from free-form
// showtime strings and filters nested theater/format/showtime structures
// by bucket and screening category.
package showtime

import (
	"strconv"
	"strings"
)

// Category is a time-of-day bucket.
type Category string

const (
	Morning   Category = "morning"    // 06:00-11:59
	Afternoon Category = "afternoon"  // 12:00-16:59
	Evening   Category = "evening"    // 17:00-21:59
	LateNight Category = "late_night" // 22:00-05:59, wraps midnight
)

// Categories lists the buckets in display order.
var Categories = []Category{Morning, Afternoon, Evening, LateNight}

// Valid reports whether s names a known bucket.
func Valid(s string) bool {
	switch Category(s) {
	case Morning, Afternoon, Evening, LateNight:
		return true
	}
	return false
}

// Parseable reports whether a time string can be bucketed without the
// evening fallback.  Write paths use it to reject garbage up front; read
// paths always fall back instead.
func Parseable(timeStr string) bool {
	_, ok := categorize(timeStr)
	return ok
}

// CategorizeTime buckets a free-form time string ("7:00 PM", "19:00",
// "9 AM").  Parse failures never propagate: garbage input falls back to
// Evening so one malformed slot cannot break an entire listing.
func CategorizeTime(timeStr string) Category {
	c, _ := categorize(timeStr)
	return c
}

// categorize is the testable core: the second return value is false when
// the input could not be parsed and the evening fallback was applied.
func categorize(timeStr string) (Category, bool) {
	clean := strings.ToUpper(strings.TrimSpace(timeStr))
	if clean == "" {
		return Evening, false
	}

	var hour int
	switch {
	case strings.Contains(clean, "AM"), strings.Contains(clean, "PM"):
		pm := strings.Contains(clean, "PM")
		part := clean
		part = strings.ReplaceAll(part, "AM", "")
		part = strings.ReplaceAll(part, "PM", "")
		part = strings.TrimSpace(part)
		h, ok := leadingHour(part)
		if !ok {
			return Evening, false
		}
		// standard 12-hour conversion with explicit noon/midnight cases
		switch {
		case pm && h != 12:
			hour = h + 12
		case !pm && h == 12:
			hour = 0
		default:
			hour = h
		}
	default:
		h, ok := leadingHour(clean)
		if !ok {
			return Evening, false
		}
		hour = h
	}

	switch {
	case hour >= 6 && hour < 12:
		return Morning, true
	case hour >= 12 && hour < 17:
		return Afternoon, true
	case hour >= 17 && hour < 22:
		return Evening, true
	default:
		return LateNight, true
	}
}

// leadingHour parses the integer before the first colon, or the whole
// string when there is no colon.
func leadingHour(s string) (int, bool) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 {
		return 0, false
	}
	return h, true
}
