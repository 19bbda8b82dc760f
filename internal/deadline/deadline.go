// Package deadline translates relative time expressions such as "3d" or
// "+2w" into durations.
//
// Units are calendar-naive: a month is 30 days and a year is 12 months.
package deadline

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit lengths.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 12 * Month
)

var exprPattern = regexp.MustCompile(`^\+?(\d+)(.?)`)

// Forever is the longest duration Translate returns. Larger expressions are
// clamped to it.
const Forever = time.Duration(math.MaxInt64)

// Translate parses an expression of the form [+]<integer><unit> where unit is
// one of d, w, m or y. Any other unit character, or none at all, counts the
// integer as seconds. It returns false when the text does not start with
// digits (after an optional plus sign).
func Translate(text string) (time.Duration, bool) {
	m := exprPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return Forever, true
	}
	if err != nil {
		return 0, false
	}
	u := unit(m[2])
	if n > int64(Forever/u) {
		return Forever, true
	}
	return time.Duration(n) * u, true
}

func unit(s string) time.Duration {
	switch s {
	case "d":
		return Day
	case "w":
		return Week
	case "m":
		return Month
	case "y":
		return Year
	default:
		return time.Second
	}
}

// IsBefore reports whether a < b. A nil operand is incomparable and yields
// false.
func IsBefore(a, b *time.Duration) bool {
	if a == nil || b == nil {
		return false
	}
	return *a < *b
}
