package prayer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in a (non-DST-transition) day.
const MinutesPerDay = 24 * 60

// SecondsPerDay is the number of seconds in a (non-DST-transition) day.
const SecondsPerDay = MinutesPerDay * 60

// Placeholder is displayed in place of a countdown when no data is loaded.
const Placeholder = "--:--:--"

// ErrInvalidTimeFormat is returned for strings that are not a valid 24h "HH:mm".
var ErrInvalidTimeFormat = errors.New("invalid time format")

var (
	hhmm     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	zoneNote = regexp.MustCompile(`\s*\([A-Z+\-0-9]+\)$`)
)

// ParseMinuteOfDay parses "HH:mm" into a minute of day in [0, 1439].
// A trailing timezone annotation such as " (WEST)" is ignored.
func ParseMinuteOfDay(raw string) (int, error) {
	s := zoneNote.ReplaceAllString(strings.TrimSpace(raw), "")

	m := hhmm.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	hour, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if hour > 23 || min > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimeFormat, raw)
	}
	return hour*60 + min, nil
}

// FormatMinuteOfDay formats a minute of day as zero-padded "HH:MM".
// Values outside one day wrap.
func FormatMinuteOfDay(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatClock renders a minute of day with a Go time layout, e.g. "15:04"
// or "3:04 PM".
func FormatClock(m int, layout string) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return time.Date(2000, 1, 1, m/60, m%60, 0, 0, time.UTC).Format(layout)
}

// MinuteOfDay returns t's wall-clock minute of day and second.
func MinuteOfDay(t time.Time) (minute, second int) {
	return t.Hour()*60 + t.Minute(), t.Second()
}

// FormatCountdown formats a number of seconds as "HH:MM:SS". Hours do not
// wrap at 24 and negative input is treated as zero.
func FormatCountdown(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatRemaining formats a number of seconds as "Xh Ym", or "Ym" under an
// hour. Seconds are truncated.
func FormatRemaining(totalSeconds int) string {
	if totalSeconds < 0 {
		return "0m"
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
