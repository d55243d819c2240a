package prayer

import (
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/logger"
)

// DateLayout is the layout of Times.Date and of every cache freshness key.
const DateLayout = "2006-01-02"

// Times is one day's prayer schedule. Each field holds a 24h "HH:mm" local
// time. Values are built once per fetch or cache load and never mutated.
type Times struct {
	Date    string `json:"date"`
	Fajr    string `json:"fajr"`
	Sunrise string `json:"sunrise"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

// SafeDefaults returns the hard-coded schedule used when neither the network
// nor the cache can supply one.
func SafeDefaults(date time.Time) Times {
	return Times{
		Date:    date.Format(DateLayout),
		Fajr:    "06:00",
		Sunrise: "07:30",
		Dhuhr:   "13:00",
		Asr:     "16:30",
		Maghrib: "19:00",
		Isha:    "20:30",
	}
}

// Get returns the raw string for slot s.
func (t Times) Get(s Slot) string {
	switch s {
	case Fajr:
		return t.Fajr
	case Sunrise:
		return t.Sunrise
	case Dhuhr:
		return t.Dhuhr
	case Asr:
		return t.Asr
	case Maghrib:
		return t.Maghrib
	case Isha:
		return t.Isha
	}
	return ""
}

// With returns a copy of t with slot s set to v.
func (t Times) With(s Slot, v string) Times {
	switch s {
	case Fajr:
		t.Fajr = v
	case Sunrise:
		t.Sunrise = v
	case Dhuhr:
		t.Dhuhr = v
	case Asr:
		t.Asr = v
	case Maghrib:
		t.Maghrib = v
	case Isha:
		t.Isha = v
	}
	return t
}

// Minute returns slot s as a minute of day. Unparsable values are logged
// and read as 0 so that a partially corrupt record still evaluates.
func (t Times) Minute(s Slot) int {
	m, err := ParseMinuteOfDay(t.Get(s))
	if err != nil {
		logger.Warn("unparsable prayer time, using 00:00",
			"slot", s.String(), "date", t.Date, "value", t.Get(s), "err", err)
		return 0
	}
	return m
}

// Validate checks every field and the canonical ordering. All problems are
// reported together.
func (t Times) Validate() error {
	var errs []error
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		errs = append(errs, fmt.Errorf("date %q: %w", t.Date, err))
	}

	prev, prevSlot := -1, NoSlot
	for _, s := range AllSlots {
		m, err := ParseMinuteOfDay(t.Get(s))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
			continue
		}
		if m < prev {
			errs = append(errs, fmt.Errorf("%s (%s) is before %s (%s)",
				s, t.Get(s), prevSlot, t.Get(prevSlot)))
		}
		prev, prevSlot = m, s
	}
	return errors.Join(errs...)
}

// Day parses Date in loc.
func (t Times) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, t.Date, loc)
}
