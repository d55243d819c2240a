package prayer

import (
	"fmt"
	"strings"
)

// Slot identifies one of the daily prayer times. The zero value is Fajr and
// the constants are ordered chronologically.
type Slot int

const (
	Fajr Slot = iota
	Sunrise
	Dhuhr
	Asr
	Maghrib
	Isha

	// NoSlot marks the absence of a slot, e.g. "no current prayer" before Fajr.
	NoSlot Slot = -1
)

// AllSlots lists every slot in canonical order, Sunrise included.
var AllSlots = []Slot{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

// Prayers lists the five obligatory prayers in canonical order. Alarms and
// iqama only ever apply to these.
var Prayers = []Slot{Fajr, Dhuhr, Asr, Maghrib, Isha}

var slotNames = [...]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

var shortNames = [...]string{"F", "S", "D", "A", "M", "I"}

var localNames = map[string][6]string{
	"en": {"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"},
	"ar": {"الفجر", "الشروق", "الظهر", "العصر", "المغرب", "العشاء"},
	"fr": {"Fajr", "Chourouk", "Dohr", "Asr", "Maghreb", "Icha"},
}

// aliases is the single normalisation table for every spelling seen in
// scraped pages, stored settings and user input.
var aliases = map[string]Slot{
	"fajr":     Fajr,
	"fadjr":    Fajr,
	"fajer":    Fajr,
	"sobh":     Fajr,
	"subh":     Fajr,
	"sunrise":  Sunrise,
	"chorok":   Sunrise,
	"chourouk": Sunrise,
	"shorouk":  Sunrise,
	"shuruq":   Sunrise,
	"dhuhr":    Dhuhr,
	"dohr":     Dhuhr,
	"duhr":     Dhuhr,
	"zuhr":     Dhuhr,
	"dhor":     Dhuhr,
	"thuhr":    Dhuhr,
	"asr":      Asr,
	"3asr":     Asr,
	"maghrib":  Maghrib,
	"maghreb":  Maghrib,
	"isha":     Isha,
	"ishaa":    Isha,
	"icha":     Isha,
	"3icha":    Isha,
}

func init() {
	for lang, names := range localNames {
		if lang == "en" {
			continue
		}
		for i, n := range names {
			aliases[strings.ToLower(n)] = Slot(i)
		}
	}
}

// ParseSlot resolves a prayer name in any known spelling or language.
func ParseSlot(name string) (Slot, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := aliases[key]; ok {
		return s, nil
	}
	return NoSlot, fmt.Errorf("unknown prayer name: %q", name)
}

// Valid reports whether s is one of the six defined slots.
func (s Slot) Valid() bool {
	return s >= Fajr && s <= Isha
}

// IsPrayer reports whether s is one of the five prayers (not Sunrise).
func (s Slot) IsPrayer() bool {
	return s.Valid() && s != Sunrise
}

func (s Slot) String() string {
	if !s.Valid() {
		return "None"
	}
	return slotNames[s]
}

// Key is the lower-case form used in settings keys and JSON.
func (s Slot) Key() string {
	return strings.ToLower(s.String())
}

// ShortName is the single-letter abbreviation used in compact status lines.
func (s Slot) ShortName() string {
	if !s.Valid() {
		return "-"
	}
	return shortNames[s]
}

// Name returns the display name in lang (en, ar, fr), defaulting to English.
func (s Slot) Name(lang string) string {
	if !s.Valid() {
		return "-"
	}
	names, ok := localNames[lang]
	if !ok {
		names = localNames["en"]
	}
	return names[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Slot) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slot) UnmarshalText(b []byte) error {
	v, err := ParseSlot(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
