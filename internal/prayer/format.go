package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Format constants for the one-line status modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatCountdownMode      = "countdown"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Display name of the next prayer, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Countdown string // Time remaining as HH:MM:SS
	Hours     int    // Whole hours remaining
	Minutes   int    // Remaining minutes after hours
	Tomorrow  bool   // Next prayer is tomorrow's Fajr
	Current   string // Display name of the current prayer, "" if none
	Iqama     string // Iqama countdown, "" outside an iqama window
}

// FormatOutput renders the next prayer of st according to mode.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h; lang selects
// the prayer names.
//
// If mode contains "{{", it is treated as a custom Go template string over
// FormatData, e.g. "{{.Name}} in {{.Remaining}}" -> "Asr in 2h 15m".
func FormatOutput(st State, mode, timeFormat, lang string) string {
	if !st.HasData {
		return Placeholder
	}

	name := st.Next.Name(lang)
	short := st.Next.ShortName()
	timeStr := FormatClock(st.NextMinute, timeFormat)
	remaining := FormatRemaining(st.SecondsToNext)

	if strings.Contains(mode, "{{") {
		data := FormatData{
			Name:      name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Countdown: FormatCountdown(st.SecondsToNext),
			Hours:     st.SecondsToNext / 3600,
			Minutes:   (st.SecondsToNext % 3600) / 60,
			Tomorrow:  st.NextIsTomorrow,
		}
		if st.Current != NoSlot {
			data.Current = st.Current.Name(lang)
		}
		if iq, ok := st.IqamaCountdown(); ok {
			data.Iqama = iq
		}
		return formatCustom(mode, data)
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatCountdownMode:
		return st.Countdown()
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndTime:
		return fmt.Sprintf("%s %s", name, timeStr)
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", name, timeStr)
	}
}

// formatCustom executes a user-provided Go template string against the FormatData.
func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}
