package display

import (
	"fmt"

	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// ScheduleOptions tunes ScheduleTable.
type ScheduleOptions struct {
	Lang       string
	TimeLayout string // Go layout, "15:04" or "3:04 PM"
	Iqama      prayer.IqamaConfig
}

// ScheduleTable renders one day: every slot with its time and iqama time,
// the current prayer marked and the next one highlighted with its countdown.
func ScheduleTable(t prayer.Times, st prayer.State, opts ScheduleOptions) string {
	layout := opts.TimeLayout
	if layout == "" {
		layout = "15:04"
	}

	tbl := NewTable([]string{"Prayer", "Time", "Iqama", ""})
	for i, s := range prayer.AllSlots {
		m := t.Minute(s)
		iqama := ""
		if s.IsPrayer() {
			iqama = prayer.FormatClock(m+opts.Iqama.Delay(s), layout)
		}

		note := ""
		switch {
		case st.HasData && s == st.Next && !st.NextIsTomorrow:
			note = "<- next in " + prayer.FormatRemaining(st.SecondsToNext)
			tbl.SetHighlightRow(i)
		case st.HasData && s == st.Current:
			note = "now"
			if st.Iqama != nil && st.Iqama.Slot == s {
				note = fmt.Sprintf("iqama in %s", prayer.FormatCountdown(st.Iqama.SecondsToIqama))
			}
			tbl.SetMarkRow(i)
		}

		tbl.AddRow([]string{s.Name(opts.Lang), prayer.FormatClock(m, layout), iqama, note})
	}
	return tbl.Render()
}
