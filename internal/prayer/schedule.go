package prayer

import "time"

// Options tunes Evaluate.
type Options struct {
	// IncludeSunrise lets Sunrise become current/next. Display only; alarm
	// scheduling never looks at it.
	IncludeSunrise bool
	// Iqama supplies the per-prayer delays. A nil map means defaults.
	Iqama IqamaConfig
}

// State is the derived schedule position at one instant. It is recomputed
// on every tick and never persisted.
type State struct {
	// HasData is false when no Times were available; every other field is
	// then meaningless and callers show Placeholder.
	HasData bool
	Date    string

	// Current is the last slot already reached today, or NoSlot before Fajr.
	// After Isha it stays Isha until midnight.
	Current       Slot
	CurrentMinute int

	Next           Slot
	NextMinute     int
	NextIsTomorrow bool
	SecondsToNext  int

	// Iqama is set only while now is inside an iqama window.
	Iqama *IqamaStatus
}

// NoData is the State returned for a nil schedule.
var NoData = State{Current: NoSlot, Next: NoSlot}

// Countdown returns the next-prayer countdown, or Placeholder without data.
func (s State) Countdown() string {
	if !s.HasData {
		return Placeholder
	}
	return FormatCountdown(s.SecondsToNext)
}

// IqamaCountdown returns the iqama countdown and whether one is running.
func (s State) IqamaCountdown() (string, bool) {
	if !s.HasData || s.Iqama == nil {
		return Placeholder, false
	}
	return FormatCountdown(s.Iqama.SecondsToIqama), true
}

// EvaluateAt is Evaluate using the wall clock of now.
func EvaluateAt(t *Times, now time.Time, opts Options) State {
	m, sec := MinuteOfDay(now)
	return Evaluate(t, m, sec, opts)
}

// Evaluate locates nowMinute:nowSecond within t.
//
// Slots are scanned in canonical order. Current is the slot with the
// largest minute that is <= now; on a tie the earlier slot wins. With
// out-of-order data this is not the last such slot in canonical order.
// Next is the first slot in canonical order whose minute is > now, or
// tomorrow's Fajr once every slot has passed.
func Evaluate(t *Times, nowMinute, nowSecond int, opts Options) State {
	if t == nil {
		return NoData
	}

	slots := Prayers
	if opts.IncludeSunrise {
		slots = AllSlots
	}

	st := State{
		HasData:       true,
		Date:          t.Date,
		Current:       NoSlot,
		CurrentMinute: -1,
		Next:          NoSlot,
	}

	minutes := make([]int, len(slots))
	for i, s := range slots {
		minutes[i] = t.Minute(s)
	}

	for i, s := range slots {
		m := minutes[i]
		if m <= nowMinute && m > st.CurrentMinute {
			st.Current, st.CurrentMinute = s, m
		}
		if st.Next == NoSlot && m > nowMinute {
			st.Next, st.NextMinute = s, m
		}
	}

	delta := 0
	if st.Next == NoSlot {
		st.Next, st.NextMinute = slots[0], minutes[0]
		st.NextIsTomorrow = true
		delta = SecondsPerDay
	}
	st.SecondsToNext = (st.NextMinute-nowMinute)*60 - nowSecond + delta
	if st.SecondsToNext < 0 {
		st.SecondsToNext = 0
	}

	st.Iqama = iqamaWindow(t, st, nowMinute, nowSecond, opts.Iqama)
	return st
}

func iqamaWindow(t *Times, st State, nowMinute, nowSecond int, cfg IqamaConfig) *IqamaStatus {
	slot, start := st.Current, st.CurrentMinute
	if slot == NoSlot {
		// Before Fajr: yesterday's Isha window may still be open past midnight.
		slot, start = Isha, t.Minute(Isha)
	}
	if !slot.IsPrayer() {
		return nil
	}
	iq := Iqama(slot, start, cfg.Delay(slot), nowMinute, nowSecond)
	if !iq.InWindow {
		return nil
	}
	return &iq
}
