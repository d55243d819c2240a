package prayer

// NotApplicable is the SecondsToIqama value outside an iqama window.
const NotApplicable = -1

// Default iqama delays in minutes.
const (
	DefaultIqamaDelay        = 10
	DefaultMaghribIqamaDelay = 5
)

// IqamaConfig maps a prayer to the minutes between adhan and iqama.
// Missing entries use the defaults.
type IqamaConfig map[Slot]int

// DefaultIqamaConfig returns the stock delays for all five prayers.
func DefaultIqamaConfig() IqamaConfig {
	cfg := IqamaConfig{}
	for _, s := range Prayers {
		cfg[s] = DefaultDelay(s)
	}
	return cfg
}

// DefaultDelay is the stock iqama delay for s.
func DefaultDelay(s Slot) int {
	if s == Maghrib {
		return DefaultMaghribIqamaDelay
	}
	return DefaultIqamaDelay
}

// Delay returns the configured delay for s, or its default.
func (c IqamaConfig) Delay(s Slot) int {
	if d, ok := c[s]; ok && d >= 0 {
		return d
	}
	return DefaultDelay(s)
}

// IqamaStatus describes the iqama window of one prayer relative to now.
type IqamaStatus struct {
	Slot     Slot
	Start    int // prayer minute of day
	End      int // Start + delay, may exceed MinutesPerDay
	InWindow bool
	// SecondsToIqama is NotApplicable once End has been reached.
	SecondsToIqama int
}

// Iqama computes the window [prayerMinute, prayerMinute+delay) for slot.
// Comparison is done on raw minutes; when the window runs past midnight and
// now is earlier than the prayer, now is read as belonging to the next day.
func Iqama(slot Slot, prayerMinute, delay, nowMinute, nowSecond int) IqamaStatus {
	st := IqamaStatus{
		Slot:           slot,
		Start:          prayerMinute,
		End:            prayerMinute + delay,
		SecondsToIqama: NotApplicable,
	}

	now := nowMinute
	if st.End > MinutesPerDay && now < st.Start {
		now += MinutesPerDay
	}

	st.InWindow = now >= st.Start && now < st.End
	if now < st.End {
		st.SecondsToIqama = (st.End-now)*60 - nowSecond
	}
	return st
}
