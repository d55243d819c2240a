package prayer

import (
	"testing"
	"time"
)

func hm(h, m int) int { return h*60 + m }

// ---------------------------------------------------------------------------
// Evaluate
// ---------------------------------------------------------------------------

func TestEvaluate_NoData(t *testing.T) {
	st := Evaluate(nil, hm(12, 0), 0, Options{})
	if st.HasData {
		t.Fatal("HasData should be false for nil times")
	}
	if st.Countdown() != Placeholder {
		t.Errorf("Countdown() = %q, want placeholder", st.Countdown())
	}
	if got, ok := st.IqamaCountdown(); ok || got != Placeholder {
		t.Errorf("IqamaCountdown() = %q,%v", got, ok)
	}
}

func TestEvaluate_Table(t *testing.T) {
	tm := sampleTimes()

	tests := []struct {
		name         string
		now, sec     int
		wantCurrent  Slot
		wantNext     Slot
		wantTomorrow bool
		wantSeconds  int
	}{
		{"before fajr", hm(4, 0), 0, NoSlot, Fajr, false, 90 * 60},
		{"at fajr", hm(5, 30), 0, Fajr, Dhuhr, false, (hm(13, 0) - hm(5, 30)) * 60},
		{"between sunrise and dhuhr", hm(9, 0), 0, Fajr, Dhuhr, false, 4 * 3600},
		{"one second before dhuhr", hm(12, 59), 59, Fajr, Dhuhr, false, 1},
		{"maghrib to isha", hm(19, 30), 0, Maghrib, Isha, false, 1800},
		{"with seconds", hm(19, 30), 20, Maghrib, Isha, false, 1780},
		{"at isha", hm(20, 0), 0, Isha, Fajr, true, (MinutesPerDay - hm(20, 0) + hm(5, 30)) * 60},
		{"after isha", hm(20, 30), 0, Isha, Fajr, true, (MinutesPerDay - hm(20, 30) + hm(5, 30)) * 60},
		{"last second of day", hm(23, 59), 59, Isha, Fajr, true, hm(5, 30)*60 + 1},
		{"midnight", 0, 0, NoSlot, Fajr, false, hm(5, 30) * 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Evaluate(&tm, tt.now, tt.sec, Options{})
			if !st.HasData {
				t.Fatal("HasData false")
			}
			if st.Current != tt.wantCurrent {
				t.Errorf("Current = %v, want %v", st.Current, tt.wantCurrent)
			}
			if st.Next != tt.wantNext {
				t.Errorf("Next = %v, want %v", st.Next, tt.wantNext)
			}
			if st.NextIsTomorrow != tt.wantTomorrow {
				t.Errorf("NextIsTomorrow = %v, want %v", st.NextIsTomorrow, tt.wantTomorrow)
			}
			if st.SecondsToNext != tt.wantSeconds {
				t.Errorf("SecondsToNext = %d, want %d", st.SecondsToNext, tt.wantSeconds)
			}
		})
	}
}

func TestEvaluate_SunriseIsDisplayOnly(t *testing.T) {
	tm := sampleTimes()

	st := Evaluate(&tm, hm(6, 0), 0, Options{})
	if st.Next != Dhuhr {
		t.Errorf("five-prayer mode: Next = %v, want Dhuhr", st.Next)
	}

	st = Evaluate(&tm, hm(6, 0), 0, Options{IncludeSunrise: true})
	if st.Next != Sunrise {
		t.Errorf("sunrise mode: Next = %v, want Sunrise", st.Next)
	}

	st = Evaluate(&tm, hm(8, 0), 0, Options{IncludeSunrise: true})
	if st.Current != Sunrise || st.Iqama != nil {
		t.Errorf("sunrise mode at 08:00: Current = %v, Iqama = %v", st.Current, st.Iqama)
	}
}

func TestEvaluate_TieEarlierSlotWins(t *testing.T) {
	tm := sampleTimes().With(Asr, "13:00")

	st := Evaluate(&tm, hm(14, 0), 0, Options{})
	if st.Current != Dhuhr {
		t.Errorf("Current = %v, want Dhuhr on tie", st.Current)
	}
	if st.Next != Maghrib {
		t.Errorf("Next = %v, want Maghrib", st.Next)
	}
}

func TestEvaluate_CorruptFieldReadsAsMidnight(t *testing.T) {
	tm := sampleTimes().With(Fajr, "xx")

	st := Evaluate(&tm, hm(2, 0), 0, Options{})
	if st.Current != Fajr {
		t.Errorf("Current = %v, want Fajr (read as 00:00)", st.Current)
	}
	if st.Next != Dhuhr {
		t.Errorf("Next = %v, want Dhuhr", st.Next)
	}
}

func TestEvaluate_OutOfOrderUsesLatestMinute(t *testing.T) {
	// A corrupt Dhuhr reads as 00:00, earlier than Fajr.
	tm := sampleTimes().With(Dhuhr, "bad")

	st := Evaluate(&tm, hm(6, 0), 0, Options{})
	if st.Current != Fajr {
		t.Errorf("Current = %v, want Fajr (latest minute <= now)", st.Current)
	}
	if st.CurrentMinute != hm(5, 30) {
		t.Errorf("CurrentMinute = %d, want %d", st.CurrentMinute, hm(5, 30))
	}
	if st.Next != Asr {
		t.Errorf("Next = %v, want Asr", st.Next)
	}
}

func TestEvaluate_BetweenConsecutivePrayers(t *testing.T) {
	tm := sampleTimes()
	for i := 0; i < len(Prayers)-1; i++ {
		a, b := Prayers[i], Prayers[i+1]
		for now := tm.Minute(a) + 1; now < tm.Minute(b); now += 7 {
			st := Evaluate(&tm, now, 30, Options{})
			if st.Current != a || st.Next != b {
				t.Fatalf("now=%s: got %v/%v, want %v/%v",
					FormatMinuteOfDay(now), st.Current, st.Next, a, b)
			}
		}
	}
}

func TestEvaluate_SecondsNeverNegative(t *testing.T) {
	tm := sampleTimes()
	for now := 0; now < MinutesPerDay; now++ {
		for _, sec := range []int{0, 59} {
			st := Evaluate(&tm, now, sec, Options{})
			if st.SecondsToNext <= 0 {
				t.Fatalf("now=%s:%02d SecondsToNext = %d", FormatMinuteOfDay(now), sec, st.SecondsToNext)
			}
		}
	}
}

func TestEvaluate_Iqama(t *testing.T) {
	tm := sampleTimes()

	st := Evaluate(&tm, hm(18, 47), 0, Options{})
	if st.Iqama == nil {
		t.Fatal("expected Maghrib iqama window at 18:47")
	}
	if st.Iqama.Slot != Maghrib || st.Iqama.SecondsToIqama != 180 {
		t.Errorf("Iqama = %+v", st.Iqama)
	}

	st = Evaluate(&tm, hm(18, 50), 0, Options{})
	if st.Iqama != nil {
		t.Errorf("Maghrib window is 5 minutes, got %+v at 18:50", st.Iqama)
	}

	st = Evaluate(&tm, hm(18, 50), 0, Options{Iqama: IqamaConfig{Maghrib: 15}})
	if st.Iqama == nil || st.Iqama.SecondsToIqama != 600 {
		t.Errorf("configured delay: %+v", st.Iqama)
	}
}

func TestEvaluate_IshaIqamaPastMidnight(t *testing.T) {
	tm := sampleTimes().With(Isha, "23:55")

	st := Evaluate(&tm, 3, 0, Options{})
	if st.Current != NoSlot {
		t.Fatalf("Current = %v, want NoSlot", st.Current)
	}
	if st.Iqama == nil || st.Iqama.Slot != Isha || st.Iqama.SecondsToIqama != 120 {
		t.Errorf("Iqama = %+v, want Isha with 120s", st.Iqama)
	}
}

func TestEvaluateAt(t *testing.T) {
	tm := sampleTimes()
	now := time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)

	st := EvaluateAt(&tm, now, Options{})
	if st.Current != Maghrib || st.Next != Isha || st.SecondsToNext != 1800 {
		t.Errorf("EvaluateAt = %+v", st)
	}
	if st.Countdown() != "00:30:00" {
		t.Errorf("Countdown() = %q", st.Countdown())
	}
}
