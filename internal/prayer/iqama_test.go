package prayer

import "testing"

func TestDefaultIqamaConfig(t *testing.T) {
	cfg := DefaultIqamaConfig()
	for _, s := range Prayers {
		want := 10
		if s == Maghrib {
			want = 5
		}
		if cfg.Delay(s) != want {
			t.Errorf("Delay(%v) = %d, want %d", s, cfg.Delay(s), want)
		}
	}

	var empty IqamaConfig
	if empty.Delay(Isha) != 10 || empty.Delay(Maghrib) != 5 {
		t.Error("nil config should use defaults")
	}
	if (IqamaConfig{Asr: 20}).Delay(Asr) != 20 {
		t.Error("configured delay ignored")
	}
}

func TestIqama_HalfOpenWindow(t *testing.T) {
	prayer := 13 * 60
	delay := 10

	tests := []struct {
		name       string
		now        int
		sec        int
		wantIn     bool
		wantSecond int
	}{
		{"at prayer", prayer, 0, true, 600},
		{"mid window", prayer + 4, 30, true, 330},
		{"last second", prayer + 9, 59, true, 1},
		{"at end", prayer + delay, 0, false, NotApplicable},
		{"after end", prayer + 30, 0, false, NotApplicable},
		{"before prayer", prayer - 5, 0, false, 900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Iqama(Dhuhr, prayer, delay, tt.now, tt.sec)
			if st.InWindow != tt.wantIn {
				t.Errorf("InWindow = %v, want %v", st.InWindow, tt.wantIn)
			}
			if st.SecondsToIqama != tt.wantSecond {
				t.Errorf("SecondsToIqama = %d, want %d", st.SecondsToIqama, tt.wantSecond)
			}
		})
	}
}

func TestIqama_AcrossMidnight(t *testing.T) {
	isha := 23*60 + 55

	st := Iqama(Isha, isha, 10, 23*60+58, 0)
	if !st.InWindow || st.SecondsToIqama != 7*60 {
		t.Errorf("before midnight: %+v", st)
	}
	if st.End != MinutesPerDay+5 {
		t.Errorf("End = %d, want raw minutes past midnight", st.End)
	}

	st = Iqama(Isha, isha, 10, 2, 0)
	if !st.InWindow || st.SecondsToIqama != 3*60 {
		t.Errorf("after midnight: %+v", st)
	}

	st = Iqama(Isha, isha, 10, 5, 0)
	if st.InWindow || st.SecondsToIqama != NotApplicable {
		t.Errorf("after window: %+v", st)
	}
}
