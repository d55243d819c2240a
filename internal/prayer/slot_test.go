package prayer

import (
	"encoding/json"
	"testing"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in   string
		want Slot
	}{
		{"Fajr", Fajr},
		{"sobh", Fajr},
		{"Chorok", Sunrise},
		{"Shorouk", Sunrise},
		{"Dhuhr", Dhuhr},
		{"Dohr", Dhuhr},
		{"zuhr", Dhuhr},
		{" DUHR ", Dhuhr},
		{"asr", Asr},
		{"Maghreb", Maghrib},
		{"maghrib", Maghrib},
		{"Isha", Isha},
		{"Icha", Isha},
		{"المغرب", Maghrib},
		{"الفجر", Fajr},
	}
	for _, tt := range tests {
		got, err := ParseSlot(tt.in)
		if err != nil {
			t.Errorf("ParseSlot(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSlot(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSlot_Unknown(t *testing.T) {
	got, err := ParseSlot("Midnight")
	if err == nil {
		t.Fatal("expected error for unknown name")
	}
	if got != NoSlot {
		t.Errorf("got %v, want NoSlot", got)
	}
}

func TestSlotNames(t *testing.T) {
	if Dhuhr.String() != "Dhuhr" || Dhuhr.Key() != "dhuhr" || Dhuhr.ShortName() != "D" {
		t.Errorf("Dhuhr names: %q %q %q", Dhuhr.String(), Dhuhr.Key(), Dhuhr.ShortName())
	}
	if got := Maghrib.Name("fr"); got != "Maghreb" {
		t.Errorf("fr name = %q", got)
	}
	if got := Isha.Name("xx"); got != "Isha" {
		t.Errorf("unknown lang should fall back to English, got %q", got)
	}
	if NoSlot.String() != "None" {
		t.Errorf("NoSlot.String() = %q", NoSlot.String())
	}
}

func TestPrayersExcludeSunrise(t *testing.T) {
	if len(Prayers) != 5 {
		t.Fatalf("len(Prayers) = %d", len(Prayers))
	}
	for i, s := range Prayers {
		if s == Sunrise {
			t.Error("Prayers must not contain Sunrise")
		}
		if i > 0 && Prayers[i-1] >= s {
			t.Error("Prayers not in canonical order")
		}
	}
	if Sunrise.IsPrayer() || !Isha.IsPrayer() || NoSlot.IsPrayer() {
		t.Error("IsPrayer mismatch")
	}
}

func TestSlotJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Slot{"next": Asr})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"next":"asr"}` {
		t.Errorf("marshal = %s", b)
	}

	var out struct{ Next Slot }
	if err := json.Unmarshal([]byte(`{"Next":"Dohr"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Next != Dhuhr {
		t.Errorf("unmarshal = %v", out.Next)
	}
}
