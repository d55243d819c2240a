package prayer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/logger"
)

// sampleTimes is the reference day used across the package tests.
func sampleTimes() Times {
	return Times{
		Date:    "2026-03-01",
		Fajr:    "05:30",
		Sunrise: "07:00",
		Dhuhr:   "13:00",
		Asr:     "16:15",
		Maghrib: "18:45",
		Isha:    "20:00",
	}
}

func TestTimesGetAndWith(t *testing.T) {
	tm := sampleTimes()
	for _, s := range AllSlots {
		if tm.Get(s) == "" {
			t.Errorf("Get(%v) empty", s)
		}
	}
	if tm.Get(NoSlot) != "" {
		t.Error("Get(NoSlot) should be empty")
	}

	changed := tm.With(Asr, "16:30")
	if changed.Asr != "16:30" {
		t.Errorf("With did not set Asr: %q", changed.Asr)
	}
	if tm.Asr != "16:15" {
		t.Error("With mutated the receiver")
	}
}

func TestTimesMinute_InvalidLogsAndReturnsZero(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, false)
	t.Cleanup(func() { logger.Logger = nil })

	tm := sampleTimes().With(Asr, "garbage")
	if got := tm.Minute(Asr); got != 0 {
		t.Errorf("Minute(invalid) = %d, want 0", got)
	}
	if !strings.Contains(buf.String(), "unparsable prayer time") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "slot=Asr") {
		t.Errorf("expected slot key in log, got %q", buf.String())
	}
}

func TestTimesValidate(t *testing.T) {
	if err := sampleTimes().Validate(); err != nil {
		t.Fatalf("valid times: %v", err)
	}

	tests := []struct {
		name    string
		times   Times
		wantSub string
	}{
		{"bad field", sampleTimes().With(Dhuhr, "1300"), "Dhuhr"},
		{"out of order", sampleTimes().With(Asr, "12:00"), "before"},
		{"bad date", func() Times { tm := sampleTimes(); tm.Date = "01/03/2026"; return tm }(), "date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.times.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestSafeDefaults(t *testing.T) {
	d := SafeDefaults(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	want := Times{Date: "2026-05-04", Fajr: "06:00", Sunrise: "07:30", Dhuhr: "13:00",
		Asr: "16:30", Maghrib: "19:00", Isha: "20:30"}
	if d != want {
		t.Errorf("SafeDefaults = %+v, want %+v", d, want)
	}
	if err := d.Validate(); err != nil {
		t.Errorf("SafeDefaults invalid: %v", err)
	}
}

func TestTimesDay(t *testing.T) {
	day, err := sampleTimes().Day(time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if day.Month() != time.March || day.Day() != 1 {
		t.Errorf("Day = %v", day)
	}
}
