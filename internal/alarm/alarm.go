// Package alarm turns a day's prayer schedule into registered alarms.
//
// Alarms are delivered by a Service. Registration is an idempotent upsert:
// every identifier is cancelled before it is scheduled again, so calling
// Register repeatedly never stacks duplicate alarms.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// ErrPermissionDenied is returned by Service.ScheduleExact when exact alarms
// are not allowed. The scheduler then falls back to ScheduleInexact.
var ErrPermissionDenied = errors.New("exact alarm permission denied")

// ID identifies one alarm registration. Scheduling an ID that is already
// pending replaces it.
type ID int

// Base identifiers.
const (
	dailyBase  ID = 1001
	weeklyBase ID = 2000
)

// IDFor returns the stable identifier of the daily alarm for a prayer:
// Fajr 1001, Dhuhr 1002, Asr 1003, Maghrib 1004, Isha 1005.
func IDFor(slot prayer.Slot) ID {
	for i, s := range prayer.Prayers {
		if s == slot {
			return dailyBase + ID(i)
		}
	}
	return 0
}

// IDForWeekday returns the identifier of the alarm for a prayer on one
// weekday: 2000 + slot*10 + weekday.
func IDForWeekday(slot prayer.Slot, wd time.Weekday) ID {
	return weeklyBase + ID(slot)*10 + ID(wd)
}

// Payload travels with a registration and comes back when it fires.
type Payload struct {
	Slot    prayer.Slot `json:"slot"`
	City    string      `json:"city,omitempty"`
	Time    string      `json:"time"`
	Weekday string      `json:"weekday,omitempty"`
}

// Service is the alarm backend: an OS alarm manager, an in-process timer
// wheel or a recorder in tests.
type Service interface {
	ScheduleExact(ctx context.Context, at time.Time, id ID, p Payload) error
	ScheduleInexact(ctx context.Context, at time.Time, id ID, p Payload) error
	Cancel(ctx context.Context, id ID) error
}

// NextTrigger returns the next instant strictly after now at the wall-clock
// time hhmm: today if still ahead, otherwise tomorrow.
func NextTrigger(hhmm string, now time.Time) (time.Time, error) {
	m, err := prayer.ParseMinuteOfDay(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := now.Date()
	at := time.Date(y, mo, d, m/60, m%60, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(y, mo, d+1, m/60, m%60, 0, 0, now.Location())
	}
	return at, nil
}

// NextTriggerOn returns the next instant strictly after now that falls on
// weekday wd at hhmm.
func NextTriggerOn(hhmm string, wd time.Weekday, now time.Time) (time.Time, error) {
	m, err := prayer.ParseMinuteOfDay(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, mo, d := now.Date()
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	at := time.Date(y, mo, d+days, m/60, m%60, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(y, mo, d+days+7, m/60, m%60, 0, 0, now.Location())
	}
	return at, nil
}

// Status is the outcome of one registration.
type Status int

const (
	StatusExact Status = iota
	StatusInexact
	StatusDisabled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusExact:
		return "exact"
	case StatusInexact:
		return "inexact"
	case StatusDisabled:
		return "disabled"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome for one identifier.
type Result struct {
	ID      ID
	Slot    prayer.Slot
	Weekday *time.Weekday
	At      time.Time
	Status  Status
	Err     error
}

// Report collects the results of one Register call.
type Report struct {
	Results []Result
}

// Scheduled counts registrations that are now pending, exact or not.
func (r Report) Scheduled() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusExact || res.Status == StatusInexact {
			n++
		}
	}
	return n
}

// Failed returns the registrations that could not be made.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// PermissionDenied reports whether any entry fell back to inexact
// scheduling. Callers show a one-time advisory when true.
func (r Report) PermissionDenied() bool {
	for _, res := range r.Results {
		if res.Status == StatusInexact {
			return true
		}
	}
	return false
}

// Err joins every per-entry failure, or nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("alarm %d (%s): %w", res.ID, res.Slot, res.Err))
	}
	return errors.Join(errs...)
}
