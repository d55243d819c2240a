package alarm

import (
	"context"
	"errors"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// Toggles supplies the enable flags. *settings.Service implements it.
type Toggles interface {
	AdhanEnabled(ctx context.Context) bool
	AlarmEnabled(ctx context.Context, slot prayer.Slot) bool
	AlarmEnabledOn(ctx context.Context, slot prayer.Slot, wd time.Weekday) bool
}

// Options tunes one Register call.
type Options struct {
	City string
	// Weekly registers one alarm per (prayer, weekday) instead of one per
	// prayer, honouring per-day toggles.
	Weekly bool
}

// Scheduler registers one alarm per enabled prayer (or prayer and weekday).
type Scheduler struct {
	svc     Service
	toggles Toggles
}

// NewScheduler returns a Scheduler delivering through svc.
func NewScheduler(svc Service, toggles Toggles) *Scheduler {
	return &Scheduler{svc: svc, toggles: toggles}
}

// Register cancels and re-registers the alarm of every prayer in t
// relative to now. Entries are independent: a failure is logged, recorded
// in the Report and the loop moves on.
func (s *Scheduler) Register(ctx context.Context, t prayer.Times, now time.Time, opts Options) Report {
	master := s.toggles.AdhanEnabled(ctx)
	var rep Report

	for _, slot := range prayer.Prayers {
		hhmm := t.Get(slot)
		p := Payload{Slot: slot, City: opts.City, Time: hhmm}

		if !opts.Weekly {
			on := master && s.toggles.AlarmEnabled(ctx, slot)
			at, err := NextTrigger(hhmm, now)
			rep.Results = append(rep.Results, s.upsert(ctx, IDFor(slot), slot, nil, at, err, on, p))
			continue
		}

		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			on := master && s.toggles.AlarmEnabledOn(ctx, slot, wd)
			at, err := NextTriggerOn(hhmm, wd, now)
			p.Weekday = wd.String()
			rep.Results = append(rep.Results, s.upsert(ctx, IDForWeekday(slot, wd), slot, &wd, at, err, on, p))
		}
	}

	// Clear whatever the other mode left behind.
	s.cancelMode(ctx, !opts.Weekly)

	if n := len(rep.Failed()); n > 0 {
		logger.Warn("alarm registration incomplete", "scheduled", rep.Scheduled(), "failed", n)
	} else {
		logger.Info("alarms registered", "scheduled", rep.Scheduled(), "weekly", opts.Weekly)
	}
	return rep
}

func (s *Scheduler) upsert(ctx context.Context, id ID, slot prayer.Slot, wd *time.Weekday, at time.Time, parseErr error, on bool, p Payload) Result {
	res := Result{ID: id, Slot: slot, Weekday: wd, At: at}

	if err := s.svc.Cancel(ctx, id); err != nil {
		logger.Warn("alarm cancel failed", "id", int(id), "slot", slot.String(), "err", err)
	}

	if !on {
		res.Status = StatusDisabled
		return res
	}
	if parseErr != nil {
		logger.Error("cannot schedule alarm", "id", int(id), "slot", slot.String(), "time", p.Time, "err", parseErr)
		res.Status, res.Err = StatusFailed, parseErr
		return res
	}

	err := s.svc.ScheduleExact(ctx, at, id, p)
	if err == nil {
		res.Status = StatusExact
		logger.Debug("alarm scheduled", "id", int(id), "slot", slot.String(), "at", at)
		return res
	}

	if errors.Is(err, ErrPermissionDenied) {
		if err := s.svc.ScheduleInexact(ctx, at, id, p); err != nil {
			logger.Error("inexact alarm failed", "id", int(id), "slot", slot.String(), "err", err)
			res.Status, res.Err = StatusFailed, err
			return res
		}
		logger.Info("exact alarm denied, scheduled inexact", "id", int(id), "slot", slot.String(), "at", at)
		res.Status = StatusInexact
		return res
	}

	logger.Error("alarm schedule failed", "id", int(id), "slot", slot.String(), "err", err)
	res.Status, res.Err = StatusFailed, err
	return res
}

func (s *Scheduler) cancelMode(ctx context.Context, weekly bool) {
	for _, id := range modeIDs(weekly) {
		if err := s.svc.Cancel(ctx, id); err != nil {
			logger.Debug("alarm cancel failed", "id", int(id), "err", err)
		}
	}
}

// CancelAll cancels every identifier this package can register.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	var errs []error
	for _, weekly := range []bool{false, true} {
		for _, id := range modeIDs(weekly) {
			if err := s.svc.Cancel(ctx, id); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func modeIDs(weekly bool) []ID {
	var ids []ID
	for _, slot := range prayer.Prayers {
		if !weekly {
			ids = append(ids, IDFor(slot))
			continue
		}
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			ids = append(ids, IDForWeekday(slot, wd))
		}
	}
	return ids
}
