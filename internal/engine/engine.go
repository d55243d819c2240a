// Package engine ties the prayer schedule together: it keeps today's
// times current, answers evaluation queries from timer ticks and keeps the
// adhan alarms registered.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/cache"
	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
	"github.com/smokyabdulrahman/salah-times/internal/provider"
	"github.com/smokyabdulrahman/salah-times/internal/settings"
)

// ErrNoData is returned when no schedule has been loaded yet.
var ErrNoData = errors.New("no prayer times available")

// Source tells where the current schedule came from.
type Source int

const (
	SourceNone Source = iota
	SourceCache
	SourceFetch
	SourcePrevious
	SourceStaleCache
	SourceDefaults
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceFetch:
		return "fetched"
	case SourcePrevious:
		return "previous"
	case SourceStaleCache:
		return "stale cache"
	case SourceDefaults:
		return "defaults"
	}
	return "none"
}

// AlarmTracker remembers on which dates alarms were registered.
// *sqlite.Store implements it.
type AlarmTracker interface {
	MarkAlarmsSet(ctx context.Context, date string, scheduled, failed int) error
	AlarmsSet(ctx context.Context, date string) (bool, error)
}

// Snapshot is the schedule currently in use.
type Snapshot struct {
	City      cities.City
	Times     prayer.Times
	Source    Source
	Provider  string
	UpdatedAt time.Time
}

// Outcome describes one Update.
type Outcome struct {
	City     string
	Date     string
	Source   Source
	Provider string
	// FetchErr is set when a fetch was attempted and failed; the schedule
	// then comes from a fallback.
	FetchErr error
}

// Result is delivered by Refresh.
type Result struct {
	Outcome Outcome
	Err     error
}

// Deps are the collaborators of an Engine. Alarms and Tracker are optional.
type Deps struct {
	Provider provider.Provider
	Store    cache.Store
	Settings *settings.Service
	Alarms   *alarm.Scheduler
	Tracker  AlarmTracker

	// City overrides the city stored in settings when set.
	City string
	// Location is the time zone of the schedule. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// Tick is the Run loop period. Defaults to one minute.
	Tick time.Duration
	// IncludeSunrise lets Sunrise be reported as current or next.
	IncludeSunrise bool
	// OnTick is called by Run after every tick with the fresh state.
	OnTick func(Snapshot, prayer.State)
}

// Engine owns the current schedule. Update and the alarm methods may run
// on any goroutine; Evaluate never blocks.
type Engine struct {
	d Deps

	current atomic.Pointer[Snapshot]
	opts    atomic.Pointer[prayer.Options]

	// serializes writers
	mu sync.Mutex
}

// New returns an Engine without data.
func New(d Deps) *Engine {
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Tick <= 0 {
		d.Tick = time.Minute
	}
	e := &Engine{d: d}
	e.opts.Store(&prayer.Options{IncludeSunrise: d.IncludeSunrise})
	return e
}

// Now returns the engine clock in the schedule's time zone.
func (e *Engine) Now() time.Time {
	return e.d.Now().In(e.d.Location)
}

// City resolves the configured city, falling back to the default one.
func (e *Engine) City(ctx context.Context) cities.City {
	name := e.d.City
	if name == "" {
		name = e.d.Settings.DefaultCity(ctx)
	}
	c, err := cities.Lookup(name)
	if err != nil {
		logger.Warn("configured city unknown, using default", "city", name)
		return cities.Default()
	}
	return c
}

// Snapshot returns the current schedule, or ErrNoData before the first
// successful Update or Set.
func (e *Engine) Snapshot() (Snapshot, error) {
	s := e.current.Load()
	if s == nil {
		return Snapshot{}, ErrNoData
	}
	return *s, nil
}

// Times returns the current schedule or nil.
func (e *Engine) Times() *prayer.Times {
	s := e.current.Load()
	if s == nil {
		return nil
	}
	t := s.Times
	return &t
}

// Set installs t as the current schedule.
func (e *Engine) Set(city cities.City, t prayer.Times, src Source) {
	e.current.Store(&Snapshot{City: city, Times: t, Source: src, UpdatedAt: e.Now()})
}

// Evaluate computes the schedule state at now from whatever is loaded.
func (e *Engine) Evaluate(now time.Time) prayer.State {
	return prayer.EvaluateAt(e.Times(), now.In(e.d.Location), *e.opts.Load())
}

// IqamaConfig returns the iqama delays in effect.
func (e *Engine) IqamaConfig() prayer.IqamaConfig {
	return e.opts.Load().Iqama
}

// ReloadOptions refreshes the iqama delays from settings.
func (e *Engine) ReloadOptions(ctx context.Context) {
	e.opts.Store(&prayer.Options{
		IncludeSunrise: e.d.IncludeSunrise,
		Iqama:          e.d.Settings.IqamaConfig(ctx),
	})
}

// Update makes sure a schedule for the calendar day of now is loaded.
//
// A fresh cache entry is used as is. Otherwise the provider is asked; on
// failure the previous schedule is kept, or the last cached one, or the
// safe defaults. The returned error is non-nil only when ctx is done.
func (e *Engine) Update(ctx context.Context, now time.Time) (Outcome, error) {
	return e.update(ctx, now, false)
}

// Reload is Update without the cache shortcut.
func (e *Engine) Reload(ctx context.Context, now time.Time) (Outcome, error) {
	return e.update(ctx, now, true)
}

func (e *Engine) update(ctx context.Context, now time.Time, force bool) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now = now.In(e.d.Location)
	city := e.City(ctx)
	e.ReloadOptions(ctx)

	policy := cache.Policy{Store: e.d.Store}
	if rec := policy.Fresh(ctx, city.Name, now); rec != nil && !force {
		e.install(city, rec.Times, SourceCache, rec.Source, now)
		return Outcome{City: city.Name, Date: rec.Date(), Source: SourceCache, Provider: rec.Source}, nil
	}

	t, name, err := e.fetch(ctx, city, now)
	if err == nil {
		rec := cache.Record{City: city.Name, Times: *t, Source: name, FetchedAt: now}
		if err := e.d.Store.Save(ctx, rec); err != nil {
			logger.Warn("saving prayer times failed", "city", city.Name, "err", err)
		}
		e.install(city, *t, SourceFetch, name, now)
		return Outcome{City: city.Name, Date: t.Date, Source: SourceFetch, Provider: name}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Outcome{}, ctxErr
	}

	out := Outcome{City: city.Name, FetchErr: err}
	if prev := e.current.Load(); prev != nil && prev.City.Name == city.Name {
		out.Source, out.Date, out.Provider = SourcePrevious, prev.Times.Date, prev.Provider
		logger.Warn("fetch failed, keeping previous prayer times", "city", city.Name, "date", prev.Times.Date, "err", err)
		return out, nil
	}

	rec, lerr := e.d.Store.Load(ctx, city.Name)
	if lerr != nil {
		logger.Warn("reading cached prayer times failed", "city", city.Name, "err", lerr)
	}
	if rec != nil {
		e.install(city, rec.Times, SourceStaleCache, rec.Source, now)
		out.Source, out.Date, out.Provider = SourceStaleCache, rec.Date(), rec.Source
		logger.Warn("fetch failed, using stale cache", "city", city.Name, "date", rec.Date(), "err", err)
		return out, nil
	}

	def := prayer.SafeDefaults(now)
	e.install(city, def, SourceDefaults, "", now)
	out.Source, out.Date = SourceDefaults, def.Date
	logger.Error("fetch failed and nothing cached, using default prayer times", "city", city.Name, "err", err)
	return out, nil
}

func (e *Engine) fetch(ctx context.Context, city cities.City, now time.Time) (*prayer.Times, string, error) {
	if chain, ok := e.d.Provider.(provider.Chain); ok {
		return chain.FetchSource(ctx, city, now)
	}
	t, err := e.d.Provider.Fetch(ctx, city, now)
	if err != nil {
		return nil, "", err
	}
	return t, e.d.Provider.Name(), nil
}

func (e *Engine) install(city cities.City, t prayer.Times, src Source, name string, now time.Time) {
	e.current.Store(&Snapshot{City: city, Times: t, Source: src, Provider: name, UpdatedAt: now})
}

// Refresh runs Update in the background. The channel receives exactly one
// Result and is then closed.
func (e *Engine) Refresh(ctx context.Context) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		out, err := e.Update(ctx, e.Now())
		ch <- Result{Outcome: out, Err: err}
	}()
	return ch
}

// ScheduleAlarms registers the alarms of the current schedule relative to
// now and records the outcome for the day.
func (e *Engine) ScheduleAlarms(ctx context.Context, now time.Time) (alarm.Report, error) {
	if e.d.Alarms == nil {
		return alarm.Report{}, errors.New("no alarm service configured")
	}
	snap, err := e.Snapshot()
	if err != nil {
		return alarm.Report{}, err
	}

	now = now.In(e.d.Location)
	rep := e.d.Alarms.Register(ctx, snap.Times, now, alarm.Options{
		City:   snap.City.Name,
		Weekly: e.d.Settings.WeeklyAlarms(ctx),
	})

	if e.d.Tracker != nil {
		date := now.Format(prayer.DateLayout)
		if err := e.d.Tracker.MarkAlarmsSet(ctx, date, rep.Scheduled(), len(rep.Failed())); err != nil {
			logger.Warn("recording alarm registration failed", "date", date, "err", err)
		}
	}
	return rep, nil
}

// EnsureAlarms registers alarms unless the tracker says it already
// happened today. force skips the check. The bool reports whether
// registration ran.
func (e *Engine) EnsureAlarms(ctx context.Context, now time.Time, force bool) (alarm.Report, bool, error) {
	if !force && e.d.Tracker != nil {
		date := now.In(e.d.Location).Format(prayer.DateLayout)
		set, err := e.d.Tracker.AlarmsSet(ctx, date)
		if err != nil {
			logger.Warn("reading alarm tracking failed", "date", date, "err", err)
		}
		if set {
			logger.Debug("alarms already registered today", "date", date)
			return alarm.Report{}, false, nil
		}
	}
	rep, err := e.ScheduleAlarms(ctx, now)
	return rep, err == nil, err
}

// Run keeps the engine current until ctx is done. It refreshes the
// schedule and registers alarms at start and again whenever the calendar
// date changes.
func (e *Engine) Run(ctx context.Context) error {
	now := e.Now()
	if err := e.cycle(ctx, now, true); err != nil {
		return err
	}
	day := now.Format(prayer.DateLayout)

	ticker := time.NewTicker(e.d.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		now = e.Now()
		if d := now.Format(prayer.DateLayout); d != day {
			logger.Info("date changed", "from", day, "to", d)
			if err := e.cycle(ctx, now, false); err != nil {
				return err
			}
			day = d
		}

		if e.d.OnTick != nil {
			if snap, err := e.Snapshot(); err == nil {
				e.d.OnTick(snap, e.Evaluate(now))
			}
		}
	}
}

func (e *Engine) cycle(ctx context.Context, now time.Time, force bool) error {
	out, err := e.Update(ctx, now)
	if err != nil {
		return err
	}
	logger.Info("prayer times ready", "city", out.City, "date", out.Date, "source", out.Source.String())

	if e.d.Alarms == nil {
		return nil
	}
	rep, ran, err := e.EnsureAlarms(ctx, now, force)
	if err != nil {
		return fmt.Errorf("registering alarms: %w", err)
	}
	if ran && rep.PermissionDenied() {
		logger.Warn("exact alarms not permitted, alarms may fire late")
	}
	return nil
}
