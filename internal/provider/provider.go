// Package provider fetches a day's prayer schedule for a city from the
// available sources.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// ErrDateNotFound is returned when a source has no row for the requested date.
var ErrDateNotFound = errors.New("date not found")

// Provider returns the schedule of city for the calendar day of date.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city cities.City, date time.Time) (*prayer.Times, error)
}

// Chain tries each provider in order and returns the first valid schedule.
type Chain []Provider

// Name lists the chained providers.
func (c Chain) Name() string {
	s := "chain("
	for i, p := range c {
		if i > 0 {
			s += ","
		}
		s += p.Name()
	}
	return s + ")"
}

// Fetch implements Provider.
func (c Chain) Fetch(ctx context.Context, city cities.City, date time.Time) (*prayer.Times, error) {
	t, _, err := c.FetchSource(ctx, city, date)
	return t, err
}

// FetchSource is Fetch that also reports which provider answered.
func (c Chain) FetchSource(ctx context.Context, city cities.City, date time.Time) (*prayer.Times, string, error) {
	if len(c) == 0 {
		return nil, "", errors.New("no providers configured")
	}
	var errs []error
	for _, p := range c {
		t, err := p.Fetch(ctx, city, date)
		if err == nil {
			logger.Debug("fetched prayer times", "provider", p.Name(), "city", city.Name, "date", t.Date)
			return t, p.Name(), nil
		}
		logger.Warn("provider failed", "provider", p.Name(), "city", city.Name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", errors.Join(errs...)
}

// build assembles Times from six raw clock strings in slot order,
// normalizing each to "HH:mm" and validating the result.
func build(date time.Time, raw [6]string) (*prayer.Times, error) {
	t := prayer.Times{Date: date.Format(prayer.DateLayout)}
	for i, s := range prayer.AllSlots {
		m, err := prayer.ParseMinuteOfDay(raw[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}
		t = t.With(s, prayer.FormatMinuteOfDay(m))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
