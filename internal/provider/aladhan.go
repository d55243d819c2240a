package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/api"
	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// Aladhan computes the schedule through the Al Adhan API using the
// Moroccan ministry method.
type Aladhan struct {
	Client *api.Client
	Method int
}

// NewAladhan returns an Aladhan provider using api.MethodMorocco.
func NewAladhan(c *api.Client) *Aladhan {
	return &Aladhan{Client: c, Method: api.MethodMorocco}
}

// Name implements Provider.
func (a *Aladhan) Name() string { return "aladhan" }

// Fetch implements Provider.
func (a *Aladhan) Fetch(ctx context.Context, city cities.City, date time.Time) (*prayer.Times, error) {
	resp, err := a.Client.FetchByCoordinates(ctx, date, city.Lat, city.Lon, a.Method, -1)
	if err != nil {
		return nil, err
	}
	return fromTimings(date, resp.Data.Timings)
}

// FetchMonth returns every day of the given month in calendar order.
func (a *Aladhan) FetchMonth(ctx context.Context, city cities.City, year int, month time.Month, loc *time.Location) ([]prayer.Times, error) {
	resp, err := a.Client.FetchCalendarByCoordinates(ctx, year, month, city.Lat, city.Lon, a.Method, -1)
	if err != nil {
		return nil, err
	}
	out := make([]prayer.Times, 0, len(resp.Data))
	for _, d := range resp.Data {
		day, err := time.ParseInLocation("02-01-2006", d.Date.Gregorian.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("calendar date %q: %w", d.Date.Gregorian.Date, err)
		}
		t, err := fromTimings(day, d.Timings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Date.Gregorian.Date, err)
		}
		out = append(out, *t)
	}
	return out, nil
}

func fromTimings(date time.Time, tm api.Timings) (*prayer.Times, error) {
	return build(date, [6]string{tm.Fajr, tm.Sunrise, tm.Dhuhr, tm.Asr, tm.Maghrib, tm.Isha})
}
