package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	goprayer "github.com/hablullah/go-prayer"

	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// Twilight angles of the Moroccan ministry.
const (
	fajrAngle = 19.0
	ishaAngle = 17.0

	// Published schedules add these after solar noon and sunset.
	dhuhrOffset   = 5 * time.Minute
	maghribOffset = 5 * time.Minute
)

// ErrNoSunrise is returned for locations and dates without a sunrise.
var ErrNoSunrise = errors.New("sun does not rise or set")

// Offline estimates the schedule from the sun's position. It needs no
// network and is accurate to a few minutes.
type Offline struct{}

// Name implements Provider.
func (Offline) Name() string { return "offline" }

// Fetch implements Provider. The UTC offset is taken from date's location.
func (Offline) Fetch(_ context.Context, city cities.City, date time.Time) (*prayer.Times, error) {
	res, err := goprayer.Calculate(ministryConfig(city), date)
	if err != nil {
		return nil, fmt.Errorf("solar position: %w", err)
	}
	slots := [6]time.Time{res.Fajr, res.Sunrise, res.Zuhr, res.Asr, res.Maghrib, res.Isha}

	var raw [6]string
	for i, t := range slots {
		// go-prayer leaves a slot zero when the sun never reaches its altitude.
		if t.IsZero() {
			return nil, ErrNoSunrise
		}
		raw[i] = t.Format("15:04")
	}
	return build(date, raw)
}

func ministryConfig(city cities.City) goprayer.Config {
	return goprayer.Config{
		Latitude:      city.Lat,
		Longitude:     city.Lon,
		FajrAngle:     fajrAngle,
		IshaAngle:     ishaAngle,
		AsrConvention: goprayer.Shafii,
		TimeCorrections: goprayer.TimeCorrections{
			Zuhr:    dhuhrOffset,
			Maghrib: maghribOffset,
		},
	}
}
