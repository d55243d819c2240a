// Package cache stores the last fetched prayer schedule per city and decides
// when it has gone stale.
package cache

import (
	"context"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// Record is the cached schedule for one city.
type Record struct {
	City      string       `json:"city"`
	Times     prayer.Times `json:"times"`
	Source    string       `json:"source,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Date is the calendar day the record applies to (YYYY-MM-DD).
func (r Record) Date() string {
	return r.Times.Date
}

// Store persists the most recent Record per city.
//
// Load returns (nil, nil) when nothing is cached for city.
type Store interface {
	Load(ctx context.Context, city string) (*Record, error)
	Save(ctx context.Context, rec Record) error
}

// Policy answers "must the schedule for city be fetched again today".
// Freshness is purely calendar-date based; elapsed time is irrelevant.
type Policy struct {
	Store Store
}

// ShouldRefetch reports whether the cached record for city is missing or
// belongs to a date other than today. A failed read counts as missing.
func (p Policy) ShouldRefetch(ctx context.Context, city string, today time.Time) bool {
	return p.Fresh(ctx, city, today) == nil
}

// Fresh returns the cached record for city if it is for today, else nil.
// A failed read is logged and returns nil.
func (p Policy) Fresh(ctx context.Context, city string, today time.Time) *Record {
	rec, err := p.Store.Load(ctx, city)
	if err != nil {
		logger.Warn("cache read failed, treating as stale", "city", city, "err", err)
		return nil
	}
	if rec == nil || rec.Date() != today.Format(prayer.DateLayout) {
		return nil
	}
	return rec
}
