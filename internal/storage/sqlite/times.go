package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/cache"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

type timesRow struct {
	City        string `db:"city_name"`
	Date        string `db:"date"`
	Fajr        string `db:"fajr"`
	Sunrise     string `db:"sunrise"`
	Dhuhr       string `db:"dhuhr"`
	Asr         string `db:"asr"`
	Maghrib     string `db:"maghrib"`
	Isha        string `db:"isha"`
	Source      string `db:"source"`
	LastUpdated string `db:"last_updated"`
}

func (r timesRow) record() cache.Record {
	fetched, _ := time.Parse(timestampLayout, r.LastUpdated)
	return cache.Record{
		City: r.City,
		Times: prayer.Times{
			Date:    r.Date,
			Fajr:    r.Fajr,
			Sunrise: r.Sunrise,
			Dhuhr:   r.Dhuhr,
			Asr:     r.Asr,
			Maghrib: r.Maghrib,
			Isha:    r.Isha,
		},
		Source:    r.Source,
		FetchedAt: fetched,
	}
}

const timesColumns = "city_name, date, fajr, sunrise, dhuhr, asr, maghrib, isha, source, last_updated"

// Load implements cache.Store: the most recent day stored for city.
func (s *Store) Load(ctx context.Context, city string) (*cache.Record, error) {
	var row timesRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+timesColumns+" FROM prayer_times WHERE city_name = ? ORDER BY date DESC LIMIT 1",
		cityKey(city))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load prayer times for %s: %w", city, err)
	}
	rec := row.record()
	return &rec, nil
}

// LoadDate returns the stored schedule of city for one date.
func (s *Store) LoadDate(ctx context.Context, city, date string) (*cache.Record, error) {
	var row timesRow
	err := s.db.GetContext(ctx, &row,
		"SELECT "+timesColumns+" FROM prayer_times WHERE city_name = ? AND date = ?",
		cityKey(city), date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load prayer times for %s on %s: %w", city, date, err)
	}
	rec := row.record()
	return &rec, nil
}

// Save implements cache.Store. A second save for the same (city, date)
// replaces the first.
func (s *Store) Save(ctx context.Context, rec cache.Record) error {
	if rec.City == "" {
		return errors.New("cache record has no city")
	}
	updated := rec.FetchedAt
	if updated.IsZero() {
		updated = s.now()
	}
	t := rec.Times
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prayer_times (`+timesColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (city_name, date) DO UPDATE SET
			fajr = excluded.fajr, sunrise = excluded.sunrise, dhuhr = excluded.dhuhr,
			asr = excluded.asr, maghrib = excluded.maghrib, isha = excluded.isha,
			source = excluded.source, last_updated = excluded.last_updated`,
		cityKey(rec.City), t.Date, t.Fajr, t.Sunrise, t.Dhuhr, t.Asr, t.Maghrib, t.Isha,
		rec.Source, updated.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save prayer times for %s: %w", rec.City, err)
	}
	return nil
}

// History returns up to limit stored days for city, newest first.
func (s *Store) History(ctx context.Context, city string, limit int) ([]cache.Record, error) {
	var rows []timesRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT "+timesColumns+" FROM prayer_times WHERE city_name = ? ORDER BY date DESC LIMIT ?",
		cityKey(city), limit)
	if err != nil {
		return nil, fmt.Errorf("list prayer times for %s: %w", city, err)
	}
	out := make([]cache.Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// PruneBefore deletes stored days older than date (YYYY-MM-DD).
func (s *Store) PruneBefore(ctx context.Context, date string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM prayer_times WHERE date < ?", date)
	if err != nil {
		return 0, fmt.Errorf("prune prayer times: %w", err)
	}
	return res.RowsAffected()
}

// cityKey folds case the same way the file and redis caches do.
func cityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
