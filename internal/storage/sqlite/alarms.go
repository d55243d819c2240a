package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// MarkAlarmsSet records that alarms were registered for date, with the
// number of entries that succeeded and failed.
func (s *Store) MarkAlarmsSet(ctx context.Context, date string, scheduled, failed int) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO alarm_tracking (date, alarms_set, scheduled, failed, updated_at) VALUES (?, 1, ?, ?, ?)",
		date, scheduled, failed, s.timestamp())
	if err != nil {
		return fmt.Errorf("mark alarms set for %s: %w", date, err)
	}
	return nil
}

// AlarmsSet reports whether alarms were already registered for date.
func (s *Store) AlarmsSet(ctx context.Context, date string) (bool, error) {
	var set bool
	err := s.db.GetContext(ctx, &set, "SELECT alarms_set FROM alarm_tracking WHERE date = ?", date)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read alarm tracking for %s: %w", date, err)
	}
	return set, nil
}

// ClearAlarmsSet forgets the registration for date so the next run
// schedules again (used after settings changes).
func (s *Store) ClearAlarmsSet(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM alarm_tracking WHERE date = ?", date)
	if err != nil {
		return fmt.Errorf("clear alarm tracking for %s: %w", date, err)
	}
	return nil
}
