// Package notify delivers fired alarms: to the log, a terminal, or an MQTT
// broker for displays and home automation.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
)

// LogSink records each fired alarm in the structured log and, when Out is
// set, prints a one-line announcement.
type LogSink struct {
	Out  io.Writer
	Lang string
}

// Fire implements alarm.Sink.
func (s LogSink) Fire(_ context.Context, f alarm.Fired) error {
	logger.Info("adhan",
		"slot", f.Payload.Slot.String(),
		"city", f.Payload.City,
		"time", f.Payload.Time,
		"exact", f.Exact,
		"id", int(f.ID))
	if s.Out == nil {
		return nil
	}
	where := ""
	if f.Payload.City != "" {
		where = " - " + f.Payload.City
	}
	_, err := fmt.Fprintf(s.Out, "%s %s%s\n", f.Payload.Time, f.Payload.Slot.Name(s.Lang), where)
	return err
}

// Multi fans a fired alarm out to every sink. All sinks are tried; their
// errors are joined.
type Multi []alarm.Sink

// Fire implements alarm.Sink.
func (m Multi) Fire(ctx context.Context, f alarm.Fired) error {
	var errs []error
	for _, s := range m {
		if err := s.Fire(ctx, f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
