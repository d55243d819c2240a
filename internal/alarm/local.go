package alarm

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smokyabdulrahman/salah-times/internal/logger"
)

// Fired is delivered to a Sink when an alarm goes off.
type Fired struct {
	ID      ID        `json:"id"`
	Token   string    `json:"token"`
	Payload Payload   `json:"payload"`
	At      time.Time `json:"at"`
	FiredAt time.Time `json:"fired_at"`
	Exact   bool      `json:"exact"`
}

// Sink receives fired alarms.
type Sink interface {
	Fire(ctx context.Context, f Fired) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f Fired) error

// Fire implements Sink.
func (fn SinkFunc) Fire(ctx context.Context, f Fired) error { return fn(ctx, f) }

// Registration is a pending alarm held by Local.
type Registration struct {
	ID      ID
	Token   string
	At      time.Time
	Payload Payload
	Exact   bool
}

type pending struct {
	Registration
	timer *time.Timer
}

// Local is an in-process Service backed by time.AfterFunc. Each
// registration carries a fresh token; a timer whose token no longer matches
// the pending entry was cancelled or replaced and does nothing.
type Local struct {
	sink Sink
	base context.Context

	mu      sync.Mutex
	pending map[ID]*pending

	// DenyExact makes ScheduleExact fail with ErrPermissionDenied.
	DenyExact bool
	// InexactSlack delays inexact alarms, mimicking batched delivery.
	InexactSlack time.Duration

	now func() time.Time
}

// NewLocal returns a Local delivering to sink. Fired alarms use ctx.
func NewLocal(ctx context.Context, sink Sink) *Local {
	return &Local{
		sink:    sink,
		base:    ctx,
		pending: map[ID]*pending{},
		now:     time.Now,
	}
}

// ScheduleExact implements Service.
func (l *Local) ScheduleExact(_ context.Context, at time.Time, id ID, p Payload) error {
	if l.DenyExact {
		return ErrPermissionDenied
	}
	l.schedule(at, id, p, true)
	return nil
}

// ScheduleInexact implements Service.
func (l *Local) ScheduleInexact(_ context.Context, at time.Time, id ID, p Payload) error {
	l.schedule(at.Add(l.InexactSlack), id, p, false)
	return nil
}

// Cancel implements Service. Cancelling an unknown ID is not an error.
func (l *Local) Cancel(_ context.Context, id ID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.pending[id]; ok {
		e.timer.Stop()
		delete(l.pending, id)
	}
	return nil
}

func (l *Local) schedule(at time.Time, id ID, p Payload, exact bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if old, ok := l.pending[id]; ok {
		old.timer.Stop()
	}

	reg := Registration{ID: id, Token: uuid.NewString(), At: at, Payload: p, Exact: exact}
	delay := at.Sub(l.now())
	if delay < 0 {
		delay = 0
	}
	e := &pending{Registration: reg}
	e.timer = time.AfterFunc(delay, func() { l.fire(reg) })
	l.pending[id] = e
}

func (l *Local) fire(reg Registration) {
	l.mu.Lock()
	cur, ok := l.pending[reg.ID]
	if !ok || cur.Token != reg.Token {
		l.mu.Unlock()
		return
	}
	delete(l.pending, reg.ID)
	l.mu.Unlock()

	f := Fired{
		ID:      reg.ID,
		Token:   reg.Token,
		Payload: reg.Payload,
		At:      reg.At,
		FiredAt: l.now(),
		Exact:   reg.Exact,
	}
	if l.base.Err() != nil {
		return
	}
	if err := l.sink.Fire(l.base, f); err != nil {
		logger.Error("alarm delivery failed", "id", int(reg.ID), "slot", reg.Payload.Slot.String(), "err", err)
	}
}

// Pending lists the registrations that have not fired, soonest first.
func (l *Local) Pending() []Registration {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Registration, 0, len(l.pending))
	for _, e := range l.pending {
		out = append(out, e.Registration)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

// Stop cancels every pending timer.
func (l *Local) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, e := range l.pending {
		e.timer.Stop()
		delete(l.pending, id)
	}
}
