package alarm

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Call is one request seen by a Recorder.
type Call struct {
	Op      string // "exact", "inexact" or "cancel"
	ID      ID
	At      time.Time
	Payload Payload
}

// Recorder is a Service that only remembers what it was asked to do. It
// backs dry runs and tests.
type Recorder struct {
	mu    sync.Mutex
	Calls []Call
	// DenyExact makes ScheduleExact return ErrPermissionDenied.
	DenyExact bool
	// Fail makes scheduling of the listed IDs return the mapped error.
	Fail map[ID]error
	// FailCancel makes Cancel return the mapped error.
	FailCancel map[ID]error

	active map[ID]Call
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{active: map[ID]Call{}}
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
	if r.active == nil {
		r.active = map[ID]Call{}
	}
	if c.Op == "cancel" {
		delete(r.active, c.ID)
	} else {
		r.active[c.ID] = c
	}
}

// ScheduleExact implements Service.
func (r *Recorder) ScheduleExact(_ context.Context, at time.Time, id ID, p Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DenyExact {
		return ErrPermissionDenied
	}
	if err := r.Fail[id]; err != nil {
		return err
	}
	r.record(Call{Op: "exact", ID: id, At: at, Payload: p})
	return nil
}

// ScheduleInexact implements Service.
func (r *Recorder) ScheduleInexact(_ context.Context, at time.Time, id ID, p Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.Fail[id]; err != nil {
		return err
	}
	r.record(Call{Op: "inexact", ID: id, At: at, Payload: p})
	return nil
}

// Cancel implements Service.
func (r *Recorder) Cancel(_ context.Context, id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.FailCancel[id]; err != nil {
		return err
	}
	r.record(Call{Op: "cancel", ID: id})
	return nil
}

// Active returns the registrations that would be pending, soonest first.
func (r *Recorder) Active() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, 0, len(r.active))
	for _, c := range r.active {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].ID < out[j].ID
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}
