package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// fakeToken is a completed mqtt.Token.
type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	retained bool
	body     []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{topic, retained, payload.([]byte)})
	return fakeToken{err: p.err}
}

func fired() alarm.Fired {
	return alarm.Fired{
		ID:      1004,
		Token:   "tok",
		Payload: alarm.Payload{Slot: prayer.Maghrib, City: "Beni Mellal", Time: "18:45"},
		At:      time.Date(2026, 3, 4, 18, 45, 0, 0, time.UTC),
		FiredAt: time.Date(2026, 3, 4, 18, 45, 0, 5e6, time.UTC),
		Exact:   true,
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	if err := (LogSink{Out: &buf, Lang: "fr"}).Fire(context.Background(), fired()); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "18:45 Maghreb - Beni Mellal\n" {
		t.Errorf("output = %q", got)
	}
	if err := (LogSink{}).Fire(context.Background(), fired()); err != nil {
		t.Errorf("LogSink without writer: %v", err)
	}
}

func TestMulti_TriesAllSinks(t *testing.T) {
	calls := 0
	ok := alarm.SinkFunc(func(context.Context, alarm.Fired) error { calls++; return nil })
	bad := alarm.SinkFunc(func(context.Context, alarm.Fired) error { calls++; return errors.New("down") })

	err := Multi{bad, ok}.Fire(context.Background(), fired())
	if err == nil || calls != 2 {
		t.Errorf("err=%v calls=%d", err, calls)
	}
}

func TestMQTTSink_Fire(t *testing.T) {
	pub := &fakePublisher{}
	s := NewMQTTSink(pub, "mosque/")

	if err := s.Fire(context.Background(), fired()); err != nil {
		t.Fatal(err)
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages", len(pub.msgs))
	}
	m := pub.msgs[0]
	if m.topic != "mosque/beni-mellal/adhan" || m.retained {
		t.Errorf("topic=%q retained=%v", m.topic, m.retained)
	}
	var msg AdhanMessage
	if err := json.Unmarshal(m.body, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Event != "adhan" || msg.Slot != "maghrib" || msg.Time != "18:45" || !msg.Exact {
		t.Errorf("message = %+v", msg)
	}
}

func TestMQTTSink_PublishState(t *testing.T) {
	pub := &fakePublisher{}
	s := NewMQTTSink(pub, "")

	tm := prayer.Times{Date: "2026-03-04", Fajr: "05:30", Sunrise: "07:00", Dhuhr: "13:00",
		Asr: "16:15", Maghrib: "18:45", Isha: "20:00"}
	st := prayer.Evaluate(&tm, 18*60+47, 0, prayer.Options{})

	if err := s.PublishState("Rabat", st); err != nil {
		t.Fatal(err)
	}
	m := pub.msgs[0]
	if m.topic != "salah/rabat/state" || !m.retained {
		t.Errorf("topic=%q retained=%v", m.topic, m.retained)
	}
	var msg StateMessage
	_ = json.Unmarshal(m.body, &msg)
	if msg.Current != "maghrib" || msg.Next != "isha" || msg.NextTime != "20:00" || msg.Iqama != "00:03:00" {
		t.Errorf("state = %+v", msg)
	}

	_ = s.PublishState("Rabat", prayer.Evaluate(nil, 0, 0, prayer.Options{}))
	if !strings.Contains(string(pub.msgs[1].body), prayer.Placeholder) {
		t.Errorf("no-data state = %s", pub.msgs[1].body)
	}
}

func TestMQTTSink_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	err := NewMQTTSink(pub, "").Fire(context.Background(), fired())
	if err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Errorf("err = %v", err)
	}
}

func TestMQTTSink_TopicDefaultCity(t *testing.T) {
	s := NewMQTTSink(&fakePublisher{}, "x")
	if got := s.Topic("", "adhan"); got != "x/default/adhan" {
		t.Errorf("Topic = %q", got)
	}
}
