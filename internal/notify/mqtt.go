package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/smokyabdulrahman/salah-times/internal/alarm"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// DefaultTopic is the topic prefix used when none is configured.
const DefaultTopic = "salah"

// Publisher is the subset of mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTSink publishes fired alarms as JSON to <prefix>/<city>/adhan and,
// via PublishState, a retained schedule snapshot to <prefix>/<city>/state.
type MQTTSink struct {
	pub     Publisher
	prefix  string
	qos     byte
	timeout time.Duration
}

// AdhanMessage is the JSON body of an adhan event.
type AdhanMessage struct {
	Event   string    `json:"event"`
	Slot    string    `json:"slot"`
	City    string    `json:"city,omitempty"`
	Time    string    `json:"time"`
	At      time.Time `json:"at"`
	FiredAt time.Time `json:"fired_at"`
	Exact   bool      `json:"exact"`
	Token   string    `json:"token"`
}

// StateMessage is the retained schedule snapshot.
type StateMessage struct {
	Date           string `json:"date"`
	Current        string `json:"current"`
	Next           string `json:"next"`
	NextTime       string `json:"next_time"`
	NextIsTomorrow bool   `json:"next_is_tomorrow"`
	Countdown      string `json:"countdown"`
	Iqama          string `json:"iqama,omitempty"`
}

// MQTTOptions configures DialMQTT.
type MQTTOptions struct {
	Broker   string // e.g. tcp://localhost:1883
	ClientID string
	Username string
	Password string
	Prefix   string
}

// DialMQTT connects to the broker and returns a sink publishing on it.
func DialMQTT(opts MQTTOptions) (*MQTTSink, mqtt.Client, error) {
	o := mqtt.NewClientOptions()
	o.AddBroker(opts.Broker)
	o.SetClientID(opts.ClientID)
	if opts.Username != "" {
		o.SetUsername(opts.Username)
		o.SetPassword(opts.Password)
	}
	o.SetAutoReconnect(true)
	o.SetConnectTimeout(10 * time.Second)
	o.OnConnect = func(mqtt.Client) {
		logger.Info("connected to MQTT broker", "broker", opts.Broker)
	}
	o.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "broker", opts.Broker, "err", err)
	}

	client := mqtt.NewClient(o)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", opts.Broker, token.Error())
	}
	return NewMQTTSink(client, opts.Prefix), client, nil
}

// NewMQTTSink publishes through pub under prefix (DefaultTopic if empty).
func NewMQTTSink(pub Publisher, prefix string) *MQTTSink {
	if prefix == "" {
		prefix = DefaultTopic
	}
	return &MQTTSink{pub: pub, prefix: strings.TrimSuffix(prefix, "/"), qos: 1, timeout: 5 * time.Second}
}

// Topic builds <prefix>/<city>/<leaf>, city lower-cased with spaces as dashes.
func (s *MQTTSink) Topic(city, leaf string) string {
	c := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(city)), " ", "-")
	if c == "" {
		c = "default"
	}
	return s.prefix + "/" + c + "/" + leaf
}

// Fire implements alarm.Sink.
func (s *MQTTSink) Fire(_ context.Context, f alarm.Fired) error {
	msg := AdhanMessage{
		Event:   "adhan",
		Slot:    f.Payload.Slot.Key(),
		City:    f.Payload.City,
		Time:    f.Payload.Time,
		At:      f.At,
		FiredAt: f.FiredAt,
		Exact:   f.Exact,
		Token:   f.Token,
	}
	return s.publish(s.Topic(f.Payload.City, "adhan"), false, msg)
}

// PublishState publishes st as the retained state of city.
func (s *MQTTSink) PublishState(city string, st prayer.State) error {
	if !st.HasData {
		return s.publish(s.Topic(city, "state"), true, StateMessage{Countdown: prayer.Placeholder})
	}
	msg := StateMessage{
		Date:           st.Date,
		Current:        st.Current.Key(),
		Next:           st.Next.Key(),
		NextTime:       prayer.FormatMinuteOfDay(st.NextMinute),
		NextIsTomorrow: st.NextIsTomorrow,
		Countdown:      st.Countdown(),
	}
	if iq, ok := st.IqamaCountdown(); ok {
		msg.Iqama = iq
	}
	return s.publish(s.Topic(city, "state"), true, msg)
}

func (s *MQTTSink) publish(topic string, retained bool, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal MQTT message: %w", err)
	}
	token := s.pub.Publish(topic, s.qos, retained, body)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}
