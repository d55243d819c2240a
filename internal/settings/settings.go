// Package settings exposes typed, defaulted accessors over a flat key/value
// store.
package settings

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/cities"
	"github.com/smokyabdulrahman/salah-times/internal/logger"
	"github.com/smokyabdulrahman/salah-times/internal/prayer"
)

// Store is a flat string key/value store. Get reports ok=false for unset keys.
type Store interface {
	GetSetting(ctx context.Context, key string) (value string, ok bool, err error)
	SetSetting(ctx context.Context, key, value string) error
}

// Setting keys.
const (
	KeyAdhanEnabled = "adhan_enabled"
	KeyWeeklyAlarms = "weekly_alarms"
	KeyDefaultCity  = "default_city"
	KeyLanguage     = "language"
)

// Defaults.
const (
	DefaultLanguage = "ar"
	MaxIqamaDelay   = 120
)

// SupportedLanguages are the UI languages with prayer and city names.
var SupportedLanguages = []string{"en", "ar", "fr"}

// AlarmKey is the per-prayer alarm toggle key, e.g. "alarm.fajr.enabled".
func AlarmKey(s prayer.Slot) string {
	return "alarm." + s.Key() + ".enabled"
}

// AlarmDayKey is the per-prayer, per-weekday toggle key, e.g. "alarm.fajr.mon.enabled".
func AlarmDayKey(s prayer.Slot, wd time.Weekday) string {
	return "alarm." + s.Key() + "." + WeekdayKey(wd) + ".enabled"
}

// IqamaKey is the per-prayer iqama delay key, e.g. "iqama.maghrib".
func IqamaKey(s prayer.Slot) string {
	return "iqama." + s.Key()
}

// WeekdayKey is the three-letter lower-case day name.
func WeekdayKey(wd time.Weekday) string {
	return strings.ToLower(wd.String()[:3])
}

// ParseWeekday accepts "mon", "Monday", "MON", ...
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if key == full || key == full[:3] {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Service reads settings with defaults. Read errors are logged and fall
// back to the default so the schedule keeps working.
type Service struct {
	store Store
}

// NewService wraps store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) raw(ctx context.Context, key string) (string, bool) {
	v, ok, err := s.store.GetSetting(ctx, key)
	if err != nil {
		logger.Warn("settings read failed, using default", "key", key, "err", err)
		return "", false
	}
	return v, ok
}

func (s *Service) boolean(ctx context.Context, key string, def bool) bool {
	v, ok := s.raw(ctx, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("invalid boolean setting, using default", "key", key, "value", v)
		return def
	}
	return b
}

// AdhanEnabled is the master switch for every alarm.
func (s *Service) AdhanEnabled(ctx context.Context) bool {
	return s.boolean(ctx, KeyAdhanEnabled, true)
}

// SetAdhanEnabled sets the master switch.
func (s *Service) SetAdhanEnabled(ctx context.Context, on bool) error {
	return s.store.SetSetting(ctx, KeyAdhanEnabled, strconv.FormatBool(on))
}

// WeeklyAlarms selects per-weekday alarm registration.
func (s *Service) WeeklyAlarms(ctx context.Context) bool {
	return s.boolean(ctx, KeyWeeklyAlarms, false)
}

// SetWeeklyAlarms toggles per-weekday alarm registration.
func (s *Service) SetWeeklyAlarms(ctx context.Context, on bool) error {
	return s.store.SetSetting(ctx, KeyWeeklyAlarms, strconv.FormatBool(on))
}

// AlarmEnabled reports whether the alarm for slot is on. Default true.
func (s *Service) AlarmEnabled(ctx context.Context, slot prayer.Slot) bool {
	return s.boolean(ctx, AlarmKey(slot), true)
}

// AlarmEnabledOn reports whether the alarm for slot is on for weekday wd.
// Unset days inherit the slot toggle.
func (s *Service) AlarmEnabledOn(ctx context.Context, slot prayer.Slot, wd time.Weekday) bool {
	return s.boolean(ctx, AlarmDayKey(slot, wd), s.AlarmEnabled(ctx, slot))
}

// SetAlarmEnabled toggles the alarm for slot.
func (s *Service) SetAlarmEnabled(ctx context.Context, slot prayer.Slot, on bool) error {
	if !slot.IsPrayer() {
		return fmt.Errorf("no alarm for %s", slot)
	}
	return s.store.SetSetting(ctx, AlarmKey(slot), strconv.FormatBool(on))
}

// SetAlarmEnabledOn toggles the alarm for slot on weekday wd only.
func (s *Service) SetAlarmEnabledOn(ctx context.Context, slot prayer.Slot, wd time.Weekday, on bool) error {
	if !slot.IsPrayer() {
		return fmt.Errorf("no alarm for %s", slot)
	}
	return s.store.SetSetting(ctx, AlarmDayKey(slot, wd), strconv.FormatBool(on))
}

// IqamaDelay returns the iqama delay in minutes for slot.
func (s *Service) IqamaDelay(ctx context.Context, slot prayer.Slot) int {
	def := prayer.DefaultDelay(slot)
	v, ok := s.raw(ctx, IqamaKey(slot))
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > MaxIqamaDelay {
		logger.Warn("invalid iqama delay, using default", "slot", slot.String(), "value", v)
		return def
	}
	return n
}

// SetIqamaDelay stores the iqama delay for slot.
func (s *Service) SetIqamaDelay(ctx context.Context, slot prayer.Slot, minutes int) error {
	if !slot.IsPrayer() {
		return fmt.Errorf("no iqama for %s", slot)
	}
	if minutes < 0 || minutes > MaxIqamaDelay {
		return fmt.Errorf("iqama delay must be between 0 and %d minutes, got %d", MaxIqamaDelay, minutes)
	}
	return s.store.SetSetting(ctx, IqamaKey(slot), strconv.Itoa(minutes))
}

// IqamaConfig collects the delays of all five prayers.
func (s *Service) IqamaConfig(ctx context.Context) prayer.IqamaConfig {
	cfg := prayer.IqamaConfig{}
	for _, slot := range prayer.Prayers {
		cfg[slot] = s.IqamaDelay(ctx, slot)
	}
	return cfg
}

// DefaultCity returns the configured city name, or cities.DefaultName.
func (s *Service) DefaultCity(ctx context.Context) string {
	v, ok := s.raw(ctx, KeyDefaultCity)
	if !ok || v == "" {
		return cities.DefaultName
	}
	return v
}

// SetDefaultCity stores the canonical name of city.
func (s *Service) SetDefaultCity(ctx context.Context, city string) error {
	c, err := cities.Lookup(city)
	if err != nil {
		return err
	}
	return s.store.SetSetting(ctx, KeyDefaultCity, c.Name)
}

// Language returns the UI language.
func (s *Service) Language(ctx context.Context) string {
	v, ok := s.raw(ctx, KeyLanguage)
	if !ok || !validLanguage(v) {
		return DefaultLanguage
	}
	return v
}

// SetLanguage stores the UI language.
func (s *Service) SetLanguage(ctx context.Context, lang string) error {
	if !validLanguage(lang) {
		return fmt.Errorf("unsupported language %q (valid: %s)", lang, strings.Join(SupportedLanguages, ", "))
	}
	return s.store.SetSetting(ctx, KeyLanguage, lang)
}

func validLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]string{}}
}

// GetSetting implements Store.
func (m *MemoryStore) GetSetting(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// SetSetting implements Store.
func (m *MemoryStore) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
