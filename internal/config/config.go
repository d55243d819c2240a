// Package config provides persistent configuration for the salah-times CLI.
//
// Configuration is stored as JSON at ~/.config/salah-times/config.json
// (XDG-compliant). The merge priority is: CLI flags > environment > config
// file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/smokyabdulrahman/salah-times/internal/cities"
)

const (
	configDirName  = "salah-times"
	configFileName = "config.json"
)

// Storage backends for the prayer times cache.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// ValidKeys lists all config keys that can be set via `config set`.
var ValidKeys = []string{
	"city", "language",
	"time_format", "format",
	"include_sunrise",
	"method", "providers",
	"store", "db_path", "cache_dir",
	"redis_addr", "redis_password", "redis_db",
	"mqtt_broker", "mqtt_topic", "mqtt_username", "mqtt_password",
	"log_dir", "debug",
}

// KnownProviders are the names accepted by the providers key, in default order.
var KnownProviders = []string{"yabiladi", "aladhan", "offline"}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults or stored settings).
type Config struct {
	City           string `json:"city,omitempty"`
	Language       string `json:"language,omitempty"`
	TimeFormat     string `json:"time_format,omitempty"` // "12h" or "24h"
	Format         string `json:"format,omitempty"`      // output mode of `next`
	IncludeSunrise bool   `json:"include_sunrise,omitempty"`
	Method         *int   `json:"method,omitempty"`    // pointer so we can distinguish "not set" from 0
	Providers      string `json:"providers,omitempty"` // comma-separated, tried in order

	Store    string `json:"store,omitempty"`
	DBPath   string `json:"db_path,omitempty"`
	CacheDir string `json:"cache_dir,omitempty"`

	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`

	MQTTBroker   string `json:"mqtt_broker,omitempty"`
	MQTTTopic    string `json:"mqtt_topic,omitempty"`
	MQTTUsername string `json:"mqtt_username,omitempty"`
	MQTTPassword string `json:"mqtt_password,omitempty"`

	LogDir string `json:"log_dir,omitempty"`
	Debug  bool   `json:"debug,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	method := 21
	return Config{
		TimeFormat: "24h",
		Method:     &method,
		Providers:  strings.Join(KnownProviders, ","),
		Store:      StoreSQLite,
	}
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	// The file may hold broker and redis passwords.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "city":
		if value == "" {
			c.City = ""
			return nil
		}
		city, err := cities.Lookup(value)
		if err != nil {
			return fmt.Errorf("invalid city %q: see `salah-times cities`", value)
		}
		c.City = city.Name
	case "language":
		switch value {
		case "", "en", "ar", "fr":
			c.Language = value
		default:
			return fmt.Errorf("invalid language %q: must be en, ar or fr", value)
		}
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "format":
		c.Format = value
	case "include_sunrise":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.IncludeSunrise = v
	case "method":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid method %q: must be an integer", value)
		}
		if v < 0 || v > 23 {
			return fmt.Errorf("invalid method %q: must be between 0 and 23", value)
		}
		c.Method = &v
	case "providers":
		for _, n := range splitList(value) {
			if !isKnownProvider(n) {
				return fmt.Errorf("invalid provider %q; known: %s", n, strings.Join(KnownProviders, ", "))
			}
		}
		c.Providers = value
	case "store":
		switch value {
		case StoreSQLite, StoreFile, StoreRedis:
			c.Store = value
		default:
			return fmt.Errorf("invalid store %q: must be sqlite, file or redis", value)
		}
	case "db_path":
		c.DBPath = value
	case "cache_dir":
		c.CacheDir = value
	case "redis_addr":
		c.RedisAddr = value
	case "redis_password":
		c.RedisPassword = value
	case "redis_db":
		v, err := strconv.Atoi(value)
		if err != nil || v < 0 {
			return fmt.Errorf("invalid redis_db %q: must be a non-negative integer", value)
		}
		c.RedisDB = v
	case "mqtt_broker":
		c.MQTTBroker = value
	case "mqtt_topic":
		c.MQTTTopic = value
	case "mqtt_username":
		c.MQTTUsername = value
	case "mqtt_password":
		c.MQTTPassword = value
	case "log_dir":
		c.LogDir = value
	case "debug":
		v, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Debug = v
	default:
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys, ", "))
	}
	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "city":
		return c.City, nil
	case "language":
		return c.Language, nil
	case "time_format":
		return c.TimeFormat, nil
	case "format":
		return c.Format, nil
	case "include_sunrise":
		return formatBool(c.IncludeSunrise), nil
	case "method":
		if c.Method == nil {
			return "", nil
		}
		return strconv.Itoa(*c.Method), nil
	case "providers":
		return c.Providers, nil
	case "store":
		return c.Store, nil
	case "db_path":
		return c.DBPath, nil
	case "cache_dir":
		return c.CacheDir, nil
	case "redis_addr":
		return c.RedisAddr, nil
	case "redis_password":
		return mask(c.RedisPassword), nil
	case "redis_db":
		if c.RedisDB == 0 {
			return "", nil
		}
		return strconv.Itoa(c.RedisDB), nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "mqtt_topic":
		return c.MQTTTopic, nil
	case "mqtt_username":
		return c.MQTTUsername, nil
	case "mqtt_password":
		return mask(c.MQTTPassword), nil
	case "log_dir":
		return c.LogDir, nil
	case "debug":
		return formatBool(c.Debug), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Merge returns c with every unset field taken from base.
func (c Config) Merge(base Config) Config {
	out := base
	if c.City != "" {
		out.City = c.City
	}
	if c.Language != "" {
		out.Language = c.Language
	}
	if c.TimeFormat != "" {
		out.TimeFormat = c.TimeFormat
	}
	if c.Format != "" {
		out.Format = c.Format
	}
	if c.IncludeSunrise {
		out.IncludeSunrise = true
	}
	if c.Method != nil {
		out.Method = c.Method
	}
	if c.Providers != "" {
		out.Providers = c.Providers
	}
	if c.Store != "" {
		out.Store = c.Store
	}
	if c.DBPath != "" {
		out.DBPath = c.DBPath
	}
	if c.CacheDir != "" {
		out.CacheDir = c.CacheDir
	}
	if c.RedisAddr != "" {
		out.RedisAddr = c.RedisAddr
	}
	if c.RedisPassword != "" {
		out.RedisPassword = c.RedisPassword
	}
	if c.RedisDB != 0 {
		out.RedisDB = c.RedisDB
	}
	if c.MQTTBroker != "" {
		out.MQTTBroker = c.MQTTBroker
	}
	if c.MQTTTopic != "" {
		out.MQTTTopic = c.MQTTTopic
	}
	if c.MQTTUsername != "" {
		out.MQTTUsername = c.MQTTUsername
	}
	if c.MQTTPassword != "" {
		out.MQTTPassword = c.MQTTPassword
	}
	if c.LogDir != "" {
		out.LogDir = c.LogDir
	}
	if c.Debug {
		out.Debug = true
	}
	return out
}

// MethodOrDefault returns the method value, falling back to the given default.
func (c *Config) MethodOrDefault(def int) int {
	if c.Method != nil {
		return *c.Method
	}
	return def
}

// ProviderNames returns the configured provider order.
func (c *Config) ProviderNames() []string {
	if c.Providers == "" {
		return KnownProviders
	}
	return splitList(c.Providers)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isKnownProvider(name string) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}

func parseBool(key, value string) (bool, error) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: must be true or false", key, value)
	}
	return v, nil
}

func formatBool(b bool) string {
	if !b {
		return ""
	}
	return "true"
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
