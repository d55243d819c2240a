package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// clearEnv unsets every SALAH_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range ValidKeys {
		t.Setenv(EnvVar(k), "")
	}
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	if d.Method == nil || *d.Method != 21 {
		t.Errorf("Defaults().Method = %v, want 21", d.Method)
	}
	if d.TimeFormat != "24h" {
		t.Errorf("Defaults().TimeFormat = %q, want %q", d.TimeFormat, "24h")
	}
	if d.Store != StoreSQLite {
		t.Errorf("Defaults().Store = %q, want sqlite", d.Store)
	}
	if got := d.ProviderNames(); strings.Join(got, ",") != "yabiladi,aladhan,offline" {
		t.Errorf("Defaults().ProviderNames() = %v", got)
	}
	if d.City != "" || d.Language != "" {
		t.Error("city and language should default to the stored settings")
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-test", "salah-times"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}

	p, _ := Path()
	if want := filepath.Join("/tmp/xdg-test", "salah-times", "config.json"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

func TestDir_FallbackToHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	dir, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if want := filepath.Join(home, ".config", "salah-times"); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

// --- LoadFrom / SaveTo / ResetAt ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if cfg.City != "" || cfg.Method != nil {
		t.Error("LoadFrom non-existent should return empty config")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	os.WriteFile(path, []byte("{bad json"), 0o644)

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom with invalid JSON should error")
	}
}

func TestLoadFrom_MethodZero(t *testing.T) {
	path := tempConfigPath(t)
	os.WriteFile(path, []byte(`{"method": 0}`), 0o644)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.Method == nil || *cfg.Method != 0 {
		t.Errorf("Method = %v, want explicit 0", cfg.Method)
	}
}

func TestSaveTo_CreatesDirectoryWithPrivateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")
	cfg := Config{City: "Rabat", MQTTPassword: "secret"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasSuffix(string(data), "}\n") {
		t.Error("config file should end with a newline")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := tempConfigPath(t)
	method := 3
	orig := Config{
		City:       "Fes",
		Language:   "fr",
		TimeFormat: "12h",
		Method:     &method,
		Store:      StoreRedis,
		RedisAddr:  "localhost:6379",
		MQTTBroker: "tcp://localhost:1883",
	}
	if err := orig.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.City != "Fes" || got.Language != "fr" || got.Store != StoreRedis || *got.Method != 3 {
		t.Errorf("loaded = %+v", got)
	}
}

func TestResetAt(t *testing.T) {
	path := tempConfigPath(t)
	(&Config{City: "Rabat"}).SaveTo(path)

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config file still exists after reset")
	}
	if err := ResetAt(path); err != nil {
		t.Errorf("ResetAt on missing file should not error, got %v", err)
	}
}

// --- Set / Get ---

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		wantGet    string
	}{
		{"city", "casablanca", false, "Casablanca"},
		{"city", "الرباط", false, "Rabat"},
		{"city", "Atlantis", true, ""},
		{"city", "", false, ""},
		{"language", "ar", false, "ar"},
		{"language", "de", true, ""},
		{"time_format", "12h", false, "12h"},
		{"time_format", "13h", true, ""},
		{"format", "short-name-and-time", false, "short-name-and-time"},
		{"include_sunrise", "true", false, "true"},
		{"include_sunrise", "maybe", true, ""},
		{"method", "0", false, "0"},
		{"method", "24", true, ""},
		{"method", "abc", true, ""},
		{"providers", "aladhan, offline", false, "aladhan, offline"},
		{"providers", "yabiladi,google", true, ""},
		{"store", "redis", false, "redis"},
		{"store", "postgres", true, ""},
		{"redis_db", "2", false, "2"},
		{"redis_db", "-1", true, ""},
		{"redis_password", "hunter2", false, "********"},
		{"mqtt_broker", "tcp://broker:1883", false, "tcp://broker:1883"},
		{"mqtt_password", "pw", false, "********"},
		{"debug", "1", false, "true"},
		{"nope", "x", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var c Config
			err := c.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := c.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.wantGet {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.wantGet)
			}
		})
	}
}

func TestGet_EveryValidKey(t *testing.T) {
	var c Config
	for _, k := range ValidKeys {
		if _, err := c.Get(k); err != nil {
			t.Errorf("Get(%q) error: %v", k, err)
		}
	}
	if _, err := c.Get("nope"); err == nil {
		t.Error("Get of unknown key should error")
	}
}

func TestMethodOrDefault(t *testing.T) {
	var c Config
	if got := c.MethodOrDefault(21); got != 21 {
		t.Errorf("nil Method = %d, want default", got)
	}
	zero := 0
	c.Method = &zero
	if got := c.MethodOrDefault(21); got != 0 {
		t.Errorf("explicit 0 = %d, want 0", got)
	}
}

// --- Merge / environment ---

func TestMerge(t *testing.T) {
	base := Defaults()
	base.City = "Rabat"
	top := Config{City: "Fes", Debug: true}

	got := top.Merge(base)
	if got.City != "Fes" || !got.Debug {
		t.Errorf("top layer lost: %+v", got)
	}
	if got.TimeFormat != "24h" || got.Store != StoreSQLite {
		t.Errorf("base layer lost: %+v", got)
	}
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SALAH_CITY", "tanger")
	t.Setenv("SALAH_STORE", "file")
	t.Setenv("SALAH_DEBUG", "true")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if c.City != "Tangier" || c.Store != StoreFile || !c.Debug {
		t.Errorf("FromEnv = %+v", c)
	}

	t.Setenv("SALAH_TIME_FORMAT", "25h")
	if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), "SALAH_TIME_FORMAT") {
		t.Errorf("FromEnv err = %v, want variable name in error", err)
	}
}

func TestResolve_Priority(t *testing.T) {
	clearEnv(t)
	path := tempConfigPath(t)
	(&Config{City: "Agadir", TimeFormat: "12h"}).SaveTo(path)
	t.Setenv("SALAH_CITY", "Oujda")

	c, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if c.City != "Oujda" {
		t.Errorf("City = %q, environment should win over file", c.City)
	}
	if c.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, file should win over defaults", c.TimeFormat)
	}
	if c.MethodOrDefault(-1) != 21 {
		t.Error("defaults should fill the rest")
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is present, even if empty.
	os.Unsetenv("SALAH_LANGUAGE")
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte("SALAH_LANGUAGE=fr\n"), 0o644)

	if err := LoadDotEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv error: %v", err)
	}

	c, _ := FromEnv()
	if c.Language != "fr" {
		t.Errorf("Language = %q, want fr from .env", c.Language)
	}
}
