package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "SALAH_"

// EnvVar returns the environment variable that overrides key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// LoadDotEnv loads the given .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored. With no arguments it loads ./.env.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds a Config from the SALAH_* variables, validated like Set.
func FromEnv() (Config, error) {
	var c Config
	var errs []error
	for _, key := range ValidKeys {
		v, ok := os.LookupEnv(EnvVar(key))
		if !ok || v == "" {
			continue
		}
		if err := c.Set(key, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvVar(key), err))
		}
	}
	return c, errors.Join(errs...)
}

// Resolve merges the layers below the command line: environment, then the
// file at path, then Defaults.
func Resolve(path string) (Config, error) {
	file, err := LoadFrom(path)
	if err != nil {
		return Config{}, err
	}
	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}
	return env.Merge(file.Merge(Defaults())), nil
}
