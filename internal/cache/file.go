package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smokyabdulrahman/salah-times/internal/geo"
)

const (
	timesCacheFile = "times_%s.json" // keyed by hash of the city name
	geoCacheFile   = "geolocation.json"
	geoTTL         = 24 * time.Hour
)

// FileStore keeps one JSON file per city under a cache directory, plus the
// IP geolocation result.
type FileStore struct {
	dir string
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir is ~/.cache/salah-times.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cache", "salah-times"), nil
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
// An empty dir selects DefaultDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileStore) Dir() string {
	return c.dir
}

// cityKey hashes the normalised city name so any spelling is a safe file name.
func cityKey(city string) string {
	h := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(city))))
	return fmt.Sprintf("%x", h[:8])
}

func (c *FileStore) path(city string) string {
	return filepath.Join(c.dir, fmt.Sprintf(timesCacheFile, cityKey(city)))
}

// Load reads the cached record for city. A corrupt file is an error, a
// missing one is (nil, nil).
func (c *FileStore) Load(_ context.Context, city string) (*Record, error) {
	data, err := os.ReadFile(c.path(city))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt cache file for %s: %w", city, err)
	}
	return &rec, nil
}

// Save overwrites the cached record for rec.City.
func (c *FileStore) Save(_ context.Context, rec Record) error {
	if rec.City == "" {
		return errors.New("cache record has no city")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	// Write-then-rename: readers never see a partial record.
	tmp := c.path(rec.City) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, c.path(rec.City)); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *FileStore) LoadGeo() *geo.Location {
	path := filepath.Join(c.dir, geoCacheFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entry GeoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *FileStore) SaveGeo(loc *geo.Location) error {
	path := filepath.Join(c.dir, geoCacheFile)

	entry := GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal geo cache: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write geo cache: %w", err)
	}

	return nil
}
