// Package cache stores geolocation results and Al Adhan reference responses
// on disk, with an in-memory otter cache in front so repeated lookups within
// one process (month views, comparisons) skip the filesystem.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/smokyabdulrahman/prayer-engine/internal/api"
	"github.com/smokyabdulrahman/prayer-engine/internal/geo"
	"github.com/smokyabdulrahman/prayer-engine/internal/prayer"
)

const (
	referenceCacheFile = "reference_%s.json" // keyed by hash
	calendarCacheFile  = "calendar_%s.json"  // keyed by hash
	geoCacheFile       = "geolocation.json"
	geoTTL             = 24 * time.Hour

	memorySize = 512
	memoryTTL  = time.Hour
)

// Cache provides file-based caching for reference timings and geolocation data.
type Cache struct {
	dir string
	mem *otter.Cache[string, []byte]
}

// ReferenceEntry stores a day's reference times along with metadata for validation.
type ReferenceEntry struct {
	Date     string       `json:"date"` // YYYY-MM-DD
	Method   int          `json:"method"`
	School   int          `json:"school"`
	Timings  api.Timings  `json:"timings"`
	DateInfo api.DateInfo `json:"date_info"`
	Meta     api.Meta     `json:"meta"`
}

// CalendarEntry stores a month of reference times.
type CalendarEntry struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Days  []api.Data `json:"days"`
}

// GeoCacheEntry stores a cached geolocation result with a timestamp.
type GeoCacheEntry struct {
	Location geo.Location `json:"location"`
	CachedAt time.Time    `json:"cached_at"`
}

// DefaultDir is ~/.cache/prayer-times, honouring $XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "prayer-times"), nil
}

// New creates a Cache rooted at the given directory.
// If dir is empty, it defaults to DefaultDir.
func New(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache directory %s: %w", dir, err)
	}

	mem := otter.Must(&otter.Options[string, []byte]{
		MaximumSize:      memorySize,
		ExpiryCalculator: otter.ExpiryWriting[string, []byte](memoryTTL),
	})

	return &Cache{dir: dir, mem: mem}, nil
}

// Dir returns the directory backing the cache.
func (c *Cache) Dir() string {
	return c.dir
}

// queryKey builds a deterministic hash from the parameters that affect the
// reference times, so different locations and settings get separate files.
func queryKey(scope string, q api.Query) string {
	s := q.Settings
	raw := fmt.Sprintf("%s|%.6f|%.6f|%d|%d|%d|%+v|%s",
		scope, q.Location.Latitude, q.Location.Longitude,
		api.MethodID(s.Method), api.SchoolID(s.Asr), api.LatitudeAdjustmentID(s.HighLatitude),
		s.Adjustments, q.Timezone)
	h := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%x", h[:8]) // 16 hex chars is plenty for uniqueness
}

// LoadReference attempts to read cached reference times for date and q.
// Returns nil if the cache is missing or stale (wrong date).
func (c *Cache) LoadReference(date prayer.Date, q api.Query) *ReferenceEntry {
	dateStr := date.String()
	name := fmt.Sprintf(referenceCacheFile, queryKey(dateStr, q))

	var entry ReferenceEntry
	if !c.read(name, &entry) {
		return nil
	}

	// Validate the date matches -- an entry for another day is useless.
	if entry.Date != dateStr {
		return nil
	}

	return &entry
}

// SaveReference writes a reference response to the cache.
func (c *Cache) SaveReference(date prayer.Date, q api.Query, resp *api.Response) error {
	dateStr := date.String()
	name := fmt.Sprintf(referenceCacheFile, queryKey(dateStr, q))

	return c.write(name, ReferenceEntry{
		Date:     dateStr,
		Method:   api.MethodID(q.Settings.Method),
		School:   api.SchoolID(q.Settings.Asr),
		Timings:  resp.Data.Timings,
		DateInfo: resp.Data.Date,
		Meta:     resp.Data.Meta,
	})
}

// LoadCalendar attempts to read a cached month of reference times.
func (c *Cache) LoadCalendar(year int, month time.Month, q api.Query) *CalendarEntry {
	name := fmt.Sprintf(calendarCacheFile, queryKey(fmt.Sprintf("%04d-%02d", year, int(month)), q))

	var entry CalendarEntry
	if !c.read(name, &entry) {
		return nil
	}
	if entry.Year != year || entry.Month != int(month) || len(entry.Days) == 0 {
		return nil
	}
	return &entry
}

// SaveCalendar writes a month of reference times to the cache.
func (c *Cache) SaveCalendar(year int, month time.Month, q api.Query, resp *api.CalendarResponse) error {
	name := fmt.Sprintf(calendarCacheFile, queryKey(fmt.Sprintf("%04d-%02d", year, int(month)), q))

	return c.write(name, CalendarEntry{
		Year:  year,
		Month: int(month),
		Days:  resp.Data,
	})
}

// LoadGeo attempts to read a cached geolocation result.
// Returns nil if the cache is missing or older than the TTL (24 hours).
func (c *Cache) LoadGeo() *geo.Location {
	var entry GeoCacheEntry
	if !c.read(geoCacheFile, &entry) {
		return nil
	}

	if time.Since(entry.CachedAt) > geoTTL {
		c.mem.Invalidate(geoCacheFile)
		return nil
	}

	return &entry.Location
}

// SaveGeo writes a geolocation result to the cache.
func (c *Cache) SaveGeo(loc *geo.Location) error {
	return c.write(geoCacheFile, GeoCacheEntry{
		Location: *loc,
		CachedAt: time.Now(),
	})
}

// Clear removes every cached file and empties the memory layer.
func (c *Cache) Clear() error {
	c.mem.InvalidateAll()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove cache file: %w", err)
		}
	}
	return nil
}

// read decodes the named entry, preferring the memory layer. Unreadable or
// corrupt files count as a miss.
func (c *Cache) read(name string, v interface{}) bool {
	data, ok := c.mem.GetIfPresent(name)
	if !ok {
		var err error
		data, err = os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			return false
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		c.mem.Invalidate(name)
		return false
	}

	c.mem.Set(name, data)
	return true
}

func (c *Cache) write(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	c.mem.Set(name, data)
	return nil
}
