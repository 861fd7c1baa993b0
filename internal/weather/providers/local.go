package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/i474232898/address-weather/internal/weather"
)

const (
	// ZipCodesKey is the cache key of the parsed ZIP dataset.
	ZipCodesKey = "zip_codes"
	// DefaultZipCodesTTL keeps the parsed dataset for a week; the file is
	// several megabytes and effectively static.
	DefaultZipCodesTTL = 7 * 24 * time.Hour
)

// zipRecord is one dataset entry. Coordinates are numbers in the GeoNames
// export but strings in some hand-edited copies, so both are accepted.
type zipRecord struct {
	City      string `json:"city"`
	Latitude  any    `json:"latitude"`
	Longitude any    `json:"longitude"`
}

type zipTable map[string]zipRecord

// LocalIndex implements weather.Geocoder over a static US ZIP code dataset
// (JSON object keyed by ZIP). It guarantees a deterministic match for known
// ZIP codes when remote geocoding is unavailable.
type LocalIndex struct {
	name  string
	path  string
	cache weather.Cache
	ttl   time.Duration

	mu sync.Mutex
}

func NewLocalIndex(path string, cache weather.Cache, ttl time.Duration) *LocalIndex {
	if ttl <= 0 {
		ttl = DefaultZipCodesTTL
	}
	return &LocalIndex{
		name:  "local",
		path:  path,
		cache: cache,
		ttl:   ttl,
	}
}

func (l *LocalIndex) Name() string {
	return l.name
}

// Geocode extracts the ZIP code from address and looks it up.
func (l *LocalIndex) Geocode(_ context.Context, address string) (weather.Location, error) {
	return l.Lookup(weather.ZipOf(address))
}

// Lookup returns the Location of a ZIP code, or weather.ErrNotFound when the
// code is empty or unknown.
func (l *LocalIndex) Lookup(zip string) (weather.Location, error) {
	if zip == "" {
		return weather.Location{}, weather.Fail(weather.ErrNotFound, "failed to geocode")
	}

	table, err := l.table()
	if err != nil {
		return weather.Location{}, err
	}

	record, ok := table[zip]
	if !ok || record.City == "" {
		return weather.Location{}, weather.Fail(weather.ErrNotFound, "failed to geocode")
	}

	loc, err := weather.NewLocation(record.City, record.Latitude, record.Longitude, zip)
	if err != nil {
		return weather.Location{}, weather.FailWith(weather.ErrNotFound, "failed to geocode", err)
	}
	return loc, nil
}

// Size returns the number of ZIP codes in the dataset.
func (l *LocalIndex) Size() (int, error) {
	table, err := l.table()
	if err != nil {
		return 0, err
	}
	return len(table), nil
}

func (l *LocalIndex) table() (zipTable, error) {
	if t, ok := l.cached(); ok {
		return t, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another caller may have loaded it while we waited.
	if t, ok := l.cached(); ok {
		return t, nil
	}

	t, err := loadZipTable(l.path)
	if err != nil {
		return nil, err
	}
	l.cache.Set(ZipCodesKey, t, l.ttl)
	return t, nil
}

func (l *LocalIndex) cached() (zipTable, bool) {
	v, ok := l.cache.Get(ZipCodesKey)
	if !ok {
		return nil, false
	}
	t, ok := v.(zipTable)
	return t, ok
}

func loadZipTable(path string) (zipTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open zip code dataset: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var t zipTable
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parse zip code dataset %s: %w", path, err)
	}
	return t, nil
}
