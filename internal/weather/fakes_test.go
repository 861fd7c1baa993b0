package weather

import (
	"context"
	"sync"
	"time"
)

type fakeGeocoder struct {
	name  string
	loc   Location
	err   error
	calls int
}

func (g *fakeGeocoder) Name() string {
	return g.name
}

func (g *fakeGeocoder) Geocode(_ context.Context, _ string) (Location, error) {
	g.calls++
	return g.loc, g.err
}

type fakeForecaster struct {
	forecast Forecast
	err      error
	calls    int
	got      *Location
}

func (f *fakeForecaster) Name() string {
	return "fake"
}

func (f *fakeForecaster) Forecast(_ context.Context, loc *Location) (Forecast, error) {
	f.calls++
	f.got = loc
	if f.err != nil {
		return Forecast{}, f.err
	}
	out := f.forecast
	out.Location = *loc
	return out, nil
}

type cacheEntry struct {
	value   any
	expires time.Time
}

// mapCache is a Cache with a controllable clock.
type mapCache struct {
	mu    sync.Mutex
	now   time.Time
	items map[string]cacheEntry
}

func newMapCache() *mapCache {
	return &mapCache{
		now:   time.Date(2025, 3, 16, 1, 0, 0, 0, time.UTC),
		items: map[string]cacheEntry{},
	}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok || !c.now.Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *mapCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry{value: value, expires: c.now.Add(ttl)}
}

func (c *mapCache) Expiration(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	if !ok || !c.now.Before(e.expires) {
		return time.Time{}, false
	}
	return e.expires, true
}

func (c *mapCache) clock() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mapCache) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeRecorder struct {
	hits, misses int
	geocodes     map[string]int
	forecasts    int
}

func (r *fakeRecorder) CacheLookup(hit bool) {
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

func (r *fakeRecorder) GeocodeAttempt(geocoder string, ok bool) {
	if r.geocodes == nil {
		r.geocodes = map[string]int{}
	}
	if ok {
		r.geocodes[geocoder]++
	}
}

func (r *fakeRecorder) ForecastAttempt(string, bool, time.Duration) {
	r.forecasts++
}
