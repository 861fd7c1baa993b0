package weather

import (
	"context"
	"time"
)

// Geocoder resolves a free-form address to a Location
// (e.g. Nominatim, Google, the local ZIP index).
type Geocoder interface {
	Name() string
	Geocode(ctx context.Context, address string) (Location, error)
}

// Forecaster builds a Forecast for a location (e.g. Open-Meteo).
type Forecaster interface {
	Name() string
	Forecast(ctx context.Context, loc *Location) (Forecast, error)
}

// Cache is the key/value store with per-key TTL shared by the forecast
// cache and the local ZIP index.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// ExpiringCache is a Cache that reports when an entry expires. A zero time
// means the entry never expires.
type ExpiringCache interface {
	Cache
	Expiration(key string) (time.Time, bool)
}

// Recorder receives pipeline events for metrics. A nil Recorder is allowed
// wherever one is accepted.
type Recorder interface {
	CacheLookup(hit bool)
	GeocodeAttempt(geocoder string, ok bool)
	ForecastAttempt(forecaster string, ok bool, elapsed time.Duration)
}
