package weather

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultForecastTTL is how long a resolved forecast stays cached.
const DefaultForecastTTL = 30 * time.Minute

// Service resolves addresses to forecasts, consulting the forecast cache
// before any outbound call.
type Service struct {
	cache       Cache
	locations   *LocationResolver
	forecaster  Forecaster
	forecastTTL time.Duration
	logger      *logrus.Logger
	recorder    Recorder
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithForecastTTL overrides DefaultForecastTTL.
func WithForecastTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.forecastTTL = ttl
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// NewService creates a new Service.
func NewService(cache Cache, locations *LocationResolver, forecaster Forecaster, opts ...Option) *Service {
	s := &Service{
		cache:       cache,
		locations:   locations,
		forecaster:  forecaster,
		forecastTTL: DefaultForecastTTL,
		logger:      logrus.StandardLogger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResolveForecast returns the forecast for address. A cached forecast for the
// address's ZIP code is returned without any geocoding or forecast call.
// Otherwise the address is geocoded, forecasted and the result cached under
// the location's ZIP code. Failures propagate unchanged.
func (s *Service) ResolveForecast(ctx context.Context, address string) (Forecast, error) {
	zip, err := ExtractZip(&address)
	if err != nil {
		return Forecast{}, err
	}

	if cached, ok := s.CachedForecast(zip); ok {
		s.logger.WithField("zip", zip).Debug("forecast cache hit")
		return cached, nil
	}

	loc, err := s.locations.Resolve(ctx, address)
	if err != nil {
		s.logger.WithField("address", address).WithError(err).Info("could not resolve location")
		return Forecast{}, err
	}

	return s.Forecast(ctx, &loc)
}

// ResolveLocation geocodes address without touching the forecast cache.
func (s *Service) ResolveLocation(ctx context.Context, address string) (Location, error) {
	return s.locations.Resolve(ctx, address)
}

// Forecast fetches a fresh forecast for loc and caches it when loc has a
// postal code. Locations without one are returned uncached.
func (s *Service) Forecast(ctx context.Context, loc *Location) (Forecast, error) {
	if loc == nil {
		return Forecast{}, Fail(ErrInvalidInput, "location is required")
	}

	start := time.Now()
	forecast, err := s.forecaster.Forecast(ctx, loc)
	if s.recorder != nil {
		s.recorder.ForecastAttempt(s.forecaster.Name(), err == nil, time.Since(start))
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"provider": s.forecaster.Name(),
			"location": loc.Name,
		}).WithError(err).Warn("forecast failed")
		return Forecast{}, err
	}

	if key := forecast.Location.Key(); key != "" {
		s.cache.Set(key, forecast.Clone(), s.forecastTTL)
		s.logger.WithFields(logrus.Fields{
			"zip": forecast.Location.PostalCode,
			"ttl": s.forecastTTL.String(),
		}).Debug("forecast cached")
	}

	return forecast, nil
}

// WarmForecast keeps a forecast for address cached for at least horizon. A
// cached entry expiring sooner, or one whose expiry the cache cannot report,
// is refetched for its cached location without geocoding again. Without a
// cached entry it behaves like ResolveForecast.
func (s *Service) WarmForecast(ctx context.Context, address string, horizon time.Duration) (Forecast, error) {
	zip := ZipOf(address)
	cached, ok := s.CachedForecast(zip)
	if !ok {
		loc, err := s.locations.Resolve(ctx, address)
		if err != nil {
			return Forecast{}, err
		}
		return s.Forecast(ctx, &loc)
	}

	if ec, ok := s.cache.(ExpiringCache); ok {
		exp, found := ec.Expiration(ForecastKey(zip))
		if found && (exp.IsZero() || exp.After(s.now().Add(horizon))) {
			return cached, nil
		}
	}

	s.logger.WithField("zip", zip).Debug("refreshing forecast before it expires")
	loc := cached.Location
	return s.Forecast(ctx, &loc)
}

// CachedForecast looks up the cached forecast of a ZIP code.
func (s *Service) CachedForecast(zip string) (Forecast, bool) {
	if zip == "" {
		return Forecast{}, false
	}

	v, ok := s.cache.Get(ForecastKey(zip))
	var forecast Forecast
	if ok {
		forecast, ok = v.(Forecast)
	}
	if s.recorder != nil {
		s.recorder.CacheLookup(ok)
	}
	if !ok {
		return Forecast{}, false
	}
	return forecast.Clone(), true
}
