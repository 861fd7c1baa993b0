package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline records cache and outbound call metrics. It implements
// weather.Recorder.
type Pipeline struct {
	cacheLookups     *prometheus.CounterVec
	geocodeAttempts  *prometheus.CounterVec
	forecastAttempts *prometheus.CounterVec
	forecastLatency  *prometheus.HistogramVec
}

// NewPipeline creates the collectors and registers them with reg.
func NewPipeline(reg prometheus.Registerer) (*Pipeline, error) {
	p := &Pipeline{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "address_weather",
			Name:      "forecast_cache_lookups_total",
			Help:      "Forecast cache lookups by result.",
		}, []string{"result"}),
		geocodeAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "address_weather",
			Name:      "geocode_attempts_total",
			Help:      "Geocoder calls by geocoder and outcome.",
		}, []string{"geocoder", "success"}),
		forecastAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "address_weather",
			Name:      "forecast_attempts_total",
			Help:      "Forecast provider calls by provider and outcome.",
		}, []string{"provider", "success"}),
		forecastLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "address_weather",
			Name:      "forecast_duration_seconds",
			Help:      "Forecast provider call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}

	for _, c := range []prometheus.Collector{p.cacheLookups, p.geocodeAttempts, p.forecastAttempts, p.forecastLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Pipeline) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

func (p *Pipeline) GeocodeAttempt(geocoder string, ok bool) {
	p.geocodeAttempts.WithLabelValues(geocoder, strconv.FormatBool(ok)).Inc()
}

func (p *Pipeline) ForecastAttempt(provider string, ok bool, elapsed time.Duration) {
	p.forecastAttempts.WithLabelValues(provider, strconv.FormatBool(ok)).Inc()
	p.forecastLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RegisterCacheEntries exposes the size of the shared cache as a gauge read
// from count at scrape time.
func RegisterCacheEntries(reg prometheus.Registerer, count func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "address_weather",
		Name:      "cache_entries",
		Help:      "Entries held in the shared cache, including expired ones not yet purged.",
	}, func() float64 {
		return float64(count())
	}))
}
