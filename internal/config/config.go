package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/i474232898/address-weather/internal/common"
	"github.com/i474232898/address-weather/internal/weather/providers"
)

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// Outbound calls.
	HTTPTimeout          time.Duration `validate:"gt=0"`
	UserAgent            string        `validate:"required"`
	OutboundMaxRetries   int           `validate:"gte=0"`
	NominatimURL         string        `validate:"required,url"`
	OpenMeteoURL         string        `validate:"required,url"`
	GoogleGeocoderURL    string        `validate:"required,url"`
	GoogleGeocoderAPIKey string        // optional; enables the Google geocoder

	// Local ZIP index.
	ZipCodesPath string        `validate:"required"`
	ZipCodesTTL  time.Duration `validate:"gt=0"`

	// Forecast cache.
	ForecastTTL          time.Duration `validate:"gt=0"`
	CacheCleanupInterval time.Duration `validate:"gte=0"`

	// Addresses kept warm in the forecast cache by the scheduler.
	WarmAddresses []string
	WarmInterval  time.Duration `validate:"gt=0"`

	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=json text"`
}

var validate = validator.New()

// Load reads configuration from the environment (and an optional .env file)
// with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Infof("No .env file found or error loading it: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// FromViper builds and validates an AppConfig from v.
func FromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                 v.GetString("PORT"),
		HTTPTimeout:          v.GetDuration("HTTP_TIMEOUT"),
		UserAgent:            v.GetString("USER_AGENT"),
		OutboundMaxRetries:   v.GetInt("OUTBOUND_MAX_RETRIES"),
		NominatimURL:         v.GetString("NOMINATIM_URL"),
		OpenMeteoURL:         v.GetString("OPENMETEO_URL"),
		GoogleGeocoderAPIKey: v.GetString("GOOGLE_GEOCODER_API_KEY"),
		GoogleGeocoderURL:    v.GetString("GOOGLE_GEOCODER_URL"),
		ZipCodesPath:         v.GetString("ZIPCODES_PATH"),
		ZipCodesTTL:          v.GetDuration("ZIPCODES_TTL"),
		ForecastTTL:          v.GetDuration("FORECAST_TTL"),
		CacheCleanupInterval: v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		WarmAddresses:        common.SplitList(v.GetString("WARM_ADDRESSES"), ";"),
		WarmInterval:         v.GetDuration("WARM_INTERVAL"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		LogFormat:            v.GetString("LOG_FORMAT"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")

	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("USER_AGENT", providers.DefaultUserAgent)
	v.SetDefault("OUTBOUND_MAX_RETRIES", 0)
	v.SetDefault("NOMINATIM_URL", providers.DefaultNominatimURL)
	v.SetDefault("OPENMETEO_URL", providers.DefaultOpenMeteoURL)
	v.SetDefault("GOOGLE_GEOCODER_URL", providers.DefaultGoogleGeocoderURL)

	v.SetDefault("ZIPCODES_PATH", "data/zipcodes.json")
	v.SetDefault("ZIPCODES_TTL", providers.DefaultZipCodesTTL.String())

	v.SetDefault("FORECAST_TTL", "30m")
	v.SetDefault("CACHE_CLEANUP_INTERVAL", "10m")

	v.SetDefault("WARM_ADDRESSES", "")
	v.SetDefault("WARM_INTERVAL", "15m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}
