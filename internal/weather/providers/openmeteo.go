package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	_ "time/tzdata" // IANA zones reported by Open-Meteo

	"github.com/sony/gobreaker"

	"github.com/i474232898/address-weather/internal/weather"
)

// DefaultOpenMeteoURL is the Open-Meteo forecast endpoint.
// API documentation: https://open-meteo.com/en/docs
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// Open-Meteo local timestamps, e.g. "2025-03-15T21:00".
const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements weather.Forecaster for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewOpenMeteoProvider(cfg HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("openmeteo"),
		now:     time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// openMeteoPayload mirrors the forecast response. Temperatures are decoded
// as json.Number (or nil, or whatever the API sent) so a single bad reading
// only blanks that entry.
type openMeteoPayload struct {
	Timezone         string `json:"timezone"`
	UTCOffsetSeconds int    `json:"utc_offset_seconds"`
	Current          struct {
		Time        string `json:"time"`
		Temperature any    `json:"temperature_2m"`
	} `json:"current"`
	Hourly struct {
		Time        []string `json:"time"`
		Temperature []any    `json:"temperature_2m"`
	} `json:"hourly"`
	Daily struct {
		Time           []string `json:"time"`
		TemperatureMax []any    `json:"temperature_2m_max"`
		TemperatureMin []any    `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Forecast requests current, hourly and daily temperatures for loc and
// normalizes them to °F.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, loc *weather.Location) (weather.Forecast, error) {
	if loc == nil {
		return weather.Forecast{}, weather.Fail(weather.ErrInvalidInput, "location is required")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("current", "temperature_2m")
		values.Set("hourly", "temperature_2m")
		values.Set("daily", "temperature_2m_max,temperature_2m_min")
		values.Set("timezone", "auto")
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Forecast{}, weather.FailWith(weather.ErrForecastFailure, "failed to load forecast", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Forecast{}, weather.FailWith(weather.ErrForecastFailure, "failed to load forecast", err)
	}

	var payload openMeteoPayload
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return weather.Forecast{}, weather.FailWith(weather.ErrForecastFailure, "failed to load forecast", err)
	}

	zone := payloadZone(payload.Timezone, payload.UTCOffsetSeconds)

	forecast, err := weather.NewForecast(
		*loc,
		p.now().UTC(),
		payload.Timezone,
		weather.CelsiusToFahrenheit(payload.Current.Temperature),
		upcomingHours(&payload, zone),
		upcomingDays(&payload, zone),
	)
	if err != nil {
		return weather.Forecast{}, weather.FailWith(weather.ErrForecastFailure, "failed to load forecast", err)
	}
	return forecast, nil
}

// upcomingHours returns up to weather.MaxUpcomingHours entries starting at
// the hour reported as current. If no hourly entry matches the current day
// and hour the window starts at the beginning of the series.
func upcomingHours(payload *openMeteoPayload, zone *time.Location) []weather.HourlyForecast {
	times := payload.Hourly.Time
	temps := payload.Hourly.Temperature

	start := 0
	if current, err := parseOpenMeteoTime(payload.Current.Time, zone); err == nil {
		for i, s := range times {
			t, err := parseOpenMeteoTime(s, zone)
			if err != nil {
				continue
			}
			if t.Day() == current.Day() && t.Hour() == current.Hour() {
				start = i
				break
			}
		}
	}

	end := min(start+weather.MaxUpcomingHours, len(times))
	hours := make([]weather.HourlyForecast, 0, end-start)
	for i := start; i < end; i++ {
		t, err := parseOpenMeteoTime(times[i], zone)
		if err != nil {
			continue
		}
		hours = append(hours, weather.HourlyForecast{
			Time:        t,
			Temperature: weather.CelsiusToFahrenheit(at(temps, i)),
		})
	}
	return hours
}

// upcomingDays maps the whole daily series in source order.
func upcomingDays(payload *openMeteoPayload, zone *time.Location) []weather.DailyForecast {
	days := make([]weather.DailyForecast, 0, len(payload.Daily.Time))
	for i, s := range payload.Daily.Time {
		date, err := weather.ParseDate(s, zone)
		if err != nil {
			continue
		}
		days = append(days, weather.DailyForecast{
			Date:            date,
			TemperatureLow:  weather.CelsiusToFahrenheit(at(payload.Daily.TemperatureMin, i)),
			TemperatureHigh: weather.CelsiusToFahrenheit(at(payload.Daily.TemperatureMax, i)),
		})
	}
	return days
}

func at(values []any, i int) any {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}

// payloadZone resolves the location's zone from the IANA name Open-Meteo
// reports, falling back to its fixed UTC offset.
func payloadZone(name string, offsetSeconds int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if offsetSeconds == 0 && (name == "" || name == "UTC" || name == "GMT") {
		return time.UTC
	}
	return time.FixedZone(name, offsetSeconds)
}

func parseOpenMeteoTime(s string, zone *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(openMeteoTimeLayout, s, zone); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(zone), nil
}
