package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Location is a geocoded place. PostalCode is empty for places that span
// several postal areas.
type Location struct {
	Name       string  `json:"name" validate:"required"`
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PostalCode string  `json:"postal_code,omitempty"`
}

// NewLocation coerces latitude and longitude (float, int, json.Number or
// numeric string) and validates the result.
func NewLocation(name string, lat, lon any, postalCode string) (Location, error) {
	latitude, err := toFloat(lat)
	if err != nil {
		return Location{}, FailWith(ErrInvalidInput, "invalid latitude", err)
	}
	longitude, err := toFloat(lon)
	if err != nil {
		return Location{}, FailWith(ErrInvalidInput, "invalid longitude", err)
	}

	loc := Location{
		Name:       strings.TrimSpace(name),
		Latitude:   latitude,
		Longitude:  longitude,
		PostalCode: strings.TrimSpace(postalCode),
	}
	if err := validate.Struct(loc); err != nil {
		return Location{}, FailWith(ErrInvalidInput, "invalid location", err)
	}
	return loc, nil
}

// Key returns the cache key of the forecast for this location, or "" when the
// location has no postal code.
func (l Location) Key() string {
	if l.PostalCode == "" {
		return ""
	}
	return ForecastKey(l.PostalCode)
}

// ForecastKey is the cache key under which a postal area's forecast lives.
func ForecastKey(zip string) string {
	return zip + "-forecast"
}

const dateLayout = "2006-01-02"

// Date is a calendar date. It marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string in loc.
func ParseDate(s string, loc *time.Location) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s, time.UTC)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// HourlyForecast is the temperature (°F) expected at Time. A nil Temperature
// means the provider value could not be converted.
type HourlyForecast struct {
	Time        time.Time `json:"time"`
	Temperature *int      `json:"temperature"`
}

// DailyForecast holds the low and high temperatures (°F) of a day.
type DailyForecast struct {
	Date            Date `json:"date"`
	TemperatureLow  *int `json:"temperature_low"`
	TemperatureHigh *int `json:"temperature_high"`
}

// MaxUpcomingHours is the size of the hourly forecast window: the current
// hour plus the next ten.
const MaxUpcomingHours = 11

// Forecast is the normalized weather view of a location. It is never
// mutated after creation; use Clone to hand out independent copies.
type Forecast struct {
	Location      Location         `json:"location"`
	ForecastedAt  time.Time        `json:"forecasted_at"`
	Timezone      string           `json:"timezone,omitempty"`
	Temperature   *int             `json:"temperature"`
	UpcomingHours []HourlyForecast `json:"upcoming_hours" validate:"max=11"`
	UpcomingDays  []DailyForecast  `json:"upcoming_days"`
}

// NewForecast validates and assembles a Forecast.
func NewForecast(loc Location, forecastedAt time.Time, timezone string, temperature *int,
	hours []HourlyForecast, days []DailyForecast) (Forecast, error) {
	if forecastedAt.IsZero() {
		return Forecast{}, Fail(ErrInvalidInput, "forecasted_at is required")
	}

	f := Forecast{
		Location:      loc,
		ForecastedAt:  forecastedAt,
		Timezone:      timezone,
		Temperature:   temperature,
		UpcomingHours: hours,
		UpcomingDays:  days,
	}
	if err := validate.Struct(f); err != nil {
		return Forecast{}, FailWith(ErrInvalidInput, "invalid forecast", err)
	}
	return f, nil
}

// Clone returns a deep copy of f.
func (f Forecast) Clone() Forecast {
	out := f
	out.Temperature = cloneInt(f.Temperature)

	if f.UpcomingHours != nil {
		out.UpcomingHours = make([]HourlyForecast, len(f.UpcomingHours))
		for i, h := range f.UpcomingHours {
			out.UpcomingHours[i] = HourlyForecast{Time: h.Time, Temperature: cloneInt(h.Temperature)}
		}
	}
	if f.UpcomingDays != nil {
		out.UpcomingDays = make([]DailyForecast, len(f.UpcomingDays))
		for i, d := range f.UpcomingDays {
			out.UpcomingDays[i] = DailyForecast{
				Date:            d.Date,
				TemperatureLow:  cloneInt(d.TemperatureLow),
				TemperatureHigh: cloneInt(d.TemperatureHigh),
			}
		}
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CelsiusToFahrenheit converts a provider temperature to whole °F using
// round(1.8*c + 32), rounding half away from zero. It returns nil when v is
// missing or not a finite number. Strings are not numbers here, even numeric
// ones.
func CelsiusToFahrenheit(v any) *int {
	c, err := toNumber(v)
	if err != nil {
		return nil
	}
	f := int(math.Round(1.8*c + 32))
	return &f
}

// toFloat coerces a coordinate. Unlike toNumber it accepts numeric strings,
// which is how Nominatim and some datasets encode latitude and longitude.
func toFloat(v any) (float64, error) {
	s, ok := v.(string)
	if !ok {
		return toNumber(v)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return finite(f)
}

func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return finite(f)
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}
