package httpapi

import (
	"time"
	_ "time/tzdata"

	"github.com/i474232898/address-weather/internal/weather"
)

// Theme returns "day" when t's wall-clock hour is in [06:00, 18:00) and
// "night" otherwise. Callers pass t in the zone of the forecast location.
func Theme(t time.Time) string {
	if h := t.Hour(); h >= 6 && h < 18 {
		return "day"
	}
	return "night"
}

// forecastZone is the zone of the forecast location: the reported IANA zone,
// else the zone its hourly timestamps were parsed in, else UTC.
func forecastZone(f weather.Forecast) *time.Location {
	if f.Timezone != "" {
		if loc, err := time.LoadLocation(f.Timezone); err == nil {
			return loc
		}
	}
	if len(f.UpcomingHours) > 0 {
		return f.UpcomingHours[0].Time.Location()
	}
	return time.UTC
}
