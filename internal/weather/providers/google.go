package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/address-weather/internal/common"
	"github.com/i474232898/address-weather/internal/weather"
)

// DefaultGoogleGeocoderURL is the Google Geocoding API endpoint.
const DefaultGoogleGeocoderURL = "https://maps.googleapis.com/maps/api/geocode/json?"

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
// When the address carries no ZIP code the coordinates are reverse-geocoded
// to learn the city and postal code.
//
// The geocoder package keeps its key and endpoint in package variables and
// sends requests without a deadline, so they are set once here and every
// lookup is bounded by timeout and the caller's context.
type GoogleGeocoder struct {
	name    string
	timeout time.Duration
}

func NewGoogleGeocoder(apiKey, baseURL string, timeout time.Duration) *GoogleGeocoder {
	if baseURL == "" {
		baseURL = DefaultGoogleGeocoderURL
	}
	geocoder.ApiKey = apiKey
	geocoder.ApiUrl = baseURL

	return &GoogleGeocoder{
		name:    "google",
		timeout: timeout,
	}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

type googleResult struct {
	loc weather.Location
	err error
}

// Geocode implements weather.Geocoder. A lookup still running when the
// deadline passes is abandoned and reported as a geocode failure.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (weather.Location, error) {
	if geocoder.ApiKey == "" {
		return weather.Location{}, weather.Fail(weather.ErrGeocodeFailure, "google geocoder api key is not configured")
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return weather.Location{}, weather.FailWith(weather.ErrGeocodeFailure, "could not geocode", err)
	}

	done := make(chan googleResult, 1)
	go func() {
		loc, err := lookupGoogle(address)
		done <- googleResult{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Location{}, weather.FailWith(weather.ErrGeocodeFailure, "could not geocode", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return weather.Location{}, weather.FailWith(weather.ErrGeocodeFailure, "could not geocode", res.err)
		}
		return res.loc, nil
	}
}

func lookupGoogle(address string) (loc weather.Location, err error) {
	// geocoder indexes into the results without checking their length.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed geocoding response: %v", r)
		}
	}()

	point, err := geocoder.Geocoding(geocoder.Address{Street: address})
	if err != nil {
		return weather.Location{}, err
	}

	var city, formatted string
	zip := weather.ZipOf(address)
	if zip == "" {
		if addresses, err := geocoder.GeocodingReverse(point); err == nil && len(addresses) > 0 {
			city = addresses[0].City
			zip = addresses[0].PostalCode
			formatted = addresses[0].FormattedAddress
		}
	}

	name := common.FirstNonEmpty(city, formatted, address)
	return weather.NewLocation(name, point.Latitude, point.Longitude, zip)
}
