package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/address-weather/internal/common"
	"github.com/i474232898/address-weather/internal/weather"
)

// DefaultNominatimURL is the OpenStreetMap search endpoint.
// API documentation: https://nominatim.org/release-docs/develop/api/Search/
const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

// NominatimGeocoder implements weather.Geocoder for OpenStreetMap Nominatim.
type NominatimGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNominatimGeocoder(cfg HTTPClientConfig, baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	return &NominatimGeocoder{
		name:    "nominatim",
		baseURL: baseURL,
		httpCfg: cfg,
		circuit: newCircuitBreaker("nominatim"),
	}
}

func (g *NominatimGeocoder) Name() string {
	return g.name
}

// nominatimPlace is the subset of a search result we consume. lat/lon are
// strings in the payload.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City     string `json:"city"`
		Postcode string `json:"postcode"`
	} `json:"address"`
}

// Geocode sends address to Nominatim and builds a Location from the single
// best result. Any failure is a weather.ErrGeocodeFailure.
func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (weather.Location, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("limit", "1")
		values.Set("addressdetails", "1")
		values.Set("q", address)

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return weather.Location{}, weather.FailWith(weather.ErrGeocodeFailure, "could not geocode", err)
	}
	defer resp.Body.Close()

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return weather.Location{}, weather.FailWith(weather.ErrGeocodeFailure, "could not geocode", err)
	}
	if len(places) == 0 {
		return weather.Location{}, weather.Fail(weather.ErrGeocodeFailure, "could not geocode")
	}

	place := places[0]
	name := common.FirstNonEmpty(place.Address.City, place.Name, place.DisplayName)

	// A place spanning several ZIP codes has no postcode, but the user may
	// have typed one ("Hollywood, FL 33021").
	zip := place.Address.Postcode
	if zip == "" {
		zip = weather.ZipOf(address)
	}

	loc, err := weather.NewLocation(name, place.Lat, place.Lon, zip)
	if err != nil {
		return weather.Location{}, weather.FailWith(weather.ErrGeocodeFailure, "could not geocode", err)
	}
	return loc, nil
}
