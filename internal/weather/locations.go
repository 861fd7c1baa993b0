package weather

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// LocationResolver tries an ordered chain of geocoders, each exactly once,
// and returns the first Location found. Individual geocoder failures are
// expected (no network, no match) and are not surfaced.
type LocationResolver struct {
	geocoders []Geocoder
	logger    *logrus.Logger
	recorder  Recorder
}

// NewLocationResolver creates a LocationResolver. Typical chain: remote
// geocoder first, local ZIP index last.
func NewLocationResolver(logger *logrus.Logger, recorder Recorder, geocoders ...Geocoder) *LocationResolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LocationResolver{
		geocoders: geocoders,
		logger:    logger,
		recorder:  recorder,
	}
}

// Resolve geocodes address.
func (r *LocationResolver) Resolve(ctx context.Context, address string) (Location, error) {
	if strings.TrimSpace(address) == "" {
		return Location{}, Fail(ErrInvalidInput, "address is required")
	}

	for _, g := range r.geocoders {
		loc, err := g.Geocode(ctx, address)
		if r.recorder != nil {
			r.recorder.GeocodeAttempt(g.Name(), err == nil)
		}
		if err != nil {
			r.logger.WithFields(logrus.Fields{
				"geocoder": g.Name(),
				"address":  address,
			}).WithError(err).Debug("geocoder failed, trying next")
			continue
		}

		r.logger.WithFields(logrus.Fields{
			"geocoder": g.Name(),
			"location": loc.Name,
			"zip":      loc.PostalCode,
		}).Debug("address geocoded")
		return loc, nil
	}

	return Location{}, Fail(ErrLocationNotFound, "failed to find location")
}
