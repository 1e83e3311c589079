package geo

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// Location names a place to resolve into coordinates.
type Location struct {
	City    string
	Country string
}

// Resolver turns city/country names into coordinates via the Google
// geocoding API. Used only for configured seed locations; the HTTP API
// always takes explicit coordinates.
type Resolver struct{}

// NewResolver configures the geocoding API key and returns a Resolver.
func NewResolver(apiKey string) *Resolver {
	geocoder.ApiKey = apiKey
	return &Resolver{}
}

// Resolve returns the latitude and longitude for the location.
func (r *Resolver) Resolve(loc Location) (float64, float64, error) {
	address := geocoder.Address{
		City:    loc.City,
		Country: loc.Country,
	}

	coords, err := geocoder.Geocoding(address)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s, %s: %w", loc.City, loc.Country, err)
	}
	return coords.Latitude, coords.Longitude, nil
}
