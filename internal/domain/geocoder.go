package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat        float64
	Lng        float64
	PlaceName  string
	Confidence float64 // 0.0–1.0 provider confidence score
}

// Found reports whether the provider returned a usable location.
func (r GeocodingResult) Found() bool {
	return r.PlaceName != "" && (r.Lat != 0 || r.Lng != 0)
}

// Geocoder resolves zip codes that the static zip table does not know.
type Geocoder interface {
	GeocodeZip(ctx context.Context, zip string) (GeocodingResult, error)
}
