package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/rotacerta/backend/internal/models"
)

var ErrNotFound = errors.New("geocode not found")

type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat float64, lon float64, displayName string, confidence float64, err error)
}

func BuildGeocodeQuery(country string, c models.Customer) string {
	parts := []string{}
	for _, v := range []string{country, c.State, c.City, c.Neighborhood, c.Address} {
		v = strings.TrimSpace(v)
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

func ShouldGeocode(c models.Customer, force bool) bool {
	if force {
		return true
	}
	return c.Lat == nil || c.Lon == nil
}
