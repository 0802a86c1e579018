package geo

import (
	"math/rand"
	"time"

	"github.com/rotacerta/backend/internal/models"
)

const (
	// DefaultNeighborhoodJitterDeg spreads customers placed on a shared
	// neighborhood centroid so they do not render as a single point.
	DefaultNeighborhoodJitterDeg = 0.005
	// DefaultCityJitterDeg is the wider spread applied when only the
	// default regional centroid is available.
	DefaultCityJitterDeg = 0.05
)

// ResolvedPoint is a customer placement plus the provenance of that
// placement. UsedFallback marks synthetic coordinates so downstream
// consumers can distinguish them from GPS-captured ones.
type ResolvedPoint struct {
	Point        models.GeoPoint
	UsedFallback bool
}

// Resolver maps customers to geographic points. Explicit coordinates
// are authoritative and returned unchanged; otherwise the resolver
// falls back to the neighborhood centroid table and finally to
// DefaultCenter, each with a uniform jitter drawn from Rand.
type Resolver struct {
	DefaultCenter         models.GeoPoint
	NeighborhoodJitterDeg float64
	CityJitterDeg         float64
	Rand                  *rand.Rand
}

// NewResolver builds a resolver with the default centroid table
// constants. A nil rng gets a time-seeded source; tests pass a fixed
// seed for reproducible jitter.
func NewResolver(rng *rand.Rand) *Resolver {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Resolver{
		DefaultCenter:         RecifeCenter,
		NeighborhoodJitterDeg: DefaultNeighborhoodJitterDeg,
		CityJitterDeg:         DefaultCityJitterDeg,
		Rand:                  rng,
	}
}

// Resolve never fails: every customer is placeable on the map. The
// fallback paths are non-deterministic across calls unless jitter is
// zeroed out.
func (r *Resolver) Resolve(c models.Customer) ResolvedPoint {
	if c.Lat != nil && c.Lon != nil {
		return ResolvedPoint{Point: models.GeoPoint{Lat: *c.Lat, Lon: *c.Lon}}
	}
	if p, ok := NeighborhoodCentroid(c.Neighborhood); ok {
		return ResolvedPoint{Point: r.jitter(p, r.NeighborhoodJitterDeg), UsedFallback: true}
	}
	return ResolvedPoint{Point: r.jitter(r.DefaultCenter, r.CityJitterDeg), UsedFallback: true}
}

func (r *Resolver) jitter(p models.GeoPoint, magnitude float64) models.GeoPoint {
	if magnitude <= 0 {
		return p
	}
	return models.GeoPoint{
		Lat: p.Lat + (r.Rand.Float64()*2-1)*magnitude,
		Lon: p.Lon + (r.Rand.Float64()*2-1)*magnitude,
	}
}

// ApplyLiveLocations overrides customer coordinates with real-time
// captured positions where one exists. It returns a copy, the input
// slice is left untouched.
func ApplyLiveLocations(customers []models.Customer, live map[string]models.CapturedLocation) []models.Customer {
	if len(live) == 0 {
		return customers
	}
	out := make([]models.Customer, len(customers))
	copy(out, customers)
	for i := range out {
		loc, ok := live[out[i].ID]
		if !ok {
			continue
		}
		lat, lon := loc.Lat, loc.Lon
		out[i].Lat = &lat
		out[i].Lon = &lon
	}
	return out
}
