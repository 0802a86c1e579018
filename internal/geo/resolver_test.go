package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rotacerta/backend/internal/models"
)

func seededResolver(seed int64) *Resolver {
	return NewResolver(rand.New(rand.NewSource(seed)))
}

func TestResolveExplicitCoordinatesAreAuthoritative(t *testing.T) {
	lat, lon := -8.1111, -34.9222
	c := models.Customer{ID: "c1", Neighborhood: "Boa Viagem", Lat: &lat, Lon: &lon}

	r := seededResolver(1)
	rp := r.Resolve(c)
	if rp.UsedFallback {
		t.Fatalf("explicit coordinates must not be flagged as fallback")
	}
	if rp.Point.Lat != lat || rp.Point.Lon != lon {
		t.Fatalf("expected coordinates unchanged, got %+v", rp.Point)
	}
}

func TestResolveNeighborhoodCentroidWithJitter(t *testing.T) {
	c := models.Customer{ID: "c1", Neighborhood: "Boa Viagem"}
	centroid, ok := NeighborhoodCentroid("Boa Viagem")
	if !ok {
		t.Fatalf("expected Boa Viagem in the centroid table")
	}

	r := seededResolver(42)
	rp := r.Resolve(c)
	if !rp.UsedFallback {
		t.Fatalf("neighborhood placement must be flagged as fallback")
	}
	if math.Abs(rp.Point.Lat-centroid.Lat) > DefaultNeighborhoodJitterDeg {
		t.Fatalf("lat jitter out of bounds: %f", rp.Point.Lat-centroid.Lat)
	}
	if math.Abs(rp.Point.Lon-centroid.Lon) > DefaultNeighborhoodJitterDeg {
		t.Fatalf("lon jitter out of bounds: %f", rp.Point.Lon-centroid.Lon)
	}
}

func TestResolveDefaultRegionFallback(t *testing.T) {
	c := models.Customer{ID: "c1", Neighborhood: "Bairro Inexistente"}

	r := seededResolver(42)
	rp := r.Resolve(c)
	if !rp.UsedFallback {
		t.Fatalf("default placement must be flagged as fallback")
	}
	if math.Abs(rp.Point.Lat-RecifeCenter.Lat) > DefaultCityJitterDeg {
		t.Fatalf("lat jitter out of bounds: %f", rp.Point.Lat-RecifeCenter.Lat)
	}
	if math.Abs(rp.Point.Lon-RecifeCenter.Lon) > DefaultCityJitterDeg {
		t.Fatalf("lon jitter out of bounds: %f", rp.Point.Lon-RecifeCenter.Lon)
	}
}

func TestResolveSeededReproducibility(t *testing.T) {
	c := models.Customer{ID: "c1", Neighborhood: "Pina"}

	a := seededResolver(7).Resolve(c)
	b := seededResolver(7).Resolve(c)
	if a.Point != b.Point {
		t.Fatalf("same seed must yield the same placement: %+v vs %+v", a.Point, b.Point)
	}
}

func TestNeighborhoodCentroidNormalization(t *testing.T) {
	upper, ok := NeighborhoodCentroid("GRAÇAS")
	if !ok {
		t.Fatalf("accented uppercase lookup should hit the table")
	}
	plain, _ := NeighborhoodCentroid("gracas")
	if upper != plain {
		t.Fatalf("normalization mismatch: %+v vs %+v", upper, plain)
	}
}

func TestApplyLiveLocationsOverrides(t *testing.T) {
	customers := []models.Customer{
		{ID: "c1", Neighborhood: "Pina"},
		{ID: "c2", Neighborhood: "Torre"},
	}
	live := map[string]models.CapturedLocation{
		"c2": {CustomerID: "c2", Lat: -8.05, Lon: -34.91},
	}

	out := ApplyLiveLocations(customers, live)
	if out[0].Lat != nil {
		t.Fatalf("c1 has no live fix, coordinates must stay empty")
	}
	if out[1].Lat == nil || *out[1].Lat != -8.05 || *out[1].Lon != -34.91 {
		t.Fatalf("c2 live fix not applied: %+v", out[1])
	}
	if customers[1].Lat != nil {
		t.Fatalf("input slice must not be mutated")
	}
}
