package service

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rotacerta/backend/internal/geo"
	"github.com/rotacerta/backend/internal/models"
)

func testPlanner(repo RouteRepository) *Planner {
	// Zero jitter keeps fallback placements deterministic in tests.
	resolver := geo.NewResolver(rand.New(rand.NewSource(1)))
	resolver.NeighborhoodJitterDeg = 0
	resolver.CityJitterDeg = 0
	return &Planner{
		Repo:     repo,
		Resolver: resolver,
		SpeedKmh: DefaultSpeedKmh,
		Logger:   zerolog.Nop(),
	}
}

func coord(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestPlanRouteGreedyVisitsNearestFirst(t *testing.T) {
	latA, lonA := coord(0, 1)
	latB, lonB := coord(0, 5)
	// B comes first in the input so ordering must come from distance.
	customers := []models.Customer{
		{ID: "B", Name: "Far", Lat: latB, Lon: lonB},
		{ID: "A", Name: "Near", Lat: latA, Lon: lonA},
	}

	p := testPlanner(NewMemoryRouteRepository())
	route, err := p.PlanRoute(context.Background(), "morning round", customers, models.GeoPoint{Lat: 0, Lon: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Stops[0].CustomerID != "A" || route.Stops[1].CustomerID != "B" {
		t.Fatalf("expected A then B, got %s then %s", route.Stops[0].CustomerID, route.Stops[1].CustomerID)
	}
}

func TestPlanRoutePermutationInvariant(t *testing.T) {
	customers := []models.Customer{
		{ID: "c1", Neighborhood: "Boa Viagem"},
		{ID: "c2", Neighborhood: "Pina"},
		{ID: "c3", Neighborhood: "Torre"},
		{ID: "c4", Neighborhood: "Várzea"},
		{ID: "c5"},
	}

	p := testPlanner(NewMemoryRouteRepository())
	route, err := p.PlanRoute(context.Background(), "full sweep", customers, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Stops) != len(customers) {
		t.Fatalf("expected %d stops, got %d", len(customers), len(route.Stops))
	}

	seen := map[string]bool{}
	for i, stop := range route.Stops {
		if stop.Order != i+1 {
			t.Fatalf("ordinals must be contiguous and 1-based, stop %d has order %d", i, stop.Order)
		}
		if seen[stop.CustomerID] {
			t.Fatalf("customer %s visited twice", stop.CustomerID)
		}
		seen[stop.CustomerID] = true
		if stop.DistanceKm < 0 {
			t.Fatalf("negative leg distance: %f", stop.DistanceKm)
		}
	}
	for _, c := range customers {
		if !seen[c.ID] {
			t.Fatalf("customer %s dropped from route", c.ID)
		}
	}
}

func TestPlanRouteTotalsMatchLegs(t *testing.T) {
	lat1, lon1 := coord(-8.05, -34.88)
	lat2, lon2 := coord(-8.12, -34.90)
	lat3, lon3 := coord(-8.03, -34.92)
	customers := []models.Customer{
		{ID: "c1", Lat: lat1, Lon: lon1},
		{ID: "c2", Lat: lat2, Lon: lon2},
		{ID: "c3", Lat: lat3, Lon: lon3},
	}

	p := testPlanner(NewMemoryRouteRepository())
	route, err := p.PlanRoute(context.Background(), "totals", customers, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sumKm float64
	var sumMin int
	for _, stop := range route.Stops {
		sumKm += stop.DistanceKm
		sumMin += stop.EstMinutes
		wantMin := int(math.Round(stop.DistanceKm / DefaultSpeedKmh * 60))
		if stop.EstMinutes != wantMin {
			t.Fatalf("leg minutes %d, want %d for %.1f km", stop.EstMinutes, wantMin, stop.DistanceKm)
		}
	}
	if math.Abs(route.TotalKm-sumKm) > 0.05 {
		t.Fatalf("total km %.2f diverges from leg sum %.2f", route.TotalKm, sumKm)
	}
	if route.TotalMinutes != sumMin {
		t.Fatalf("total minutes %d, want %d", route.TotalMinutes, sumMin)
	}
}

func TestPlanRouteDeterministicWithExplicitCoords(t *testing.T) {
	lat1, lon1 := coord(-8.05, -34.88)
	lat2, lon2 := coord(-8.12, -34.90)
	customers := []models.Customer{
		{ID: "c1", Lat: lat1, Lon: lon1},
		{ID: "c2", Lat: lat2, Lon: lon2},
	}

	p := testPlanner(NewMemoryRouteRepository())
	first, err := p.PlanRoute(context.Background(), "run 1", customers, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.PlanRoute(context.Background(), "run 2", customers, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range first.Stops {
		if first.Stops[i].CustomerID != second.Stops[i].CustomerID {
			t.Fatalf("stop %d order differs between runs", i)
		}
		if first.Stops[i].DistanceKm != second.Stops[i].DistanceKm {
			t.Fatalf("stop %d distance differs between runs", i)
		}
	}
}

func TestPlanRouteTieBreaksOnInputOrder(t *testing.T) {
	lat, lon := coord(-8.1, -34.9)
	customers := []models.Customer{
		{ID: "first", Lat: lat, Lon: lon},
		{ID: "second", Lat: lat, Lon: lon},
	}

	p := testPlanner(NewMemoryRouteRepository())
	route, err := p.PlanRoute(context.Background(), "tie", customers, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Stops[0].CustomerID != "first" {
		t.Fatalf("tie must go to the first customer in input order, got %s", route.Stops[0].CustomerID)
	}
}

func TestPlanRouteDropsDuplicateCustomers(t *testing.T) {
	lat1, lon1 := coord(-8.05, -34.88)
	lat2, lon2 := coord(-8.12, -34.90)
	customers := []models.Customer{
		{ID: "c1", Lat: lat1, Lon: lon1},
		{ID: "c1", Lat: lat1, Lon: lon1},
		{ID: "c2", Lat: lat2, Lon: lon2},
	}

	p := testPlanner(NewMemoryRouteRepository())
	route, err := p.PlanRoute(context.Background(), "dupes", customers, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Stops) != 2 {
		t.Fatalf("expected duplicate collapsed to 2 stops, got %d", len(route.Stops))
	}
	seen := map[string]bool{}
	for _, stop := range route.Stops {
		if seen[stop.CustomerID] {
			t.Fatalf("customer %s visited twice", stop.CustomerID)
		}
		seen[stop.CustomerID] = true
	}
}

func TestPlanRouteRejectsEmptyInput(t *testing.T) {
	p := testPlanner(NewMemoryRouteRepository())
	_, err := p.PlanRoute(context.Background(), "empty", nil, geo.RecifeCenter)
	if !errors.Is(err, ErrNoCustomers) {
		t.Fatalf("expected ErrNoCustomers, got %v", err)
	}
}

func TestPlanRouteSingleCustomer(t *testing.T) {
	repo := NewMemoryRouteRepository()
	p := testPlanner(repo)

	route, err := p.PlanRoute(context.Background(), "solo", []models.Customer{{ID: "c1", Neighborhood: "Pina"}}, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(route.Stops) != 1 || route.Stops[0].Order != 1 {
		t.Fatalf("expected a single ordered stop, got %+v", route.Stops)
	}
	if route.Status != models.RoutePlanned {
		t.Fatalf("new route must be PLANNED, got %s", route.Status)
	}
	if _, ok, _ := repo.GetRoute(context.Background(), route.ID); !ok {
		t.Fatalf("route must be stored before PlanRoute returns")
	}
}

func TestRouteLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRouteRepository()
	p := testPlanner(repo)

	route, err := p.PlanRoute(ctx, "lifecycle", []models.Customer{{ID: "c1"}, {ID: "c2", Neighborhood: "Pina"}}, geo.RecifeCenter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	started, err := p.StartRoute(ctx, route.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != models.RouteInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", started.Status)
	}

	completed, err := p.CompleteRoute(ctx, route.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.RouteCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}

	if err := p.DeleteRoute(ctx, route.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	routes, _ := repo.ListRoutes(ctx)
	if len(routes) != 0 {
		t.Fatalf("deleted route still listed")
	}
}

func TestLifecycleUnknownRouteID(t *testing.T) {
	ctx := context.Background()
	p := testPlanner(NewMemoryRouteRepository())

	if _, err := p.StartRoute(ctx, "missing"); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("start: expected ErrRouteNotFound, got %v", err)
	}
	if _, err := p.CompleteRoute(ctx, "missing"); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("complete: expected ErrRouteNotFound, got %v", err)
	}
	if err := p.DeleteRoute(ctx, "missing"); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("delete: expected ErrRouteNotFound, got %v", err)
	}
}
