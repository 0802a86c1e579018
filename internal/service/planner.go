package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rotacerta/backend/internal/geo"
	"github.com/rotacerta/backend/internal/models"
	"github.com/rotacerta/backend/internal/utils"
)

// DefaultSpeedKmh is the assumed average urban travel speed used to
// estimate per-leg times.
const DefaultSpeedKmh = 30.0

var (
	ErrNoCustomers   = errors.New("at least one customer is required to plan a route")
	ErrRouteNotFound = errors.New("route not found")
)

// Planner builds collection routes with a greedy nearest-neighbor
// heuristic and owns their lifecycle. The heuristic minimizes the
// immediate leg at each step; it does not attempt global optimization,
// which is acceptable at collection-route sizes (tens of stops).
type Planner struct {
	Repo     RouteRepository
	Resolver *geo.Resolver
	SpeedKmh float64
	Logger   zerolog.Logger
}

// PlanRoute resolves a coordinate for every customer, constructs the
// visiting order from start, and stores the route before returning it.
// A single customer is a valid one-stop route; an empty set is
// rejected.
func (p *Planner) PlanRoute(ctx context.Context, name string, customers []models.Customer, start models.GeoPoint) (models.CollectionRoute, error) {
	if len(customers) == 0 {
		return models.CollectionRoute{}, ErrNoCustomers
	}

	// A customer appears at most once per route, whatever the caller
	// sends. First occurrence wins to keep input order meaningful.
	seen := make(map[string]struct{}, len(customers))
	uniq := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		uniq = append(uniq, c)
	}
	customers = uniq

	speed := p.SpeedKmh
	if speed <= 0 {
		speed = DefaultSpeedKmh
	}

	// Coordinates are resolved once up front so that jittered fallback
	// placements stay stable for the whole tour.
	points := make([]models.GeoPoint, len(customers))
	for i, c := range customers {
		points[i] = p.Resolver.Resolve(c).Point
	}

	visited := make([]bool, len(customers))
	stops := make([]models.RouteStop, 0, len(customers))
	current := start
	totalKm := 0.0
	totalMinutes := 0

	for len(stops) < len(customers) {
		best := -1
		bestDist := math.MaxFloat64
		// Strictly-smaller comparison keeps ties on input order.
		for i := range customers {
			if visited[i] {
				continue
			}
			d := utils.HaversineKm(current.Lat, current.Lon, points[i].Lat, points[i].Lon)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best == -1 {
			return models.CollectionRoute{}, fmt.Errorf("plan route: no reachable customer left")
		}

		legKm := utils.Round1(bestDist)
		legMinutes := int(math.Round(legKm / speed * 60))
		stops = append(stops, models.RouteStop{
			Order:        len(stops) + 1,
			CustomerID:   customers[best].ID,
			CustomerName: customers[best].Name,
			Point:        points[best],
			DistanceKm:   legKm,
			EstMinutes:   legMinutes,
		})
		totalKm += legKm
		totalMinutes += legMinutes
		visited[best] = true
		current = points[best]
	}

	route := models.CollectionRoute{
		ID:           uuid.NewString(),
		Name:         name,
		Status:       models.RoutePlanned,
		CreatedAt:    time.Now().UTC(),
		Stops:        stops,
		TotalKm:      utils.Round1(totalKm),
		TotalMinutes: totalMinutes,
	}

	if err := p.Repo.UpsertRoute(ctx, route); err != nil {
		return models.CollectionRoute{}, fmt.Errorf("plan route: store: %w", err)
	}

	p.Logger.Info().
		Str("route_id", route.ID).
		Int("stops", len(route.Stops)).
		Float64("total_km", route.TotalKm).
		Msg("route planned")
	return route, nil
}

func (p *Planner) StartRoute(ctx context.Context, id string) (models.CollectionRoute, error) {
	return p.transition(ctx, id, models.RouteInProgress)
}

func (p *Planner) CompleteRoute(ctx context.Context, id string) (models.CollectionRoute, error) {
	return p.transition(ctx, id, models.RouteCompleted)
}

func (p *Planner) DeleteRoute(ctx context.Context, id string) error {
	deleted, err := p.Repo.DeleteRoute(ctx, id)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if !deleted {
		return ErrRouteNotFound
	}
	return nil
}

func (p *Planner) transition(ctx context.Context, id string, status string) (models.CollectionRoute, error) {
	route, ok, err := p.Repo.GetRoute(ctx, id)
	if err != nil {
		return models.CollectionRoute{}, fmt.Errorf("load route: %w", err)
	}
	if !ok {
		return models.CollectionRoute{}, ErrRouteNotFound
	}
	route.Status = status
	if err := p.Repo.UpsertRoute(ctx, route); err != nil {
		return models.CollectionRoute{}, fmt.Errorf("update route: %w", err)
	}
	return route, nil
}
