package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rotacerta/backend/internal/models"
)

// RouteRepository is the durable store for collection routes. The
// Postgres store implements it in production; MemoryRouteRepository
// backs tests.
type RouteRepository interface {
	ListRoutes(ctx context.Context) ([]models.CollectionRoute, error)
	GetRoute(ctx context.Context, id string) (models.CollectionRoute, bool, error)
	UpsertRoute(ctx context.Context, route models.CollectionRoute) error
	DeleteRoute(ctx context.Context, id string) (bool, error)
}

type MemoryRouteRepository struct {
	mu     sync.Mutex
	routes map[string]models.CollectionRoute
}

func NewMemoryRouteRepository() *MemoryRouteRepository {
	return &MemoryRouteRepository{routes: map[string]models.CollectionRoute{}}
}

func (r *MemoryRouteRepository) ListRoutes(ctx context.Context) ([]models.CollectionRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.CollectionRoute, 0, len(r.routes))
	for _, route := range r.routes {
		out = append(out, route)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRouteRepository) GetRoute(ctx context.Context, id string) (models.CollectionRoute, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route, ok := r.routes[id]
	return route, ok, nil
}

func (r *MemoryRouteRepository) UpsertRoute(ctx context.Context, route models.CollectionRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[route.ID] = route
	return nil
}

func (r *MemoryRouteRepository) DeleteRoute(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.routes[id]
	delete(r.routes, id)
	return ok, nil
}
