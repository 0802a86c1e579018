package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/backend/internal/models"
	"github.com/rotacerta/backend/internal/service"
)

type GeoPointDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PlanRouteRequest struct {
	Name        string       `json:"name" validate:"required"`
	CustomerIDs []string     `json:"customer_ids" validate:"required,min=2,unique"`
	Start       *GeoPointDTO `json:"start"`
}

// @Summary Plan a collection route
// @Description Builds a nearest-neighbor visiting order over the selected customers and stores it
// @Tags routes
// @Accept json
// @Produce json
// @Param request body PlanRouteRequest true "Route request"
// @Success 201 {object} models.CollectionRoute
// @Failure 400 {object} map[string]any
// @Router /api/routes [post]
func (h *Handler) RoutePlan(c *gin.Context) {
	var req PlanRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "A route needs a name and at least two distinct customers", err.Error())
		return
	}

	customers, err := h.Store.GetCustomersByIDs(c.Request.Context(), req.CustomerIDs)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load customers", err.Error())
		return
	}
	if missing := missingIDs(req.CustomerIDs, customers); len(missing) > 0 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown customer ids", missing)
		return
	}

	customers = h.withLiveLocations(c.Request.Context(), customers)

	start := models.GeoPoint{Lat: h.OfficeLat, Lon: h.OfficeLon}
	if req.Start != nil {
		start = models.GeoPoint{Lat: req.Start.Lat, Lon: req.Start.Lon}
	}

	route, err := h.Planner.PlanRoute(c.Request.Context(), req.Name, customers, start)
	if err != nil {
		if errors.Is(err, service.ErrNoCustomers) {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "PLANNING_ERROR", "Failed to plan route", err.Error())
		return
	}
	c.JSON(http.StatusCreated, route)
}

// @Summary List collection routes
// @Tags routes
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/routes [get]
func (h *Handler) RoutesList(c *gin.Context) {
	routes, err := h.Planner.Repo.ListRoutes(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list routes", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": routes})
}

func (h *Handler) RouteDetails(c *gin.Context) {
	route, ok, err := h.Planner.Repo.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load route", err.Error())
		return
	}
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
		return
	}
	c.JSON(http.StatusOK, route)
}

func (h *Handler) RouteStart(c *gin.Context) {
	h.routeTransition(c, h.Planner.StartRoute)
}

func (h *Handler) RouteComplete(c *gin.Context) {
	h.routeTransition(c, h.Planner.CompleteRoute)
}

func (h *Handler) RouteDelete(c *gin.Context) {
	if err := h.Planner.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrRouteNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete route", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) routeTransition(c *gin.Context, fn func(ctx context.Context, id string) (models.CollectionRoute, error)) {
	route, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRouteNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update route", err.Error())
		return
	}
	c.JSON(http.StatusOK, route)
}

func missingIDs(requested []string, found []models.Customer) []string {
	present := make(map[string]struct{}, len(found))
	for _, cust := range found {
		present[cust.ID] = struct{}{}
	}
	var missing []string
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
