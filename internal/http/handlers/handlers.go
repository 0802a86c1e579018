package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rotacerta/backend/internal/db"
	"github.com/rotacerta/backend/internal/geo"
	"github.com/rotacerta/backend/internal/geocode"
	"github.com/rotacerta/backend/internal/live"
	"github.com/rotacerta/backend/internal/models"
	"github.com/rotacerta/backend/internal/service"
)

type Handler struct {
	Store          *db.Store
	Planner        *service.Planner
	Resolver       *geo.Resolver
	Live           *live.Store
	Geocoder       geocode.Geocoder
	Validator      *validator.Validate
	Logger         zerolog.Logger
	CountryDefault string
	OfficeLat      float64
	OfficeLon      float64
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary List customers
// @Tags customers
// @Produce json
// @Param status query string false "ACTIVE or BLOCKED"
// @Param neighborhood query string false "Neighborhood filter"
// @Param q query string false "Name or id search"
// @Success 200 {object} map[string]any
// @Router /api/customers [get]
func (h *Handler) CustomersList(c *gin.Context) {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	neighborhood := strings.TrimSpace(c.Query("neighborhood"))
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListCustomers(c.Request.Context(), status, neighborhood, q, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list customers", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

// @Summary Neighborhood risk clusters
// @Description Groups customers by neighborhood with debt and default metrics, riskiest first
// @Tags clusters
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/clusters [get]
func (h *Handler) ClustersList(c *gin.Context) {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	customers, err := h.Store.ListAllCustomers(c.Request.Context(), status)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list customers", err.Error())
		return
	}

	customers = h.withLiveLocations(c.Request.Context(), customers)
	clusters := h.Resolver.BuildClusters(customers)
	c.JSON(http.StatusOK, gin.H{"items": clusters})
}

// withLiveLocations overlays field-captured positions when the live
// store is configured. A snapshot failure is logged and the fallback
// chain takes over; it never fails the read.
func (h *Handler) withLiveLocations(ctx context.Context, customers []models.Customer) []models.Customer {
	if h.Live == nil || len(customers) == 0 {
		return customers
	}
	ids := make([]string, len(customers))
	for i, cust := range customers {
		ids[i] = cust.ID
	}
	snapshot, err := h.Live.Snapshot(ctx, ids)
	if err != nil {
		h.Logger.Warn().Err(err).Msg("live location snapshot failed")
		return customers
	}
	return geo.ApplyLiveLocations(customers, snapshot)
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
