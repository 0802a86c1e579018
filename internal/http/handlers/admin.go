package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rotacerta/backend/internal/finance"
	"github.com/rotacerta/backend/internal/geocode"
	"github.com/rotacerta/backend/internal/models"
)

// @Summary Backfill customer coordinates
// @Description Geocodes customers without coordinates through the configured geocoder
// @Tags customers
// @Produce json
// @Param force query bool false "Regeocode even customers that already have coordinates"
// @Success 200 {object} map[string]any
// @Router /api/customers/regeocode [post]
func (h *Handler) RegeocodeCustomers(c *gin.Context) {
	if h.Geocoder == nil {
		writeError(c, http.StatusServiceUnavailable, "GEOCODER_UNAVAILABLE", "No geocoder configured", nil)
		return
	}
	force := c.Query("force") == "1" || strings.EqualFold(c.Query("force"), "true")

	var (
		customers []models.Customer
		err       error
	)
	if force {
		customers, err = h.Store.ListAllCustomers(c.Request.Context(), "")
	} else {
		customers, err = h.Store.ListCustomersMissingCoords(c.Request.Context())
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load customers", err.Error())
		return
	}

	updated := 0
	skipped := 0
	var failures []string
	for _, cust := range customers {
		if !geocode.ShouldGeocode(cust, force) {
			skipped++
			continue
		}
		query := geocode.BuildGeocodeQuery(h.CountryDefault, cust)
		lat, lon, _, _, err := h.Geocoder.Geocode(c.Request.Context(), query)
		if err != nil {
			if !errors.Is(err, geocode.ErrNotFound) {
				h.Logger.Warn().Err(err).Str("customer_id", cust.ID).Msg("geocode failed")
			}
			failures = append(failures, cust.ID)
			continue
		}
		if err := h.Store.UpdateCustomerCoords(c.Request.Context(), cust.ID, lat, lon); err != nil {
			writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to store coordinates", err.Error())
			return
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{
		"updated":  updated,
		"skipped":  skipped,
		"failures": failures,
	})
}

type PublishLocationRequest struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat" validate:"required,latitude"`
	Lon     float64 `json:"lon" validate:"required,longitude"`
}

// @Summary Publish a field-captured customer location
// @Tags customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body PublishLocationRequest true "Captured position"
// @Success 200 {object} map[string]any
// @Router /api/customers/{id}/location [post]
func (h *Handler) PublishLocation(c *gin.Context) {
	if h.Live == nil {
		writeError(c, http.StatusServiceUnavailable, "LIVE_UNAVAILABLE", "No live location store configured", nil)
		return
	}
	var req PublishLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	loc := models.CapturedLocation{
		CustomerID: c.Param("id"),
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		Lat:        req.Lat,
		Lon:        req.Lon,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := h.Live.Publish(c.Request.Context(), loc); err != nil {
		writeError(c, http.StatusInternalServerError, "LIVE_ERROR", "Failed to publish location", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type LateInterestRequest struct {
	Principal          float64 `json:"principal" validate:"required,gt=0"`
	DaysLate           int     `json:"days_late" validate:"gte=0"`
	FinePct            float64 `json:"fine_pct"`
	MonthlyInterestPct float64 `json:"monthly_interest_pct"`
}

// @Summary Late-interest calculation
// @Tags finance
// @Accept json
// @Produce json
// @Param request body LateInterestRequest true "Overdue installment"
// @Success 200 {object} finance.LateInterestResult
// @Router /api/finance/late-interest [post]
func (h *Handler) LateInterest(c *gin.Context) {
	var req LateInterestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	result, err := finance.CalculateLateInterest(finance.LateInterestInput{
		Principal:          req.Principal,
		DaysLate:           req.DaysLate,
		FinePct:            req.FinePct,
		MonthlyInterestPct: req.MonthlyInterestPct,
	})
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, result)
}

type CreditScoreRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

// @Summary Credit score lookup
// @Tags finance
// @Accept json
// @Produce json
// @Param request body CreditScoreRequest true "Customer"
// @Success 200 {object} finance.ScoreResult
// @Router /api/finance/score [post]
func (h *Handler) CreditScore(c *gin.Context) {
	var req CreditScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	customers, err := h.Store.GetCustomersByIDs(c.Request.Context(), []string{req.CustomerID})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load customer", err.Error())
		return
	}
	if len(customers) == 0 {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Customer not found", nil)
		return
	}
	c.JSON(http.StatusOK, finance.MockScore(customers[0]))
}
