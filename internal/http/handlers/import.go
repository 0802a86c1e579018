package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/rotacerta/backend/internal/models"
)

type ImportSummary struct {
	Customers struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"customers"`
	Errors []string `json:"errors"`
}

// @Summary Import customer CSV
// @Description Replaces the customer directory with the uploaded CSV export
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param customers formData file true "customers.csv"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]any
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	customersFile, err := c.FormFile("customers")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "customers file required", nil)
		return
	}
	if !validateExt(customersFile.Filename) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file must be .csv", nil)
		return
	}

	summary := ImportSummary{Errors: []string{}}
	customers, errs := parseCustomersCSV(customersFile)
	summary.Customers.Parsed = len(customers)
	summary.Customers.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	if len(summary.Errors) > 0 {
		writeError(c, http.StatusBadRequest, "CSV_PARSE_ERROR", "CSV validation errors", summary.Errors)
		return
	}

	ctx := c.Request.Context()
	err = h.Store.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE customers`)
		return err
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to reset customers", err.Error())
		return
	}

	inserted, err := h.Store.InsertCustomers(ctx, customers)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert customers", err.Error())
		return
	}
	summary.Customers.Inserted = int(inserted)

	c.JSON(http.StatusOK, summary)
}

func parseCustomersCSV(file *multipart.FileHeader) ([]models.Customer, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errors []string
	var out []models.Customer

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errors = append(errors, err.Error())
			continue
		}

		id := getFieldAny(rec, index, "id", "customer_id", "cliente", "cliente_id")
		name := getFieldAny(rec, index, "name", "nome", "full_name")
		status := getFieldAny(rec, index, "status", "situacao", "situação")
		debtStr := getFieldAny(rec, index, "total_debt", "debt", "divida", "dívida", "saldo devedor")
		address := getFieldAny(rec, index, "address", "endereco", "endereço", "logradouro")
		neighborhood := getFieldAny(rec, index, "neighborhood", "bairro")
		city := getFieldAny(rec, index, "city", "cidade", "municipio", "município")
		state := getFieldAny(rec, index, "state", "estado", "uf")
		latStr := getFieldAny(rec, index, "lat", "latitude")
		lonStr := getFieldAny(rec, index, "lon", "lng", "longitude")

		debt, _ := strconv.ParseFloat(strings.ReplaceAll(debtStr, ",", "."), 64)

		if id == "" {
			id = fmt.Sprintf("CUST-%04d", len(out)+1)
		}
		if name == "" {
			errors = append(errors, fmt.Sprintf("customer %s: name required", id))
			continue
		}

		cust := models.Customer{
			ID:           id,
			Name:         name,
			Status:       normalizeStatus(status),
			TotalDebt:    debt,
			Address:      address,
			Neighborhood: neighborhood,
			City:         city,
			State:        strings.ToUpper(state),
		}
		if lat, err := strconv.ParseFloat(latStr, 64); err == nil && latStr != "" {
			if lon, err := strconv.ParseFloat(lonStr, 64); err == nil && lonStr != "" {
				cust.Lat = &lat
				cust.Lon = &lon
			}
		}
		out = append(out, cust)
	}
	return out, errors
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, name := range names {
		if v := getField(rec, idx, normalizeHeader(name)); v != "" {
			return v
		}
	}
	return ""
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	return strings.ToLower(strings.TrimSpace(h))
}

func normalizeStatus(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "", strings.Contains(v, "ativ"), strings.Contains(v, "active"):
		return models.CustomerActive
	case strings.Contains(v, "bloq"), strings.Contains(v, "block"):
		return models.CustomerBlocked
	default:
		return strings.ToUpper(strings.TrimSpace(value))
	}
}

func validateExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".csv"
}
