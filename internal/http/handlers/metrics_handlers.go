package handlers

import (
	"fmt"
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Catalog counters
// @Description Active and inactive product counts, total stock of active products and active products out of stock.
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ApiResponse
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		writeError(w, r, fmt.Errorf("fetch dashboard metrics: %w", err))
		return
	}
	if err := writeJSON(w, http.StatusOK, m); err != nil {
		writeError(w, r, err)
	}
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResult
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, HealthResult{Status: "ok"})
}
