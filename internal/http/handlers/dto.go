package handlers

import "time"

// ApiResponse wraps mutation results and every error body.
type ApiResponse struct {
	Message   string    `json:"message"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}

type HealthResult struct {
	Status string `json:"status"`
}
