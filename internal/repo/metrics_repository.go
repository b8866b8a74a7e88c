package repo

import "context"

type Metrics struct {
	ActiveProducts   int   `json:"active_products"`
	InactiveProducts int   `json:"inactive_products"`
	TotalStock       int64 `json:"total_stock"`
	OutOfStockCount  int   `json:"out_of_stock_count"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
