package handlers

import (
	"log/slog"

	"github.com/rogerio-castellano/product-catalog/internal/repo"
	"github.com/rogerio-castellano/product-catalog/internal/service"
)

var (
	productService *service.ProductService
	metricsRepo    repo.MetricsRepository
	logger         = slog.Default()
)

func SetProductService(s *service.ProductService) {
	productService = s
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}
