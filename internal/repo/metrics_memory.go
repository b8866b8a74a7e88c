package repo

import "context"

type InMemoryMetricsRepository struct {
	productRepo *InMemoryProductRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(productRepo *InMemoryProductRepository) {
	i.productRepo = productRepo
}

// GetDashboardMetrics implements MetricsRepository. Stock figures only count
// active products.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(_ context.Context) (Metrics, error) {
	m := Metrics{}
	if i.productRepo == nil {
		return m, nil
	}

	for _, p := range i.productRepo.All() {
		if !p.IsActive() {
			m.InactiveProducts++
			continue
		}
		m.ActiveProducts++
		m.TotalStock += int64(p.Stock)
		if p.Stock == 0 {
			m.OutOfStockCount++
		}
	}
	return m, nil
}
