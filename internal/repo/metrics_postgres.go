package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

type PostgresMetricsRepository struct {
	db *sql.DB
}

func NewPostgresMetricsRepository(db *sql.DB) *PostgresMetricsRepository {
	return &PostgresMetricsRepository{db: db}
}

func (r *PostgresMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COALESCE(SUM(stock) FILTER (WHERE status = $1), 0),
			COUNT(*) FILTER (WHERE status = $1 AND stock = 0)
		FROM products
	`, string(models.StatusActive), string(models.StatusInactive)).
		Scan(&m.ActiveProducts, &m.InactiveProducts, &m.TotalStock, &m.OutOfStockCount)
	if err != nil {
		return Metrics{}, fmt.Errorf("dashboard metrics: %w", err)
	}
	return m, nil
}
