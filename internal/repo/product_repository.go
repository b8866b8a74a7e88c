package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// ProductRepository defines the query surface over the products table.
//
// Finders that look up a single row return ErrProductNotFound when nothing
// matches. Paginated finders order by creation time, newest first.
type ProductRepository interface {
	FindActiveByCode(ctx context.Context, code string) (models.Product, error)
	FindAllActive(ctx context.Context, p models.Pageable) (models.Page[models.Product], error)
	FindActiveByBrandContains(ctx context.Context, brand string, p models.Pageable) (models.Page[models.Product], error)
	FindActiveByModelContains(ctx context.Context, model string, p models.Pageable) (models.Page[models.Product], error)
	FindActiveByBrandAndModelContains(ctx context.Context, brand, model string, p models.Pageable) (models.Page[models.Product], error)
	// FindByID ignores status; callers decide visibility.
	FindByID(ctx context.Context, id int64) (models.Product, error)
	// Save inserts when ID is zero and updates otherwise. On insert the
	// store assigns ID, Status and CreatedAt.
	Save(ctx context.Context, p models.Product) (models.Product, error)
}

// ProductStore is a ProductRepository that can run a unit of work atomically.
type ProductStore interface {
	ProductRepository
	WithTx(ctx context.Context, fn func(ProductRepository) error) error
}

var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicatedValueUnique is returned when a write breaks the active-code unique constraint.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
)
