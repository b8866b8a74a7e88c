package repo

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductStore.
// It mirrors the Postgres store-side defaults and the partial unique index on
// active codes.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	products []models.Product
	nextID   int64
	now      func() time.Time
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
		now:      time.Now,
	}
}

// SetClock replaces the clock used for store-assigned creation timestamps.
func (r *InMemoryProductRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Status != "" && p.Status != pf.Status {
		return false
	}
	if pf.Brand != "" && !strings.Contains(strings.ToLower(p.Brand), strings.ToLower(pf.Brand)) {
		return false
	}
	if pf.Model != "" && !strings.Contains(strings.ToLower(p.Model), strings.ToLower(pf.Model)) {
		return false
	}
	return true
}

// Filter returns one page of rows matching pf, newest first.
func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter, p models.Pageable) (models.Page[models.Product], error) {
	r.mu.RLock()
	var filtered []models.Product
	for _, prod := range r.products {
		if matchesFilter(prod, pf) {
			filtered = append(filtered, prod)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(filtered, func(a, b models.Product) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID > b.ID {
			return -1
		}
		if a.ID < b.ID {
			return 1
		}
		return 0
	})

	total := len(filtered)
	start := clamp(p.Offset(), 0, total)
	end := clamp(start+p.Size, start, total)

	return models.NewPage(filtered[start:end], p, int64(total)), nil
}

func (r *InMemoryProductRepository) FindAllActive(ctx context.Context, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter("", ""), p)
}

func (r *InMemoryProductRepository) FindActiveByBrandContains(ctx context.Context, brand string, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter(brand, ""), p)
}

func (r *InMemoryProductRepository) FindActiveByModelContains(ctx context.Context, model string, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter("", model), p)
}

func (r *InMemoryProductRepository) FindActiveByBrandAndModelContains(ctx context.Context, brand, model string, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter(brand, model), p)
}

// FindActiveByCode retrieves the active product holding code.
func (r *InMemoryProductRepository) FindActiveByCode(_ context.Context, code string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.Code == code && p.IsActive() {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// FindByID retrieves a product by its ID regardless of status.
func (r *InMemoryProductRepository) FindByID(_ context.Context, id int64) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Save inserts a new product or overwrites an existing one.
func (r *InMemoryProductRepository) Save(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		if product.Status == "" {
			product.Status = models.StatusActive
		}
		if r.codeTaken(product.Code, product.Status, 0) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		product.ID = r.nextID
		r.nextID++
		product.CreatedAt = r.now()
		r.products = append(r.products, product)
		return product, nil
	}

	for i, p := range r.products {
		if p.ID == product.ID {
			if r.codeTaken(product.Code, product.Status, product.ID) {
				return models.Product{}, ErrDuplicatedValueUnique
			}
			product.CreatedAt = p.CreatedAt
			r.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// codeTaken emulates the partial unique index on active codes.
func (r *InMemoryProductRepository) codeTaken(code string, status models.Status, selfID int64) bool {
	if status != models.StatusActive {
		return false
	}
	for _, p := range r.products {
		if p.ID != selfID && p.Code == code && p.IsActive() {
			return true
		}
	}
	return false
}

// WithTx runs fn as one atomic unit: callers are serialized and the store is
// restored to its previous state when fn fails.
func (r *InMemoryProductRepository) WithTx(_ context.Context, fn func(ProductRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	snapshot := slices.Clone(r.products)
	nextID := r.nextID
	r.mu.RUnlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.products = snapshot
		r.nextID = nextID
		r.mu.Unlock()
		return err
	}
	return nil
}

// All returns a copy of every stored row, inactive ones included.
func (r *InMemoryProductRepository) All() []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.products)
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
	r.nextID = 1
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
