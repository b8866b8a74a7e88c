package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func newProduct(code, brand, model string) models.Product {
	return models.Product{
		Code:  code,
		Name:  "Product " + code,
		Brand: brand,
		Model: model,
		Price: decimal.RequireFromString("10.50"),
		Stock: 3,
	}
}

func TestInMemorySave_AssignsStoreDefaults(t *testing.T) {
	r := NewInMemoryProductRepository()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.SetClock(seqClock(start))
	ctx := context.Background()

	p, err := r.Save(ctx, newProduct("P1", "Acme", "X1"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, models.StatusActive, p.Status)
	assert.Equal(t, start.Add(time.Minute), p.CreatedAt)
	assert.Nil(t, p.ModifiedAt)

	p2, err := r.Save(ctx, newProduct("P2", "Acme", "X2"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), p2.ID)
}

func TestInMemorySave_UpdateKeepsCreatedAt(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	p, err := r.Save(ctx, newProduct("P1", "Acme", "X1"))
	require.NoError(t, err)

	p.CreatedAt = time.Time{}
	p.Name = "Renamed"
	updated, err := r.Save(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.CreatedAt.IsZero())
}

func TestInMemorySave_UnknownIDIsNotFound(t *testing.T) {
	r := NewInMemoryProductRepository()
	p := newProduct("P1", "Acme", "X1")
	p.ID = 42
	p.Status = models.StatusActive

	_, err := r.Save(context.Background(), p)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestInMemorySave_ActiveCodeUniqueness(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	first, err := r.Save(ctx, newProduct("P1", "Acme", "X1"))
	require.NoError(t, err)

	_, err = r.Save(ctx, newProduct("P1", "Zenith", "Z9"))
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	first.Status = models.StatusInactive
	_, err = r.Save(ctx, first)
	require.NoError(t, err)

	_, err = r.Save(ctx, newProduct("P1", "Zenith", "Z9"))
	assert.NoError(t, err, "code must be reusable once the holder is inactive")
}

func TestInMemoryFindActiveByCode(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	p, err := r.Save(ctx, newProduct("P1", "Acme", "X1"))
	require.NoError(t, err)

	found, err := r.FindActiveByCode(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	p.Status = models.StatusInactive
	_, err = r.Save(ctx, p)
	require.NoError(t, err)

	_, err = r.FindActiveByCode(ctx, "P1")
	assert.ErrorIs(t, err, ErrProductNotFound)

	byID, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err, "FindByID ignores status")
	assert.Equal(t, models.StatusInactive, byID.Status)
}

func TestInMemoryFinders_FilterAndOrder(t *testing.T) {
	r := NewInMemoryProductRepository()
	r.SetClock(seqClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	a, _ := r.Save(ctx, newProduct("A", "Acme", "X1"))
	b, _ := r.Save(ctx, newProduct("B", "Acme", "X2"))
	c, _ := r.Save(ctx, newProduct("C", "Zenith", "X1"))
	d, _ := r.Save(ctx, newProduct("D", "ACME Labs", "y1"))
	d.Status = models.StatusInactive
	_, err := r.Save(ctx, d)
	require.NoError(t, err)

	page := models.Pageable{Page: 0, Size: 10}
	ids := func(p models.Page[models.Product]) []int64 {
		out := make([]int64, len(p.Content))
		for i, prod := range p.Content {
			out[i] = prod.ID
		}
		return out
	}

	all, err := r.FindAllActive(ctx, page)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, b.ID, a.ID}, ids(all))
	assert.Equal(t, int64(3), all.TotalElements)

	byBrand, err := r.FindActiveByBrandContains(ctx, "aCm", page)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID}, ids(byBrand))

	byModel, err := r.FindActiveByModelContains(ctx, "x1", page)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, a.ID}, ids(byModel))

	both, err := r.FindActiveByBrandAndModelContains(ctx, "acme", "x1", page)
	require.NoError(t, err)
	assert.Equal(t, []int64{a.ID}, ids(both))
}

func TestInMemoryFilter_Pagination(t *testing.T) {
	r := NewInMemoryProductRepository()
	r.SetClock(seqClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C", "D", "E"} {
		_, err := r.Save(ctx, newProduct(code, "Acme", "X"))
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		pageable models.Pageable
		codes    []string
	}{
		{"first page", models.Pageable{Page: 0, Size: 2}, []string{"E", "D"}},
		{"second page", models.Pageable{Page: 1, Size: 2}, []string{"C", "B"}},
		{"last partial page", models.Pageable{Page: 2, Size: 2}, []string{"A"}},
		{"past the end", models.Pageable{Page: 5, Size: 2}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.FindAllActive(ctx, tt.pageable)
			require.NoError(t, err)

			codes := []string{}
			for _, prod := range p.Content {
				codes = append(codes, prod.Code)
			}
			assert.Equal(t, tt.codes, codes)
			assert.Equal(t, int64(5), p.TotalElements)
			assert.Equal(t, 3, p.TotalPages)
		})
	}
}

func TestInMemoryWithTx_RollsBackOnError(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.WithTx(ctx, func(tx ProductRepository) error {
		if _, err := tx.Save(ctx, newProduct("P1", "Acme", "X1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, r.All())

	err = r.WithTx(ctx, func(tx ProductRepository) error {
		_, err := tx.Save(ctx, newProduct("P1", "Acme", "X1"))
		return err
	})
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].ID, "rolled back inserts must not consume ids")
}

func TestInMemoryMetrics(t *testing.T) {
	r := NewInMemoryProductRepository()
	ctx := context.Background()

	p1 := newProduct("P1", "Acme", "X1")
	p1.Stock = 0
	_, _ = r.Save(ctx, p1)
	_, _ = r.Save(ctx, newProduct("P2", "Acme", "X2"))
	p3, _ := r.Save(ctx, newProduct("P3", "Acme", "X3"))
	p3.Status = models.StatusInactive
	_, _ = r.Save(ctx, p3)

	m := NewInMemoryMetricsRepository()
	m.SetRepositories(r)

	got, err := m.GetDashboardMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, Metrics{ActiveProducts: 2, InactiveProducts: 1, TotalStock: 3, OutOfStockCount: 1}, got)
}
