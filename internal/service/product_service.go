package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

// ProductService owns the product lifecycle: code uniqueness among active
// rows, soft-delete visibility and entity/DTO translation.
type ProductService struct {
	store  repo.ProductStore
	logger *slog.Logger
	now    func() time.Time
}

func NewProductService(store repo.ProductStore, logger *slog.Logger) *ProductService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductService{store: store, logger: logger, now: time.Now}
}

// SetClock replaces the clock used to stamp modifiedAt.
func (s *ProductService) SetClock(now func() time.Time) {
	s.now = now
}

// Create persists a new active product. The store assigns id, status and
// createdAt.
func (s *ProductService) Create(ctx context.Context, dto ProductDTO) (ProductDTO, error) {
	if strings.TrimSpace(dto.Code) == "" {
		return ProductDTO{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	var created models.Product
	err := s.store.WithTx(ctx, func(tx repo.ProductRepository) error {
		if err := validateUniqueCode(ctx, tx, dto.Code, nil); err != nil {
			return err
		}
		saved, err := tx.Save(ctx, toEntity(dto))
		if err != nil {
			return storeError(err, dto.Code)
		}
		created = saved
		return nil
	})
	if err != nil {
		return ProductDTO{}, err
	}

	s.logger.Info("product created", slog.Int64("id", created.ID), slog.String("code", created.Code))
	return toDTO(created), nil
}

// List returns one page of active products, newest first. Blank filters are
// ignored; brand and model match as case-insensitive substrings.
func (s *ProductService) List(ctx context.Context, brand, model string, page, size int) (models.Page[ProductDTO], error) {
	if page < 0 || size < 1 || page > math.MaxInt/size-1 {
		return models.Page[ProductDTO]{}, fmt.Errorf("%w: page=%d size=%d", ErrInvalidPagination, page, size)
	}
	pageable := models.Pageable{Page: page, Size: size}
	brand = strings.TrimSpace(brand)
	model = strings.TrimSpace(model)

	var (
		result models.Page[models.Product]
		err    error
	)
	switch {
	case brand != "" && model != "":
		result, err = s.store.FindActiveByBrandAndModelContains(ctx, brand, model, pageable)
	case brand != "":
		result, err = s.store.FindActiveByBrandContains(ctx, brand, pageable)
	case model != "":
		result, err = s.store.FindActiveByModelContains(ctx, model, pageable)
	default:
		result, err = s.store.FindAllActive(ctx, pageable)
	}
	if err != nil {
		return models.Page[ProductDTO]{}, fmt.Errorf("list products: %w", err)
	}

	return models.MapPage(result, toDTO), nil
}

// GetByID returns an active product. Inactive rows are reported exactly like
// missing ones.
func (s *ProductService) GetByID(ctx context.Context, id int64) (ProductDTO, error) {
	p, err := findVisible(ctx, s.store, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toDTO(p), nil
}

// Update overwrites the writable fields of an active product and stamps
// modifiedAt. Status and createdAt are left untouched.
func (s *ProductService) Update(ctx context.Context, id int64, dto ProductDTO) (ProductDTO, error) {
	if strings.TrimSpace(dto.Code) == "" {
		return ProductDTO{}, fmt.Errorf("%w: code is required", ErrInvalidInput)
	}

	var updated models.Product
	err := s.store.WithTx(ctx, func(tx repo.ProductRepository) error {
		p, err := findVisible(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := validateUniqueCode(ctx, tx, dto.Code, &id); err != nil {
			return err
		}

		applyWritable(&p, dto)
		p.ModifiedAt = s.stamp(p.CreatedAt)

		saved, err := tx.Save(ctx, p)
		if err != nil {
			return storeError(err, dto.Code)
		}
		updated = saved
		return nil
	})
	if err != nil {
		return ProductDTO{}, err
	}

	s.logger.Info("product updated", slog.Int64("id", updated.ID), slog.String("code", updated.Code))
	return toDTO(updated), nil
}

// Delete flips an active product to inactive. Rows are never removed, and
// deleting an inactive product fails like deleting a missing one.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.store.WithTx(ctx, func(tx repo.ProductRepository) error {
		p, err := findVisible(ctx, tx, id)
		if err != nil {
			return err
		}

		p.Status = models.StatusInactive
		p.ModifiedAt = s.stamp(p.CreatedAt)

		if _, err := tx.Save(ctx, p); err != nil {
			return storeError(err, p.Code)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("product deactivated", slog.Int64("id", id))
	return nil
}

// stamp returns the modification time, never earlier than createdAt.
func (s *ProductService) stamp(createdAt time.Time) *time.Time {
	now := s.now()
	if now.Before(createdAt) {
		now = createdAt
	}
	return &now
}

// findVisible is the single visibility rule for id lookups.
func findVisible(ctx context.Context, r repo.ProductRepository, id int64) (models.Product, error) {
	p, err := r.FindByID(ctx, id)
	if errors.Is(err, repo.ErrProductNotFound) || (err == nil && !p.IsActive()) {
		return models.Product{}, fmt.Errorf("%w with id: %d", ErrProductNotFound, id)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product %d: %w", id, err)
	}
	return p, nil
}

// validateUniqueCode fails when an active product other than excludeID holds
// code. The store's partial unique index is the actual guarantee.
func validateUniqueCode(ctx context.Context, r repo.ProductRepository, code string, excludeID *int64) error {
	existing, err := r.FindActiveByCode(ctx, code)
	if errors.Is(err, repo.ErrProductNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("check code %q: %w", code, err)
	}
	if excludeID == nil || existing.ID != *excludeID {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}
	return nil
}

// storeError reports a unique violation lost to a concurrent writer as a
// conflict and wraps everything else.
func storeError(err error, code string) error {
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
	}
	return fmt.Errorf("save product: %w", err)
}
