package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/product-catalog/internal/db"
	"github.com/rogerio-castellano/product-catalog/internal/models"
)

const (
	queryTimeout        = 3 * time.Second
	uniqueViolationCode = "23505"
	productColumns      = `id, code, name, brand, model, price, stock, status, created_at, modified_at`
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresProductRepository struct {
	db *sql.DB
	q  querier
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, q: db}
}

// WithTx runs fn inside a single database transaction. The transaction is
// rolled back on every path that does not reach Commit.
func (r *PostgresProductRepository) WithTx(ctx context.Context, fn func(ProductRepository) error) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&PostgresProductRepository{db: r.db, q: tx})
	})
}

func (r *PostgresProductRepository) FindActiveByCode(ctx context.Context, code string) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE code = $1 AND status = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.q.QueryRowContext(ctx, query, code, string(models.StatusActive)).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) FindByID(ctx context.Context, id int64) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.q.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) FindAllActive(ctx context.Context, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter("", ""), p)
}

func (r *PostgresProductRepository) FindActiveByBrandContains(ctx context.Context, brand string, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter(brand, ""), p)
}

func (r *PostgresProductRepository) FindActiveByModelContains(ctx context.Context, model string, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter("", model), p)
}

func (r *PostgresProductRepository) FindActiveByBrandAndModelContains(ctx context.Context, brand, model string, p models.Pageable) (models.Page[models.Product], error) {
	return r.Filter(ctx, activeFilter(brand, model), p)
}

// Filter returns one page of rows matching pf, newest first, together with
// the total number of matching rows.
func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter, p models.Pageable) (models.Page[models.Product], error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int64
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return models.Page[models.Product]{}, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions
	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, p.Size, p.Offset())

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return models.Page[models.Product]{}, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		prod, err := scanProduct(rows.Scan)
		if err != nil {
			return models.Page[models.Product]{}, err
		}
		products = append(products, prod)
	}
	if err := rows.Err(); err != nil {
		return models.Page[models.Product]{}, err
	}

	return models.NewPage(products, p, total), nil
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(pf.Status))
		argIdx++
	}
	if pf.Brand != "" {
		query += fmt.Sprintf(" AND brand ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(pf.Brand)+"%")
		argIdx++
	}
	if pf.Model != "" {
		query += fmt.Sprintf(" AND model ILIKE $%d", argIdx)
		args = append(args, "%"+escapeLike(pf.Model)+"%")
		argIdx++
	}

	return query, args, argIdx
}

// Save inserts when p.ID is zero, letting the table defaults fill status and
// created_at, and updates otherwise.
func (r *PostgresProductRepository) Save(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		saved models.Product
		err   error
	)
	if p.ID == 0 {
		query := `INSERT INTO products (code, name, brand, model, price, stock)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + productColumns
		saved, err = scanProduct(r.q.QueryRowContext(ctx, query,
			p.Code, p.Name, p.Brand, p.Model, p.Price, p.Stock).Scan)
	} else {
		query := `UPDATE products
			SET code = $1, name = $2, brand = $3, model = $4, price = $5, stock = $6, status = $7, modified_at = $8
			WHERE id = $9
			RETURNING ` + productColumns
		saved, err = scanProduct(r.q.QueryRowContext(ctx, query,
			p.Code, p.Name, p.Brand, p.Model, p.Price, p.Stock, string(p.Status), p.ModifiedAt, p.ID).Scan)
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return models.Product{}, ErrProductNotFound
	case isUniqueViolation(err):
		return models.Product{}, fmt.Errorf("%w: %v", ErrDuplicatedValueUnique, err)
	case err != nil:
		return models.Product{}, fmt.Errorf("save product: %w", err)
	}
	return saved, nil
}

func scanProduct(scan func(...any) error) (models.Product, error) {
	var (
		p          models.Product
		status     string
		modifiedAt sql.NullTime
	)
	err := scan(&p.ID, &p.Code, &p.Name, &p.Brand, &p.Model, &p.Price, &p.Stock, &status, &p.CreatedAt, &modifiedAt)
	if err != nil {
		return models.Product{}, err
	}
	p.Status = models.Status(status)
	if modifiedAt.Valid {
		t := modifiedAt.Time
		p.ModifiedAt = &t
	}
	return p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
