package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/combatessentials/api/internal/model"
)

// ProductFilter narrows List results. A nil CategoryID and empty Name match
// everything. IncludeDeleted must be stated by every caller so that
// soft-deleted products never leak into a listing by omission.
type ProductFilter struct {
	CategoryID     *uuid.UUID
	Name           string
	IncludeDeleted bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error)
	List(ctx context.Context, limit, offset int, filter ProductFilter) ([]model.Product, int, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	Random(ctx context.Context, count int) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

const productColumns = `p.id, p.name, p.description, p.price, p.category_id, c.name,
			  p.image_url, p.status, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.CategoryName,
		&p.ImageURL, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	product.Status = model.ProductStatusActive
	query := `INSERT INTO products (id, name, description, price, category_id, image_url, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.CategoryID, product.ImageURL, product.Status,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
			  FROM products p JOIN categories c ON c.id = p.category_id
			  WHERE p.id = $1 AND ($2 OR p.status = 'active')`
	p := &model.Product{}
	err := scanProduct(r.pool.QueryRow(ctx, query, id, includeDeleted), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, limit, offset int, filter ProductFilter) ([]model.Product, int, error) {
	where := `($1 OR p.status = 'active')
		AND ($2::uuid IS NULL OR p.category_id = $2)
		AND ($3 = '' OR p.name ILIKE '%' || $3 || '%')`

	var catID any
	if filter.CategoryID != nil {
		catID = *filter.CategoryID
	}

	var total int
	countQ := `SELECT COUNT(*) FROM products p WHERE ` + where
	if err := r.pool.QueryRow(ctx, countQ, filter.IncludeDeleted, catID, filter.Name).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + `
		FROM products p JOIN categories c ON c.id = p.category_id
		WHERE ` + where + `
		ORDER BY p.created_at, p.id LIMIT $4 OFFSET $5`

	rows, err := r.pool.Query(ctx, query, filter.IncludeDeleted, catID, filter.Name, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, nil
}

func (r *pgProductRepo) ListAll(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
			  FROM products p JOIN categories c ON c.id = p.category_id
			  ORDER BY p.created_at, p.id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *pgProductRepo) Random(ctx context.Context, count int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
			  FROM products p JOIN categories c ON c.id = p.category_id
			  WHERE p.status = 'active'
			  ORDER BY random() LIMIT $1`
	rows, err := r.pool.Query(ctx, query, count)
	if err != nil {
		return nil, fmt.Errorf("random products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET name=$2, description=$3, price=$4, category_id=$5, image_url=$6, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.CategoryID, product.ImageURL,
	).Scan(&product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) SetStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE products SET status = $2, updated_at = NOW() WHERE id = $1`, id, status,
	)
	if err != nil {
		return fmt.Errorf("set product status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
