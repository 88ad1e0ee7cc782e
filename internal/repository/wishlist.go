package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/combatessentials/api/internal/model"
)

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.WishlistItem, int, error)
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Add(ctx context.Context, item *model.WishlistItem) error
	// Remove deletes the (user, product) pair. pgx.ErrNoRows when the pair
	// does not exist for this user, whoever else may have it.
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

func (r *pgWishlistRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.WishlistItem, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count wishlist items: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT w.id, w.user_id, w.product_id, w.created_at,
		        p.id, p.name, p.description, p.price, p.category_id, c.name, p.image_url, p.status
		 FROM wishlist_items w
		 JOIN products p ON p.id = w.product_id
		 JOIN categories c ON c.id = p.category_id
		 WHERE w.user_id = $1
		 ORDER BY w.created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	var items []model.WishlistItem
	for rows.Next() {
		var item model.WishlistItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Description,
			&item.Product.Price, &item.Product.CategoryID, &item.Product.CategoryName,
			&item.Product.ImageURL, &item.Product.Status,
		); err != nil {
			return nil, 0, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (r *pgWishlistRepo) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist item: %w", err)
	}
	return exists, nil
}

func (r *pgWishlistRepo) Add(ctx context.Context, item *model.WishlistItem) error {
	item.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		 VALUES ($1, $2, $3, NOW()) RETURNING created_at`,
		item.ID, item.UserID, item.ProductID,
	).Scan(&item.CreatedAt)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
