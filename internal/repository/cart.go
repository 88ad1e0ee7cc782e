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

type CartRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error)
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart := &model.Cart{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID,
	).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// GetOrCreate creates the user's cart lazily on first use.
func (r *pgCartRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &model.Cart{ID: uuid.New(), UserID: userID}
	err = r.pool.QueryRow(ctx,
		`INSERT INTO carts (id, user_id, created_at, updated_at) VALUES ($1, $2, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		cart.ID, cart.UserID,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

func (r *pgCartRepo) GetItems(ctx context.Context, cartID uuid.UUID) ([]model.CartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ci.id, ci.cart_id, ci.product_id, p.name, p.price, ci.quantity, ci.created_at, ci.updated_at
		 FROM cart_items ci JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.created_at`, cartID,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.ProductName,
			&item.ProductPrice, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *pgCartRepo) AddItem(ctx context.Context, item *model.CartItem) error {
	item.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cart_items (id, cart_id, product_id, quantity, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING created_at, updated_at`,
		item.ID, item.CartID, item.ProductID, item.Quantity,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1`, itemID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgCartRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
