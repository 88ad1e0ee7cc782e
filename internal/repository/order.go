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

type OrderRepository interface {
	// Create persists the order and all of its items in one transaction.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, limit, offset int) ([]model.Order, int, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, int, error)
	Update(ctx context.Context, order *model.Order) error
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order.ID = uuid.New()
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, shipping_address, full_name, phone_number, status, total_amount, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`,
		order.ID, order.UserID, order.ShippingAddress, order.FullName,
		order.PhoneNumber, order.Status, order.TotalAmount,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_amount)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			order.Items[i].ID, order.Items[i].OrderID, order.Items[i].ProductID,
			order.Items[i].Quantity, order.Items[i].UnitPrice, order.Items[i].TotalAmount,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, shipping_address, full_name, phone_number, status, total_amount, created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(
		&order.ID, &order.UserID, &order.ShippingAddress, &order.FullName,
		&order.PhoneNumber, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := r.itemsForOrders(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return order, nil
}

func (r *pgOrderRepo) List(ctx context.Context, limit, offset int) ([]model.Order, int, error) {
	return r.list(ctx, uuid.NullUUID{}, limit, offset)
}

func (r *pgOrderRepo) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, int, error) {
	return r.list(ctx, uuid.NullUUID{UUID: userID, Valid: true}, limit, offset)
}

func (r *pgOrderRepo) list(ctx context.Context, userID uuid.NullUUID, limit, offset int) ([]model.Order, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE ($1::uuid IS NULL OR user_id = $1)`, userID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, shipping_address, full_name, phone_number, status, total_amount, created_at, updated_at
		 FROM orders WHERE ($1::uuid IS NULL OR user_id = $1)
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.ShippingAddress, &o.FullName,
			&o.PhoneNumber, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	rows.Close()

	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, total, nil
}

// itemsForOrders loads the items of all given orders in one query, joining
// the current product name/image for display. Price columns come from the
// snapshot, never from the product.
func (r *pgOrderRepo) itemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	items := make(map[uuid.UUID][]model.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, p.name, p.image_url, oi.quantity, oi.unit_price, oi.total_amount
		 FROM order_items oi JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1)`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductImageURL, &item.Quantity, &item.UnitPrice, &item.TotalAmount,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, nil
}

func (r *pgOrderRepo) Update(ctx context.Context, order *model.Order) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, shipping_address = $3, full_name = $4, phone_number = $5, updated_at = NOW()
		 WHERE id = $1`,
		order.ID, order.Status, order.ShippingAddress, order.FullName, order.PhoneNumber,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
