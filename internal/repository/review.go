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

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error)
	AverageRating(ctx context.Context, productID uuid.UUID) (float64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgReviewRepo struct{ pool *pgxpool.Pool }

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &pgReviewRepo{pool: pool}
}

func (r *pgReviewRepo) Create(ctx context.Context, review *model.Review) error {
	review.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`,
		review.ID, review.UserID, review.ProductID, review.Rating, review.Comment,
	).Scan(&review.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review := &model.Review{}
	err := r.pool.QueryRow(ctx,
		`SELECT r.id, r.user_id, u.username, r.product_id, r.rating, r.comment, r.created_at
		 FROM reviews r JOIN users u ON u.id = r.user_id
		 WHERE r.id = $1`, id,
	).Scan(
		&review.ID, &review.UserID, &review.Username, &review.ProductID,
		&review.Rating, &review.Comment, &review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return review, nil
}

func (r *pgReviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, u.username, r.product_id, r.rating, r.comment, r.created_at
		 FROM reviews r JOIN users u ON u.id = r.user_id
		 WHERE r.product_id = $1
		 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var review model.Review
		if err := rows.Scan(
			&review.ID, &review.UserID, &review.Username, &review.ProductID,
			&review.Rating, &review.Comment, &review.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

func (r *pgReviewRepo) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	var avg float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE product_id = $1`, productID,
	).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

func (r *pgReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
