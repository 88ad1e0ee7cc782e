package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/combatessentials/api/internal/dto"
	"github.com/combatessentials/api/internal/model"
	"github.com/combatessentials/api/internal/repository"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrNotReviewAuthor = errors.New("not the author of this review")
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo}
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page int) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, dto.ReviewResponse{
			ID:        r.ID,
			UserID:    r.UserID,
			Username:  r.Username,
			ProductID: r.ProductID,
			Rating:    r.Rating,
			Comment:   r.Comment,
		})
	}
	return items, nil
}

// AverageRating is 0.0 for a product with no reviews.
func (s *ReviewService) AverageRating(ctx context.Context, productID uuid.UUID) (float64, error) {
	avg, err := s.reviewRepo.AverageRating(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

// Add places no uniqueness constraint: a user may review the same product
// more than once.
func (s *ReviewService) Add(ctx context.Context, userID uuid.UUID, req dto.AddReviewRequest) error {
	review := &model.Review{
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return fmt.Errorf("add review: %w", err)
	}
	return nil
}

// Delete is restricted to the review's author.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if review.UserID != userID {
		return ErrNotReviewAuthor
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}
