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
	ErrUnauthenticated       = errors.New("user is not authenticated")
	ErrDuplicateWishlistItem = errors.New("product is already in the wishlist")
	ErrWishlistItemNotFound  = errors.New("product not found in wishlist")
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID, page int) (*dto.WishlistResponse, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	items, total, err := s.wishlistRepo.ListByUser(ctx, userID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}

	products := make([]dto.ProductResponse, 0, len(items))
	for i := range items {
		products = append(products, toProductResponse(&items[i].Product))
	}
	return &dto.WishlistResponse{Products: products, Total: total, Page: page, PageSize: PageSize}, nil
}

func (s *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	product, err := s.productRepo.GetByID(ctx, productID, false)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	exists, err := s.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("check wishlist: %w", err)
	}
	if exists {
		return ErrDuplicateWishlistItem
	}

	return s.wishlistRepo.Add(ctx, &model.WishlistItem{UserID: userID, ProductID: productID})
}

// Remove fails with the same not-found error whether the pair never existed
// or belongs to a different user; other users' wishlists are not revealed.
func (s *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}

	exists, err := s.wishlistRepo.Exists(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("check wishlist: %w", err)
	}
	if !exists {
		return ErrWishlistItemNotFound
	}
	return s.wishlistRepo.Remove(ctx, userID, productID)
}
