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
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrDuplicateCartItem = errors.New("item is already in the cart")
	ErrInvalidQuantity   = errors.New("quantity out of range")
	ErrCartEmpty         = errors.New("cart is already empty")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetItems returns an empty list when the user has no cart yet; the cart
// itself is only created on the first add.
func (s *CartService) GetItems(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return &dto.CartResponse{Items: []dto.CartItemResponse{}}, nil
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	resp := &dto.CartResponse{Items: make([]dto.CartItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
		})
	}
	return resp, nil
}

// AddItem rejects duplicates rather than merging quantities; a product
// appears at most once per cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity < model.CartItemQuantityMin || quantity > model.CartItemQuantityMax {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID, false)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get or create cart: %w", err)
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}
	for _, item := range items {
		if item.ProductID == productID {
			return ErrDuplicateCartItem
		}
	}

	return s.cartRepo.AddItem(ctx, &model.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	if quantity < model.CartItemQuantityMin || quantity > model.CartItemQuantityMax {
		return ErrInvalidQuantity
	}
	if err := s.requireOwnItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.requireOwnItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.cartRepo.DeleteItem(ctx, itemID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return ErrCartEmpty
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}
	if len(items) == 0 {
		return ErrCartEmpty
	}
	return s.cartRepo.Clear(ctx, cart.ID)
}

// requireOwnItem resolves the item through the caller's own cart, so one
// user can never touch another user's cart items.
func (s *CartService) requireOwnItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return ErrCartItemNotFound
	}

	items, err := s.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}
	for _, item := range items {
		if item.ID == itemID {
			return nil
		}
	}
	return ErrCartItemNotFound
}
