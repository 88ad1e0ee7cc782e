package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
}

// --- Category ---

type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// --- Product ---

// CreateProductRequest arrives as multipart form data; the image file is
// read separately from the form.
type CreateProductRequest struct {
	Name        string          `form:"name" binding:"required,max=200"`
	Description string          `form:"description" binding:"max=1000"`
	Price       decimal.Decimal `form:"price" binding:"required"`
	CategoryID  uuid.UUID       `form:"category_id" binding:"required"`
}

type UpdateProductRequest struct {
	Name        string          `form:"name" binding:"required,max=200"`
	Description string          `form:"description" binding:"max=1000"`
	Price       decimal.Decimal `form:"price" binding:"required"`
	CategoryID  uuid.UUID       `form:"category_id" binding:"required"`
}

type ListProductsRequest struct {
	Page       int        `form:"page,default=1" binding:"min=1"`
	CategoryID *uuid.UUID `form:"category_id"`
	Name       string     `form:"name"`
}

type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ImageURL     string          `json:"image_url"`
	Deleted      bool            `json:"deleted,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=100"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=100"`
}

type CartItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
}

// --- Order ---

type CreateOrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=100"`
}

type CreateOrderRequest struct {
	ShippingAddress string                   `json:"shipping_address" binding:"required,max=200"`
	FullName        string                   `json:"full_name" binding:"required,max=100"`
	PhoneNumber     string                   `json:"phone_number" binding:"required,max=20"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Status          string `json:"status" binding:"required"`
	ShippingAddress string `json:"shipping_address" binding:"required,max=200"`
	FullName        string `json:"full_name" binding:"required,max=100"`
	PhoneNumber     string `json:"phone_number" binding:"required,max=20"`
}

type ListOrdersRequest struct {
	Page int `form:"page,default=1" binding:"min=1"`
}

type OrderItemResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductImageURL string          `json:"product_image_url"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	FullName        string              `json:"full_name"`
	PhoneNumber     string              `json:"phone_number"`
	Status          string              `json:"status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Orders   []OrderResponse `json:"orders"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// --- Review ---

type AddReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"max=1000"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	ProductID uuid.UUID `json:"product_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

type RatingResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	AverageRating float64   `json:"average_rating"`
}

// --- Wishlist ---

type AddWishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

type WishlistResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}
