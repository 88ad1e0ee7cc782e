package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Category struct {
	ID   uuid.UUID
	Name string
}

// ProductStatus replaces a bare soft-delete flag so that every read path has
// to state explicitly whether deleted products are included.
type ProductStatus string

const (
	ProductStatusActive  ProductStatus = "active"
	ProductStatusDeleted ProductStatus = "deleted"
)

type Product struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   uuid.UUID
	CategoryName string
	ImageURL     string
	Status       ProductStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Product) Deleted() bool { return p.Status == ProductStatusDeleted }

type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID           uuid.UUID
	CartID       uuid.UUID
	ProductID    uuid.UUID
	ProductName  string
	ProductPrice decimal.Decimal
	Quantity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// ParseOrderStatus matches the five status names case-insensitively.
// Transitions between statuses are deliberately unconstrained: the admin
// endpoint may set any status at any time.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

type Order struct {
	ID              uuid.UUID
	UserID          uuid.NullUUID // invalid for guest checkout
	ShippingAddress string
	FullName        string
	PhoneNumber     string
	Status          OrderStatus
	TotalAmount     decimal.Decimal
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem freezes the product's price at order time. UnitPrice and
// TotalAmount never change afterwards, whatever happens to the product.
type OrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	ProductID       uuid.UUID
	ProductName     string
	ProductImageURL string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalAmount     decimal.Decimal
}

type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Username  string
	ProductID uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Product   Product
	CreatedAt time.Time
}

// OrderMessage is the payload published to the orders queue on checkout.
type OrderMessage struct {
	OrderID uuid.UUID     `json:"order_id"`
	UserID  uuid.NullUUID `json:"user_id"`
}
