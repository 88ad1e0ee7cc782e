package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/combatessentials/api/internal/dto"
	"github.com/combatessentials/api/internal/model"
	"github.com/combatessentials/api/internal/repository"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo, amqpCh: amqpCh}
}

// Create places an order for a registered user or a guest (invalid userID).
// Every line item snapshots the product's current price; the order total is
// the sum of the line totals. Any unknown product aborts the whole order
// before anything is persisted.
func (s *OrderService) Create(ctx context.Context, userID uuid.NullUUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := &model.Order{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Status:          model.OrderStatusPending,
	}

	total := decimal.Zero
	for _, line := range req.Items {
		// Deleted products stay orderable so carts assembled before a
		// soft delete still check out.
		product, err := s.productRepo.GetByID(ctx, line.ProductID, true)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		order.Items = append(order.Items, model.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductImageURL: product.ImageURL,
			Quantity:        line.Quantity,
			UnitPrice:       product.Price,
			TotalAmount:     lineTotal,
		})
	}
	order.TotalAmount = total

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publishCreated(ctx, order)

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, UserID: order.UserID})
	_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) List(ctx context.Context, page int) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toOrderListResponse(orders, total, page), nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, page int) (*dto.OrderListResponse, error) {
	orders, total, err := s.orderRepo.ListByUserID(ctx, userID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toOrderListResponse(orders, total, page), nil
}

// Update sets the order's status and shipping details. The status string is
// matched case-insensitively against the five known statuses; any known
// status may replace any other.
func (s *OrderService) Update(ctx context.Context, orderID uuid.UUID, req dto.UpdateOrderRequest) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}

	status, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		return ErrInvalidOrderStatus
	}

	order.Status = status
	order.ShippingAddress = req.ShippingAddress
	order.FullName = req.FullName
	order.PhoneNumber = req.PhoneNumber

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

func toOrderListResponse(orders []model.Order, total, page int) *dto.OrderListResponse {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Orders: items, Total: total, Page: page, PageSize: PageSize}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			TotalAmount:     item.TotalAmount,
		})
	}

	resp := dto.OrderResponse{
		ID:              order.ID,
		ShippingAddress: order.ShippingAddress,
		FullName:        order.FullName,
		PhoneNumber:     order.PhoneNumber,
		Status:          string(order.Status),
		TotalAmount:     order.TotalAmount,
		Items:           items,
		CreatedAt:       order.CreatedAt,
	}
	if order.UserID.Valid {
		id := order.UserID.UUID
		resp.UserID = &id
	}
	return resp
}
