package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combatessentials/api/internal/dto"
	"github.com/combatessentials/api/internal/model"
)

type mockOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	cp.Items = append([]model.OrderItem(nil), order.Items...)
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *order
	cp.Items = append([]model.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (m *mockOrderRepo) List(_ context.Context, limit, offset int) ([]model.Order, int, error) {
	return m.list(uuid.NullUUID{}, limit, offset)
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, int, error) {
	return m.list(uuid.NullUUID{UUID: userID, Valid: true}, limit, offset)
}

func (m *mockOrderRepo) list(userID uuid.NullUUID, limit, offset int) ([]model.Order, int, error) {
	var all []model.Order
	for _, order := range m.orders {
		if userID.Valid && order.UserID != userID {
			continue
		}
		all = append(all, *order)
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *model.Order) error {
	stored, ok := m.orders[order.ID]
	if !ok {
		return nil
	}
	stored.Status = order.Status
	stored.ShippingAddress = order.ShippingAddress
	stored.FullName = order.FullName
	stored.PhoneNumber = order.PhoneNumber
	return nil
}

func newTestOrderService() (*OrderService, *mockOrderRepo, *mockProductRepo) {
	orderRepo := newMockOrderRepo()
	productRepo := newMockProductRepo()
	return NewOrderService(orderRepo, productRepo, nil), orderRepo, productRepo
}

func asUser(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func TestOrderService_Create_SnapshotsPricesAndTotals(t *testing.T) {
	svc, _, productRepo := newTestOrderService()
	gloves := seedProduct(productRepo, "Gloves", decimal.RequireFromString("10.00"))
	pads := seedProduct(productRepo, "Pads", decimal.RequireFromString("15.00"))

	resp, err := svc.Create(context.Background(), asUser(uuid.New()), dto.CreateOrderRequest{
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: gloves, Quantity: 2},
			{ProductID: pads, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, string(model.OrderStatusPending), resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("35.00")), "got total %s", resp.TotalAmount)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, resp.Items[0].TotalAmount.Equal(decimal.RequireFromString("20.00")))
	assert.True(t, resp.Items[1].TotalAmount.Equal(decimal.RequireFromString("15.00")))
}

func TestOrderService_Create_UnknownProductPersistsNothing(t *testing.T) {
	svc, orderRepo, productRepo := newTestOrderService()
	known := seedProduct(productRepo, "Gloves", decimal.NewFromInt(10))

	_, err := svc.Create(context.Background(), asUser(uuid.New()), dto.CreateOrderRequest{
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
		Items: []dto.CreateOrderItemRequest{
			{ProductID: known, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_Create_DeletedProductStillOrderable(t *testing.T) {
	svc, _, productRepo := newTestOrderService()
	productID := seedProduct(productRepo, "Retired Gloves", decimal.NewFromInt(20))
	productRepo.products[productID].Status = model.ProductStatusDeleted

	resp, err := svc.Create(context.Background(), asUser(uuid.New()), dto.CreateOrderRequest{
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
		Items:           []dto.CreateOrderItemRequest{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(20)))
}

func TestOrderService_Create_Guest(t *testing.T) {
	svc, _, productRepo := newTestOrderService()
	productID := seedProduct(productRepo, "Gloves", decimal.NewFromInt(10))

	resp, err := svc.Create(context.Background(), uuid.NullUUID{}, dto.CreateOrderRequest{
		ShippingAddress: "12 Ring Road",
		FullName:        "Guest Buyer",
		PhoneNumber:     "+1234567",
		Items:           []dto.CreateOrderItemRequest{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Nil(t, resp.UserID)
}

func TestOrderService_Update_Status(t *testing.T) {
	svc, orderRepo, productRepo := newTestOrderService()
	productID := seedProduct(productRepo, "Gloves", decimal.NewFromInt(10))

	created, err := svc.Create(context.Background(), asUser(uuid.New()), dto.CreateOrderRequest{
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
		Items:           []dto.CreateOrderItemRequest{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	// Status strings are matched case-insensitively.
	req := dto.UpdateOrderRequest{
		Status:          "shipped",
		ShippingAddress: "34 Dojo Lane",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+7654321",
	}
	require.NoError(t, svc.Update(context.Background(), created.ID, req))

	stored := orderRepo.orders[created.ID]
	assert.Equal(t, model.OrderStatusShipped, stored.Status)
	assert.Equal(t, "34 Dojo Lane", stored.ShippingAddress)

	// Re-applying the same status is a no-op, not an error.
	require.NoError(t, svc.Update(context.Background(), created.ID, req))
	assert.Equal(t, model.OrderStatusShipped, orderRepo.orders[created.ID].Status)
}

func TestOrderService_Update_InvalidStatus(t *testing.T) {
	svc, orderRepo, productRepo := newTestOrderService()
	productID := seedProduct(productRepo, "Gloves", decimal.NewFromInt(10))

	created, err := svc.Create(context.Background(), asUser(uuid.New()), dto.CreateOrderRequest{
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
		Items:           []dto.CreateOrderItemRequest{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = svc.Update(context.Background(), created.ID, dto.UpdateOrderRequest{
		Status:          "Teleported",
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
	})
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	assert.Equal(t, model.OrderStatusPending, orderRepo.orders[created.ID].Status)
}

func TestOrderService_Update_NotFound(t *testing.T) {
	svc, _, _ := newTestOrderService()
	err := svc.Update(context.Background(), uuid.New(), dto.UpdateOrderRequest{Status: "Shipped"})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := newTestOrderService()
	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_ListByUser(t *testing.T) {
	svc, _, productRepo := newTestOrderService()
	productID := seedProduct(productRepo, "Gloves", decimal.NewFromInt(10))
	mine := uuid.New()
	other := uuid.New()

	for _, user := range []uuid.UUID{mine, mine, other} {
		_, err := svc.Create(context.Background(), asUser(user), dto.CreateOrderRequest{
			ShippingAddress: "12 Ring Road",
			FullName:        "Jo Fighter",
			PhoneNumber:     "+1234567",
			Items:           []dto.CreateOrderItemRequest{{ProductID: productID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	resp, err := svc.ListByUser(context.Background(), mine, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Orders, 2)
}
