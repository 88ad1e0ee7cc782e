package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combatessentials/api/internal/model"
)

type wishlistKey struct {
	userID    uuid.UUID
	productID uuid.UUID
}

type mockWishlistRepo struct {
	entries     map[wishlistKey]bool
	productRepo *mockProductRepo
}

func newMockWishlistRepo(productRepo *mockProductRepo) *mockWishlistRepo {
	return &mockWishlistRepo{entries: make(map[wishlistKey]bool), productRepo: productRepo}
}

func (m *mockWishlistRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]model.WishlistItem, int, error) {
	var all []model.WishlistItem
	for key := range m.entries {
		if key.userID != userID {
			continue
		}
		item := model.WishlistItem{UserID: key.userID, ProductID: key.productID}
		if p, ok := m.productRepo.products[key.productID]; ok {
			item.Product = *p
		}
		all = append(all, item)
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

func (m *mockWishlistRepo) Exists(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	return m.entries[wishlistKey{userID, productID}], nil
}

func (m *mockWishlistRepo) Add(_ context.Context, item *model.WishlistItem) error {
	m.entries[wishlistKey{item.UserID, item.ProductID}] = true
	return nil
}

func (m *mockWishlistRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	delete(m.entries, wishlistKey{userID, productID})
	return nil
}

func newTestWishlistService() (*WishlistService, *mockWishlistRepo, *mockProductRepo) {
	productRepo := newMockProductRepo()
	wishlistRepo := newMockWishlistRepo(productRepo)
	return NewWishlistService(wishlistRepo, productRepo), wishlistRepo, productRepo
}

func TestWishlistService_RequiresAuthentication(t *testing.T) {
	svc, _, _ := newTestWishlistService()

	_, err := svc.List(context.Background(), uuid.Nil, 1)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, svc.Add(context.Background(), uuid.Nil, uuid.New()), ErrUnauthenticated)
	assert.ErrorIs(t, svc.Remove(context.Background(), uuid.Nil, uuid.New()), ErrUnauthenticated)
}

func TestWishlistService_AddAndList(t *testing.T) {
	svc, _, productRepo := newTestWishlistService()
	userID := uuid.New()
	productID := seedProduct(productRepo, "Speed Rope", decimal.NewFromInt(15))

	require.NoError(t, svc.Add(context.Background(), userID, productID))

	resp, err := svc.List(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "Speed Rope", resp.Products[0].Name)
}

func TestWishlistService_Add_ProductNotFound(t *testing.T) {
	svc, _, _ := newTestWishlistService()
	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_Add_DeletedProduct(t *testing.T) {
	svc, _, productRepo := newTestWishlistService()
	productID := seedProduct(productRepo, "Retired", decimal.NewFromInt(10))
	productRepo.products[productID].Status = model.ProductStatusDeleted

	err := svc.Add(context.Background(), uuid.New(), productID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWishlistService_Add_Duplicate(t *testing.T) {
	svc, _, productRepo := newTestWishlistService()
	userID := uuid.New()
	productID := seedProduct(productRepo, "Speed Rope", decimal.NewFromInt(15))

	require.NoError(t, svc.Add(context.Background(), userID, productID))
	err := svc.Add(context.Background(), userID, productID)
	assert.ErrorIs(t, err, ErrDuplicateWishlistItem)
}

func TestWishlistService_Remove(t *testing.T) {
	svc, _, productRepo := newTestWishlistService()
	userID := uuid.New()
	productID := seedProduct(productRepo, "Speed Rope", decimal.NewFromInt(15))
	require.NoError(t, svc.Add(context.Background(), userID, productID))

	require.NoError(t, svc.Remove(context.Background(), userID, productID))

	resp, err := svc.List(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
}

func TestWishlistService_Remove_OtherUsersEntry(t *testing.T) {
	svc, _, productRepo := newTestWishlistService()
	owner := uuid.New()
	productID := seedProduct(productRepo, "Speed Rope", decimal.NewFromInt(15))
	require.NoError(t, svc.Add(context.Background(), owner, productID))

	err := svc.Remove(context.Background(), uuid.New(), productID)
	assert.ErrorIs(t, err, ErrWishlistItemNotFound)
}
