package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combatessentials/api/internal/model"
)

func seedTestProduct(t *testing.T, categoryID uuid.UUID, name string, price decimal.Decimal) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        name,
		Description: "integration fixture",
		Price:       price,
		CategoryID:  categoryID,
		ImageURL:    "/uploads/fixture.jpg",
	}
	require.NoError(t, NewProductRepository(testPool).Create(context.Background(), product))
	return product
}

func seedTestUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username: email,
		Email:    email,
		Password: "hashed",
		Role:     model.RoleUser,
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), user))
	return user
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "fighter@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.GetByEmail(ctx, "fighter@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, model.RoleUser, found.Role)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_CRUDAndSoftDelete(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "products", "categories")

	repo := NewProductRepository(testPool)
	ctx := context.Background()
	categoryID := seedTestCategory(t, "Gloves")

	product := seedTestProduct(t, categoryID, "Sparring Gloves", decimal.RequireFromString("49.99"))
	assert.NotEqual(t, uuid.Nil, product.ID)

	found, err := repo.GetByID(ctx, product.ID, false)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Sparring Gloves", found.Name)
	assert.Equal(t, "Gloves", found.CategoryName)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("49.99")))

	found.Name = "Sparring Gloves v2"
	require.NoError(t, repo.Update(ctx, found))
	found, err = repo.GetByID(ctx, product.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Sparring Gloves v2", found.Name)

	// Soft delete hides the row unless includeDeleted is set.
	require.NoError(t, repo.SetStatus(ctx, product.ID, model.ProductStatusDeleted))

	hidden, err := repo.GetByID(ctx, product.ID, false)
	require.NoError(t, err)
	assert.Nil(t, hidden)

	kept, err := repo.GetByID(ctx, product.ID, true)
	require.NoError(t, err)
	require.NotNil(t, kept)
	assert.True(t, kept.Deleted())

	require.NoError(t, repo.SetStatus(ctx, product.ID, model.ProductStatusActive))
	restored, err := repo.GetByID(ctx, product.ID, false)
	require.NoError(t, err)
	require.NotNil(t, restored)
}

func TestProductRepo_ListFilters(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "products", "categories")

	repo := NewProductRepository(testPool)
	ctx := context.Background()
	gloves := seedTestCategory(t, "Gloves")
	headgear := seedTestCategory(t, "Headgear")

	seedTestProduct(t, gloves, "Boxing Gloves", decimal.NewFromInt(40))
	seedTestProduct(t, gloves, "MMA Gloves", decimal.NewFromInt(35))
	headguard := seedTestProduct(t, headgear, "Headguard", decimal.NewFromInt(50))
	require.NoError(t, repo.SetStatus(ctx, headguard.ID, model.ProductStatusDeleted))

	// Public view excludes the deleted row.
	products, total, err := repo.List(ctx, 15, 0, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, products, 2)

	// Admin view includes it.
	_, total, err = repo.List(ctx, 15, 0, ProductFilter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	// Category filter.
	_, total, err = repo.List(ctx, 15, 0, ProductFilter{CategoryID: &gloves})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// Case-insensitive name filter.
	_, total, err = repo.List(ctx, 15, 0, ProductFilter{Name: "mma"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// Random never returns deleted rows and caps at the table size.
	random, err := repo.Random(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, random, 2)
}

func TestCartRepo_Lifecycle(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	cartRepo := NewCartRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "cart@example.com")
	categoryID := seedTestCategory(t, "Wraps")
	product := seedTestProduct(t, categoryID, "Hand Wraps", decimal.RequireFromString("8.50"))

	none, err := cartRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	cart, err := cartRepo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	again, err := cartRepo.GetOrCreate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	require.NoError(t, cartRepo.AddItem(ctx, &model.CartItem{
		CartID: cart.ID, ProductID: product.ID, Quantity: 2,
	}))

	items, err := cartRepo.GetItems(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Hand Wraps", items[0].ProductName)
	assert.True(t, items[0].ProductPrice.Equal(decimal.RequireFromString("8.50")))

	require.NoError(t, cartRepo.UpdateItemQuantity(ctx, items[0].ID, 5))
	items, err = cartRepo.GetItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)

	require.NoError(t, cartRepo.Clear(ctx, cart.ID))
	items, err = cartRepo.GetItems(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepo_CreateAndList(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	orderRepo := NewOrderRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "order@example.com")
	categoryID := seedTestCategory(t, "Gloves")
	product := seedTestProduct(t, categoryID, "Gloves", decimal.RequireFromString("10.00"))

	order := &model.Order{
		UserID:          uuid.NullUUID{UUID: user.ID, Valid: true},
		ShippingAddress: "12 Ring Road",
		FullName:        "Jo Fighter",
		PhoneNumber:     "+1234567",
		Status:          model.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("20.00"),
		Items: []model.OrderItem{{
			ProductID:   product.ID,
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("10.00"),
			TotalAmount: decimal.RequireFromString("20.00"),
		}},
	}
	require.NoError(t, orderRepo.Create(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.ID)

	found, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.OrderStatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Gloves", found.Items[0].ProductName)
	assert.True(t, found.Items[0].TotalAmount.Equal(decimal.RequireFromString("20.00")))

	mine, total, err := orderRepo.ListByUserID(ctx, user.ID, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, mine, 1)

	// Guest order has no user id and shows up only in the admin listing.
	guest := &model.Order{
		ShippingAddress: "34 Dojo Lane",
		FullName:        "Guest Buyer",
		PhoneNumber:     "+7654321",
		Status:          model.OrderStatusPending,
		TotalAmount:     decimal.RequireFromString("10.00"),
		Items: []model.OrderItem{{
			ProductID:   product.ID,
			Quantity:    1,
			UnitPrice:   decimal.RequireFromString("10.00"),
			TotalAmount: decimal.RequireFromString("10.00"),
		}},
	}
	require.NoError(t, orderRepo.Create(ctx, guest))

	all, total, err := orderRepo.List(ctx, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, all, 2)

	_, total, err = orderRepo.ListByUserID(ctx, user.ID, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// Status update.
	found.Status = model.OrderStatusShipped
	require.NoError(t, orderRepo.Update(ctx, found))
	updated, err := orderRepo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)
}

func TestReviewRepo_AverageRating(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	repo := NewReviewRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "reviewer@example.com")
	categoryID := seedTestCategory(t, "Gloves")
	product := seedTestProduct(t, categoryID, "Gloves", decimal.NewFromInt(40))

	avg, err := repo.AverageRating(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, avg)

	for _, rating := range []int{5, 3, 4} {
		require.NoError(t, repo.Create(ctx, &model.Review{
			UserID: user.ID, ProductID: product.ID, Rating: rating,
		}))
	}

	avg, err = repo.AverageRating(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, avg, 1e-9)

	reviews, err := repo.ListByProduct(ctx, product.ID, 15, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	assert.Equal(t, "reviewer@example.com", reviews[0].Username)
}

func TestWishlistRepo_AddExistsRemove(t *testing.T) {
	cleanupTable(t, "reviews", "wishlist_items", "order_items", "orders", "cart_items", "carts", "products", "categories", "users")

	repo := NewWishlistRepository(testPool)
	ctx := context.Background()

	user := seedTestUser(t, "wish@example.com")
	categoryID := seedTestCategory(t, "Gloves")
	product := seedTestProduct(t, categoryID, "Gloves", decimal.NewFromInt(40))

	exists, err := repo.Exists(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Add(ctx, &model.WishlistItem{UserID: user.ID, ProductID: product.ID}))

	exists, err = repo.Exists(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	items, total, err := repo.ListByUser(ctx, user.ID, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Gloves", items[0].Product.Name)

	require.NoError(t, repo.Remove(ctx, user.ID, product.ID))
	exists, err = repo.Exists(ctx, user.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
