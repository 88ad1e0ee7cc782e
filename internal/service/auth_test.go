package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/combatessentials/api/internal/dto"
	"github.com/combatessentials/api/internal/model"
)

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[email], nil
}

func testTokenConfig() TokenConfig {
	return TokenConfig{
		Secret:   "test-secret",
		Issuer:   "combatessentials",
		Audience: "combatessentials-frontend",
		Expiry:   time.Hour,
	}
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokenConfig())

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Equal(t, "test@example.com", resp.User.Username)
	assert.Equal(t, model.RoleUser, resp.User.Role)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokenConfig())

	repo.users["test@example.com"] = &model.User{Email: "test@example.com"}

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123",
		FirstName: "John", LastName: "Doe",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokenConfig())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", Username: "test@example.com",
		Password: string(hashed), Role: model.RoleUser,
	}

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokenConfig())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed),
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testTokenConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_TokenClaims(t *testing.T) {
	repo := newMockUserRepo()
	cfg := testTokenConfig()
	svc := NewAuthService(repo, cfg)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "claims@example.com", Password: "password123",
		FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, "claims@example.com", claims["name"])
	assert.Equal(t, model.RoleUser, claims["role"])
	assert.Equal(t, cfg.Issuer, claims["iss"])
	assert.Equal(t, cfg.Audience, claims["aud"])
	assert.NotEmpty(t, claims["jti"])
}

func TestAuthService_IsAdmin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewAuthService(repo, testTokenConfig())

	admin := &model.User{ID: uuid.New(), Email: "admin@combat.com", Role: model.RoleAdmin}
	user := &model.User{ID: uuid.New(), Email: "user@combat.com", Role: model.RoleUser}
	repo.byID[admin.ID] = admin
	repo.byID[user.ID] = user

	isAdmin, err := svc.IsAdmin(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = svc.IsAdmin(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	_, err = svc.IsAdmin(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
