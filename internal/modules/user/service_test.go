package user

import (
	"context"
	"testing"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	users  map[uuid.UUID]*User
	stores map[uuid.UUID]bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: map[uuid.UUID]*User{}, stores: map[uuid.UUID]bool{}}
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return apperr.Conflict("Username already exists.")
		}
		if existing.Email == u.Email {
			return apperr.Conflict("Email already exists.")
		}
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memoryRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return apperr.NotFound("User")
	}
	c := *u
	m.users[u.ID] = &c
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	c := *u
	return &c, nil
}

func (m *memoryRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryRepo) List(_ context.Context) ([]*User, error) {
	out := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memoryRepo) StoreExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.stores[id], nil
}

var admin = identity.Actor{UserID: uuid.New(), Username: "admin", Role: identity.RoleAdmin}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	storeID := uuid.New()
	repo.stores[storeID] = true
	svc := NewService(repo, zap.NewNop())

	t.Run("store manager with store", func(t *testing.T) {
		u, err := svc.CreateUser(ctx, admin, CreateUserRequest{
			Username: "storemanager1", Email: "Manager1@StyleLane.com", Password: "store123",
			Role: identity.RoleStoreManager, StoreID: &storeID,
		})
		require.NoError(t, err)
		assert.Equal(t, "manager1@stylelane.com", u.Email)
		assert.True(t, u.IsActive)
		assert.True(t, u.CheckPassword("store123"))
		assert.False(t, u.CheckPassword("wrong"))
		assert.NotEqual(t, "store123", u.PasswordHash)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, admin, CreateUserRequest{
			Username: "storemanager1", Email: "other@stylane.com", Password: "store123",
			Role: identity.RoleStoreManager, StoreID: &storeID,
		})
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("store manager without store", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, admin, CreateUserRequest{
			Username: "storemanager2", Email: "m2@stylane.com", Password: "store123",
			Role: identity.RoleStoreManager,
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("unknown store", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.CreateUser(ctx, admin, CreateUserRequest{
			Username: "storemanager2", Email: "m2@stylane.com", Password: "store123",
			Role: identity.RoleStoreManager, StoreID: &missing,
		})
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("supplier with store", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, admin, CreateUserRequest{
			Username: "supplier1", Email: "s1@stylane.com", Password: "supplier123",
			Role: identity.RoleSupplier, StoreID: &storeID,
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("non admin", func(t *testing.T) {
		supplier := identity.Actor{UserID: uuid.New(), Role: identity.RoleSupplier}
		_, err := svc.CreateUser(ctx, supplier, CreateUserRequest{
			Username: "x", Email: "x@stylane.com", Password: "secret1", Role: identity.RoleSupplier,
		})
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewService(repo, zap.NewNop())

	u, err := svc.CreateUser(ctx, admin, CreateUserRequest{
		Username: "supplier1", Email: "s1@stylane.com", Password: "supplier123", Role: identity.RoleSupplier,
	})
	require.NoError(t, err)
	oldHash := u.PasswordHash

	inactive := false
	updated, err := svc.UpdateUser(ctx, admin, u.ID, UpdateUserRequest{
		Email: "new@stylane.com", Role: identity.RoleSupplier, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@stylane.com", updated.Email)
	assert.False(t, updated.IsActive)
	assert.Equal(t, oldHash, updated.PasswordHash, "empty password keeps the current hash")

	updated, err = svc.UpdateUser(ctx, admin, u.ID, UpdateUserRequest{
		Email: "new@stylane.com", Role: identity.RoleSupplier, Password: "changed1",
	})
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword("changed1"))

	_, err = svc.UpdateUser(ctx, admin, uuid.New(), UpdateUserRequest{Email: "a@b.com", Role: identity.RoleAdmin})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReadsAreAdminOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryRepo(), zap.NewNop())
	storeID := uuid.New()
	manager := identity.Actor{UserID: uuid.New(), Role: identity.RoleStoreManager, StoreID: &storeID}

	_, err := svc.ListUsers(ctx, manager)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = svc.GetUser(ctx, manager, uuid.New())
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	users, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, users)
}
