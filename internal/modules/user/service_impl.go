package user

import (
	"context"
	"strings"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, log *zap.Logger) Service {
	return &service{repo: repo, log: log}
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *service) CreateUser(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*User, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.checkStoreAssignment(ctx, req.Role, req.StoreID); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	u := &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
		Role:         req.Role,
		StoreID:      req.StoreID,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("username", u.Username),
		zap.String("role", string(u.Role)))
	return u, nil
}

func (s *service) UpdateUser(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateUserRequest) (*User, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkStoreAssignment(ctx, req.Role, req.StoreID); err != nil {
		return nil, err
	}

	u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	u.Role = req.Role
	u.StoreID = req.StoreID
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Password != "" {
		hashed, err := HashPassword(req.Password)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		u.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, actor identity.Actor, id uuid.UUID) (*User, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, actor identity.Actor) ([]*User, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// checkStoreAssignment pins store managers to an existing store and keeps
// every other role storeless.
func (s *service) checkStoreAssignment(ctx context.Context, role identity.Role, storeID *uuid.UUID) error {
	if !role.Valid() {
		return apperr.Validation("Invalid role %q.", role)
	}
	if role != identity.RoleStoreManager {
		if storeID != nil {
			return apperr.Validation("Only store managers can be assigned to a store.")
		}
		return nil
	}
	if storeID == nil {
		return apperr.Validation("Store managers must be assigned to a store.")
	}
	ok, err := s.repo.StoreExists(ctx, *storeID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("Store")
	}
	return nil
}
