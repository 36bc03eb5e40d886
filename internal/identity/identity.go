// Package identity describes who is calling. Commands take an Actor explicitly
// and decide for themselves whether the caller may proceed.
package identity

import (
	"context"

	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/google/uuid"
)

// Role is a user's system-wide role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleStoreManager Role = "store_manager"
	RoleSupplier     Role = "supplier"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStoreManager, RoleSupplier:
		return true
	}
	return false
}

// Actor is the authenticated caller. StoreID is set only for store managers.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	StoreID  *uuid.UUID
}

// Require fails with Forbidden unless the actor holds one of roles.
func (a Actor) Require(roles ...Role) error {
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("You do not have permission to perform this action.")
}

// RequireStore lets admins through and pins store managers to their own store.
func (a Actor) RequireStore(storeID uuid.UUID) error {
	switch a.Role {
	case RoleAdmin:
		return nil
	case RoleStoreManager:
		if a.StoreID != nil && *a.StoreID == storeID {
			return nil
		}
	}
	return apperr.Forbidden("You do not have permission to access this store.")
}

// ScopeStore returns the store a read view must be restricted to, or nil for unrestricted.
func (a Actor) ScopeStore() *uuid.UUID {
	if a.Role == RoleStoreManager {
		return a.StoreID
	}
	return nil
}

// ManagedStore returns the store a manager is pinned to.
func (a Actor) ManagedStore() (uuid.UUID, error) {
	if err := a.Require(RoleStoreManager); err != nil {
		return uuid.Nil, err
	}
	if a.StoreID == nil {
		return uuid.Nil, apperr.Forbidden("Your account is not assigned to a store.")
	}
	return *a.StoreID, nil
}

type ctxKey struct{}

// WithActor stores the actor on ctx. Only the HTTP layer uses this.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor placed by the auth middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
