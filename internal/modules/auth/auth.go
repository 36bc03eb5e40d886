package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/user"
	"github.com/google/uuid"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *Claims) error
	ParseToken(ctx context.Context, token string) (*Claims, error)
	Me(ctx context.Context, actor identity.Actor) (*user.User, error)
}

// Claims is the JWT payload. Id carries the jti used for revocation.
type Claims struct {
	jwt.StandardClaims
	Username string        `json:"username"`
	Role     identity.Role `json:"role"`
	StoreID  string        `json:"store_id,omitempty"`
}

// Actor converts verified claims into the caller identity.
func (c *Claims) Actor() (identity.Actor, error) {
	uid, err := uuid.Parse(c.Subject)
	if err != nil {
		return identity.Actor{}, err
	}
	a := identity.Actor{UserID: uid, Username: c.Username, Role: c.Role}
	if c.StoreID != "" {
		sid, err := uuid.Parse(c.StoreID)
		if err != nil {
			return identity.Actor{}, err
		}
		a.StoreID = &sid
	}
	return a, nil
}

// LoginResult is returned on successful sign-in.
type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
