package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/user"
	"github.com/georgemunganga/stylane-backend/internal/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errInvalidCredentials = apperr.Unauthorized("Invalid username or password.")

type service struct {
	userRepo  user.Repository
	blacklist TokenBlacklist
	notifier  notify.Notifier
	log       *zap.Logger
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewService creates a new auth service.
func NewService(userRepo user.Repository, blacklist TokenBlacklist, notifier notify.Notifier, log *zap.Logger, secret string, ttl time.Duration) Service {
	return &service{
		userRepo:  userRepo,
		blacklist: blacklist,
		notifier:  notifier,
		log:       log,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive || !u.CheckPassword(password) {
		s.log.Info("login rejected", zap.String("username", username))
		return nil, errInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
		Username: u.Username,
		Role:     u.Role,
	}
	if u.StoreID != nil {
		claims.StoreID = u.StoreID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.log.Info("user logged in", zap.String("user_id", u.ID.String()), zap.String("role", string(u.Role)))
	s.notifier.Notify(ctx, "User Login", fmt.Sprintf("User %s has logged in.", u.Username))

	return &LoginResult{Token: tokenString, ExpiresAt: expiresAt, User: u}, nil
}

func (s *service) Logout(ctx context.Context, claims *Claims) error {
	ttl := time.Unix(claims.ExpiresAt, 0).Sub(s.now())
	if err := s.blacklist.Revoke(ctx, claims.Id, ttl); err != nil {
		return apperr.Internal(err)
	}
	s.log.Info("user logged out", zap.String("user_id", claims.Subject))
	return nil
}

// ParseToken verifies the signature, expiry and revocation state of token and
// refreshes the identity fields from the user record.
func (s *service) ParseToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperr.Unauthorized("Token has expired.")
		}
		return nil, apperr.Unauthorized("Invalid token.")
	}
	if claims.Id == "" || !claims.Role.Valid() {
		return nil, apperr.Unauthorized("Invalid token.")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.Id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if revoked {
		return nil, apperr.Unauthorized("Token has been revoked.")
	}

	// Role and store come from the account as it is now, not as it was at login.
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token.")
	}
	u, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("Invalid token.")
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, apperr.Unauthorized("Account is disabled.")
	}
	claims.Username = u.Username
	claims.Role = u.Role
	claims.StoreID = ""
	if u.StoreID != nil {
		claims.StoreID = u.StoreID.String()
	}
	return claims, nil
}

func (s *service) Me(ctx context.Context, actor identity.Actor) (*user.User, error) {
	return s.userRepo.GetByID(ctx, actor.UserID)
}
