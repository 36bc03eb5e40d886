package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/stylane-backend/internal/apperr"
	"github.com/georgemunganga/stylane-backend/internal/identity"
	"github.com/georgemunganga/stylane-backend/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type stubUsers struct {
	user.Repository
	byName map[string]*user.User
}

func (s *stubUsers) GetByUsername(_ context.Context, username string) (*user.User, error) {
	u, ok := s.byName[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return u, nil
}

func (s *stubUsers) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range s.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, subject, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	n.messages = append(n.messages, message)
}

func newUser(t *testing.T, username, password string, role identity.Role, storeID *uuid.UUID) *user.User {
	t.Helper()
	hash, err := user.HashPassword(password)
	require.NoError(t, err)
	return &user.User{ID: uuid.New(), Username: username, PasswordHash: hash, Role: role, StoreID: storeID, IsActive: true}
}

type fixture struct {
	svc       Service
	notifier  *recordingNotifier
	blacklist *MemoryBlacklist
	manager   *user.User
	storeID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	storeID := uuid.New()
	manager := newUser(t, "storemanager1", "store123", identity.RoleStoreManager, &storeID)
	disabled := newUser(t, "supplier2", "supplier123", identity.RoleSupplier, nil)
	disabled.IsActive = false

	repo := &stubUsers{byName: map[string]*user.User{
		manager.Username:  manager,
		disabled.Username: disabled,
	}}
	n := &recordingNotifier{}
	bl := NewMemoryBlacklist()
	return &fixture{
		svc:       NewService(repo, bl, n, zap.NewNop(), testSecret, time.Hour),
		notifier:  n,
		blacklist: bl,
		manager:   manager,
		storeID:   storeID,
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "storemanager1", "store123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, f.manager.ID, res.User.ID)
	assert.Equal(t, []string{"User Login"}, f.notifier.subjects)
	assert.Equal(t, []string{"User storemanager1 has logged in."}, f.notifier.messages)

	claims, err := f.svc.ParseToken(ctx, res.Token)
	require.NoError(t, err)
	actor, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, identity.RoleStoreManager, actor.Role)
	require.NotNil(t, actor.StoreID)
	assert.Equal(t, f.storeID, *actor.StoreID)

	for name, tc := range map[string][2]string{
		"wrong password": {"storemanager1", "nope"},
		"unknown user":   {"ghost", "store123"},
		"inactive user":  {"supplier2", "supplier123"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tc[0], tc[1])
			assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
			assert.Contains(t, err.Error(), "Invalid username or password.")
		})
	}
	assert.Len(t, f.notifier.subjects, 1, "failed logins do not notify")
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "storemanager1", "store123")
	require.NoError(t, err)
	claims, err := f.svc.ParseToken(ctx, res.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, claims))

	_, err = f.svc.ParseToken(ctx, res.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "revoked")
}

func TestParseToken_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sign := func(secret string, claims *Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() *Claims {
		return &Claims{
			StandardClaims: jwt.StandardClaims{Id: uuid.NewString(), Subject: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour).Unix()},
			Username:       "admin",
			Role:           identity.RoleAdmin,
		}
	}

	expired := valid()
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	noJTI := valid()
	noJTI.Id = ""
	badRole := valid()
	badRole.Role = "owner"

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": sign("other-secret", valid()),
		"expired":      sign(testSecret, expired),
		"missing jti":  sign(testSecret, noJTI),
		"unknown role": sign(testSecret, badRole),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.ParseToken(ctx, token)
			assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		})
	}

	unknownUser := sign(testSecret, valid())
	_, err := f.svc.ParseToken(ctx, unknownUser)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	known := valid()
	known.Subject = f.manager.ID.String()
	_, err = f.svc.ParseToken(ctx, sign(testSecret, known))
	assert.NoError(t, err)
}

func TestParseToken_ReflectsCurrentAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "storemanager1", "store123")
	require.NoError(t, err)

	moved := uuid.New()
	f.manager.StoreID = &moved
	claims, err := f.svc.ParseToken(ctx, res.Token)
	require.NoError(t, err)
	actor, err := claims.Actor()
	require.NoError(t, err)
	require.NotNil(t, actor.StoreID)
	assert.Equal(t, moved, *actor.StoreID)

	f.manager.Role = identity.RoleSupplier
	f.manager.StoreID = nil
	claims, err = f.svc.ParseToken(ctx, res.Token)
	require.NoError(t, err)
	actor, err = claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, identity.RoleSupplier, actor.Role)
	assert.Nil(t, actor.StoreID)

	f.manager.IsActive = false
	_, err = f.svc.ParseToken(ctx, res.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "disabled")
}

func TestMemoryBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()
	now := time.Now()
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "jti-2", 0))

	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = bl.IsRevoked(ctx, "jti-2")
	assert.False(t, revoked, "already expired tokens are not stored")

	now = now.Add(2 * time.Minute)
	revoked, _ = bl.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked)
}

func TestMemoryBlacklist_RevokeSweepsExpired(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()
	now := time.Now()
	bl.now = func() time.Time { return now }

	require.NoError(t, bl.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, bl.Revoke(ctx, "jti-2", time.Hour))
	now = now.Add(2 * time.Minute)
	require.NoError(t, bl.Revoke(ctx, "jti-3", time.Hour))

	assert.Len(t, bl.revoked, 2)
	assert.NotContains(t, bl.revoked, "jti-1")
}

func TestRedisBlacklist_Key(t *testing.T) {
	bl := NewRedisBlacklistWithClient(nil)
	assert.Equal(t, "token:blacklist:jti:abc", bl.jtiKey("abc"))
}

func TestNewRedisBlacklist_BadURL(t *testing.T) {
	_, err := NewRedisBlacklist(context.Background(), "http://not-redis")
	assert.Error(t, err)
}

func newRouter(f *fixture) http.Handler {
	log := zap.NewNop()
	h := NewHandler(f.svc, log)
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		h.RegisterPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(f.svc, log))
			h.RegisterRoutes(r)
			r.With(RequireRole(log, identity.RoleAdmin)).Get("/admin-only", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})
	return r
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_LoginMeLogout(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	rec := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"storemanager1","password":"store123"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = doRequest(router, http.MethodGet, "/api/v1/auth/me", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"storemanager1"`)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doRequest(router, http.MethodGet, "/api/v1/admin-only", login.Token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/auth/logout", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/v1/auth/me", login.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Unauthenticated(t *testing.T) {
	router := newRouter(newFixture(t))

	rec := doRequest(router, http.MethodGet, "/api/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"storemanager1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", `{"username":"storemanager1","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_DisabledAccountLosesAccess(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	res, err := f.svc.Login(context.Background(), "storemanager1", "store123")
	require.NoError(t, err)

	f.manager.IsActive = false
	rec := doRequest(router, http.MethodGet, "/api/v1/auth/me", res.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
