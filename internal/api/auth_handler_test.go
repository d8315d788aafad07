package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/calegray/tradepost/internal/api/shared"
	"github.com/calegray/tradepost/internal/config"
	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/service/auth"
	"github.com/calegray/tradepost/internal/store"
)

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	cp := *user
	f.byID[user.ID] = &cp
	f.byEmail[user.Email] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := f.byID[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	cp := *user
	f.byID[user.ID] = &cp
	f.byEmail[user.Email] = &cp
	return nil
}

func newTestAuthHandler(t *testing.T, users *fakeUserStore) *AuthHandler {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	return NewAuthHandler(users, jwtService, hasher, hasher, time.Hour, nil)
}

func registerTestUser(t *testing.T, h *AuthHandler) AuthResponse {
	t.Helper()

	body := `{"email":"seller@example.com","password":"correct-horse-battery"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegister(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	h := newTestAuthHandler(t, users)

	resp := registerTestUser(t, h)
	assert.NotEqual(t, uuid.Nil, resp.UserID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Stored user carries a hash, never the plaintext.
	stored, err := users.GetByID(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.HashedPassword)
	assert.NotEqual(t, "correct-horse-battery", stored.HashedPassword)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(t, newFakeUserStore())
	registerTestUser(t, h)

	body := `{"email":"seller@example.com","password":"another-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"invalid email", `{"email":"nope","password":"correct-horse-battery"}`},
		{"short password", `{"email":"a@example.com","password":"short"}`},
		{"missing fields", `{}`},
		{"not json", `{{{`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newTestAuthHandler(t, newFakeUserStore())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.Register(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(t, newFakeUserStore())
	registerTestUser(t, h)

	t.Run("valid credentials", func(t *testing.T) {
		body := `{"email":"seller@example.com","password":"correct-horse-battery"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		body := `{"email":"seller@example.com","password":"wrong-password"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})

	t.Run("unknown email answers like wrong password", func(t *testing.T) {
		body := `{"email":"nobody@example.com","password":"correct-horse-battery"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(t, newFakeUserStore())
	registered := registerTestUser(t, h)

	t.Run("valid refresh token", func(t *testing.T) {
		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: registered.RefreshToken})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, registered.UserID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		body, _ := json.Marshal(RefreshTokenRequest{RefreshToken: registered.AccessToken})
		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPost,
			"/api/auth/refresh",
			bytes.NewBufferString(`{"refresh_token":"garbage"}`),
		)
		rec := httptest.NewRecorder()
		h.RefreshToken(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMe(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	h := newTestAuthHandler(t, users)
	registered := registerTestUser(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, registered.UserID)
	rec := httptest.NewRecorder()
	h.Me(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, registered.UserID.String(), resp.ID)
	assert.Equal(t, "seller@example.com", resp.Email)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(t, newFakeUserStore())

	t.Run("authenticated logout acknowledged", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, uuid.New())
		rec := httptest.NewRecorder()
		h.Logout(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("anonymous logout rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
