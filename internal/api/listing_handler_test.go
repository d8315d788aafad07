package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calegray/tradepost/internal/api/shared"
	"github.com/calegray/tradepost/internal/domain"
	"github.com/calegray/tradepost/internal/service/listing"
)

// mockListingService implements listing.Service with overridable functions.
type mockListingService struct {
	readFn      func(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) (*domain.Listing, error)
	createFn    func(ctx context.Context, callerID uuid.UUID, input listing.CreateInput) (*domain.Listing, error)
	updateFn    func(ctx context.Context, callerID, id uuid.UUID, update domain.ListingUpdate) (*domain.Listing, error)
	setStatusFn func(ctx context.Context, callerID, id uuid.UUID, status domain.ListingStatus) (*domain.Listing, error)
	deleteFn    func(ctx context.Context, callerID, id uuid.UUID) error
	listFn      func(ctx context.Context, callerID *uuid.UUID, query listing.ListQuery) (*listing.ListResult, error)
	imagesFn    func(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) ([]*domain.ListingImage, error)
}

func (m *mockListingService) Read(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) (*domain.Listing, error) {
	return m.readFn(ctx, callerID, id)
}

func (m *mockListingService) Create(ctx context.Context, callerID uuid.UUID, input listing.CreateInput) (*domain.Listing, error) {
	return m.createFn(ctx, callerID, input)
}

func (m *mockListingService) Update(ctx context.Context, callerID, id uuid.UUID, update domain.ListingUpdate) (*domain.Listing, error) {
	return m.updateFn(ctx, callerID, id, update)
}

func (m *mockListingService) SetStatus(ctx context.Context, callerID, id uuid.UUID, status domain.ListingStatus) (*domain.Listing, error) {
	return m.setStatusFn(ctx, callerID, id, status)
}

func (m *mockListingService) Delete(ctx context.Context, callerID, id uuid.UUID) error {
	return m.deleteFn(ctx, callerID, id)
}

func (m *mockListingService) List(ctx context.Context, callerID *uuid.UUID, query listing.ListQuery) (*listing.ListResult, error) {
	return m.listFn(ctx, callerID, query)
}

func (m *mockListingService) Images(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) ([]*domain.ListingImage, error) {
	return m.imagesFn(ctx, callerID, id)
}

func sampleListing(ownerID uuid.UUID, status domain.ListingStatus) *domain.Listing {
	l, err := domain.NewListing(
		ownerID, uuid.New(),
		"Espresso machine", "Barely used, descaled monthly.",
		150, domain.ConditionLikeNew, "Oslo", domain.ListingStatusDraft,
	)
	if err != nil {
		panic(err)
	}
	l.Status = status
	return l
}

// newListingRouter mounts the handler the way the server router does, with an
// optional authenticated user injected into the context.
func newListingRouter(svc listing.Service, userID *uuid.UUID) http.Handler {
	h := NewListingHandler(svc, nil)

	r := chi.NewRouter()
	if userID != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), shared.UserIDContextKey, *userID)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
	}
	r.Post("/api/listings", h.Create)
	r.Get("/api/listings", h.List)
	r.Get("/api/listings/{id}", h.Get)
	r.Put("/api/listings/{id}", h.Update)
	r.Patch("/api/listings/{id}/status", h.SetStatus)
	r.Delete("/api/listings/{id}", h.Delete)
	r.Get("/api/listings/{id}/images", h.Images)
	return r
}

func TestListingHandlerGet(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	l := sampleListing(ownerID, domain.ListingStatusActive)

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"found", nil, http.StatusOK},
		{"not found", listing.ErrListingNotFound, http.StatusNotFound},
		{"access denied", listing.ErrAccessDenied, http.StatusForbidden},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockListingService{
				readFn: func(ctx context.Context, callerID *uuid.UUID, id uuid.UUID) (*domain.Listing, error) {
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return l, nil
				},
			}
			router := newListingRouter(svc, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/listings/"+l.ID.String(), nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var resp ListingResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, l.ID.String(), resp.ID)
				assert.Equal(t, "active", resp.Status)
			}
		})
	}
}

func TestListingHandlerGetRejectsMalformedID(t *testing.T) {
	t.Parallel()

	router := newListingRouter(&mockListingService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/listings/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingHandlerCreate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	categoryID := uuid.New()

	svc := &mockListingService{
		createFn: func(ctx context.Context, callerID uuid.UUID, input listing.CreateInput) (*domain.Listing, error) {
			assert.Equal(t, userID, callerID)
			assert.Equal(t, categoryID, input.CategoryID)
			return sampleListing(callerID, domain.ListingStatusDraft), nil
		},
	}
	router := newListingRouter(svc, &userID)

	body := fmt.Sprintf(`{
		"title": "Espresso machine",
		"description": "Barely used.",
		"price": 150,
		"category_id": %q,
		"condition": "like_new",
		"location": "Oslo"
	}`, categoryID)

	req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestListingHandlerCreateValidation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"description":"d","price":1,"category_id":"` + uuid.New().String() + `","condition":"good","location":"Oslo"}`},
		{"missing price", `{"title":"t","description":"d","category_id":"` + uuid.New().String() + `","condition":"good","location":"Oslo"}`},
		{"negative price", `{"title":"t","description":"d","price":-5,"category_id":"` + uuid.New().String() + `","condition":"good","location":"Oslo"}`},
		{"bad condition", `{"title":"t","description":"d","price":1,"category_id":"` + uuid.New().String() + `","condition":"mint","location":"Oslo"}`},
		{"sold initial status", `{"title":"t","description":"d","price":1,"category_id":"` + uuid.New().String() + `","condition":"good","location":"Oslo","status":"sold"}`},
		{"not json", `{{{`},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := newListingRouter(&mockListingService{}, &userID)

			req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListingHandlerCreateRequiresAuth(t *testing.T) {
	t.Parallel()

	router := newListingRouter(&mockListingService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/listings", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListingHandlerUpdateNotOwner(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockListingService{
		updateFn: func(ctx context.Context, callerID, id uuid.UUID, update domain.ListingUpdate) (*domain.Listing, error) {
			return nil, listing.ErrListingNotOwned
		},
	}
	router := newListingRouter(svc, &userID)

	req := httptest.NewRequest(
		http.MethodPut,
		"/api/listings/"+uuid.New().String(),
		bytes.NewBufferString(`{"title":"New title"}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListingHandlerSetStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockListingService{
		setStatusFn: func(ctx context.Context, callerID, id uuid.UUID, status domain.ListingStatus) (*domain.Listing, error) {
			assert.Equal(t, domain.ListingStatusSold, status)
			return sampleListing(callerID, domain.ListingStatusSold), nil
		},
	}
	router := newListingRouter(svc, &userID)

	req := httptest.NewRequest(
		http.MethodPatch,
		"/api/listings/"+uuid.New().String()+"/status",
		bytes.NewBufferString(`{"status":"sold"}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ListingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sold", resp.Status)
}

func TestListingHandlerSetStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	router := newListingRouter(&mockListingService{}, &userID)

	req := httptest.NewRequest(
		http.MethodPatch,
		"/api/listings/"+uuid.New().String()+"/status",
		bytes.NewBufferString(`{"status":"pending"}`),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListingHandlerDeleteNonOwnerLooksLikeMissing(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &mockListingService{
		deleteFn: func(ctx context.Context, callerID, id uuid.UUID) error {
			return listing.ErrListingNotFound
		},
	}
	router := newListingRouter(svc, &userID)

	req := httptest.NewRequest(http.MethodDelete, "/api/listings/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingHandlerList(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	svc := &mockListingService{
		listFn: func(ctx context.Context, callerID *uuid.UUID, query listing.ListQuery) (*listing.ListResult, error) {
			require.NotNil(t, query.Status)
			assert.Equal(t, domain.ListingStatusActive, *query.Status)
			assert.Equal(t, 10, query.Limit)
			return &listing.ListResult{
				Listings: []*domain.Listing{sampleListing(ownerID, domain.ListingStatusActive)},
				Total:    42,
				Limit:    10,
				Offset:   0,
				HasMore:  true,
			}, nil
		},
	}
	router := newListingRouter(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/listings?status=active&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListingPageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.Total)
	assert.True(t, resp.HasMore)
	assert.Len(t, resp.Listings, 1)
}

func TestListingHandlerListQueryValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
	}{
		{"bad user_id", "?user_id=abc"},
		{"bad category_id", "?category_id=abc"},
		{"bad status", "?status=pending"},
		{"bad condition", "?condition=mint"},
		{"negative min_price", "?min_price=-1"},
		{"limit zero", "?limit=0"},
		{"limit above maximum", "?limit=101"},
		{"negative offset", "?offset=-1"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router := newListingRouter(&mockListingService{}, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/listings"+tc.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
