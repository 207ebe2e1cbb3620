package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vivomercado/backend/api/middleware"
	"github.com/vivomercado/backend/internal/listings"
	"github.com/vivomercado/backend/pkg/db/models"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
	"github.com/vivomercado/backend/pkg/pagination"
)

type stubListingsService struct {
	page    *listings.ListingPage
	detail  *listings.ListingDetail
	created *models.Listing
	err     error
}

func (s stubListingsService) Create(ctx context.Context, actorID uuid.UUID, input listings.CreateListingInput) (*models.Listing, error) {
	return s.created, s.err
}

func (s stubListingsService) Update(ctx context.Context, actorID, listingID uuid.UUID, input listings.UpdateListingInput) (*models.Listing, error) {
	panic("unimplemented")
}

func (s stubListingsService) Deactivate(ctx context.Context, actorID, listingID uuid.UUID) error {
	return s.err
}

func (s stubListingsService) Search(ctx context.Context, filters listings.SearchFilters, params pagination.Params) (*listings.ListingPage, error) {
	return s.page, s.err
}

func (s stubListingsService) Get(ctx context.Context, viewerID, listingID uuid.UUID) (*listings.ListingDetail, error) {
	return s.detail, s.err
}

func (s stubListingsService) ListMine(ctx context.Context, actorID uuid.UUID) ([]models.Listing, error) {
	panic("unimplemented")
}

func TestListingsSearchSuccess(t *testing.T) {
	page := &listings.ListingPage{
		Items: []listings.ListingSummary{{
			ID:           uuid.New(),
			Title:        "Bicicleta aro 29",
			Price:        decimal.NewFromInt(850),
			AvailableQty: 1,
			CreatedAt:    time.Now(),
		}},
	}
	handler := ListingsSearch(stubListingsService{page: page}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?limit=10&q=bicicleta", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data listings.ListingPage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 item got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Items[0].Title != "Bicicleta aro 29" {
		t.Fatalf("unexpected title %q", envelope.Data.Items[0].Title)
	}
}

func TestListingsSearchRejectsBadCategory(t *testing.T) {
	handler := ListingsSearch(stubListingsService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings?category_id=nope", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestListingsGetRejectsMalformedID(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/listings/{listingId}", ListingsGet(stubListingsService{}, nil))

	req := httptest.NewRequest(http.MethodGet, "/listings/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestListingsGetNotFound(t *testing.T) {
	r := chi.NewRouter()
	svc := stubListingsService{err: pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")}
	r.Get("/listings/{listingId}", ListingsGet(svc, nil))

	req := httptest.NewRequest(http.MethodGet, "/listings/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestListingsCreateSuccess(t *testing.T) {
	created := &models.Listing{ID: uuid.New(), Title: "Notebook usado"}
	handler := ListingsCreate(stubListingsService{created: created}, nil)

	payload := map[string]any{
		"category_id": uuid.NewString(),
		"title":       "Notebook usado",
		"description": "Funciona bem, bateria fraca",
		"price":       "1200.00",
		"quantity":    1,
	}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListingsCreateRejectsUnknownFields(t *testing.T) {
	handler := ListingsCreate(stubListingsService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader([]byte(`{"surprise":true}`)))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
