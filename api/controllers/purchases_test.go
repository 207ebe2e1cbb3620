package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vivomercado/backend/api/middleware"
	"github.com/vivomercado/backend/internal/purchases"
	"github.com/vivomercado/backend/pkg/db/models"
	"github.com/vivomercado/backend/pkg/enums"
	pkgerrors "github.com/vivomercado/backend/pkg/errors"
)

type stubPurchasesService struct {
	purchase *models.Purchase
	rows     []purchases.PurchaseRow
	err      error
}

func (s stubPurchasesService) Create(ctx context.Context, actorID uuid.UUID, input purchases.CreatePurchaseInput) (*models.Purchase, error) {
	return s.purchase, s.err
}

func (s stubPurchasesService) UpdateStatus(ctx context.Context, actorID, purchaseID uuid.UUID, input purchases.UpdateStatusInput) (*models.Purchase, error) {
	return s.purchase, s.err
}

func (s stubPurchasesService) Cancel(ctx context.Context, actorID, purchaseID uuid.UUID, reason string) (*models.Purchase, error) {
	return s.purchase, s.err
}

func (s stubPurchasesService) Get(ctx context.Context, actorID, purchaseID uuid.UUID) (*models.Purchase, error) {
	return s.purchase, s.err
}

func (s stubPurchasesService) ListPurchases(ctx context.Context, actorID uuid.UUID) ([]purchases.PurchaseRow, error) {
	return s.rows, s.err
}

func (s stubPurchasesService) ListSales(ctx context.Context, actorID uuid.UUID) ([]purchases.PurchaseRow, error) {
	return s.rows, s.err
}

func TestPurchasesCreateSuccess(t *testing.T) {
	created := &models.Purchase{ID: uuid.New(), Status: enums.PurchaseStatusPending}
	handler := PurchasesCreate(stubPurchasesService{purchase: created}, nil)

	payload := map[string]any{"listing_id": uuid.NewString(), "quantity": 2}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPurchasesCreateInsufficientStock(t *testing.T) {
	svc := stubPurchasesService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock")}
	handler := PurchasesCreate(svc, nil)

	payload := map[string]any{"listing_id": uuid.NewString(), "quantity": 5}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestPurchasesCreateRejectsZeroQuantity(t *testing.T) {
	handler := PurchasesCreate(stubPurchasesService{}, nil)

	payload := map[string]any{"listing_id": uuid.NewString(), "quantity": 0}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPurchasesCancelSuccess(t *testing.T) {
	cancelled := &models.Purchase{ID: uuid.New(), Status: enums.PurchaseStatusCancelled}
	r := chi.NewRouter()
	r.Post("/purchases/{purchaseId}/cancel", PurchasesCancel(stubPurchasesService{purchase: cancelled}, nil))

	body := []byte(`{"reason":"mudou de ideia"}`)
	req := httptest.NewRequest(http.MethodPost, "/purchases/"+cancelled.ID.String()+"/cancel", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPurchasesUpdateStatusStateConflict(t *testing.T) {
	svc := stubPurchasesService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "purchase already finalized")}
	r := chi.NewRouter()
	r.Patch("/purchases/{purchaseId}/status", PurchasesUpdateStatus(svc, nil))

	body := []byte(`{"status":"confirmed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/purchases/"+uuid.NewString()+"/status", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New()))
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}
