package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

type stubOrderService struct {
	orders.Service
	createFn func(context.Context, orders.CreateInput) (*orders.CreateResult, error)
	listFn   func(context.Context, orders.ListInput) (*orders.ListResult, error)
	getFn    func(context.Context, uuid.UUID) (*orders.OrderView, error)
}

func (s stubOrderService) Create(ctx context.Context, in orders.CreateInput) (*orders.CreateResult, error) {
	return s.createFn(ctx, in)
}

func (s stubOrderService) List(ctx context.Context, in orders.ListInput) (*orders.ListResult, error) {
	return s.listFn(ctx, in)
}

func (s stubOrderService) Get(ctx context.Context, id uuid.UUID) (*orders.OrderView, error) {
	return s.getFn(ctx, id)
}

func TestOrdersCreateMapsBody(t *testing.T) {
	userID := uuid.New()
	customerID := uuid.New()
	productID := uuid.New()
	orderID := uuid.New()

	var captured orders.CreateInput
	svc := stubOrderService{createFn: func(_ context.Context, in orders.CreateInput) (*orders.CreateResult, error) {
		captured = in
		return &orders.CreateResult{OrderID: orderID, Code: "ORD-1"}, nil
	}}

	body := `{"customer_id":"` + customerID.String() + `","payment_option":"dp","paid_amount":50000,"discount":"1000",` +
		`"deadline":"2026-11-01","items":[{"product_id":"` + productID.String() + `","quantity":2,"price":60000,"has_design":true}]}`
	req := newRequest(http.MethodPost, "/api/orders", body, userID, enums.RoleKasir, nil)
	resp := httptest.NewRecorder()
	OrdersCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.CreatedBy != userID {
		t.Fatalf("expected created_by %s got %s", userID, captured.CreatedBy)
	}
	if captured.PaymentOption != enums.PaymentOptionDP {
		t.Fatalf("unexpected payment option %q", captured.PaymentOption)
	}
	if !captured.PaidAmount.Equal(decimal.NewFromInt(50000)) || !captured.Discount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected amounts paid=%s discount=%s", captured.PaidAmount, captured.Discount)
	}
	if captured.Deadline == nil || captured.Deadline.Format("2006-01-02") != "2026-11-01" {
		t.Fatalf("unexpected deadline %v", captured.Deadline)
	}
	if len(captured.Items) != 1 || captured.Items[0].Quantity != 2 || !captured.Items[0].HasDesign {
		t.Fatalf("unexpected items %+v", captured.Items)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data["orderId"] != orderID.String() || envelope.Data["code"] != "ORD-1" {
		t.Fatalf("unexpected create response %v", envelope.Data)
	}
}

func TestOrdersCreateRejectsEmptyItems(t *testing.T) {
	svc := stubOrderService{createFn: func(context.Context, orders.CreateInput) (*orders.CreateResult, error) {
		t.Fatal("service should not be called")
		return nil, nil
	}}

	body := `{"customer_id":"` + uuid.NewString() + `","payment_option":"full","items":[]}`
	req := newRequest(http.MethodPost, "/api/orders", body, uuid.New(), enums.RoleKasir, nil)
	resp := httptest.NewRecorder()
	OrdersCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersCreateRejectsBadDeadline(t *testing.T) {
	svc := stubOrderService{}
	body := `{"customer_id":"` + uuid.NewString() + `","payment_option":"full","deadline":"next week",` +
		`"items":[{"product_id":"` + uuid.NewString() + `","quantity":1,"price":1000}]}`
	req := newRequest(http.MethodPost, "/api/orders", body, uuid.New(), enums.RoleKasir, nil)
	resp := httptest.NewRecorder()
	OrdersCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersCreateRequiresIdentity(t *testing.T) {
	req := newRequest(http.MethodPost, "/api/orders", `{}`, uuid.Nil, "", nil)
	resp := httptest.NewRecorder()
	OrdersCreate(stubOrderService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrdersListPassesPaging(t *testing.T) {
	svc := stubOrderService{listFn: func(_ context.Context, in orders.ListInput) (*orders.ListResult, error) {
		if in.Limit != 20 || in.Cursor != "abc" || in.Search != "budi" {
			t.Fatalf("unexpected list input %+v", in)
		}
		return &orders.ListResult{Orders: []orders.OrderView{}}, nil
	}}

	req := newRequest(http.MethodGet, "/api/orders?limit=20&cursor=abc&search=budi", "", uuid.New(), enums.RoleManajer, nil)
	resp := httptest.NewRecorder()
	OrdersList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrdersListRejectsLimitAboveMax(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/orders?limit=500", "", uuid.New(), enums.RoleKasir, nil)
	resp := httptest.NewRecorder()
	OrdersList(stubOrderService{}, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrdersDetailNotFound(t *testing.T) {
	id := uuid.New()
	svc := stubOrderService{getFn: func(_ context.Context, got uuid.UUID) (*orders.OrderView, error) {
		if got != id {
			t.Fatalf("unexpected id %s", got)
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}}

	req := newRequest(http.MethodGet, "/api/orders/"+id.String(), "", uuid.New(), enums.RoleKasir, map[string]string{"id": id.String()})
	resp := httptest.NewRecorder()
	OrdersDetail(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
