package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/pkg/money"
	"github.com/polkiloo/pocha/internal/server/http/dto"
	"github.com/polkiloo/pocha/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/pocha/internal/test"
)

var (
	adminCaller    = model.Caller{ID: "admin-1", Role: model.RoleAdmin}
	customerCaller = model.Caller{ID: "user-1", Role: model.RoleUser}
	discardLogger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest routes target through handler registered at route with caller preset.
func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, caller model.Caller, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		c.Set(middleware.CallerContextKey, caller)
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestCurrentCaller(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentCaller(c); !got.Anonymous() {
		t.Fatalf("expected anonymous caller, got %+v", got)
	}

	c.Set(middleware.CallerContextKey, adminCaller)
	if got := CurrentCaller(c); got != adminCaller {
		t.Fatalf("expected %+v, got %+v", adminCaller, got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domainErrors.ErrInvalidInput, http.StatusBadRequest},
		{domainErrors.ErrTotalMismatch, http.StatusBadRequest},
		{domainErrors.ErrEmptyCart, http.StatusBadRequest},
		{domainErrors.ErrUnauthenticated, http.StatusUnauthorized},
		{domainErrors.ErrIdentityMismatch, http.StatusUnauthorized},
		{domainErrors.ErrForbidden, http.StatusForbidden},
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{domainErrors.ErrConflict, http.StatusConflict},
		{domainErrors.ErrInvalidTransition, http.StatusConflict},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{fmt.Errorf("wrapped: %w", domainErrors.ErrNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.status {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.status)
		}
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	handler := func(c *gin.Context) { respondError(c, discardLogger, errors.New("db password leaked")) }
	resp := performRequest(t, http.MethodGet, "/x", "/x", handler, model.Caller{}, nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	if body.Error != "internal server error" {
		t.Fatalf("unexpected error body %q", body.Error)
	}
}

func TestCatalogHandlerItems(t *testing.T) {
	var created model.Item
	facade := testhelpers.PochaFacadeStub{
		CreateItemFn: func(_ context.Context, caller model.Caller, item model.Item) (*model.Item, error) {
			if caller != adminCaller {
				t.Fatalf("unexpected caller %+v", caller)
			}
			created = item
			item.ID = 9
			return &item, nil
		},
	}
	h := NewCatalogHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodGet, "/items", "/items", h.ListItems, model.Caller{}, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	var items []dto.ItemResponse
	decodeBody(t, resp, &items)
	if len(items) != 1 || items[0].Name != "Tteokbokki" {
		t.Fatalf("unexpected items %+v", items)
	}

	body := mustJSON(t, dto.ItemRequest{Name: "Kimbap", Price: money.MustParse("6.00"), Organization: "KSA", Type: "food"})
	resp = performRequest(t, http.MethodPost, "/items/create", "/items/create", h.CreateItem, adminCaller, body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if created.Name != "Kimbap" || created.Organization != "KSA" || !created.Price.Equal(money.MustParse("6")) {
		t.Fatalf("unexpected item passed to facade %+v", created)
	}
	var item dto.ItemResponse
	decodeBody(t, resp, &item)
	if item.ID != 9 {
		t.Fatalf("expected id 9, got %d", item.ID)
	}

	resp = performRequest(t, http.MethodPost, "/items/create", "/items/create", h.CreateItem, adminCaller, []byte("{"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("malformed create: expected 400, got %d", resp.Code)
	}
}

func TestCatalogHandlerEditItemNotFound(t *testing.T) {
	facade := testhelpers.PochaFacadeStub{
		UpdateItemFn: func(context.Context, model.Caller, model.Item) (*model.Item, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	h := NewCatalogHandler(facade, discardLogger)
	body := mustJSON(t, dto.ItemRequest{ID: 4, Name: "Soju"})
	resp := performRequest(t, http.MethodPost, "/items/edit", "/items/edit", h.EditItem, adminCaller, body, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestCatalogHandlerDeleteID(t *testing.T) {
	var got []int64
	facade := testhelpers.PochaFacadeStub{
		DeleteItemFn: func(_ context.Context, _ model.Caller, id int64) (int64, error) {
			got = append(got, id)
			return id, nil
		},
	}
	h := NewCatalogHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodDelete, "/items/delete", "/items/delete?id=3", h.DeleteItem, adminCaller, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("query id: expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/items/delete", "/items/delete", h.DeleteItem, adminCaller, mustJSON(t, dto.DeleteRequest{ID: 5}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("body id: expected 200, got %d", resp.Code)
	}
	var deleted dto.DeleteResponse
	decodeBody(t, resp, &deleted)
	if deleted.DeletedID != 5 {
		t.Fatalf("expected deletedId 5, got %d", deleted.DeletedID)
	}
	if len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Fatalf("unexpected ids %v", got)
	}

	resp = performRequest(t, http.MethodDelete, "/items/delete", "/items/delete?id=abc", h.DeleteItem, adminCaller, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodDelete, "/items/delete", "/items/delete", h.DeleteItem, adminCaller, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %d", resp.Code)
	}
}

func TestCatalogHandlerLabelsCarryKind(t *testing.T) {
	var kinds []string
	facade := testhelpers.PochaFacadeStub{
		LabelsFn: func(_ context.Context, kind string) ([]model.Label, error) {
			kinds = append(kinds, kind)
			return []model.Label{{ID: 1, Name: "KSA"}}, nil
		},
		CreateLabelFn: func(_ context.Context, _ model.Caller, kind, name string) (*model.Label, error) {
			kinds = append(kinds, kind)
			return nil, domainErrors.ErrAlreadyExists
		},
		RenameLabelFn: func(_ context.Context, _ model.Caller, kind string, id int64, name string) (*model.Label, error) {
			kinds = append(kinds, kind)
			return &model.Label{ID: id, Name: name}, nil
		},
	}
	h := NewCatalogHandler(facade, discardLogger)
	list, create, edit, _ := h.LabelHandlers("organizations")

	resp := performRequest(t, http.MethodGet, "/organizations", "/organizations", list, model.Caller{}, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPost, "/organizations/create", "/organizations/create", create, adminCaller, mustJSON(t, dto.LabelRequest{Name: "KSA"}), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPost, "/organizations/edit", "/organizations/edit", edit, adminCaller, mustJSON(t, dto.LabelRequest{ID: 2, Name: "VSA"}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("rename: expected 200, got %d", resp.Code)
	}
	var label dto.LabelResponse
	decodeBody(t, resp, &label)
	if label.ID != 2 || label.Name != "VSA" {
		t.Fatalf("unexpected label %+v", label)
	}
	for _, kind := range kinds {
		if kind != "organizations" {
			t.Fatalf("unexpected kind %q", kind)
		}
	}
}

func TestCatalogHandlerTables(t *testing.T) {
	facade := testhelpers.PochaFacadeStub{
		CreateTableFn: func(_ context.Context, _ model.Caller, number int64) (*model.Table, error) {
			if number < 1 {
				return nil, domainErrors.ErrInvalidInput
			}
			return &model.Table{ID: number, Number: number}, nil
		},
	}
	h := NewCatalogHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodPost, "/tables/create", "/tables/create", h.CreateTable, adminCaller, mustJSON(t, dto.TableRequest{Number: 4}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var table dto.TableResponse
	decodeBody(t, resp, &table)
	if table.ID != 4 || table.Number != 4 {
		t.Fatalf("unexpected table %+v", table)
	}

	resp = performRequest(t, http.MethodPost, "/tables/create", "/tables/create", h.CreateTable, adminCaller, mustJSON(t, dto.TableRequest{Number: 0}), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCartHandlerGetDefaultsToCaller(t *testing.T) {
	var requested string
	facade := testhelpers.PochaFacadeStub{
		CartFn: func(_ context.Context, _ model.Caller, userID string) (*model.Cart, error) {
			requested = userID
			return &model.Cart{UserID: userID, Lines: []model.CartLine{
				{ItemID: 1, Quantity: 2, Price: money.MustParse("4.25"), TotalPrice: money.MustParse("8.50")},
			}, Version: 3}, nil
		},
	}
	h := NewCartHandler(facade, discardLogger)
	resp := performRequest(t, http.MethodGet, "/cart", "/cart", h.Get, customerCaller, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if requested != customerCaller.ID {
		t.Fatalf("expected cart of %q, got %q", customerCaller.ID, requested)
	}
	var cart dto.CartResponse
	decodeBody(t, resp, &cart)
	if cart.Total != "8.50" || cart.Version != 3 || len(cart.Items) != 1 {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestCartHandlerAddAndReplace(t *testing.T) {
	var replaceVersion *int64
	facade := testhelpers.PochaFacadeStub{
		AddToCartFn: func(_ context.Context, caller model.Caller, userID string, lines []model.CartLine) (*model.Cart, error) {
			if userID != caller.ID {
				return nil, domainErrors.ErrIdentityMismatch
			}
			return &model.Cart{UserID: userID, Lines: model.MergeCart(nil, lines), Version: 1}, nil
		},
		ReplaceCartFn: func(_ context.Context, _ model.Caller, userID string, _ []model.CartLine, version *int64) (*model.Cart, error) {
			replaceVersion = version
			return nil, domainErrors.ErrConflict
		},
	}
	h := NewCartHandler(facade, discardLogger)

	lines := []dto.LineDTO{
		{ItemID: 1, Quantity: 1, Price: money.MustParse("3")},
		{ItemID: 1, Quantity: 2, Price: money.MustParse("3")},
	}
	resp := performRequest(t, http.MethodPost, "/cart/create", "/cart/create", h.Add, customerCaller, mustJSON(t, dto.CartRequest{UserID: "user-1", Items: lines}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var cart dto.CartResponse
	decodeBody(t, resp, &cart)
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 3 || cart.Total != "9.00" {
		t.Fatalf("unexpected merged cart %+v", cart)
	}

	resp = performRequest(t, http.MethodPost, "/cart/create", "/cart/create", h.Add, customerCaller, mustJSON(t, dto.CartRequest{UserID: "user-2", Items: lines}), nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("foreign cart: expected 401, got %d", resp.Code)
	}

	version := int64(4)
	resp = performRequest(t, http.MethodPost, "/cart/edit", "/cart/edit", h.Replace, customerCaller, mustJSON(t, dto.CartRequest{UserID: "user-1", Items: lines, Version: &version}), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("stale replace: expected 409, got %d", resp.Code)
	}
	if replaceVersion == nil || *replaceVersion != 4 {
		t.Fatalf("expected version 4 forwarded, got %v", replaceVersion)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	var got model.Checkout
	facade := testhelpers.PochaFacadeStub{
		CreateOrderFn: func(_ context.Context, _ model.Caller, checkout model.Checkout) (*model.Order, error) {
			got = checkout
			if checkout.ClientTotal != nil && !checkout.ClientTotal.Equal(money.MustParse("10")) {
				return nil, domainErrors.ErrTotalMismatch
			}
			return &model.Order{ID: 1, OrderNumber: 1001, Status: model.OrderStatusPending, TotalPrice: money.MustParse("10")}, nil
		},
	}
	h := NewOrderHandler(facade, discardLogger)

	total := money.MustParse("10.00")
	req := dto.CreateOrderRequest{
		UserID:        "user-1",
		Items:         []dto.LineDTO{{ItemID: 1, Quantity: 2, Price: money.MustParse("5")}},
		TableNumber:   3,
		PaymentMethod: " Venmo ",
		PaymentID:     "@buyer",
		TotalPrice:    &total,
	}
	resp := performRequest(t, http.MethodPost, "/orders/create", "/orders/create", h.Create, customerCaller, mustJSON(t, req), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.PaymentMethod != model.PaymentMethodVenmo || got.TableNumber != 3 || len(got.Lines) != 1 {
		t.Fatalf("unexpected checkout %+v", got)
	}
	var order dto.OrderResponse
	decodeBody(t, resp, &order)
	if order.OrderNumber != 1001 || order.Status != "pending" {
		t.Fatalf("unexpected order %+v", order)
	}

	wrong := money.MustParse("12.00")
	req.TotalPrice = &wrong
	resp = performRequest(t, http.MethodPost, "/orders/create", "/orders/create", h.Create, customerCaller, mustJSON(t, req), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("mismatch: expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerUpdateStatus(t *testing.T) {
	facade := testhelpers.PochaFacadeStub{
		UpdateStatusFn: func(_ context.Context, _ model.Caller, id int64, status model.OrderStatus) (*model.Order, error) {
			if status == model.OrderStatusPending {
				return nil, domainErrors.ErrInvalidTransition
			}
			return &model.Order{ID: id, Status: status, Version: 2}, nil
		},
	}
	h := NewOrderHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodPost, "/orders/updateStatus", "/orders/updateStatus", h.UpdateStatus, adminCaller, mustJSON(t, dto.UpdateStatusRequest{ID: 7, Status: "In Progress"}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var order dto.OrderResponse
	decodeBody(t, resp, &order)
	if order.Status != "in progress" || order.ID != 7 {
		t.Fatalf("unexpected order %+v", order)
	}

	resp = performRequest(t, http.MethodPost, "/orders/updateStatus", "/orders/updateStatus", h.UpdateStatus, adminCaller, mustJSON(t, dto.UpdateStatusRequest{ID: 7, Status: "pending"}), nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestOrderHandlerDelete(t *testing.T) {
	facade := testhelpers.PochaFacadeStub{
		DeleteOrdersFn: func(_ context.Context, _ model.Caller, ids []int64) ([]int64, error) {
			return ids[:1], nil
		},
	}
	h := NewOrderHandler(facade, discardLogger)
	resp := performRequest(t, http.MethodDelete, "/orders/delete", "/orders/delete", h.Delete, adminCaller, mustJSON(t, dto.DeleteOrdersRequest{IDs: []int64{4, 99}}), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body dto.DeleteOrdersResponse
	decodeBody(t, resp, &body)
	if body.DeletedCount != 1 || len(body.DeletedIDs) != 1 || body.DeletedIDs[0] != 4 {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestOrderHandlerListParsesQuery(t *testing.T) {
	var got model.OrderFilter
	facade := testhelpers.PochaFacadeStub{
		OrdersFn: func(_ context.Context, _ model.Caller, filter model.OrderFilter) (*model.OrderPage, error) {
			got = filter
			return &model.OrderPage{Orders: []model.Order{{ID: 1}, {ID: 2}}, Total: 12}, nil
		},
	}
	h := NewOrderHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodGet, "/orders", "/orders?userId=user-1&status=Complete&sort=totalPrice&order=asc&limit=2&offset=4", h.List, adminCaller, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.UserID != "user-1" || got.Status != model.OrderStatusComplete || got.SortBy != "totalPrice" ||
		got.Descending || got.Limit != 2 || got.Offset != 4 {
		t.Fatalf("unexpected filter %+v", got)
	}
	var page dto.OrderListResponse
	decodeBody(t, resp, &page)
	if len(page.Orders) != 2 || page.Total != 12 {
		t.Fatalf("unexpected page %+v", page)
	}

	resp = performRequest(t, http.MethodGet, "/orders", "/orders", h.List, adminCaller, nil, nil)
	if resp.Code != http.StatusOK || !got.Descending {
		t.Fatalf("expected descending default, got code %d filter %+v", resp.Code, got)
	}

	resp = performRequest(t, http.MethodGet, "/orders", "/orders?limit=ten", h.List, adminCaller, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", resp.Code)
	}
}

func TestAnalyticsHandler(t *testing.T) {
	facade := testhelpers.PochaFacadeStub{
		OrderCountsFn: func(context.Context, model.Caller) (*model.OrderCounts, error) {
			return &model.OrderCounts{Pending: 2, Complete: 1, Total: 3}, nil
		},
		ProfitFn: func(context.Context, model.Caller) (*model.ProfitReport, error) {
			return &model.ProfitReport{
				Total:           money.MustParse("15.5"),
				PerOrganization: map[string]money.Amount{"KSA": money.MustParse("15.5")},
			}, nil
		},
	}
	h := NewAnalyticsHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodGet, "/analytics/order", "/analytics/order", h.Orders, adminCaller, nil, nil)
	var counts dto.OrderCountsResponse
	decodeBody(t, resp, &counts)
	if counts.Pending != 2 || counts.Total != 3 {
		t.Fatalf("unexpected counts %+v", counts)
	}

	resp = performRequest(t, http.MethodGet, "/analytics/profit", "/analytics/profit", h.Profit, adminCaller, nil, nil)
	var profit dto.ProfitResponse
	decodeBody(t, resp, &profit)
	if profit.TotalProfit != "15.50" || profit.ProfitPerOrg["KSA"] != "15.50" {
		t.Fatalf("unexpected profit %+v", profit)
	}

	forbidden := NewAnalyticsHandler(testhelpers.PochaFacadeStub{
		ProfitFn: func(context.Context, model.Caller) (*model.ProfitReport, error) {
			return nil, domainErrors.ErrForbidden
		},
	}, discardLogger)
	resp = performRequest(t, http.MethodGet, "/analytics/profit", "/analytics/profit", forbidden.Profit, customerCaller, nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestUserHandler(t *testing.T) {
	var roleSet model.Role
	facade := testhelpers.PochaFacadeStub{
		SetRoleFn: func(_ context.Context, _ model.Caller, userID string, role model.Role) error {
			if userID == "" {
				return domainErrors.ErrInvalidInput
			}
			roleSet = role
			return nil
		},
	}
	h := NewUserHandler(facade, discardLogger)

	resp := performRequest(t, http.MethodGet, "/user", "/user", h.Get, customerCaller, nil, nil)
	var user dto.UserResponse
	decodeBody(t, resp, &user)
	if user.ID != "user-1" || user.Role != "user" {
		t.Fatalf("unexpected user %+v", user)
	}

	body := mustJSON(t, dto.ProfileRequest{Name: "Min", Email: "min@example.com"})
	resp = performRequest(t, http.MethodPut, "/user/profile", "/user/profile", h.SaveProfile, customerCaller, body, nil)
	decodeBody(t, resp, &user)
	if user.Email != "min@example.com" || user.Name != "Min" {
		t.Fatalf("unexpected profile %+v", user)
	}

	resp = performRequest(t, http.MethodPost, "/users/role", "/users/role", h.SetRole, adminCaller, mustJSON(t, dto.RoleRequest{UserID: "user-1", Role: "ADMIN"}), nil)
	if resp.Code != http.StatusOK || roleSet != model.RoleAdmin {
		t.Fatalf("expected admin role set, got code %d role %q", resp.Code, roleSet)
	}
	resp = performRequest(t, http.MethodPost, "/users/role", "/users/role", h.SetRole, adminCaller, mustJSON(t, dto.RoleRequest{Role: "admin"}), nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", Health(testhelpers.PochaFacadeStub{}, discardLogger), model.Caller{}, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	down := testhelpers.PochaFacadeStub{HealthFn: func(context.Context) error { return errors.New("db down") }}
	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", Health(down, discardLogger), model.Caller{}, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func streamOrder(id int64) model.Order {
	at := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	return model.Order{ID: id, OrderNumber: 1000 + id, Status: model.OrderStatusPending, TotalPrice: money.MustParse("5"), CreatedAt: at}
}

func TestStreamHandlerReplaysThenForwardsLive(t *testing.T) {
	live := make(chan model.OrderEvent, 4)
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(2))
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(3))
	status := streamOrder(1)
	status.Status = model.OrderStatusComplete
	live <- model.NewOrderEvent(model.OrderEventStatusChanged, status)
	close(live)

	var cursors []int64
	facade := testhelpers.PochaFacadeStub{
		ReplayFn: func(_ context.Context, _ model.Caller, after int64, limit int) ([]model.Order, error) {
			cursors = append(cursors, after)
			if limit != replayBatch {
				t.Fatalf("unexpected limit %d", limit)
			}
			return []model.Order{streamOrder(1), streamOrder(2)}, nil
		},
		SubscribeFn: func() (<-chan model.OrderEvent, func()) { return live, func() {} },
	}
	h := NewStreamHandler(facade, 0, discardLogger)

	resp := performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream", h.Orders, adminCaller, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := resp.Body.String()
	if n := strings.Count(body, "event:order.created"); n != 3 {
		t.Fatalf("expected 3 created events, got %d in %q", n, body)
	}
	if n := strings.Count(body, "event:order.status"); n != 1 {
		t.Fatalf("expected 1 status event, got %d in %q", n, body)
	}
	if n := strings.Count(body, "id:"); n != 3 {
		t.Fatalf("expected only created events to carry ids, got %d in %q", n, body)
	}
	for _, id := range []string{"id:1\n", "id:2\n", "id:3\n"} {
		if !strings.Contains(body, id) {
			t.Fatalf("missing %q in %q", id, body)
		}
	}
	if strings.Index(body, "id:1\n") > strings.Index(body, "id:3\n") {
		t.Fatalf("replay must precede live events: %q", body)
	}
	if len(cursors) != 1 || cursors[0] != 0 {
		t.Fatalf("unexpected replay cursors %v", cursors)
	}
}

func TestStreamHandlerPagesReplay(t *testing.T) {
	var cursors []int64
	facade := testhelpers.PochaFacadeStub{
		ReplayFn: func(_ context.Context, _ model.Caller, after int64, limit int) ([]model.Order, error) {
			cursors = append(cursors, after)
			if after >= int64(limit) {
				return []model.Order{streamOrder(after + 1)}, nil
			}
			batch := make([]model.Order, 0, limit)
			for i := int64(1); i <= int64(limit); i++ {
				batch = append(batch, streamOrder(after+i))
			}
			return batch, nil
		},
		SubscribeFn: func() (<-chan model.OrderEvent, func()) {
			ch := make(chan model.OrderEvent)
			close(ch)
			return ch, func() {}
		},
	}
	h := NewStreamHandler(facade, 0, discardLogger)
	headers := map[string]string{"Last-Event-ID": "0"}
	resp := performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream", h.Orders, adminCaller, nil, headers)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if len(cursors) != 2 || cursors[1] != replayBatch {
		t.Fatalf("unexpected cursors %v", cursors)
	}
	if n := strings.Count(resp.Body.String(), "event:order.created"); n != replayBatch+1 {
		t.Fatalf("expected %d events, got %d", replayBatch+1, n)
	}
}

func TestStreamHandlerCatchesUpOnGap(t *testing.T) {
	live := make(chan model.OrderEvent, 4)
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(20))
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(19))
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(21))
	close(live)

	var cursors []int64
	facade := testhelpers.PochaFacadeStub{
		ReplayFn: func(_ context.Context, _ model.Caller, after int64, _ int) ([]model.Order, error) {
			cursors = append(cursors, after)
			if len(cursors) == 1 {
				return nil, nil
			}
			return []model.Order{streamOrder(19), streamOrder(20)}, nil
		},
		SubscribeFn: func() (<-chan model.OrderEvent, func()) { return live, func() {} },
	}
	h := NewStreamHandler(facade, 0, discardLogger)

	resp := performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream?after=18", h.Orders, adminCaller, nil, nil)
	body := resp.Body.String()
	if len(cursors) != 2 || cursors[0] != 18 || cursors[1] != 18 {
		t.Fatalf("expected a catch-up replay from 18, got %v", cursors)
	}
	if n := strings.Count(body, "event:order.created"); n != 3 {
		t.Fatalf("expected 3 created events, got %d in %q", n, body)
	}
	i19, i20, i21 := strings.Index(body, "id:19\n"), strings.Index(body, "id:20\n"), strings.Index(body, "id:21\n")
	if i19 < 0 || i20 < i19 || i21 < i20 {
		t.Fatalf("expected ids 19, 20, 21 in order: %q", body)
	}
}

func TestStreamHandlerLateEventKeepsCursor(t *testing.T) {
	live := make(chan model.OrderEvent, 4)
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(2))
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(4))
	live <- model.NewOrderEvent(model.OrderEventCreated, streamOrder(3))
	close(live)

	calls := 0
	facade := testhelpers.PochaFacadeStub{
		ReplayFn: func(_ context.Context, _ model.Caller, after int64, _ int) ([]model.Order, error) {
			calls++
			if after == 0 {
				return []model.Order{streamOrder(1)}, nil
			}
			return []model.Order{streamOrder(4)}, nil
		},
		SubscribeFn: func() (<-chan model.OrderEvent, func()) { return live, func() {} },
	}
	h := NewStreamHandler(facade, 0, discardLogger)

	body := performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream", h.Orders, adminCaller, nil, nil).Body.String()
	if calls != 2 {
		t.Fatalf("expected one catch-up replay, got %d calls", calls)
	}
	if !strings.Contains(body, `"orderId":3`) {
		t.Fatalf("late order must still be delivered: %q", body)
	}
	if strings.Contains(body, "id:3\n") || strings.Count(body, "id:4\n") != 2 {
		t.Fatalf("late order must carry the running cursor: %q", body)
	}
}

func TestStreamHandlerCursorFromHeader(t *testing.T) {
	var cursor int64 = -1
	facade := testhelpers.PochaFacadeStub{
		ReplayFn: func(_ context.Context, _ model.Caller, after int64, _ int) ([]model.Order, error) {
			cursor = after
			return nil, nil
		},
		SubscribeFn: func() (<-chan model.OrderEvent, func()) {
			ch := make(chan model.OrderEvent)
			close(ch)
			return ch, func() {}
		},
	}
	h := NewStreamHandler(facade, 0, discardLogger)
	performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream", h.Orders, adminCaller, nil, map[string]string{"Last-Event-ID": "7"})
	if cursor != 7 {
		t.Fatalf("expected cursor 7, got %d", cursor)
	}
	performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream?after=9", h.Orders, adminCaller, nil, map[string]string{"Last-Event-ID": "7"})
	if cursor != 9 {
		t.Fatalf("expected query cursor to win, got %d", cursor)
	}
}

func TestStreamHandlerRejects(t *testing.T) {
	h := NewStreamHandler(testhelpers.PochaFacadeStub{}, 0, discardLogger)
	resp := performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream?after=-1", h.Orders, adminCaller, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	unsubscribed := false
	forbidden := testhelpers.PochaFacadeStub{
		ReplayFn: func(context.Context, model.Caller, int64, int) ([]model.Order, error) {
			return nil, domainErrors.ErrForbidden
		},
		SubscribeFn: func() (<-chan model.OrderEvent, func()) {
			return make(chan model.OrderEvent), func() { unsubscribed = true }
		},
	}
	h = NewStreamHandler(forbidden, 0, discardLogger)
	resp = performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream", h.Orders, customerCaller, nil, nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if !unsubscribed {
		t.Fatal("expected subscription to be released")
	}
}

func TestStreamHandlerKeepAlive(t *testing.T) {
	live := make(chan model.OrderEvent)
	go func() {
		time.Sleep(60 * time.Millisecond)
		close(live)
	}()
	facade := testhelpers.PochaFacadeStub{
		SubscribeFn: func() (<-chan model.OrderEvent, func()) { return live, func() {} },
	}
	h := NewStreamHandler(facade, 10*time.Millisecond, discardLogger)
	resp := performRequest(t, http.MethodGet, "/orders/stream", "/orders/stream", h.Orders, adminCaller, nil, nil)
	if !strings.Contains(resp.Body.String(), ": keep-alive\n\n") {
		t.Fatalf("expected keep-alive comment in %q", resp.Body.String())
	}
}

func TestUserHandlerProfileRoundTrip(t *testing.T) {
	subject := testhelpers.RandomSubject()
	name := testhelpers.RandomName(3, 12)
	email := strings.ToLower(name) + "@pocha.test"
	caller := model.Caller{ID: subject, Role: model.RoleUser}

	h := NewUserHandler(testhelpers.PochaFacadeStub{
		SaveProfileFn: func(_ context.Context, got model.Caller, gotName, gotEmail, _ string) (*model.User, error) {
			if got != caller || gotName != name || gotEmail != email {
				t.Fatalf("unexpected profile passed to facade: %+v %q %q", got, gotName, gotEmail)
			}
			return &model.User{ID: got.ID, Name: gotName, Email: gotEmail, Role: model.RoleUser}, nil
		},
	}, discardLogger)

	body := mustJSON(t, dto.ProfileRequest{Name: name, Email: email})
	resp := performRequest(t, http.MethodPut, "/user/profile", "/user/profile", h.SaveProfile, caller, body, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var user dto.UserResponse
	decodeBody(t, resp, &user)
	if user.ID != subject || user.Name != name {
		t.Fatalf("unexpected user %+v", user)
	}
}
