package storefrontserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	identitymemory "github.com/Apurer/dairy-storefront/internal/domains/identity/adapters/memory"
	identityapp "github.com/Apurer/dairy-storefront/internal/domains/identity/application"
	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	ordersmemory "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/memory"
	ordersworkflows "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

const (
	adminUser     = "dairy-admin"
	adminPassword = "churned-butter"
	customerUser  = "carol"
)

type testServer struct {
	router *gin.Engine
	store  *ordersmemory.Store
	failer *failingService
}

// failingService lets a test force store failures behind the real service.
type failingService struct {
	inner     ports.QueryService
	failFetch bool
	failWrite bool
}

func (f *failingService) FetchAllOrders(ctx context.Context) ([]*domain.Order, error) {
	if f.failFetch {
		return nil, fmt.Errorf("%w: %w", orderapp.ErrFetch, errors.New("connection refused"))
	}
	return f.inner.FetchAllOrders(ctx)
}

func (f *failingService) SetOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	if f.failWrite {
		return fmt.Errorf("%w: %w", orderapp.ErrUpdate, errors.New("connection refused"))
	}
	return f.inner.SetOrderStatus(ctx, orderID, status)
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := ordersmemory.NewStore()
	created := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(ctx,
		&domain.Order{ID: "ord-1", Status: domain.StatusPending, Total: decimal.RequireFromString("4.50"),
			Items:    []domain.Item{{Name: "Kefir", Quantity: 3, Price: decimal.RequireFromString("1.50")}},
			Customer: &domain.CustomerInfo{FullName: "Ana Milk", Email: "ana@example.com"}, CreatedAt: created},
		&domain.Order{ID: "ord-2", Status: domain.StatusDelivered, Total: decimal.RequireFromString("12.00"),
			Customer: &domain.CustomerInfo{Email: "bo@example.com"}, CreatedAt: created.Add(time.Hour)},
		&domain.Order{ID: "ord-3", Status: domain.StatusShipped, Total: decimal.RequireFromString("2.00"), CreatedAt: created.Add(2 * time.Hour)},
	))

	identity := identityapp.NewService(identitymemory.NewUserRepository(), identitymemory.NewSessionStore())
	_, err := identity.EnsureUser(ctx, adminUser, adminPassword, identitydomain.RoleAdmin)
	require.NoError(t, err)
	_, err = identity.EnsureUser(ctx, customerUser, adminPassword, identitydomain.RoleCustomer)
	require.NoError(t, err)

	failer := &failingService{inner: orderapp.NewService(store)}
	auditLog := ordersmemory.NewAuditLog()
	consoles := orderapp.NewConsoles(failer, orderapp.WithRecorder(ordersworkflows.NewInlineRecorder(auditLog)))

	handlers := ApiHandleFunctions{
		OrderAPI:   NewOrderAPI(failer, orderapp.NewHistory(auditLog)),
		ConsoleAPI: NewConsoleAPI(consoles),
		SessionAPI: NewSessionAPI(identity, consoles),
		Sessions:   identity,
	}
	router := gin.New()
	router.Use(RequestID())
	return &testServer{router: NewRouterWithGinEngine(router, handlers), store: store, failer: failer}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/session/login", "", LoginRequest{Username: username, Password: adminPassword})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session SessionToken
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func orderIDs(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Id)
	}
	return out
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/v1/session/login", "", LoginRequest{Username: adminUser, Password: "wrong-password"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestAdminRoutes_RequireAdminSession(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/admin/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := srv.login(t, customerUser)
	rec = srv.do(t, http.MethodGet, "/v1/admin/orders", customer, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestListOrders_FiltersAndReportsFullStatistics(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)

	rec := srv.do(t, http.MethodGet, "/v1/admin/orders?status=Delivered", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[OrderList](t, rec)
	require.Equal(t, []string{"ord-2"}, orderIDs(list.Orders))
	require.Equal(t, 3, list.Statistics.TotalOrders)
	require.Equal(t, "12.00", list.Statistics.TotalRevenue)

	rec = srv.do(t, http.MethodGet, "/v1/admin/orders?q=ANA", token, nil)
	require.Equal(t, []string{"ord-1"}, orderIDs(decode[OrderList](t, rec).Orders))

	rec = srv.do(t, http.MethodGet, "/v1/admin/orders?status=delivered", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatistics(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)

	rec := srv.do(t, http.MethodGet, "/v1/admin/statistics", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[Statistics](t, rec)
	require.Equal(t, 1, stats.ByStatus["Pending"])
	require.Equal(t, 0, stats.ByStatus["Cancelled"])
	require.Equal(t, "12.00", stats.TotalRevenue)

	srv.failer.failFetch = true
	rec = srv.do(t, http.MethodGet, "/v1/admin/statistics", token, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestConsole_StatusUpdateFlow(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)

	rec := srv.do(t, http.MethodGet, "/v1/admin/console", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/admin/console", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decode[ConsoleView](t, rec)
	require.True(t, view.Mounted)
	require.Equal(t, "All", view.StatusFilter)
	require.Len(t, view.Orders, 3)

	status := "Pending"
	rec = srv.do(t, http.MethodPut, "/v1/admin/console/filters", token, ConsoleFilters{Status: &status})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"ord-1"}, orderIDs(decode[ConsoleView](t, rec).Orders))

	rec = srv.do(t, http.MethodPut, "/v1/admin/console/selection", token, ConsoleSelection{OrderId: "ord-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/admin/console/orders/ord-1/status", token, StatusUpdate{Status: "Shipped"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[ConsoleView](t, rec)
	require.Empty(t, view.Orders, "filtered out after moving away from Pending")
	require.NotNil(t, view.Selected)
	require.Equal(t, "Shipped", view.Selected.Status)
	require.Equal(t, 2, view.Statistics.ByStatus["Shipped"])

	stored, err := srv.store.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, stored[0].Status)

	rec = srv.do(t, http.MethodGet, "/v1/admin/orders/ord-1/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[[]StatusChange](t, rec)
	require.Len(t, history, 1)
	require.Equal(t, "Pending", history[0].From)
	require.Equal(t, "Shipped", history[0].To)
	require.Equal(t, adminUser, history[0].Actor)

	rec = srv.do(t, http.MethodDelete, "/v1/admin/console", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodGet, "/v1/admin/console", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_StoreFailureCarriesView(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/v1/admin/console", token, nil).Code)

	srv.failer.failWrite = true
	rec := srv.do(t, http.MethodPost, "/v1/admin/console/orders/ord-3/status", token, StatusUpdate{Status: "Delivered"})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var problem struct {
		Detail     string `json:"detail"`
		Extensions struct {
			View ConsoleView `json:"view"`
		} `json:"extensions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "Failed to update order status", problem.Detail)
	require.Equal(t, "Failed to update order status", problem.Extensions.View.Error)
	require.False(t, problem.Extensions.View.Updating)

	rec = srv.do(t, http.MethodDelete, "/v1/admin/console/error", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[ConsoleView](t, rec).Error)
}

func TestConsole_InvalidStatusAndUnknownOrder(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/v1/admin/console", token, nil).Code)

	rec := srv.do(t, http.MethodPost, "/v1/admin/console/orders/ord-1/status", token, StatusUpdate{Status: "Lost"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/admin/console/orders/ord-404/status", token, StatusUpdate{Status: "Shipped"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPut, "/v1/admin/console/selection", token, ConsoleSelection{OrderId: "ord-404"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_FailedLoadStillMounts(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)
	srv.failer.failFetch = true

	rec := srv.do(t, http.MethodPost, "/v1/admin/console", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decode[ConsoleView](t, rec)
	require.Empty(t, view.Orders)
	require.Equal(t, "Failed to load orders", view.Error)
}

func TestLogout_ForgetsSessionAndConsole(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t, adminUser)
	require.Equal(t, http.StatusCreated, srv.do(t, http.MethodPost, "/v1/admin/console", token, nil).Code)

	rec := srv.do(t, http.MethodPost, "/v1/session/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/admin/console", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
