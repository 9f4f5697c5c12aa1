//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	pacttest "github.com/Apurer/dairy-storefront/test/pact"

	storefrontserver "github.com/Apurer/dairy-storefront/go"
	identitymemory "github.com/Apurer/dairy-storefront/internal/domains/identity/adapters/memory"
	identityapp "github.com/Apurer/dairy-storefront/internal/domains/identity/application"
	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	ordersmemory "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestStorefrontProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	var current atomic.Pointer[contractProviderApp]
	current.Store(newContractProviderApp(t))

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateAdminAccount: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
		pacttest.StateNoSession: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			return nil, nil
		},
		pacttest.StateOrdersBase: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				app := current.Load()
				app.seedOrders(t)
				app.activateAdminToken(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: serve(t, &current),
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			current.Store(newContractProviderApp(t))
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	store    *ordersmemory.Store
	sessions *identitymemory.SessionStore
	router   *gin.Engine
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	ctx := context.Background()

	store := ordersmemory.NewStore()
	sessions := identitymemory.NewSessionStore()
	identity := identityapp.NewService(identitymemory.NewUserRepository(), sessions)
	_, err := identity.EnsureUser(ctx, pacttest.AdminUsername, pacttest.AdminPassword, identitydomain.RoleAdmin)
	require.NoError(t, err)

	orderService := ordersobs.New(ordersapp.NewService(store))
	auditLog := ordersmemory.NewAuditLog()
	consoles := ordersapp.NewConsoles(orderService, ordersapp.WithRecorder(ordersworkflows.NewInlineRecorder(auditLog)))

	handlers := storefrontserver.ApiHandleFunctions{
		OrderAPI:   storefrontserver.NewOrderAPI(orderService, ordersapp.NewHistory(auditLog)),
		ConsoleAPI: storefrontserver.NewConsoleAPI(consoles),
		SessionAPI: storefrontserver.NewSessionAPI(identity, consoles),
		Sessions:   identity,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = storefrontserver.NewRouterWithGinEngine(router, handlers)

	return &contractProviderApp{store: store, sessions: sessions, router: router}
}

func (a *contractProviderApp) seedOrders(t testing.TB) {
	t.Helper()
	now := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	pending, err := domain.NewOrder(pacttest.PendingOrderID,
		[]domain.Item{{Name: "Kefir 750ml", Quantity: 2, Price: decimal.RequireFromString("2.79")}},
		decimal.RequireFromString("5.58"),
		&domain.CustomerInfo{FullName: "Pact Customer", Email: "pact.customer@example.com"}, now)
	require.NoError(t, err)
	delivered, err := domain.NewOrder(pacttest.DeliveredOrderID,
		[]domain.Item{{Name: "Aged cheddar 200g", Quantity: 2, Price: decimal.RequireFromString("6.00")}},
		decimal.RequireFromString("12.00"), nil, now)
	require.NoError(t, err)
	delivered.Status = domain.StatusDelivered
	require.NoError(t, a.store.Insert(context.Background(), pending, delivered))
}

func (a *contractProviderApp) activateAdminToken(t testing.TB) {
	t.Helper()
	require.NoError(t, a.sessions.Save(context.Background(), identitydomain.Session{
		Token:     pacttest.AdminToken,
		Username:  pacttest.AdminUsername,
		Role:      identitydomain.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
}

// serve routes to whichever app is current so BeforeEach can rebuild state.
func serve(t testing.TB, current *atomic.Pointer[contractProviderApp]) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current.Load().router.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return server.URL
}
