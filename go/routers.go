package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Admin routes run behind RequireAdmin.
	Admin bool
}

// ApiHandleFunctions groups the HTTP handlers of every resource.
type ApiHandleFunctions struct {
	OrderAPI   OrderAPI
	ConsoleAPI ConsoleAPI
	SessionAPI SessionAPI
	// Sessions resolves bearer tokens for admin routes.
	Sessions SessionResolver
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	admin := RequireAdmin(handleFunctions.Sessions)
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Admin {
			handlers = append([]gin.HandlerFunc{admin}, handlers...)
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, handlers...)
		case http.MethodPost:
			router.POST(route.Pattern, handlers...)
		case http.MethodPut:
			router.PUT(route.Pattern, handlers...)
		case http.MethodPatch:
			router.PATCH(route.Pattern, handlers...)
		case http.MethodDelete:
			router.DELETE(route.Pattern, handlers...)
		}
	}
	return router
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", healthz, false},
		{"Login", http.MethodPost, "/v1/session/login", handleFunctions.SessionAPI.Login, false},
		{"Logout", http.MethodPost, "/v1/session/logout", handleFunctions.SessionAPI.Logout, false},
		{"ListOrders", http.MethodGet, "/v1/admin/orders", handleFunctions.OrderAPI.ListOrders, true},
		{"GetStatistics", http.MethodGet, "/v1/admin/statistics", handleFunctions.OrderAPI.GetStatistics, true},
		{"GetOrderHistory", http.MethodGet, "/v1/admin/orders/:orderId/history", handleFunctions.OrderAPI.GetOrderHistory, true},
		{"MountConsole", http.MethodPost, "/v1/admin/console", handleFunctions.ConsoleAPI.MountConsole, true},
		{"GetConsole", http.MethodGet, "/v1/admin/console", handleFunctions.ConsoleAPI.GetConsole, true},
		{"UnmountConsole", http.MethodDelete, "/v1/admin/console", handleFunctions.ConsoleAPI.UnmountConsole, true},
		{"UpdateFilters", http.MethodPut, "/v1/admin/console/filters", handleFunctions.ConsoleAPI.UpdateFilters, true},
		{"SelectOrder", http.MethodPut, "/v1/admin/console/selection", handleFunctions.ConsoleAPI.SelectOrder, true},
		{"ClearSelection", http.MethodDelete, "/v1/admin/console/selection", handleFunctions.ConsoleAPI.ClearSelection, true},
		{"UpdateOrderStatus", http.MethodPost, "/v1/admin/console/orders/:orderId/status", handleFunctions.ConsoleAPI.UpdateOrderStatus, true},
		{"DismissError", http.MethodDelete, "/v1/admin/console/error", handleFunctions.ConsoleAPI.DismissError, true},
	}
}
