package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

// ConsoleAPI exposes the per-session order console.
type ConsoleAPI struct {
	consoles *orderapp.Consoles
}

func NewConsoleAPI(consoles *orderapp.Consoles) ConsoleAPI {
	return ConsoleAPI{consoles: consoles}
}

// Post /v1/admin/console
// Mounts a fresh console and loads the order list once
func (api *ConsoleAPI) MountConsole(c *gin.Context) {
	console, err := api.consoles.Open(c.Request.Context(), CurrentSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromConsoleView(console.View()))
}

// Get /v1/admin/console
func (api *ConsoleAPI) GetConsole(c *gin.Context) {
	console, ok := api.console(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fromConsoleView(console.View()))
}

// Delete /v1/admin/console
func (api *ConsoleAPI) UnmountConsole(c *gin.Context) {
	api.consoles.Close(CurrentSession(c).Token)
	c.Status(http.StatusNoContent)
}

// Put /v1/admin/console/filters
// Changes the status filter and/or search term
func (api *ConsoleAPI) UpdateFilters(c *gin.Context) {
	var payload ConsoleFilters
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, badRequest(err))
		return
	}
	console, ok := api.console(c)
	if !ok {
		return
	}
	if payload.Status != nil {
		filter, err := domain.ParseStatusFilter(*payload.Status)
		if err != nil {
			respondError(c, orderapp.ErrInvalidInput)
			return
		}
		if err := console.SetStatusFilter(filter); err != nil {
			respondError(c, err)
			return
		}
	}
	if payload.Search != nil {
		console.SetSearchTerm(*payload.Search)
	}
	c.JSON(http.StatusOK, fromConsoleView(console.View()))
}

// Put /v1/admin/console/selection
// Opens the detail view of one order
func (api *ConsoleAPI) SelectOrder(c *gin.Context) {
	var payload ConsoleSelection
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, badRequest(err))
		return
	}
	console, ok := api.console(c)
	if !ok {
		return
	}
	if err := console.SelectOrder(payload.OrderId); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromConsoleView(console.View()))
}

// Delete /v1/admin/console/selection
func (api *ConsoleAPI) ClearSelection(c *gin.Context) {
	console, ok := api.console(c)
	if !ok {
		return
	}
	console.ClearSelection()
	c.JSON(http.StatusOK, fromConsoleView(console.View()))
}

// Post /v1/admin/console/orders/:orderId/status
// Requests a status change; refused with 409 while another is in flight
func (api *ConsoleAPI) UpdateOrderStatus(c *gin.Context) {
	var payload StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, badRequest(err))
		return
	}
	console, ok := api.console(c)
	if !ok {
		return
	}
	err := console.RequestStatusUpdate(c.Request.Context(), c.Param("orderId"), domain.Status(payload.Status))
	if err != nil {
		respondConsoleError(c, err, console.View())
		return
	}
	c.JSON(http.StatusOK, fromConsoleView(console.View()))
}

// Delete /v1/admin/console/error
// Dismisses the current error message
func (api *ConsoleAPI) DismissError(c *gin.Context) {
	console, ok := api.console(c)
	if !ok {
		return
	}
	console.DismissError()
	c.JSON(http.StatusOK, fromConsoleView(console.View()))
}

func (api *ConsoleAPI) console(c *gin.Context) (*orderapp.Controller, bool) {
	console, err := api.consoles.Get(CurrentSession(c).Token)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return console, true
}
