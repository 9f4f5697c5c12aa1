package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

// OrderAPI serves stateless admin reads over the order list.
type OrderAPI struct {
	service ports.QueryService
	history *orderapp.History
}

func NewOrderAPI(service ports.QueryService, history *orderapp.History) OrderAPI {
	return OrderAPI{service: service, history: history}
}

// Get /v1/admin/orders
// Lists orders filtered by ?status= and ?q=, with statistics over the full list
func (api *OrderAPI) ListOrders(c *gin.Context) {
	filter, err := domain.ParseStatusFilter(c.Query("status"))
	if err != nil {
		respondError(c, orderapp.ErrInvalidInput)
		return
	}
	orders, err := api.service.FetchAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderList{
		Orders:     fromDomainOrders(domain.Filter(orders, filter, c.Query("q"))),
		Statistics: fromDomainStatistics(domain.Aggregate(orders)),
	})
}

// Get /v1/admin/statistics
// Per-status counts and delivered revenue
func (api *OrderAPI) GetStatistics(c *gin.Context) {
	orders, err := api.service.FetchAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainStatistics(domain.Aggregate(orders)))
}

// Get /v1/admin/orders/:orderId/history
// Recorded status changes of one order
func (api *OrderAPI) GetOrderHistory(c *gin.Context) {
	changes, err := api.history.ForOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainStatusChanges(changes))
}
