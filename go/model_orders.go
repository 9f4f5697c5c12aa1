package storefrontserver

import (
	"time"

	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	orderapp "github.com/Apurer/dairy-storefront/internal/domains/orders/application"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type CustomerInfo struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type Order struct {
	Id           string        `json:"id"`
	Status       string        `json:"status"`
	Items        []Item        `json:"items"`
	Total        string        `json:"total"`
	CustomerInfo *CustomerInfo `json:"customerInfo,omitempty"`
	CreatedAt    *time.Time    `json:"createdAt,omitempty"`
}

type Statistics struct {
	ByStatus     map[string]int `json:"byStatus"`
	TotalOrders  int            `json:"totalOrders"`
	TotalRevenue string         `json:"totalRevenue"`
}

type OrderList struct {
	Orders     []Order    `json:"orders"`
	Statistics Statistics `json:"statistics"`
}

type StatusChange struct {
	Id         string    `json:"id"`
	OrderId    string    `json:"orderId"`
	From       string    `json:"fromStatus"`
	To         string    `json:"toStatus"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`
}

type ConsoleView struct {
	Mounted      bool       `json:"mounted"`
	Orders       []Order    `json:"orders"`
	Statistics   Statistics `json:"statistics"`
	StatusFilter string     `json:"statusFilter"`
	SearchTerm   string     `json:"searchTerm"`
	Selected     *Order     `json:"selected,omitempty"`
	Updating     bool       `json:"updating"`
	Error        string     `json:"error,omitempty"`
	ErrorKind    string     `json:"errorKind,omitempty"`
}

type ConsoleFilters struct {
	Status *string `json:"status"`
	Search *string `json:"search"`
}

type ConsoleSelection struct {
	OrderId string `json:"orderId" binding:"required"`
}

type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionToken struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func fromDomainOrder(order *domain.Order) Order {
	out := Order{
		Id:     order.ID,
		Status: string(order.Status),
		Items:  make([]Item, 0, len(order.Items)),
		Total:  order.Total.StringFixed(2),
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, Item{Name: item.Name, Quantity: item.Quantity, Price: item.Price.StringFixed(2)})
	}
	if c := order.Customer; c != nil {
		out.CustomerInfo = &CustomerInfo{FullName: c.FullName, Email: c.Email, Phone: c.Phone, Address: c.Address}
	}
	if !order.CreatedAt.IsZero() {
		created := order.CreatedAt.UTC()
		out.CreatedAt = &created
	}
	return out
}

func fromDomainOrders(orders []*domain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, fromDomainOrder(order))
	}
	return out
}

func fromDomainStatistics(stats domain.Statistics) Statistics {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return Statistics{ByStatus: byStatus, TotalOrders: stats.TotalOrders, TotalRevenue: stats.RevenueString()}
}

func fromDomainStatusChanges(changes []domain.StatusChange) []StatusChange {
	out := make([]StatusChange, 0, len(changes))
	for _, ch := range changes {
		out = append(out, StatusChange{
			Id:         ch.ID,
			OrderId:    ch.OrderID,
			From:       string(ch.From),
			To:         string(ch.To),
			Actor:      ch.Actor,
			OccurredAt: ch.OccurredAt,
		})
	}
	return out
}

func fromConsoleView(view orderapp.View) ConsoleView {
	out := ConsoleView{
		Mounted:      view.Mounted,
		Orders:       fromDomainOrders(view.Orders),
		Statistics:   fromDomainStatistics(view.Statistics),
		StatusFilter: string(view.StatusFilter),
		SearchTerm:   view.SearchTerm,
		Updating:     view.Updating,
		Error:        view.ErrorMessage(),
		ErrorKind:    string(view.Error),
	}
	if view.Selected != nil {
		selected := fromDomainOrder(view.Selected)
		out.Selected = &selected
	}
	return out
}

func fromDomainSession(session identitydomain.Session) SessionToken {
	return SessionToken{
		Token:     session.Token,
		Username:  session.Username,
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt,
	}
}
