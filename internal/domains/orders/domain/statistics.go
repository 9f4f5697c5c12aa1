package domain

import "github.com/shopspring/decimal"

// Statistics summarises the full order list for the admin dashboard.
type Statistics struct {
	ByStatus     map[Status]int
	TotalOrders  int
	TotalRevenue decimal.Decimal
}

// Aggregate computes per-status counts and delivered revenue in a single pass.
// Statuses outside the enumeration count toward TotalOrders only.
func Aggregate(orders []*Order) Statistics {
	stats := Statistics{
		ByStatus:     make(map[Status]int, len(Statuses)),
		TotalOrders:  len(orders),
		TotalRevenue: decimal.Zero,
	}
	for _, status := range Statuses {
		stats.ByStatus[status] = 0
	}
	for _, order := range orders {
		if order == nil {
			continue
		}
		if _, known := stats.ByStatus[order.Status]; !known {
			continue
		}
		stats.ByStatus[order.Status]++
		if order.Status == StatusDelivered {
			stats.TotalRevenue = stats.TotalRevenue.Add(order.Total)
		}
	}
	stats.TotalRevenue = stats.TotalRevenue.Round(2)
	return stats
}

// Count returns the number of orders in the given status.
func (s Statistics) Count(status Status) int {
	return s.ByStatus[status]
}

// RevenueString formats revenue with two decimals, e.g. "15.00".
func (s Statistics) RevenueString() string {
	return s.TotalRevenue.StringFixed(2)
}
