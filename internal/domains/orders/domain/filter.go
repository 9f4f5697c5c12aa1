package domain

import "strings"

// StatusFilter is either a Status or StatusFilterAll.
type StatusFilter string

// StatusFilterAll disables the status predicate.
const StatusFilterAll StatusFilter = "All"

// ParseStatusFilter maps transport input to a filter. Empty input means All.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == string(StatusFilterAll) {
		return StatusFilterAll, nil
	}
	status, err := ParseStatus(raw)
	if err != nil {
		return "", err
	}
	return StatusFilter(status), nil
}

// Matches reports whether the order passes the status predicate.
func (f StatusFilter) Matches(order *Order) bool {
	if f == StatusFilterAll || f == "" {
		return true
	}
	return order.Status == Status(f)
}

// Filter returns the orders matching both the status filter and the search term,
// preserving input order. The input slice and its orders are not modified.
func Filter(orders []*Order, status StatusFilter, searchTerm string) []*Order {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	out := make([]*Order, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		if !status.Matches(order) {
			continue
		}
		if term != "" && !matchesTerm(order, term) {
			continue
		}
		out = append(out, order)
	}
	return out
}

// matchesTerm expects term to be trimmed, lowercased and non-empty.
func matchesTerm(order *Order, term string) bool {
	return containsFold(order.ID, term) ||
		containsFold(order.Email(), term) ||
		containsFold(order.FullName(), term)
}

func containsFold(field, term string) bool {
	if field == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), term)
}
