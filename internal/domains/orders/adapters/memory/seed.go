package memory

import (
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

type catalogItem struct {
	name       string
	priceCents int64
}

var dairyCatalog = []catalogItem{
	{"Whole milk 1L", 189},
	{"Greek yogurt 500g", 349},
	{"Salted butter 250g", 429},
	{"Aged cheddar 200g", 599},
	{"Kefir 750ml", 279},
	{"Cottage cheese 400g", 319},
	{"Heavy cream 300ml", 259},
	{"Goat cheese 150g", 489},
}

// DemoOrders generates plausible dairy orders spread across every status.
// Roughly one in ten orders has no customer details.
func DemoOrders(fake faker.Faker, count int, now time.Time) []*domain.Order {
	orders := make([]*domain.Order, 0, count)
	for i := 0; i < count; i++ {
		lines := fake.IntBetween(1, 4)
		items := make([]domain.Item, 0, lines)
		total := decimal.Zero
		for j := 0; j < lines; j++ {
			product := dairyCatalog[fake.IntBetween(0, len(dairyCatalog)-1)]
			qty := fake.IntBetween(1, 6)
			price := decimal.New(product.priceCents, -2)
			items = append(items, domain.Item{Name: product.name, Quantity: qty, Price: price})
			total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		var customer *domain.CustomerInfo
		if fake.IntBetween(1, 10) > 1 {
			customer = &domain.CustomerInfo{
				FullName: fake.Person().Name(),
				Email:    fake.Internet().Email(),
				Phone:    fake.Phone().Number(),
				Address:  fake.Address().Address(),
			}
		}

		createdAt := now.Add(-time.Duration(fake.IntBetween(0, 30*24)) * time.Hour)
		order, err := domain.NewOrder(cuid.New(), items, total, customer, createdAt)
		if err != nil {
			continue
		}
		order.Status = domain.Statuses[fake.IntBetween(0, len(domain.Statuses)-1)]
		orders = append(orders, order)
	}
	return orders
}
