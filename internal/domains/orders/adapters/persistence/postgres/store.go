package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// Store reads and updates orders in PostgreSQL using GORM. The schema is
// owned by platform/migrations.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed order store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// orderRecord maps an order to the orders table. Items are stored as JSON.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	Items           []itemRecord    `gorm:"column:items;serializer:json"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	CustomerName    *string         `gorm:"column:customer_full_name"`
	CustomerEmail   *string         `gorm:"column:customer_email;index"`
	CustomerPhone   *string         `gorm:"column:customer_phone"`
	CustomerAddress *string         `gorm:"column:customer_address"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

type itemRecord struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (orderRecord) TableName() string { return "orders" }

// FetchAll scans the whole table in creation order.
func (s *Store) FetchAll(ctx context.Context) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		if records[i].ID == "" {
			return nil, ports.ErrMalformedRecord
		}
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus writes the status column only.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status domain.Status) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", orderID).UpdateColumn("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Insert upserts orders. Used by seeding and tests.
func (s *Store) Insert(ctx context.Context, orders ...*domain.Order) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	records := make([]orderRecord, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			return errors.New("order is nil")
		}
		records = append(records, toRecord(order))
	}
	if len(records) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres order store not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:        order.ID,
		Status:    string(order.Status),
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, itemRecord{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	if c := order.Customer; c != nil {
		rec.CustomerName = optional(c.FullName)
		rec.CustomerEmail = optional(c.Email)
		rec.CustomerPhone = optional(c.Phone)
		rec.CustomerAddress = optional(c.Address)
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:        r.ID,
		Status:    domain.Status(r.Status),
		Total:     r.Total,
		CreatedAt: r.CreatedAt,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.Item{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	if r.CustomerName != nil || r.CustomerEmail != nil || r.CustomerPhone != nil || r.CustomerAddress != nil {
		order.Customer = &domain.CustomerInfo{
			FullName: deref(r.CustomerName),
			Email:    deref(r.CustomerEmail),
			Phone:    deref(r.CustomerPhone),
			Address:  deref(r.CustomerAddress),
		}
	}
	return order
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
