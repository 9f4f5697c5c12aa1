package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters do not migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&statusEventRecord{},
		&userRecord{},
		&sessionRecord{},
	)
}

// Order schema mirrors the orders Postgres store.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	Status          string          `gorm:"column:status;type:varchar(32);index"`
	Items           []orderItem     `gorm:"column:items;serializer:json"`
	Total           decimal.Decimal `gorm:"column:total;type:numeric(12,2)"`
	CustomerName    *string         `gorm:"column:customer_full_name"`
	CustomerEmail   *string         `gorm:"column:customer_email;index"`
	CustomerPhone   *string         `gorm:"column:customer_phone"`
	CustomerAddress *string         `gorm:"column:customer_address"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

type orderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (orderRecord) TableName() string { return "orders" }

// Status event schema mirrors the orders audit log.
type statusEventRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:64"`
	OrderID    string    `gorm:"column:order_id;size:64;index:idx_order_status_events_order"`
	FromStatus string    `gorm:"column:from_status;type:varchar(32)"`
	ToStatus   string    `gorm:"column:to_status;type:varchar(32)"`
	Actor      string    `gorm:"column:actor"`
	OccurredAt time.Time `gorm:"column:occurred_at;index:idx_order_status_events_order"`
}

func (statusEventRecord) TableName() string { return "order_status_events" }

// User schema mirrors the identity Postgres adapter.
type userRecord struct {
	ID           string    `gorm:"primaryKey;column:id;size:64"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;index"`
	Role      string     `gorm:"column:role;type:varchar(16)"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }
