package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

var _ ports.AuditLog = (*AuditLog)(nil)

// AuditLog persists status changes in the order_status_events table.
type AuditLog struct {
	db *gorm.DB
}

func NewAuditLog(db *gorm.DB) *AuditLog {
	return &AuditLog{db: db}
}

type statusEventRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:64"`
	OrderID    string    `gorm:"column:order_id;size:64;index:idx_order_status_events_order"`
	FromStatus string    `gorm:"column:from_status;type:varchar(32)"`
	ToStatus   string    `gorm:"column:to_status;type:varchar(32)"`
	Actor      string    `gorm:"column:actor"`
	OccurredAt time.Time `gorm:"column:occurred_at;index:idx_order_status_events_order"`
}

func (statusEventRecord) TableName() string { return "order_status_events" }

// Append ignores duplicates of an already stored change id, so activity
// retries are safe.
func (l *AuditLog) Append(ctx context.Context, change domain.StatusChange) error {
	if l == nil || l.db == nil {
		return errors.New("postgres audit log not configured")
	}
	record := statusEventRecord{
		ID:         change.ID,
		OrderID:    change.OrderID,
		FromStatus: string(change.From),
		ToStatus:   string(change.To),
		Actor:      change.Actor,
		OccurredAt: change.OccurredAt,
	}
	return l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

func (l *AuditLog) ListByOrder(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("postgres audit log not configured")
	}
	var records []statusEventRecord
	if err := l.db.WithContext(ctx).Where("order_id = ?", orderID).Order("occurred_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	changes := make([]domain.StatusChange, 0, len(records))
	for _, r := range records {
		changes = append(changes, domain.StatusChange{
			ID:         r.ID,
			OrderID:    r.OrderID,
			From:       domain.Status(r.FromStatus),
			To:         domain.Status(r.ToStatus),
			Actor:      r.Actor,
			OccurredAt: r.OccurredAt,
		})
	}
	return changes, nil
}
