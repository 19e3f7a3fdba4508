package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks fulfillment as independent booleans rather than a single
// enum; the display label is derived by priority (cancelled > received > paid).
type OrderStatus struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null;unique"`
	Paid         bool       `gorm:"column:paid;not null;default:false"`
	Received     bool       `gorm:"column:received;not null;default:false"`
	ReceivedAt   *time.Time `gorm:"column:received_at"`
	Cancelled    bool       `gorm:"column:cancelled;not null;default:false"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at"`
	CancelReason *string    `gorm:"column:cancel_reason"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
