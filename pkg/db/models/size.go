package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size is an optional sub-configuration of a variant. Its price columns are
// overrides: when nil, the parent variant's prices apply.
type Size struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VariantID       uuid.UUID        `gorm:"column:variant_id;type:uuid;not null"`
	Name            string           `gorm:"column:name;not null"`
	OriginalPrice   *decimal.Decimal `gorm:"column:original_price;type:numeric(12,2)"`
	MembershipPrice *decimal.Decimal `gorm:"column:membership_price;type:numeric(12,2)"`
	Position        int              `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
}
