package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is one purchasable configuration of a merchandise listing.
type Variant struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchandiseID uuid.UUID       `gorm:"column:merchandise_id;type:uuid;not null"`
	Name          string          `gorm:"column:name;not null"`
	PictureURL    *string         `gorm:"column:picture_url"`
	OriginalPrice decimal.Decimal `gorm:"column:original_price;type:numeric(12,2);not null"`
	// MembershipPrice is nil when the shop offers no member discount on this variant.
	MembershipPrice *decimal.Decimal `gorm:"column:membership_price;type:numeric(12,2)"`
	Position        int              `gorm:"column:position;not null;default:0"`

	Sizes []Size `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
