package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscart/campuscart-backend/pkg/enums"
)

// Order is a submitted purchase. Variant/size names and the unit price are
// snapshotted at submission time so later listing edits never change history.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ShopID        uuid.UUID           `gorm:"column:shop_id;type:uuid;not null;index"`
	MerchandiseID uuid.UUID           `gorm:"column:merchandise_id;type:uuid;not null"`
	Merchandise   string              `gorm:"column:merchandise_name;not null"`
	VariantName   string              `gorm:"column:variant_name;not null"`
	SizeName      *string             `gorm:"column:size_name"`
	Quantity      int                 `gorm:"column:quantity;not null"`
	UnitPrice     decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,2);not null"`
	TotalPrice    decimal.Decimal     `gorm:"column:total_price;type:numeric(12,2);not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	ReceiptURL    *string             `gorm:"column:receipt_url"`
	Cancellable   bool                `gorm:"column:cancellable;not null;default:false"`

	Shop   *Shop        `gorm:"foreignKey:ShopID"`
	Status *OrderStatus `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
