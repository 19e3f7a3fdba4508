package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one unpurchased selection in a user's cart.
//
// SizeID is nil when no size is selected or the chosen variant has no sizes.
// Changing the variant always clears SizeID because sizes are scoped to a variant.
type CartLine struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	MerchandiseID uuid.UUID  `gorm:"column:merchandise_id;type:uuid;not null"`
	VariantID     uuid.UUID  `gorm:"column:variant_id;type:uuid;not null"`
	SizeID        *uuid.UUID `gorm:"column:size_id;type:uuid"`
	Quantity      int        `gorm:"column:quantity;not null;default:1"`

	Merchandise *Merchandise `gorm:"foreignKey:MerchandiseID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
