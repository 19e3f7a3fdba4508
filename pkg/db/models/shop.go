package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is an organization selling merchandise on the storefront.
type Shop struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Acronym   string    `gorm:"column:acronym;not null"`
	LogoURL   *string   `gorm:"column:logo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ShopOperator grants a user management rights over a shop's listings and orders.
type ShopOperator struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_shop_operators_shop_user"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_shop_operators_shop_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
