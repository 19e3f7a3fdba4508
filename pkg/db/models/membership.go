package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership marks a user as an active member of a shop, unlocking member pricing.
type Membership struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_memberships_user_shop"`
	ShopID    uuid.UUID `gorm:"column:shop_id;type:uuid;not null;uniqueIndex:idx_memberships_user_shop"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
