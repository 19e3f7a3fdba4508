package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Merchandise is a sellable listing owned by a shop.
type Merchandise struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ShopID          uuid.UUID `gorm:"column:shop_id;type:uuid;not null"`
	Name            string    `gorm:"column:name;not null"`
	Description     string    `gorm:"column:description;not null;default:''"`
	ReceivingInfo   string    `gorm:"column:receiving_info;not null;default:''"`
	OnlinePayment   bool      `gorm:"column:online_payment;not null;default:false"`
	PhysicalPayment bool      `gorm:"column:physical_payment;not null;default:false"`
	Cancellable     bool      `gorm:"column:cancellable;not null;default:false"`
	// VariantLabel names what a variant represents for this listing, e.g. "Color".
	VariantLabel string         `gorm:"column:variant_label;not null;default:'Variant'"`
	Tags         pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`

	Shop       *Shop                 `gorm:"foreignKey:ShopID"`
	Pictures   []MerchandisePicture  `gorm:"foreignKey:MerchandiseID;constraint:OnDelete:CASCADE"`
	Variants   []Variant             `gorm:"foreignKey:MerchandiseID;constraint:OnDelete:CASCADE"`
	Categories []MerchandiseCategory `gorm:"foreignKey:MerchandiseID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the uncountable noun instead of gorm's pluralization.
func (Merchandise) TableName() string { return "merchandise" }

// MerchandisePicture is one gallery image; Position preserves gallery order.
type MerchandisePicture struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchandiseID uuid.UUID `gorm:"column:merchandise_id;type:uuid;not null"`
	PictureURL    string    `gorm:"column:picture_url;not null"`
	Position      int       `gorm:"column:position;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Category is a browsing facet maintained by administrators.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// MerchandiseCategory links a listing to a category.
type MerchandiseCategory struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MerchandiseID uuid.UUID `gorm:"column:merchandise_id;type:uuid;not null;uniqueIndex:idx_merch_categories_pair"`
	CategoryID    uuid.UUID `gorm:"column:category_id;type:uuid;not null;uniqueIndex:idx_merch_categories_pair"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
