package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	"github.com/campuscart/campuscart-backend/pkg/enums"
)

// OrderDTO is one submitted purchase with its derived display status.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	ShopID          uuid.UUID           `json:"shop_id"`
	ShopName        string              `json:"shop_name,omitempty"`
	MerchandiseID   uuid.UUID           `json:"merchandise_id"`
	MerchandiseName string              `json:"merchandise_name"`
	VariantName     string              `json:"variant_name"`
	SizeName        *string             `json:"size_name,omitempty"`
	Quantity        int                 `json:"quantity"`
	UnitPrice       decimal.Decimal     `json:"unit_price"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	ReceiptURL      *string             `json:"receipt_url,omitempty"`
	Cancellable     bool                `json:"cancellable"`
	Status          StatusView          `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toDTO(order *models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              order.ID,
		ShopID:          order.ShopID,
		MerchandiseID:   order.MerchandiseID,
		MerchandiseName: order.Merchandise,
		VariantName:     order.VariantName,
		SizeName:        order.SizeName,
		Quantity:        order.Quantity,
		UnitPrice:       order.UnitPrice,
		TotalPrice:      order.TotalPrice,
		PaymentMethod:   order.PaymentMethod,
		ReceiptURL:      order.ReceiptURL,
		Cancellable:     order.Cancellable,
		Status:          DeriveStatus(order.Status),
		CreatedAt:       order.CreatedAt,
	}
	if order.Shop != nil {
		dto.ShopName = order.Shop.Name
	}
	return dto
}
