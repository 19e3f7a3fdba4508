package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	"github.com/campuscart/campuscart-backend/pkg/pricing"
)

// SizeOptionDTO is one selectable size for the line's current variant.
type SizeOptionDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// LineDTO is one cart entry joined with its listing, priced for the owner.
type LineDTO struct {
	ID              uuid.UUID       `json:"id"`
	MerchandiseID   uuid.UUID       `json:"merchandise_id"`
	MerchandiseName string          `json:"merchandise_name"`
	ShopID          uuid.UUID       `json:"shop_id"`
	ShopName        string          `json:"shop_name,omitempty"`
	PictureURL      *string         `json:"picture_url,omitempty"`
	VariantLabel    string          `json:"variant_label"`
	VariantID       uuid.UUID       `json:"variant_id"`
	VariantName     string          `json:"variant_name"`
	SizeID          *uuid.UUID      `json:"size_id,omitempty"`
	SizeName        *string         `json:"size_name,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	IsMemberPriced  bool            `json:"is_member_priced"`
	// AvailableSizes lists the sizes valid for the currently chosen variant.
	AvailableSizes []SizeOptionDTO `json:"available_sizes"`
	// Unpriceable is set when the chosen variant no longer exists on the listing.
	Unpriceable     bool `json:"unpriceable"`
	OnlinePayment   bool `json:"online_payment"`
	PhysicalPayment bool `json:"physical_payment"`
	Cancellable     bool `json:"cancellable"`
}

// CartDTO is the full cart read model.
type CartDTO struct {
	Lines []LineDTO `json:"lines"`
}

func toLineDTO(line *models.CartLine, isMember bool) LineDTO {
	dto := LineDTO{
		ID:            line.ID,
		MerchandiseID: line.MerchandiseID,
		VariantID:     line.VariantID,
		SizeID:        line.SizeID,
		Quantity:      line.Quantity,
		UnitPrice:     decimal.Zero,
		TotalPrice:    decimal.Zero,
	}

	merch := line.Merchandise
	if merch == nil {
		dto.Unpriceable = true
		return dto
	}

	dto.MerchandiseName = merch.Name
	dto.ShopID = merch.ShopID
	dto.VariantLabel = merch.VariantLabel
	dto.OnlinePayment = merch.OnlinePayment
	dto.PhysicalPayment = merch.PhysicalPayment
	dto.Cancellable = merch.Cancellable
	if merch.Shop != nil {
		dto.ShopName = merch.Shop.Name
	}
	if len(merch.Pictures) > 0 {
		dto.PictureURL = &merch.Pictures[0].PictureURL
	}

	if variant := pricing.FindVariant(merch, line.VariantID); variant != nil {
		dto.VariantName = variant.Name
		dto.IsMemberPriced = isMember && variant.MembershipPrice != nil
		dto.AvailableSizes = make([]SizeOptionDTO, 0, len(variant.Sizes))
		for _, sz := range variant.Sizes {
			dto.AvailableSizes = append(dto.AvailableSizes, SizeOptionDTO{ID: sz.ID, Name: sz.Name})
		}
		if line.SizeID != nil {
			if size := pricing.FindSize(variant, *line.SizeID); size != nil {
				dto.SizeName = &size.Name
			}
		}
	}

	quote := pricing.Resolve(merch, line.VariantID, line.SizeID, line.Quantity, isMember)
	dto.Unpriceable = quote.VariantMissing
	if !quote.VariantMissing {
		dto.UnitPrice = quote.Unit
		dto.TotalPrice = quote.Total
	}
	return dto
}
