package merchandise

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// SummaryDTO is the listing card shown while browsing.
type SummaryDTO struct {
	ID         uuid.UUID       `json:"id"`
	ShopID     uuid.UUID       `json:"shop_id"`
	ShopName   string          `json:"shop_name,omitempty"`
	Name       string          `json:"name"`
	PictureURL *string         `json:"picture_url,omitempty"`
	MinPrice   decimal.Decimal `json:"min_price"`
	Tags       []string        `json:"tags"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DetailDTO is the full listing, variants and sizes included.
type DetailDTO struct {
	ID              uuid.UUID    `json:"id"`
	ShopID          uuid.UUID    `json:"shop_id"`
	ShopName        string       `json:"shop_name,omitempty"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	ReceivingInfo   string       `json:"receiving_info"`
	OnlinePayment   bool         `json:"online_payment"`
	PhysicalPayment bool         `json:"physical_payment"`
	Cancellable     bool         `json:"cancellable"`
	VariantLabel    string       `json:"variant_label"`
	Tags            []string     `json:"tags"`
	Pictures        []PictureDTO `json:"pictures"`
	Variants        []VariantDTO `json:"variants"`
	CreatedAt       time.Time    `json:"created_at"`
}

// PictureDTO is one gallery image.
type PictureDTO struct {
	ID         uuid.UUID `json:"id"`
	PictureURL string    `json:"picture_url"`
	Position   int       `json:"position"`
}

// VariantDTO carries both price tiers so clients can render member savings.
type VariantDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	PictureURL      *string          `json:"picture_url,omitempty"`
	OriginalPrice   decimal.Decimal  `json:"original_price"`
	MembershipPrice *decimal.Decimal `json:"membership_price,omitempty"`
	Position        int              `json:"position"`
	Sizes           []SizeDTO        `json:"sizes"`
}

// SizeDTO mirrors the size row; nil prices mean the variant price applies.
type SizeDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	MembershipPrice *decimal.Decimal `json:"membership_price,omitempty"`
	Position        int              `json:"position"`
}

// Page is one slice of listings plus the cursor for the next slice.
type Page struct {
	Items      []SummaryDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func toSummaryDTO(m *models.Merchandise) SummaryDTO {
	dto := SummaryDTO{
		ID:        m.ID,
		ShopID:    m.ShopID,
		Name:      m.Name,
		Tags:      append([]string{}, m.Tags...),
		CreatedAt: m.CreatedAt,
	}
	if m.Shop != nil {
		dto.ShopName = m.Shop.Name
	}
	if len(m.Pictures) > 0 {
		dto.PictureURL = &m.Pictures[0].PictureURL
	}
	dto.MinPrice = minVariantPrice(m.Variants)
	return dto
}

func toDetailDTO(m *models.Merchandise) *DetailDTO {
	if m == nil {
		return nil
	}
	dto := &DetailDTO{
		ID:              m.ID,
		ShopID:          m.ShopID,
		Name:            m.Name,
		Description:     m.Description,
		ReceivingInfo:   m.ReceivingInfo,
		OnlinePayment:   m.OnlinePayment,
		PhysicalPayment: m.PhysicalPayment,
		Cancellable:     m.Cancellable,
		VariantLabel:    m.VariantLabel,
		Tags:            append([]string{}, m.Tags...),
		Pictures:        make([]PictureDTO, 0, len(m.Pictures)),
		Variants:        make([]VariantDTO, 0, len(m.Variants)),
		CreatedAt:       m.CreatedAt,
	}
	if m.Shop != nil {
		dto.ShopName = m.Shop.Name
	}
	for _, p := range m.Pictures {
		dto.Pictures = append(dto.Pictures, PictureDTO{ID: p.ID, PictureURL: p.PictureURL, Position: p.Position})
	}
	for _, v := range m.Variants {
		variant := VariantDTO{
			ID:              v.ID,
			Name:            v.Name,
			PictureURL:      v.PictureURL,
			OriginalPrice:   v.OriginalPrice,
			MembershipPrice: v.MembershipPrice,
			Position:        v.Position,
			Sizes:           make([]SizeDTO, 0, len(v.Sizes)),
		}
		for _, sz := range v.Sizes {
			variant.Sizes = append(variant.Sizes, SizeDTO{
				ID:              sz.ID,
				Name:            sz.Name,
				OriginalPrice:   sz.OriginalPrice,
				MembershipPrice: sz.MembershipPrice,
				Position:        sz.Position,
			})
		}
		dto.Variants = append(dto.Variants, variant)
	}
	return dto
}

func minVariantPrice(variants []models.Variant) decimal.Decimal {
	min := decimal.Zero
	for i, v := range variants {
		if i == 0 || v.OriginalPrice.LessThan(min) {
			min = v.OriginalPrice
		}
	}
	return min
}
