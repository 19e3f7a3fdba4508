package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// Quote is the price resolution for one order line.
//
// VariantMissing distinguishes "the referenced variant does not exist on this
// listing" from a legitimately zero-priced item; callers decide how to surface
// it instead of silently treating it as free.
type Quote struct {
	Unit  decimal.Decimal
	Total decimal.Decimal

	VariantMissing bool
	// SizeFellBack is set when a size id was provided but the size does not
	// belong to the resolved variant. Pricing falls back to the variant's own
	// prices in that case; the flag exists so callers can log the mismatch
	// without changing the price outcome.
	SizeFellBack bool
}

// Resolve computes the unit and extended price for a cart or order line.
//
// The quantity is assumed to be validated (>= 1) at the mutation boundary.
// Member pricing applies only when the relevant membership price is set.
func Resolve(merch *models.Merchandise, variantID uuid.UUID, sizeID *uuid.UUID, quantity int, isMember bool) Quote {
	variant := findVariant(merch, variantID)
	if variant == nil {
		return Quote{VariantMissing: true}
	}

	quote := Quote{}
	unit := variant.OriginalPrice
	if isMember && variant.MembershipPrice != nil {
		unit = *variant.MembershipPrice
	}

	if sizeID != nil {
		size := findSize(variant, *sizeID)
		if size == nil {
			quote.SizeFellBack = true
		} else if size.OriginalPrice != nil {
			unit = *size.OriginalPrice
			if isMember && size.MembershipPrice != nil {
				unit = *size.MembershipPrice
			}
		}
	}

	quote.Unit = unit
	quote.Total = unit.Mul(decimal.NewFromInt(int64(quantity)))
	return quote
}

// FindVariant returns the variant offered by the listing, or nil.
func FindVariant(merch *models.Merchandise, variantID uuid.UUID) *models.Variant {
	return findVariant(merch, variantID)
}

// FindSize returns the size offered by the variant, or nil.
func FindSize(variant *models.Variant, sizeID uuid.UUID) *models.Size {
	return findSize(variant, sizeID)
}

func findVariant(merch *models.Merchandise, variantID uuid.UUID) *models.Variant {
	if merch == nil {
		return nil
	}
	for i := range merch.Variants {
		if merch.Variants[i].ID == variantID {
			return &merch.Variants[i]
		}
	}
	return nil
}

func findSize(variant *models.Variant, sizeID uuid.UUID) *models.Size {
	if variant == nil {
		return nil
	}
	for i := range variant.Sizes {
		if variant.Sizes[i].ID == sizeID {
			return &variant.Sizes[i]
		}
	}
	return nil
}
