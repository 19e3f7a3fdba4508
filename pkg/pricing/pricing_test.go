package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

// hoodieFixture mirrors a listing with a sized variant: Blue at 500/450 with
// size L overriding to 520/470 and size M carrying no override.
func hoodieFixture(t *testing.T) (*models.Merchandise, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()

	blueID := uuid.New()
	sizeL := uuid.New()
	sizeM := uuid.New()

	merch := &models.Merchandise{
		ID:   uuid.New(),
		Name: "Hoodie",
		Variants: []models.Variant{
			{
				ID:              blueID,
				Name:            "Blue",
				OriginalPrice:   decimal.RequireFromString("500"),
				MembershipPrice: decPtr("450"),
				Sizes: []models.Size{
					{ID: sizeL, Name: "L", OriginalPrice: decPtr("520"), MembershipPrice: decPtr("470")},
					{ID: sizeM, Name: "M"},
				},
			},
		},
	}
	return merch, blueID, sizeL, sizeM
}

func TestResolveSizeOverride(t *testing.T) {
	merch, blueID, sizeL, _ := hoodieFixture(t)

	quote := Resolve(merch, blueID, &sizeL, 2, false)
	require.False(t, quote.VariantMissing)
	assert.False(t, quote.SizeFellBack)
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("1040")), "got %s", quote.Total)

	memberQuote := Resolve(merch, blueID, &sizeL, 2, true)
	assert.True(t, memberQuote.Total.Equal(decimal.RequireFromString("940")), "got %s", memberQuote.Total)
}

func TestResolveSizeWithoutOverrideUsesVariantPrice(t *testing.T) {
	merch, blueID, _, sizeM := hoodieFixture(t)

	quote := Resolve(merch, blueID, &sizeM, 2, false)
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("1000")), "got %s", quote.Total)

	memberQuote := Resolve(merch, blueID, &sizeM, 2, true)
	assert.True(t, memberQuote.Total.Equal(decimal.RequireFromString("900")), "got %s", memberQuote.Total)
}

func TestResolveForeignSizeFallsBackToVariant(t *testing.T) {
	merch, blueID, _, _ := hoodieFixture(t)

	// A size id that belongs to a different variant must never error and must
	// never use the wrong size's price.
	foreign := uuid.New()
	quote := Resolve(merch, blueID, &foreign, 2, false)

	assert.True(t, quote.SizeFellBack)
	assert.False(t, quote.VariantMissing)
	assert.True(t, quote.Total.Equal(decimal.RequireFromString("1000")), "got %s", quote.Total)
}

func TestResolveMissingVariantIsExplicit(t *testing.T) {
	merch, _, _, _ := hoodieFixture(t)

	quote := Resolve(merch, uuid.New(), nil, 3, false)
	assert.True(t, quote.VariantMissing)
	assert.True(t, quote.Total.IsZero())
}

func TestResolveMemberFallsBackWhenNoMemberPrice(t *testing.T) {
	variantID := uuid.New()
	merch := &models.Merchandise{
		Variants: []models.Variant{
			{ID: variantID, Name: "Single", OriginalPrice: decimal.RequireFromString("120.50")},
		},
	}

	quote := Resolve(merch, variantID, nil, 1, true)
	assert.True(t, quote.Unit.Equal(decimal.RequireFromString("120.50")))
}

func TestResolvePreservesDecimalPrecision(t *testing.T) {
	variantID := uuid.New()
	merch := &models.Merchandise{
		Variants: []models.Variant{
			{ID: variantID, OriginalPrice: decimal.RequireFromString("99.95")},
		},
	}

	quote := Resolve(merch, variantID, nil, 3, false)
	assert.Equal(t, "299.85", quote.Total.StringFixed(2))
}

func TestResolveNilMerchandise(t *testing.T) {
	quote := Resolve(nil, uuid.New(), nil, 1, false)
	assert.True(t, quote.VariantMissing)
}
