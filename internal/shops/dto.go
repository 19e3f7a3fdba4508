package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// ShopDTO is the storefront-facing shape of a shop.
type ShopDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Acronym   string    `json:"acronym"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toDTO(m *models.Shop) *ShopDTO {
	if m == nil {
		return nil
	}
	return &ShopDTO{
		ID:        m.ID,
		Name:      m.Name,
		Acronym:   m.Acronym,
		LogoURL:   m.LogoURL,
		CreatedAt: m.CreatedAt,
	}
}
