package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// LineRepository is the persistence surface for cart lines, consumed here and
// by checkout submission.
type LineRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error)
	FindMatch(ctx context.Context, userID, merchandiseID, variantID uuid.UUID, sizeID *uuid.UUID) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) (*models.CartLine, error)
	UpdateSelection(ctx context.Context, id, userID, variantID uuid.UUID, sizeID *uuid.UUID) error
	UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	WithTx(tx *gorm.DB) LineRepository
}
