package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// OrderRepository is the persistence surface for orders, consumed here and by
// checkout submission.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, status *models.OrderStatus) error
	WithTx(tx *gorm.DB) OrderRepository
}
