package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// Repository exposes persistence operations for orders and their status rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its initial status row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	if order.Status == nil {
		status := &models.OrderStatus{OrderID: order.ID}
		if err := r.db.WithContext(ctx).Create(status).Error; err != nil {
			return nil, err
		}
		order.Status = status
	}
	return order, nil
}

// ListByUser returns the user's orders with shop and status, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Status").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByShop returns a shop's incoming orders, newest first.
func (r *Repository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Status").
		Where("shop_id = ?", shopID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByID loads one order with shop and status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Shop").
		Preload("Status").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus saves the provided status row.
func (r *Repository) UpdateStatus(ctx context.Context, status *models.OrderStatus) error {
	return r.db.WithContext(ctx).Save(status).Error
}
