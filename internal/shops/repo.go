package shops

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// Repository exposes persistence operations for shops and operator grants.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a shop repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// List returns all shops ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

// FindByID loads one shop.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

// Create inserts a new shop.
func (r *Repository) Create(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	if err := r.db.WithContext(ctx).Create(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// Update saves the provided shop.
func (r *Repository) Update(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	if err := r.db.WithContext(ctx).Save(shop).Error; err != nil {
		return nil, err
	}
	return shop, nil
}

// AddOperator grants a user operator rights over a shop.
func (r *Repository) AddOperator(ctx context.Context, shopID, userID uuid.UUID) error {
	grant := models.ShopOperator{ShopID: shopID, UserID: userID}
	return r.db.WithContext(ctx).Create(&grant).Error
}

// IsOperator reports whether the user has an operator grant for the shop.
func (r *Repository) IsOperator(ctx context.Context, shopID, userID uuid.UUID) (bool, error) {
	var grant models.ShopOperator
	err := r.db.WithContext(ctx).
		Where("shop_id = ? AND user_id = ?", shopID, userID).
		First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
