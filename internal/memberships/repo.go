package memberships

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// Repository exposes persistence operations for shop memberships.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a membership repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IsMember reports whether the user holds an active membership in the shop.
func (r *Repository) IsMember(ctx context.Context, userID, shopID uuid.UUID) (bool, error) {
	var membership models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemberShopIDs returns the set of shop IDs the user belongs to. Callers use
// it to resolve member pricing for a whole cart with a single query.
func (r *Repository) MemberShopIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	var memberships []models.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(memberships))
	for _, m := range memberships {
		out[m.ShopID] = true
	}
	return out, nil
}

// Add grants a membership; duplicate grants are ignored.
func (r *Repository) Add(ctx context.Context, userID, shopID uuid.UUID) error {
	membership := models.Membership{UserID: userID, ShopID: shopID}
	err := r.db.WithContext(ctx).Create(&membership).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Remove revokes a membership if present.
func (r *Repository) Remove(ctx context.Context, userID, shopID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND shop_id = ?", userID, shopID).
		Delete(&models.Membership{}).Error
}
