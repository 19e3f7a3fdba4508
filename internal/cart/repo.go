package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
)

// Repository exposes persistence operations for cart lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) LineRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func withLineAssociations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Merchandise").
		Preload("Merchandise.Shop").
		Preload("Merchandise.Pictures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Merchandise.Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Merchandise.Variants.Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// ListByUser loads the user's cart lines with the full listing tree, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := withLineAssociations(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByIDAndUser loads one owned cart line with its listing tree.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := withLineAssociations(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindMatch returns an existing line with the same listing, variant and size, if any.
func (r *Repository) FindMatch(ctx context.Context, userID, merchandiseID, variantID uuid.UUID, sizeID *uuid.UUID) (*models.CartLine, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND merchandise_id = ? AND variant_id = ?", userID, merchandiseID, variantID)
	if sizeID == nil {
		q = q.Where("size_id IS NULL")
	} else {
		q = q.Where("size_id = ?", *sizeID)
	}
	var line models.CartLine
	if err := q.First(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// Create inserts a new cart line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateSelection writes the variant/size pair in one statement so the
// size reset cannot be observed separately from the variant change.
func (r *Repository) UpdateSelection(ctx context.Context, id, userID, variantID uuid.UUID, sizeID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"variant_id": variantID,
			"size_id":    sizeID,
		}).Error
}

// UpdateQuantity writes the new quantity for an owned line.
func (r *Repository) UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", quantity).Error
}

// Delete removes an owned cart line.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartLine{}).Error
}
