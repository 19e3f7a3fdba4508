package merchandise

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	"github.com/campuscart/campuscart-backend/pkg/pagination"
)

// ListFilter narrows the browsing query.
type ListFilter struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	// Search matches listing names and tags case-insensitively.
	Search string
}

// Repository exposes persistence operations for merchandise listings.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a merchandise repository bound to the provided DB.
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

func withListingAssociations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Shop").
		Preload("Pictures", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Variants.Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Categories")
}

// List returns one cursor page of listings, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Merchandise, error) {
	q := withListingAssociations(r.db.WithContext(ctx).Model(&models.Merchandise{}))

	if filter.ShopID != nil {
		q = q.Where("merchandise.shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		q = q.Joins("JOIN merchandise_categories mc ON mc.merchandise_id = merchandise.id").
			Where("mc.category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("merchandise.name ILIKE ? OR ? ILIKE ANY (merchandise.tags)", pattern, filter.Search)
	}
	if cursor != nil {
		q = q.Where(
			"(merchandise.created_at, merchandise.id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var listings []models.Merchandise
	err := q.
		Order("merchandise.created_at DESC, merchandise.id DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// FindByID loads one listing with its full association tree.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchandise, error) {
	var listing models.Merchandise
	err := withListingAssociations(r.db.WithContext(ctx)).
		Where("merchandise.id = ?", id).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Create inserts the listing and its nested variants, sizes, pictures and category links.
func (r *Repository) Create(ctx context.Context, listing *models.Merchandise) (*models.Merchandise, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateFields saves the scalar columns of the listing.
func (r *Repository) UpdateFields(ctx context.Context, listing *models.Merchandise) error {
	return r.db.WithContext(ctx).
		Model(&models.Merchandise{}).
		Where("id = ?", listing.ID).
		Updates(map[string]any{
			"name":             listing.Name,
			"description":      listing.Description,
			"receiving_info":   listing.ReceivingInfo,
			"online_payment":   listing.OnlinePayment,
			"physical_payment": listing.PhysicalPayment,
			"cancellable":      listing.Cancellable,
			"variant_label":    listing.VariantLabel,
			"tags":             listing.Tags,
		}).Error
}

// ReplaceVariants swaps the full variant tree for the listing.
func (r *Repository) ReplaceVariants(ctx context.Context, merchandiseID uuid.UUID, variants []models.Variant) error {
	q := r.db.WithContext(ctx)
	err := q.Where("variant_id IN (?)",
		q.Session(&gorm.Session{NewDB: true}).
			Model(&models.Variant{}).
			Select("id").
			Where("merchandise_id = ?", merchandiseID),
	).Delete(&models.Size{}).Error
	if err != nil {
		return err
	}
	if err := q.Where("merchandise_id = ?", merchandiseID).Delete(&models.Variant{}).Error; err != nil {
		return err
	}
	for i := range variants {
		variants[i].MerchandiseID = merchandiseID
	}
	if len(variants) == 0 {
		return nil
	}
	return q.Create(&variants).Error
}

// ReplacePictures swaps the gallery for the listing.
func (r *Repository) ReplacePictures(ctx context.Context, merchandiseID uuid.UUID, pictures []models.MerchandisePicture) error {
	q := r.db.WithContext(ctx)
	if err := q.Where("merchandise_id = ?", merchandiseID).Delete(&models.MerchandisePicture{}).Error; err != nil {
		return err
	}
	for i := range pictures {
		pictures[i].MerchandiseID = merchandiseID
	}
	if len(pictures) == 0 {
		return nil
	}
	return q.Create(&pictures).Error
}

// ReplaceCategories swaps the category links for the listing.
func (r *Repository) ReplaceCategories(ctx context.Context, merchandiseID uuid.UUID, categoryIDs []uuid.UUID) error {
	q := r.db.WithContext(ctx)
	if err := q.Where("merchandise_id = ?", merchandiseID).Delete(&models.MerchandiseCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.MerchandiseCategory, 0, len(categoryIDs))
	for _, categoryID := range categoryIDs {
		links = append(links, models.MerchandiseCategory{MerchandiseID: merchandiseID, CategoryID: categoryID})
	}
	return q.Create(&links).Error
}

// Delete removes the listing; associations cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Merchandise{}).Error
}

// ListCategories returns all browsing categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
