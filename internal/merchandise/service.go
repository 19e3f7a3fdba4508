package merchandise

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type operatorGuard interface {
	RequireOperator(ctx context.Context, shopID, userID uuid.UUID) error
}

type listingRepository interface {
	WithTx(tx *gorm.DB) *Repository
	List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Merchandise, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchandise, error)
	Create(ctx context.Context, listing *models.Merchandise) (*models.Merchandise, error)
	UpdateFields(ctx context.Context, listing *models.Merchandise) error
	ReplaceVariants(ctx context.Context, merchandiseID uuid.UUID, variants []models.Variant) error
	ReplacePictures(ctx context.Context, merchandiseID uuid.UUID, pictures []models.MerchandisePicture) error
	ReplaceCategories(ctx context.Context, merchandiseID uuid.UUID, categoryIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Service exposes merchandise browsing and authoring operations.
type Service interface {
	ListListings(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error)
	GetListing(ctx context.Context, id uuid.UUID) (*DetailDTO, error)
	CreateListing(ctx context.Context, userID uuid.UUID, input CreateInput) (*DetailDTO, error)
	UpdateListing(ctx context.Context, userID, merchandiseID uuid.UUID, input UpdateInput) (*DetailDTO, error)
	DeleteListing(ctx context.Context, userID, merchandiseID uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo  listingRepository
	tx    txRunner
	shops operatorGuard
}

// NewService builds a merchandise service backed by the provided stack.
func NewService(repo listingRepository, tx txRunner, shops operatorGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("merchandise repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop guard required")
	}
	return &service{repo: repo, tx: tx, shops: shops}, nil
}

// SizeInput is one size row; nil prices inherit the variant prices.
type SizeInput struct {
	Name            string
	OriginalPrice   *decimal.Decimal
	MembershipPrice *decimal.Decimal
}

// VariantInput is one purchasable configuration in an authoring payload.
type VariantInput struct {
	Name            string
	PictureURL      *string
	OriginalPrice   decimal.Decimal
	MembershipPrice *decimal.Decimal
	Sizes           []SizeInput
}

// CreateInput captures a full listing authoring payload.
type CreateInput struct {
	ShopID          uuid.UUID
	Name            string
	Description     string
	ReceivingInfo   string
	OnlinePayment   bool
	PhysicalPayment bool
	Cancellable     bool
	VariantLabel    string
	Tags            []string
	PictureURLs     []string
	Variants        []VariantInput
	CategoryIDs     []uuid.UUID
}

// UpdateInput mirrors CreateInput minus the shop, which never changes.
type UpdateInput struct {
	Name            string
	Description     string
	ReceivingInfo   string
	OnlinePayment   bool
	PhysicalPayment bool
	Cancellable     bool
	VariantLabel    string
	Tags            []string
	PictureURLs     []string
	Variants        []VariantInput
	CategoryIDs     []uuid.UUID
}

func (s *service) ListListings(ctx context.Context, filter ListFilter, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	listings, err := s.repo.List(ctx, filter, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing merchandise")
	}

	page := &Page{Items: make([]SummaryDTO, 0, len(listings))}
	hasMore := len(listings) > limit
	if hasMore {
		listings = listings[:limit]
	}
	for i := range listings {
		page.Items = append(page.Items, toSummaryDTO(&listings[i]))
	}
	if hasMore {
		last := listings[len(listings)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

func (s *service) GetListing(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required")
	}
	listing, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchandise not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading merchandise")
	}
	return toDetailDTO(listing), nil
}

func (s *service) CreateListing(ctx context.Context, userID uuid.UUID, input CreateInput) (*DetailDTO, error) {
	if input.ShopID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	if err := s.shops.RequireOperator(ctx, input.ShopID, userID); err != nil {
		return nil, err
	}
	if err := validateListingPayload(input.Name, input.OnlinePayment, input.PhysicalPayment, input.Variants); err != nil {
		return nil, err
	}

	listing := &models.Merchandise{
		ShopID:          input.ShopID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		ReceivingInfo:   input.ReceivingInfo,
		OnlinePayment:   input.OnlinePayment,
		PhysicalPayment: input.PhysicalPayment,
		Cancellable:     input.Cancellable,
		VariantLabel:    normalizeVariantLabel(input.VariantLabel),
		Tags:            normalizeTags(input.Tags),
		Pictures:        buildPictures(input.PictureURLs),
		Variants:        buildVariants(input.Variants),
		Categories:      buildCategoryLinks(input.CategoryIDs),
	}
	if _, err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating merchandise")
	}
	return s.GetListing(ctx, listing.ID)
}

func (s *service) UpdateListing(ctx context.Context, userID, merchandiseID uuid.UUID, input UpdateInput) (*DetailDTO, error) {
	if merchandiseID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required")
	}

	existing, err := s.repo.FindByID(ctx, merchandiseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchandise not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading merchandise")
	}
	if err := s.shops.RequireOperator(ctx, existing.ShopID, userID); err != nil {
		return nil, err
	}
	if err := validateListingPayload(input.Name, input.OnlinePayment, input.PhysicalPayment, input.Variants); err != nil {
		return nil, err
	}

	updated := &models.Merchandise{
		ID:              merchandiseID,
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		ReceivingInfo:   input.ReceivingInfo,
		OnlinePayment:   input.OnlinePayment,
		PhysicalPayment: input.PhysicalPayment,
		Cancellable:     input.Cancellable,
		VariantLabel:    normalizeVariantLabel(input.VariantLabel),
		Tags:            normalizeTags(input.Tags),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateFields(ctx, updated); err != nil {
			return err
		}
		if err := repo.ReplaceVariants(ctx, merchandiseID, buildVariants(input.Variants)); err != nil {
			return err
		}
		if err := repo.ReplacePictures(ctx, merchandiseID, buildPictures(input.PictureURLs)); err != nil {
			return err
		}
		return repo.ReplaceCategories(ctx, merchandiseID, input.CategoryIDs)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating merchandise")
	}
	return s.GetListing(ctx, merchandiseID)
}

func (s *service) DeleteListing(ctx context.Context, userID, merchandiseID uuid.UUID) error {
	if merchandiseID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "merchandise id is required")
	}

	existing, err := s.repo.FindByID(ctx, merchandiseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "merchandise not found")
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading merchandise")
	}
	if err := s.shops.RequireOperator(ctx, existing.ShopID, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, merchandiseID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting merchandise")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	return categories, nil
}

func validateListingPayload(name string, onlinePayment, physicalPayment bool, variants []VariantInput) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "merchandise name is required")
	}
	if !onlinePayment && !physicalPayment {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one payment option must be enabled")
	}
	if len(variants) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one variant is required")
	}
	for _, v := range variants {
		if strings.TrimSpace(v.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant name is required")
		}
		if !v.OriginalPrice.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant price must be positive")
		}
		if v.MembershipPrice != nil && !v.MembershipPrice.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "membership price must be positive")
		}
		for _, sz := range v.Sizes {
			if strings.TrimSpace(sz.Name) == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "size name is required")
			}
			if sz.OriginalPrice != nil && !sz.OriginalPrice.IsPositive() {
				return pkgerrors.New(pkgerrors.CodeValidation, "size price must be positive")
			}
			if sz.MembershipPrice != nil && !sz.MembershipPrice.IsPositive() {
				return pkgerrors.New(pkgerrors.CodeValidation, "size membership price must be positive")
			}
		}
	}
	return nil
}

func normalizeVariantLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Variant"
	}
	return label
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func buildPictures(urls []string) []models.MerchandisePicture {
	pictures := make([]models.MerchandisePicture, 0, len(urls))
	for i, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		pictures = append(pictures, models.MerchandisePicture{PictureURL: url, Position: i})
	}
	return pictures
}

func buildVariants(inputs []VariantInput) []models.Variant {
	variants := make([]models.Variant, 0, len(inputs))
	for i, in := range inputs {
		variant := models.Variant{
			Name:            strings.TrimSpace(in.Name),
			PictureURL:      in.PictureURL,
			OriginalPrice:   in.OriginalPrice,
			MembershipPrice: in.MembershipPrice,
			Position:        i,
			Sizes:           make([]models.Size, 0, len(in.Sizes)),
		}
		for j, sz := range in.Sizes {
			variant.Sizes = append(variant.Sizes, models.Size{
				Name:            strings.TrimSpace(sz.Name),
				OriginalPrice:   sz.OriginalPrice,
				MembershipPrice: sz.MembershipPrice,
				Position:        j,
			})
		}
		variants = append(variants, variant)
	}
	return variants
}

func buildCategoryLinks(categoryIDs []uuid.UUID) []models.MerchandiseCategory {
	links := make([]models.MerchandiseCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, models.MerchandiseCategory{CategoryID: id})
	}
	return links
}
