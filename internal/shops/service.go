package shops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type shopRepository interface {
	WithTx(tx *gorm.DB) *Repository
	List(ctx context.Context) ([]models.Shop, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	Create(ctx context.Context, shop *models.Shop) (*models.Shop, error)
	Update(ctx context.Context, shop *models.Shop) (*models.Shop, error)
	AddOperator(ctx context.Context, shopID, userID uuid.UUID) error
	IsOperator(ctx context.Context, shopID, userID uuid.UUID) (bool, error)
}

// Service exposes shop browsing and management operations.
type Service interface {
	ListShops(ctx context.Context) ([]ShopDTO, error)
	GetShop(ctx context.Context, id uuid.UUID) (*ShopDTO, error)
	CreateShop(ctx context.Context, creatorID uuid.UUID, input CreateShopInput) (*ShopDTO, error)
	UpdateShop(ctx context.Context, userID, shopID uuid.UUID, input UpdateShopInput) (*ShopDTO, error)
	RequireOperator(ctx context.Context, shopID, userID uuid.UUID) error
}

type service struct {
	repo shopRepository
	tx   txRunner
}

// NewService builds a shop service backed by the provided stack.
func NewService(repo shopRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateShopInput captures the payload required to register a shop.
type CreateShopInput struct {
	Name    string
	Acronym string
	LogoURL *string
}

// UpdateShopInput carries optional shop profile changes.
type UpdateShopInput struct {
	Name    *string
	Acronym *string
	LogoURL *string
}

func (s *service) ListShops(ctx context.Context) ([]ShopDTO, error) {
	shops, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shops")
	}
	out := make([]ShopDTO, 0, len(shops))
	for i := range shops {
		out = append(out, *toDTO(&shops[i]))
	}
	return out, nil
}

func (s *service) GetShop(ctx context.Context, id uuid.UUID) (*ShopDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop id is required")
	}
	shop, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop")
	}
	return toDTO(shop), nil
}

// CreateShop registers the shop and grants the creator operator rights atomically.
func (s *service) CreateShop(ctx context.Context, creatorID uuid.UUID, input CreateShopInput) (*ShopDTO, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator id is required")
	}
	name := strings.TrimSpace(input.Name)
	acronym := strings.TrimSpace(input.Acronym)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name is required")
	}
	if acronym == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop acronym is required")
	}

	shop := &models.Shop{Name: name, Acronym: acronym, LogoURL: input.LogoURL}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.Create(ctx, shop)
		if err != nil {
			return err
		}
		return repo.AddOperator(ctx, created.ID, creatorID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating shop")
	}
	return toDTO(shop), nil
}

func (s *service) UpdateShop(ctx context.Context, userID, shopID uuid.UUID, input UpdateShopInput) (*ShopDTO, error) {
	if err := s.RequireOperator(ctx, shopID, userID); err != nil {
		return nil, err
	}

	shop, err := s.repo.FindByID(ctx, shopID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading shop")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop name cannot be empty")
		}
		shop.Name = name
	}
	if input.Acronym != nil {
		acronym := strings.TrimSpace(*input.Acronym)
		if acronym == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shop acronym cannot be empty")
		}
		shop.Acronym = acronym
	}
	if input.LogoURL != nil {
		shop.LogoURL = input.LogoURL
	}

	updated, err := s.repo.Update(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shop")
	}
	return toDTO(updated), nil
}

// RequireOperator returns a forbidden error unless the user operates the shop.
func (s *service) RequireOperator(ctx context.Context, shopID, userID uuid.UUID) error {
	if shopID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shop id and user id are required")
	}
	ok, err := s.repo.IsOperator(ctx, shopID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking shop operator")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "user does not operate this shop")
	}
	return nil
}
