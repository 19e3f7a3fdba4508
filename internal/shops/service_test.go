package shops

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
)

type stubShopRepo struct {
	shops     []models.Shop
	shop      *models.Shop
	findErr   error
	operator  bool
	operators []uuid.UUID
}

func (s *stubShopRepo) WithTx(tx *gorm.DB) *Repository { return nil }

func (s *stubShopRepo) List(ctx context.Context) ([]models.Shop, error) {
	return s.shops, nil
}

func (s *stubShopRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.shop, nil
}

func (s *stubShopRepo) Create(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	shop.ID = uuid.New()
	return shop, nil
}

func (s *stubShopRepo) Update(ctx context.Context, shop *models.Shop) (*models.Shop, error) {
	return shop, nil
}

func (s *stubShopRepo) AddOperator(ctx context.Context, shopID, userID uuid.UUID) error {
	s.operators = append(s.operators, userID)
	return nil
}

func (s *stubShopRepo) IsOperator(ctx context.Context, shopID, userID uuid.UUID) (bool, error) {
	return s.operator, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func TestGetShopNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubShopRepo{findErr: gorm.ErrRecordNotFound}, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.GetShop(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateShopValidation(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubShopRepo{}, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.CreateShop(context.Background(), uuid.New(), CreateShopInput{Name: " ", Acronym: "ACS"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRequireOperatorForbidden(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubShopRepo{operator: false}, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.RequireOperator(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestRequireOperatorAllowed(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubShopRepo{operator: true}, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.RequireOperator(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
