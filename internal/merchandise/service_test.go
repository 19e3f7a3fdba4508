package merchandise

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/pagination"
)

type stubListingRepo struct {
	listings []models.Merchandise
	listing  *models.Merchandise
	findErr  error
	created  *models.Merchandise
	deleted  []uuid.UUID
}

func (s *stubListingRepo) WithTx(tx *gorm.DB) *Repository { return nil }

func (s *stubListingRepo) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Merchandise, error) {
	if limit < len(s.listings) {
		return s.listings[:limit], nil
	}
	return s.listings, nil
}

func (s *stubListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchandise, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.listing, nil
}

func (s *stubListingRepo) Create(ctx context.Context, listing *models.Merchandise) (*models.Merchandise, error) {
	listing.ID = uuid.New()
	s.created = listing
	s.listing = listing
	return listing, nil
}

func (s *stubListingRepo) UpdateFields(ctx context.Context, listing *models.Merchandise) error {
	return nil
}

func (s *stubListingRepo) ReplaceVariants(ctx context.Context, merchandiseID uuid.UUID, variants []models.Variant) error {
	return nil
}

func (s *stubListingRepo) ReplacePictures(ctx context.Context, merchandiseID uuid.UUID, pictures []models.MerchandisePicture) error {
	return nil
}

func (s *stubListingRepo) ReplaceCategories(ctx context.Context, merchandiseID uuid.UUID, categoryIDs []uuid.UUID) error {
	return nil
}

func (s *stubListingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubListingRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

type stubGuard struct {
	err error
}

func (s stubGuard) RequireOperator(ctx context.Context, shopID, userID uuid.UUID) error {
	return s.err
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func validCreateInput(shopID uuid.UUID) CreateInput {
	return CreateInput{
		ShopID:          shopID,
		Name:            "Org Hoodie",
		PhysicalPayment: true,
		Variants: []VariantInput{
			{Name: "Blue", OriginalPrice: decimal.NewFromInt(500)},
		},
	}
}

func newTestService(t *testing.T, repo listingRepository, guard operatorGuard) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, guard)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateListingRequiresPaymentOption(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubListingRepo{}, stubGuard{})
	input := validCreateInput(uuid.New())
	input.PhysicalPayment = false
	input.OnlinePayment = false

	_, err := svc.CreateListing(context.Background(), uuid.New(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateListingRequiresVariant(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubListingRepo{}, stubGuard{})
	input := validCreateInput(uuid.New())
	input.Variants = nil

	_, err := svc.CreateListing(context.Background(), uuid.New(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateListingRejectsNonOperator(t *testing.T) {
	t.Parallel()

	guard := stubGuard{err: pkgerrors.New(pkgerrors.CodeForbidden, "user does not operate this shop")}
	svc := newTestService(t, &stubListingRepo{}, guard)

	_, err := svc.CreateListing(context.Background(), uuid.New(), validCreateInput(uuid.New()))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCreateListingSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubListingRepo{}
	svc := newTestService(t, repo, stubGuard{})

	detail, err := svc.CreateListing(context.Background(), uuid.New(), validCreateInput(uuid.New()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected listing to be created")
	}
	if detail.VariantLabel != "Variant" {
		t.Fatalf("expected default variant label, got %q", detail.VariantLabel)
	}
	if len(detail.Variants) != 1 || detail.Variants[0].Name != "Blue" {
		t.Fatalf("unexpected variants: %+v", detail.Variants)
	}
}

func TestGetListingNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubListingRepo{findErr: gorm.ErrRecordNotFound}, stubGuard{})

	_, err := svc.GetListing(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListListingsPaginates(t *testing.T) {
	t.Parallel()

	listings := make([]models.Merchandise, 0, 3)
	for i := 0; i < 3; i++ {
		listings = append(listings, models.Merchandise{
			ID:   uuid.New(),
			Name: "Listing",
			Variants: []models.Variant{
				{OriginalPrice: decimal.NewFromInt(100)},
			},
		})
	}
	svc := newTestService(t, &stubListingRepo{listings: listings}, stubGuard{})

	page, err := svc.ListListings(context.Background(), ListFilter{}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected a next cursor")
	}
}

func TestNormalizeTagsDedupes(t *testing.T) {
	t.Parallel()

	got := normalizeTags([]string{" hoodie ", "hoodie", "", "limited"})
	if len(got) != 2 || got[0] != "hoodie" || got[1] != "limited" {
		t.Fatalf("unexpected tags: %v", got)
	}
}
