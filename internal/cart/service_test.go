package cart

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
)

type stubCartRepo struct {
	lines map[uuid.UUID]*models.CartLine
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{lines: map[uuid.UUID]*models.CartLine{}}
}

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var out []models.CartLine
	for _, line := range s.lines {
		if line.UserID == userID {
			out = append(out, *line)
		}
	}
	return out, nil
}

func (s *stubCartRepo) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error) {
	line, ok := s.lines[id]
	if !ok || line.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *line
	return &copied, nil
}

func (s *stubCartRepo) FindMatch(ctx context.Context, userID, merchandiseID, variantID uuid.UUID, sizeID *uuid.UUID) (*models.CartLine, error) {
	for _, line := range s.lines {
		if line.UserID != userID || line.MerchandiseID != merchandiseID || line.VariantID != variantID {
			continue
		}
		if (line.SizeID == nil) != (sizeID == nil) {
			continue
		}
		if line.SizeID != nil && *line.SizeID != *sizeID {
			continue
		}
		copied := *line
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	line.ID = uuid.New()
	stored := *line
	s.lines[line.ID] = &stored
	return line, nil
}

func (s *stubCartRepo) UpdateSelection(ctx context.Context, id, userID, variantID uuid.UUID, sizeID *uuid.UUID) error {
	if line, ok := s.lines[id]; ok && line.UserID == userID {
		line.VariantID = variantID
		line.SizeID = sizeID
	}
	return nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) error {
	if line, ok := s.lines[id]; ok && line.UserID == userID {
		line.Quantity = quantity
	}
	return nil
}

func (s *stubCartRepo) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if line, ok := s.lines[id]; ok && line.UserID == userID {
		delete(s.lines, id)
	}
	return nil
}

type stubListingLoader struct {
	listing *models.Merchandise
}

func (s *stubListingLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Merchandise, error) {
	if s.listing == nil || s.listing.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.listing, nil
}

type stubMemberLookup struct {
	shops map[uuid.UUID]bool
}

func (s *stubMemberLookup) MemberShopIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	return s.shops, nil
}

func (s *stubMemberLookup) IsMember(ctx context.Context, userID, shopID uuid.UUID) (bool, error) {
	return s.shops[shopID], nil
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

// hoodieFixture mirrors a listing with a discounted variant, one size with a
// price override and one size that inherits the variant price.
type hoodieFixture struct {
	merch   *models.Merchandise
	shopID  uuid.UUID
	blueID  uuid.UUID
	largeID uuid.UUID
	medID   uuid.UUID
}

func newHoodieFixture() hoodieFixture {
	shopID := uuid.New()
	blueID := uuid.New()
	largeID := uuid.New()
	medID := uuid.New()
	merch := &models.Merchandise{
		ID:              uuid.New(),
		ShopID:          shopID,
		Name:            "Hoodie",
		VariantLabel:    "Color",
		PhysicalPayment: true,
		Shop:            &models.Shop{ID: shopID, Name: "Engineering Society"},
		Variants: []models.Variant{
			{
				ID:              blueID,
				Name:            "Blue",
				OriginalPrice:   dec("500"),
				MembershipPrice: decPtr("450"),
				Sizes: []models.Size{
					{ID: largeID, VariantID: blueID, Name: "L", OriginalPrice: decPtr("520"), MembershipPrice: decPtr("470")},
					{ID: medID, VariantID: blueID, Name: "M"},
				},
			},
		},
	}
	return hoodieFixture{merch: merch, shopID: shopID, blueID: blueID, largeID: largeID, medID: medID}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newCartTestService(t *testing.T, repo cartRepository, fixture hoodieFixture, memberShops map[uuid.UUID]bool) Service {
	t.Helper()
	svc, err := NewService(repo, &stubListingLoader{listing: fixture.merch}, &stubMemberLookup{shops: memberShops}, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedLine(repo *stubCartRepo, userID uuid.UUID, fixture hoodieFixture, sizeID *uuid.UUID, quantity int) uuid.UUID {
	line := &models.CartLine{
		UserID:        userID,
		MerchandiseID: fixture.merch.ID,
		VariantID:     fixture.blueID,
		SizeID:        sizeID,
		Quantity:      quantity,
		Merchandise:   fixture.merch,
	}
	created, _ := repo.Create(context.Background(), line)
	return created.ID
}

func TestChangeVariantClearsSize(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	lineID := seedLine(repo, userID, fixture, &fixture.largeID, 1)
	svc := newCartTestService(t, repo, fixture, nil)

	if err := svc.ChangeVariant(context.Background(), userID, lineID, fixture.blueID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.lines[lineID]; got.SizeID != nil {
		t.Fatalf("expected size to be cleared, got %v", got.SizeID)
	}
}

func TestChangeVariantUnknownLineIsNoOp(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	svc := newCartTestService(t, newStubCartRepo(), fixture, nil)

	if err := svc.ChangeVariant(context.Background(), uuid.New(), uuid.New(), fixture.blueID); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestChangeQuantityBelowOneIsNoOp(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	lineID := seedLine(repo, userID, fixture, nil, 3)
	svc := newCartTestService(t, repo, fixture, nil)

	for _, quantity := range []int{0, -5} {
		if err := svc.ChangeQuantity(context.Background(), userID, lineID, quantity); err != nil {
			t.Fatalf("expected no-op for quantity %d, got %v", quantity, err)
		}
	}
	if got := repo.lines[lineID].Quantity; got != 3 {
		t.Fatalf("expected quantity unchanged at 3, got %d", got)
	}
}

func TestChangeQuantityWrites(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	lineID := seedLine(repo, userID, fixture, nil, 1)
	svc := newCartTestService(t, repo, fixture, nil)

	if err := svc.ChangeQuantity(context.Background(), userID, lineID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.lines[lineID].Quantity; got != 4 {
		t.Fatalf("expected quantity 4, got %d", got)
	}
}

func TestChangeSizeRejectsForeignSize(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	lineID := seedLine(repo, userID, fixture, nil, 1)
	svc := newCartTestService(t, repo, fixture, nil)

	foreign := uuid.New()
	err := svc.ChangeSize(context.Background(), userID, lineID, &foreign)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddLineMergesIdenticalSelection(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	svc := newCartTestService(t, repo, fixture, nil)

	input := AddInput{MerchandiseID: fixture.merch.ID, VariantID: fixture.blueID, Quantity: 1}
	if _, err := svc.AddLine(context.Background(), userID, input); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.AddLine(context.Background(), userID, input); err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(repo.lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(repo.lines))
	}
	for _, line := range repo.lines {
		if line.Quantity != 2 {
			t.Fatalf("expected merged quantity 2, got %d", line.Quantity)
		}
	}
}

func TestAddLineRejectsForeignVariant(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	svc := newCartTestService(t, newStubCartRepo(), fixture, nil)

	_, err := svc.AddLine(context.Background(), uuid.New(), AddInput{
		MerchandiseID: fixture.merch.ID,
		VariantID:     uuid.New(),
		Quantity:      1,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListPricesLinesForMembers(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	seedLine(repo, userID, fixture, &fixture.largeID, 2)

	cases := []struct {
		name      string
		member    bool
		wantTotal string
	}{
		{"non-member pays size override", false, "1040"},
		{"member pays member override", true, "940"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			memberShops := map[uuid.UUID]bool{}
			if tc.member {
				memberShops[fixture.shopID] = true
			}
			svc := newCartTestService(t, repo, fixture, memberShops)

			cart, err := svc.List(context.Background(), userID)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cart.Lines) != 1 {
				t.Fatalf("expected one line, got %d", len(cart.Lines))
			}
			if got := cart.Lines[0].TotalPrice; !got.Equal(dec(tc.wantTotal)) {
				t.Fatalf("expected total %s, got %s", tc.wantTotal, got)
			}
		})
	}
}

func TestListFallsBackForSizeWithoutOverride(t *testing.T) {
	t.Parallel()

	fixture := newHoodieFixture()
	repo := newStubCartRepo()
	userID := uuid.New()
	seedLine(repo, userID, fixture, &fixture.medID, 2)
	svc := newCartTestService(t, repo, fixture, nil)

	cart, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cart.Lines[0].TotalPrice; !got.Equal(dec("1000")) {
		t.Fatalf("expected total 1000, got %s", got)
	}
}
