package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
	"github.com/campuscart/campuscart-backend/pkg/pricing"
)

type cartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartLine, error)
	FindMatch(ctx context.Context, userID, merchandiseID, variantID uuid.UUID, sizeID *uuid.UUID) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) (*models.CartLine, error)
	UpdateSelection(ctx context.Context, id, userID, variantID uuid.UUID, sizeID *uuid.UUID) error
	UpdateQuantity(ctx context.Context, id, userID uuid.UUID, quantity int) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type listingLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Merchandise, error)
}

type memberLookup interface {
	MemberShopIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	IsMember(ctx context.Context, userID, shopID uuid.UUID) (bool, error)
}

// Service exposes cart read and mutation operations.
//
// Mutations keyed by an unknown line id succeed without effect; the cart may
// have changed under the client and a stale reference is not an error.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddLine(ctx context.Context, userID uuid.UUID, input AddInput) (*LineDTO, error)
	ChangeVariant(ctx context.Context, userID, lineID, variantID uuid.UUID) error
	ChangeSize(ctx context.Context, userID, lineID uuid.UUID, sizeID *uuid.UUID) error
	ChangeQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error
}

type service struct {
	repo     cartRepository
	listings listingLoader
	members  memberLookup
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo cartRepository, listings listingLoader, members memberLookup, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if listings == nil {
		return nil, fmt.Errorf("listing loader required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, listings: listings, members: members, logg: logg}, nil
}

// AddInput captures an add-to-cart request.
type AddInput struct {
	MerchandiseID uuid.UUID
	VariantID     uuid.UUID
	SizeID        *uuid.UUID
	Quantity      int
}

func (s *service) List(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	memberShops, err := s.members.MemberShopIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading memberships")
	}

	cart := &CartDTO{Lines: make([]LineDTO, 0, len(lines))}
	for i := range lines {
		line := &lines[i]
		isMember := line.Merchandise != nil && memberShops[line.Merchandise.ShopID]
		dto := toLineDTO(line, isMember)
		if dto.Unpriceable {
			s.logg.Warn(s.logg.WithField(ctx, "cart_line_id", line.ID.String()), "cart line references missing variant")
		}
		cart.Lines = append(cart.Lines, dto)
	}
	return cart, nil
}

func (s *service) AddLine(ctx context.Context, userID uuid.UUID, input AddInput) (*LineDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.MerchandiseID == uuid.Nil || input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchandise id and variant id are required")
	}
	if input.Quantity < 1 {
		input.Quantity = 1
	}

	merch, err := s.listings.FindByID(ctx, input.MerchandiseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "merchandise not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading merchandise")
	}

	variant := pricing.FindVariant(merch, input.VariantID)
	if variant == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to this merchandise")
	}
	if input.SizeID != nil && pricing.FindSize(variant, *input.SizeID) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size does not belong to the chosen variant")
	}

	// Identical selections merge into one line instead of duplicating.
	existing, err := s.repo.FindMatch(ctx, userID, input.MerchandiseID, input.VariantID, input.SizeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking for existing cart line")
	}
	if existing != nil {
		if err := s.repo.UpdateQuantity(ctx, existing.ID, userID, existing.Quantity+input.Quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merging cart line")
		}
		return s.loadLineDTO(ctx, existing.ID, userID)
	}

	line := &models.CartLine{
		UserID:        userID,
		MerchandiseID: input.MerchandiseID,
		VariantID:     input.VariantID,
		SizeID:        input.SizeID,
		Quantity:      input.Quantity,
	}
	if _, err := s.repo.Create(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart line")
	}
	return s.loadLineDTO(ctx, line.ID, userID)
}

// ChangeVariant sets the new variant and unconditionally clears the size,
// since sizes are scoped to a variant.
func (s *service) ChangeVariant(ctx context.Context, userID, lineID, variantID uuid.UUID) error {
	line, ok, err := s.loadOwnedLine(ctx, lineID, userID)
	if err != nil || !ok {
		return err
	}
	if variantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if line.Merchandise != nil && pricing.FindVariant(line.Merchandise, variantID) == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to this merchandise")
	}

	if err := s.repo.UpdateSelection(ctx, lineID, userID, variantID, nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "changing cart line variant")
	}
	return nil
}

// ChangeSize sets the size; a nil sizeID clears the selection.
func (s *service) ChangeSize(ctx context.Context, userID, lineID uuid.UUID, sizeID *uuid.UUID) error {
	line, ok, err := s.loadOwnedLine(ctx, lineID, userID)
	if err != nil || !ok {
		return err
	}
	if sizeID != nil && line.Merchandise != nil {
		variant := pricing.FindVariant(line.Merchandise, line.VariantID)
		if variant == nil || pricing.FindSize(variant, *sizeID) == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "size does not belong to the chosen variant")
		}
	}

	if err := s.repo.UpdateSelection(ctx, lineID, userID, line.VariantID, sizeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "changing cart line size")
	}
	return nil
}

// ChangeQuantity ignores quantities below one without touching the line.
func (s *service) ChangeQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return nil
	}
	_, ok, err := s.loadOwnedLine(ctx, lineID, userID)
	if err != nil || !ok {
		return err
	}

	if err := s.repo.UpdateQuantity(ctx, lineID, userID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "changing cart line quantity")
	}
	return nil
}

func (s *service) DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error {
	if userID == uuid.Nil || lineID == uuid.Nil {
		return nil
	}
	if err := s.repo.Delete(ctx, lineID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting cart line")
	}
	return nil
}

// loadOwnedLine resolves a mutation target; a missing line is not an error.
func (s *service) loadOwnedLine(ctx context.Context, lineID, userID uuid.UUID) (*models.CartLine, bool, error) {
	if userID == uuid.Nil || lineID == uuid.Nil {
		return nil, false, nil
	}
	line, err := s.repo.FindByIDAndUser(ctx, lineID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}
	return line, true, nil
}

func (s *service) loadLineDTO(ctx context.Context, lineID, userID uuid.UUID) (*LineDTO, error) {
	line, err := s.repo.FindByIDAndUser(ctx, lineID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reloading cart line")
	}
	isMember := false
	if line.Merchandise != nil {
		isMember, err = s.members.IsMember(ctx, userID, line.Merchandise.ShopID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking membership")
		}
	}
	dto := toLineDTO(line, isMember)
	return &dto, nil
}
