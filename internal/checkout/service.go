package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/internal/cart"
	"github.com/campuscart/campuscart-backend/internal/orders"
	"github.com/campuscart/campuscart-backend/pkg/db/models"
	"github.com/campuscart/campuscart-backend/pkg/enums"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
	"github.com/campuscart/campuscart-backend/pkg/logger"
	"github.com/campuscart/campuscart-backend/pkg/pricing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sessionStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*Session, error)
	Save(ctx context.Context, userID uuid.UUID, session *Session) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type memberLookup interface {
	MemberShopIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
}

// Service drives the checkout flow: selection, per-line payment state, the
// submission gate and the submission itself.
type Service interface {
	View(ctx context.Context, userID uuid.UUID) (*CheckoutDTO, error)
	ToggleSelection(ctx context.Context, userID, lineID uuid.UUID) (*CheckoutDTO, error)
	SetPaymentMethod(ctx context.Context, userID, lineID uuid.UUID, method enums.PaymentMethod) (*CheckoutDTO, error)
	AttachReceipt(ctx context.Context, userID, lineID uuid.UUID, receiptURL string) (*CheckoutDTO, error)
	RemoveReceipt(ctx context.Context, userID, lineID uuid.UUID) (*CheckoutDTO, error)
	Submit(ctx context.Context, userID uuid.UUID) (*SubmitResult, error)
}

type service struct {
	tx         txRunner
	cartRepo   cart.LineRepository
	ordersRepo orders.OrderRepository
	sessions   sessionStore
	members    memberLookup
	logg       *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartRepo cart.LineRepository,
	ordersRepo orders.OrderRepository,
	sessions sessionStore,
	members memberLookup,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		ordersRepo: ordersRepo,
		sessions:   sessions,
		members:    members,
		logg:       logg,
	}, nil
}

// LineDTO is one selected line with its checkout sub-state.
type LineDTO struct {
	LineID          uuid.UUID               `json:"line_id"`
	MerchandiseName string                  `json:"merchandise_name"`
	VariantName     string                  `json:"variant_name"`
	SizeName        *string                 `json:"size_name,omitempty"`
	Quantity        int                     `json:"quantity"`
	TotalPrice      decimal.Decimal         `json:"total_price"`
	State           enums.CheckoutLineState `json:"state"`
	PaymentMethod   *enums.PaymentMethod    `json:"payment_method,omitempty"`
	ReceiptURL      *string                 `json:"receipt_url,omitempty"`
	OnlinePayment   bool                    `json:"online_payment"`
	PhysicalPayment bool                    `json:"physical_payment"`
}

// CheckoutDTO is the whole checkout view; SubmitEnabled is the conjunction
// gate over every selected line.
type CheckoutDTO struct {
	Lines         []LineDTO       `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	SubmitEnabled bool            `json:"submit_enabled"`
}

// LineResult reports the outcome of one line's submission.
type LineResult struct {
	LineID  uuid.UUID  `json:"line_id"`
	OrderID *uuid.UUID `json:"order_id,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// SubmitResult is the per-line outcome of a submission; partial success is
// expected and not an error.
type SubmitResult struct {
	Results   []LineResult `json:"results"`
	Submitted int          `json:"submitted"`
	Failed    int          `json:"failed"`
}

// deriveLineState maps the stored payment state onto the flow state.
func deriveLineState(state LineState) enums.CheckoutLineState {
	if state.PaymentMethod == nil {
		return enums.CheckoutLineNoMethod
	}
	switch *state.PaymentMethod {
	case enums.PaymentMethodInPerson:
		return enums.CheckoutLineInPerson
	case enums.PaymentMethodOnline:
		if state.ReceiptURL != nil {
			return enums.CheckoutLineReceiptAttached
		}
		return enums.CheckoutLineAwaitingReceipt
	default:
		return enums.CheckoutLineNoMethod
	}
}

func (s *service) View(ctx context.Context, userID uuid.UUID) (*CheckoutDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	return s.buildView(ctx, userID, session, true)
}

func (s *service) ToggleSelection(ctx context.Context, userID, lineID uuid.UUID) (*CheckoutDTO, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !session.IsSelected(lineID) {
		// Only lines actually in the cart can join the selection.
		if _, err := s.cartRepo.FindByIDAndUser(ctx, lineID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return s.buildView(ctx, userID, session, false)
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
		}
	}
	session.Toggle(lineID)

	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return s.buildView(ctx, userID, session, false)
}

// SetPaymentMethod overwrites any prior method for the line. Switching away
// from online payment discards an attached receipt.
func (s *service) SetPaymentMethod(ctx context.Context, userID, lineID uuid.UUID, method enums.PaymentMethod) (*CheckoutDTO, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsSelected(lineID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "line is not selected for checkout")
	}

	line, err := s.cartRepo.FindByIDAndUser(ctx, lineID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		session.Drop(lineID)
		if err := s.sessions.Save(ctx, userID, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
		}
		return s.buildView(ctx, userID, session, false)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}

	if line.Merchandise != nil {
		if method == enums.PaymentMethodInPerson && !line.Merchandise.PhysicalPayment {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "this merchandise does not accept in-person payment")
		}
		if method == enums.PaymentMethodOnline && !line.Merchandise.OnlinePayment {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "this merchandise does not accept online payment")
		}
	}

	state := session.Lines[lineID]
	state.PaymentMethod = &method
	if method != enums.PaymentMethodOnline {
		state.ReceiptURL = nil
	}
	session.Lines[lineID] = state

	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return s.buildView(ctx, userID, session, false)
}

// AttachReceipt moves an online-payment line to its submission-ready state.
// Attaching over an existing receipt replaces it.
func (s *service) AttachReceipt(ctx context.Context, userID, lineID uuid.UUID, receiptURL string) (*CheckoutDTO, error) {
	if receiptURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipt url is required")
	}
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	state, ok := session.Lines[lineID]
	if !ok || state.PaymentMethod == nil || *state.PaymentMethod != enums.PaymentMethodOnline {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receipts only apply to online payment lines")
	}

	state.ReceiptURL = &receiptURL
	session.Lines[lineID] = state

	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return s.buildView(ctx, userID, session, false)
}

// RemoveReceipt returns an online-payment line to awaiting-receipt.
func (s *service) RemoveReceipt(ctx context.Context, userID, lineID uuid.UUID) (*CheckoutDTO, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state, ok := session.Lines[lineID]; ok {
		state.ReceiptURL = nil
		session.Lines[lineID] = state
		if err := s.sessions.Save(ctx, userID, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
		}
	}
	return s.buildView(ctx, userID, session, false)
}

// Submit processes every selected line independently, in selection order.
// Each line's order creation and cart line deletion commit together; a failed
// line keeps its cart line and checkout state so the user can retry.
func (s *service) Submit(ctx context.Context, userID uuid.UUID) (*SubmitResult, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(session.Selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no cart lines selected for checkout")
	}

	lines, dropped, err := s.loadSelectedLines(ctx, userID, session)
	if err != nil {
		return nil, err
	}
	if dropped {
		if err := s.sessions.Save(ctx, userID, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
		}
	}
	if len(session.Selected) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no cart lines selected for checkout")
	}

	// The gate is a conjunction: one incomplete line blocks the whole selection.
	for _, lineID := range session.Selected {
		if !deriveLineState(session.Lines[lineID]).Eligible() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "every selected line needs a payment method and, for online payment, a receipt")
		}
	}

	memberShops, err := s.members.MemberShopIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading memberships")
	}

	result := &SubmitResult{Results: make([]LineResult, 0, len(session.Selected))}
	remaining := append([]uuid.UUID{}, session.Selected...)
	for _, lineID := range remaining {
		line := lines[lineID]
		state := session.Lines[lineID]

		orderID, err := s.submitLine(ctx, userID, line, state, memberShops)
		if err != nil {
			s.logg.Error(s.logg.WithField(ctx, "cart_line_id", lineID.String()), "checkout line submission failed", err)
			result.Results = append(result.Results, LineResult{LineID: lineID, Error: publicSubmitError(err)})
			result.Failed++
			continue
		}

		session.Drop(lineID)
		result.Results = append(result.Results, LineResult{LineID: lineID, OrderID: &orderID})
		result.Submitted++
	}

	if err := s.sessions.Save(ctx, userID, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
	}
	return result, nil
}

// submitLine snapshots the line into an order and deletes the cart line atomically.
func (s *service) submitLine(ctx context.Context, userID uuid.UUID, line *models.CartLine, state LineState, memberShops map[uuid.UUID]bool) (uuid.UUID, error) {
	if line == nil || line.Merchandise == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeConflict, "cart line is no longer available")
	}
	merch := line.Merchandise

	variant := pricing.FindVariant(merch, line.VariantID)
	if variant == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeConflict, "the chosen variant is no longer available")
	}
	quote := pricing.Resolve(merch, line.VariantID, line.SizeID, line.Quantity, memberShops[merch.ShopID])

	var sizeName *string
	if line.SizeID != nil {
		if size := pricing.FindSize(variant, *line.SizeID); size != nil {
			sizeName = &size.Name
		}
	}

	order := &models.Order{
		UserID:        userID,
		ShopID:        merch.ShopID,
		MerchandiseID: merch.ID,
		Merchandise:   merch.Name,
		VariantName:   variant.Name,
		SizeName:      sizeName,
		Quantity:      line.Quantity,
		UnitPrice:     quote.Unit,
		TotalPrice:    quote.Total,
		PaymentMethod: *state.PaymentMethod,
		ReceiptURL:    state.ReceiptURL,
		Cancellable:   merch.Cancellable,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).Delete(ctx, line.ID, userID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return order.ID, nil
}

func (s *service) loadSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	session, err := s.sessions.Load(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading checkout session")
	}
	return session, nil
}

// loadSelectedLines resolves the selection against the live cart, lazily
// dropping ids whose lines were deleted since selection.
func (s *service) loadSelectedLines(ctx context.Context, userID uuid.UUID, session *Session) (map[uuid.UUID]*models.CartLine, bool, error) {
	cartLines, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	byID := make(map[uuid.UUID]*models.CartLine, len(cartLines))
	for i := range cartLines {
		byID[cartLines[i].ID] = &cartLines[i]
	}

	dropped := false
	for _, lineID := range append([]uuid.UUID{}, session.Selected...) {
		if _, ok := byID[lineID]; !ok {
			session.Drop(lineID)
			dropped = true
		}
	}
	return byID, dropped, nil
}

func (s *service) buildView(ctx context.Context, userID uuid.UUID, session *Session, persistDrops bool) (*CheckoutDTO, error) {
	lines, dropped, err := s.loadSelectedLines(ctx, userID, session)
	if err != nil {
		return nil, err
	}
	if dropped && persistDrops {
		if err := s.sessions.Save(ctx, userID, session); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving checkout session")
		}
	}

	memberShops, err := s.members.MemberShopIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading memberships")
	}

	view := &CheckoutDTO{
		Lines:         make([]LineDTO, 0, len(session.Selected)),
		Total:         decimal.Zero,
		SubmitEnabled: len(session.Selected) > 0,
	}
	for _, lineID := range session.Selected {
		line := lines[lineID]
		state := session.Lines[lineID]
		flowState := deriveLineState(state)

		dto := LineDTO{
			LineID:        lineID,
			Quantity:      line.Quantity,
			TotalPrice:    decimal.Zero,
			State:         flowState,
			PaymentMethod: state.PaymentMethod,
			ReceiptURL:    state.ReceiptURL,
		}
		if merch := line.Merchandise; merch != nil {
			dto.MerchandiseName = merch.Name
			dto.OnlinePayment = merch.OnlinePayment
			dto.PhysicalPayment = merch.PhysicalPayment

			quote := pricing.Resolve(merch, line.VariantID, line.SizeID, line.Quantity, memberShops[merch.ShopID])
			if !quote.VariantMissing {
				dto.TotalPrice = quote.Total
				view.Total = view.Total.Add(quote.Total)
			}
			if variant := pricing.FindVariant(merch, line.VariantID); variant != nil {
				dto.VariantName = variant.Name
				if line.SizeID != nil {
					if size := pricing.FindSize(variant, *line.SizeID); size != nil {
						dto.SizeName = &size.Name
					}
				}
			}
		}
		if !flowState.Eligible() {
			view.SubmitEnabled = false
		}
		view.Lines = append(view.Lines, dto)
	}
	return view, nil
}

func publicSubmitError(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return "could not submit this line"
}
