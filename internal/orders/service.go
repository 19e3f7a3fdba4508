package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
)

type orderRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, status *models.OrderStatus) error
}

type operatorGuard interface {
	RequireOperator(ctx context.Context, shopID, userID uuid.UUID) error
}

// Service exposes order tracking and fulfillment operations.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListForShop(ctx context.Context, userID, shopID uuid.UUID) ([]OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderDTO, error)
	MarkPaid(ctx context.Context, operatorID, orderID uuid.UUID) (*OrderDTO, error)
	MarkReceived(ctx context.Context, operatorID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo  orderRepository
	shops operatorGuard
	now   func() time.Time
}

// NewService builds an order service backed by the provided stack.
func NewService(repo orderRepository, shops operatorGuard) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shop guard required")
	}
	return &service{repo: repo, shops: shops, now: time.Now}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return out, nil
}

func (s *service) ListForShop(ctx context.Context, userID, shopID uuid.UUID) ([]OrderDTO, error) {
	if err := s.shops.RequireOperator(ctx, shopID, userID); err != nil {
		return nil, err
	}
	orders, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing shop orders")
	}
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toDTO(&orders[i]))
	}
	return out, nil
}

// Cancel marks the buyer's own order cancelled. Listings opt in to buyer
// cancellation; orders already received or cancelled stay as they are.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
	}
	if !order.Cancellable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "this order cannot be cancelled")
	}
	if order.Status == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no status record")
	}
	if order.Status.Cancelled {
		dto := toDTO(order)
		return &dto, nil
	}
	if order.Status.Received {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "received orders cannot be cancelled")
	}

	now := s.now()
	order.Status.Cancelled = true
	order.Status.CancelledAt = &now
	if trimmed := strings.TrimSpace(reason); trimmed != "" {
		order.Status.CancelReason = &trimmed
	}
	if err := s.repo.UpdateStatus(ctx, order.Status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancelling order")
	}
	dto := toDTO(order)
	return &dto, nil
}

// MarkPaid records payment confirmation by a shop operator.
func (s *service) MarkPaid(ctx context.Context, operatorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.shops.RequireOperator(ctx, order.ShopID, operatorID); err != nil {
		return nil, err
	}
	if order.Status == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no status record")
	}
	if order.Status.Cancelled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cancelled orders cannot be updated")
	}

	order.Status.Paid = true
	if err := s.repo.UpdateStatus(ctx, order.Status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order paid")
	}
	dto := toDTO(order)
	return &dto, nil
}

// MarkReceived records handover by a shop operator.
func (s *service) MarkReceived(ctx context.Context, operatorID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.shops.RequireOperator(ctx, order.ShopID, operatorID); err != nil {
		return nil, err
	}
	if order.Status == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no status record")
	}
	if order.Status.Cancelled {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cancelled orders cannot be updated")
	}

	now := s.now()
	order.Status.Received = true
	order.Status.ReceivedAt = &now
	if err := s.repo.UpdateStatus(ctx, order.Status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marking order received")
	}
	dto := toDTO(order)
	return &dto, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return order, nil
}
