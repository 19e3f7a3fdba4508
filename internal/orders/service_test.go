package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	"github.com/campuscart/campuscart-backend/pkg/enums"
	pkgerrors "github.com/campuscart/campuscart-backend/pkg/errors"
)

type stubOrderRepo struct {
	order   *models.Order
	findErr error
	saved   *models.OrderStatus
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrderRepo) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Order, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.Order{*s.order}, nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.order, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, status *models.OrderStatus) error {
	s.saved = status
	return nil
}

type stubGuard struct {
	err error
}

func (s stubGuard) RequireOperator(ctx context.Context, shopID, userID uuid.UUID) error {
	return s.err
}

func newOrder(userID uuid.UUID, cancellable bool) *models.Order {
	orderID := uuid.New()
	return &models.Order{
		ID:          orderID,
		UserID:      userID,
		ShopID:      uuid.New(),
		Quantity:    1,
		Cancellable: cancellable,
		Status:      &models.OrderStatus{OrderID: orderID},
	}
}

func newOrderTestService(t *testing.T, repo orderRepository, guard operatorGuard) Service {
	t.Helper()
	svc, err := NewService(repo, guard)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestDeriveStatusPriority(t *testing.T) {
	t.Parallel()

	receivedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reason := "changed my mind"

	cases := []struct {
		name       string
		status     *models.OrderStatus
		wantLabel  enums.OrderStatusLabel
		wantDetail string
	}{
		{"nil status is pending", nil, enums.OrderStatusPending, ""},
		{"all false is pending", &models.OrderStatus{}, enums.OrderStatusPending, ""},
		{"paid only", &models.OrderStatus{Paid: true}, enums.OrderStatusPaid, ""},
		{
			"received beats paid",
			&models.OrderStatus{Paid: true, Received: true, ReceivedAt: &receivedAt},
			enums.OrderStatusReceived,
			receivedAt.Format(time.RFC3339),
		},
		{
			"cancelled beats everything",
			&models.OrderStatus{Paid: true, Received: true, Cancelled: true, CancelReason: &reason},
			enums.OrderStatusCancelled,
			reason,
		},
		{"cancelled without reason", &models.OrderStatus{Cancelled: true}, enums.OrderStatusCancelled, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveStatus(tc.status)
			if got.Label != tc.wantLabel {
				t.Fatalf("expected label %s, got %s", tc.wantLabel, got.Label)
			}
			if got.Detail != tc.wantDetail {
				t.Fatalf("expected detail %q, got %q", tc.wantDetail, got.Detail)
			}
		})
	}
}

func TestCancelRequiresOwnership(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{order: newOrder(uuid.New(), true)}
	svc := newOrderTestService(t, repo, stubGuard{})

	_, err := svc.Cancel(context.Background(), uuid.New(), repo.order.ID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestCancelRejectsNonCancellable(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubOrderRepo{order: newOrder(userID, false)}
	svc := newOrderTestService(t, repo, stubGuard{})

	_, err := svc.Cancel(context.Background(), userID, repo.order.ID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCancelRecordsReason(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubOrderRepo{order: newOrder(userID, true)}
	svc := newOrderTestService(t, repo, stubGuard{})

	dto, err := svc.Cancel(context.Background(), userID, repo.order.ID, "  wrong size  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.saved == nil || !repo.saved.Cancelled || repo.saved.CancelledAt == nil {
		t.Fatalf("expected cancelled status to be saved, got %+v", repo.saved)
	}
	if repo.saved.CancelReason == nil || *repo.saved.CancelReason != "wrong size" {
		t.Fatalf("expected trimmed cancel reason, got %v", repo.saved.CancelReason)
	}
	if dto.Status.Label != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled label, got %s", dto.Status.Label)
	}
}

func TestCancelRejectsReceivedOrder(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	order := newOrder(userID, true)
	order.Status.Received = true
	repo := &stubOrderRepo{order: order}
	svc := newOrderTestService(t, repo, stubGuard{})

	_, err := svc.Cancel(context.Background(), userID, order.ID, "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestMarkPaidRequiresOperator(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{order: newOrder(uuid.New(), true)}
	guard := stubGuard{err: pkgerrors.New(pkgerrors.CodeForbidden, "user does not operate this shop")}
	svc := newOrderTestService(t, repo, guard)

	_, err := svc.MarkPaid(context.Background(), uuid.New(), repo.order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestMarkReceivedSetsTimestamp(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{order: newOrder(uuid.New(), true)}
	svc := newOrderTestService(t, repo, stubGuard{})

	dto, err := svc.MarkReceived(context.Background(), uuid.New(), repo.order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.saved == nil || !repo.saved.Received || repo.saved.ReceivedAt == nil {
		t.Fatalf("expected received status with timestamp, got %+v", repo.saved)
	}
	if dto.Status.Label != enums.OrderStatusReceived {
		t.Fatalf("expected received label, got %s", dto.Status.Label)
	}
}

func TestMarkPaidRejectsCancelledOrder(t *testing.T) {
	t.Parallel()

	order := newOrder(uuid.New(), true)
	order.Status.Cancelled = true
	repo := &stubOrderRepo{order: order}
	svc := newOrderTestService(t, repo, stubGuard{})

	_, err := svc.MarkPaid(context.Background(), uuid.New(), order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestListMineMapsStatus(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	order := newOrder(userID, true)
	order.Status.Paid = true
	repo := &stubOrderRepo{order: order}
	svc := newOrderTestService(t, repo, stubGuard{})

	out, err := svc.ListMine(context.Background(), userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].Status.Label != enums.OrderStatusPaid {
		t.Fatalf("unexpected orders: %+v", out)
	}
}

func TestLoadOrderNotFound(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{findErr: gorm.ErrRecordNotFound}
	svc := newOrderTestService(t, repo, stubGuard{})

	_, err := svc.Cancel(context.Background(), uuid.New(), uuid.New(), "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
