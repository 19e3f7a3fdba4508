package orders

import (
	"time"

	"github.com/campuscart/campuscart-backend/pkg/db/models"
	"github.com/campuscart/campuscart-backend/pkg/enums"
)

// StatusView is the single display label derived from the status booleans.
type StatusView struct {
	Label  enums.OrderStatusLabel `json:"label"`
	Detail string                 `json:"detail,omitempty"`
}

// DeriveStatus picks exactly one label by priority. The underlying fields are
// independent booleans and may overlap; cancelled always wins, then received,
// then paid.
func DeriveStatus(status *models.OrderStatus) StatusView {
	if status == nil {
		return StatusView{Label: enums.OrderStatusPending}
	}
	switch {
	case status.Cancelled:
		view := StatusView{Label: enums.OrderStatusCancelled}
		if status.CancelReason != nil {
			view.Detail = *status.CancelReason
		}
		return view
	case status.Received:
		view := StatusView{Label: enums.OrderStatusReceived}
		if status.ReceivedAt != nil {
			view.Detail = status.ReceivedAt.Format(time.RFC3339)
		}
		return view
	case status.Paid:
		return StatusView{Label: enums.OrderStatusPaid}
	default:
		return StatusView{Label: enums.OrderStatusPending}
	}
}
