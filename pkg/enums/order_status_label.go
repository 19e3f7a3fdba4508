package enums

// OrderStatusLabel is the single display state derived from the independent
// status booleans on an order.
type OrderStatusLabel string

const (
	OrderStatusCancelled OrderStatusLabel = "Cancelled"
	OrderStatusReceived  OrderStatusLabel = "Received"
	OrderStatusPaid      OrderStatusLabel = "Paid"
	OrderStatusPending   OrderStatusLabel = "Pending"
)

// String implements fmt.Stringer.
func (o OrderStatusLabel) String() string {
	return string(o)
}
