package enums

// CheckoutLineState is the per-line position in the checkout flow.
type CheckoutLineState string

const (
	// CheckoutLineNoMethod means no payment method has been chosen yet.
	CheckoutLineNoMethod CheckoutLineState = "no_method"
	// CheckoutLineInPerson means in-person payment was chosen; the line is
	// submission-ready.
	CheckoutLineInPerson CheckoutLineState = "in_person_chosen"
	// CheckoutLineAwaitingReceipt means online payment was chosen but no
	// receipt has been attached yet.
	CheckoutLineAwaitingReceipt CheckoutLineState = "awaiting_receipt"
	// CheckoutLineReceiptAttached means online payment was chosen and a
	// receipt is attached; the line is submission-ready.
	CheckoutLineReceiptAttached CheckoutLineState = "receipt_attached"
)

// String implements fmt.Stringer.
func (s CheckoutLineState) String() string {
	return string(s)
}

// Eligible reports whether a line in this state may be submitted.
func (s CheckoutLineState) Eligible() bool {
	return s == CheckoutLineInPerson || s == CheckoutLineReceiptAttached
}
