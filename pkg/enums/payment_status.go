package enums

import "fmt"

// PaymentStatus tracks the checkout payment state. The casing of the values
// is part of the client contract.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusPaid       PaymentStatus = "Paid"
	PaymentStatusOnDelivery PaymentStatus = "Payment on delivery"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusOnDelivery,
}

// settledPaymentStatuses are the values a client may set via the pay call.
var settledPaymentStatuses = []PaymentStatus{
	PaymentStatusPaid,
	PaymentStatusOnDelivery,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsSettled reports whether the value marks the checkout as paid.
func (p PaymentStatus) IsSettled() bool {
	for _, candidate := range settledPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
