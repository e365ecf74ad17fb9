package enums

import "fmt"

// PaymentOption is how the cashier collects payment when an order is taken.
type PaymentOption string

const (
	PaymentOptionFull  PaymentOption = "full"
	PaymentOptionDP    PaymentOption = "dp"
	PaymentOptionLater PaymentOption = "later"
)

var validPaymentOptions = []PaymentOption{
	PaymentOptionFull,
	PaymentOptionDP,
	PaymentOptionLater,
}

// String implements fmt.Stringer.
func (v PaymentOption) String() string {
	return string(v)
}

// IsValid reports whether the value is a known PaymentOption.
func (v PaymentOption) IsValid() bool {
	for _, candidate := range validPaymentOptions {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParsePaymentOption converts raw input into a PaymentOption.
func ParsePaymentOption(value string) (PaymentOption, error) {
	for _, candidate := range validPaymentOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment option %q", value)
}
