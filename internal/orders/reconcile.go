package orders

import (
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// PaidTolerance absorbs rounding at the counter: an order is settled once the
// customer is no more than this much short.
var PaidTolerance = decimal.NewFromInt(100)

// IsSettled reports whether paid covers the adjusted total within PaidTolerance.
func IsSettled(paid, total, adjustment decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(total.Sub(adjustment).Sub(PaidTolerance))
}

// DerivePaymentStatus recomputes payment_status for a stored order. The amounts
// decide paid versus not paid; partial and unpaid are kept as stored because an
// order that went through a dp intake or a pickup stays partial even at zero paid.
func DerivePaymentStatus(stored enums.PaymentStatus, paid, total, adjustment decimal.Decimal) enums.PaymentStatus {
	if IsSettled(paid, total, adjustment) {
		return enums.PaymentStatusPaid
	}
	if stored == enums.PaymentStatusPartial || stored == enums.PaymentStatusUnpaid {
		return stored
	}
	if paid.IsPositive() {
		return enums.PaymentStatusPartial
	}
	return enums.PaymentStatusUnpaid
}

// InitialStatus is the payment_status of a freshly taken order. A dp order short
// of the total is partial even when nothing was put down.
func InitialStatus(option enums.PaymentOption, paid, grand decimal.Decimal) enums.PaymentStatus {
	switch {
	case option == enums.PaymentOptionFull || IsSettled(paid, grand, decimal.Zero):
		return enums.PaymentStatusPaid
	case option == enums.PaymentOptionDP:
		return enums.PaymentStatusPartial
	default:
		return enums.PaymentStatusUnpaid
	}
}

// LineInput is the priced part of an order line.
type LineInput struct {
	Quantity int
	Price    decimal.Decimal
}

// Totals returns the line subtotal sum and the grand total after discount,
// floored at zero.
func Totals(lines []LineInput, discount decimal.Decimal) (subtotal, grand decimal.Decimal) {
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	grand = subtotal.Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	return subtotal, grand
}

// InitialPayment returns the amount collected when the order is taken.
func InitialPayment(option enums.PaymentOption, requested, grand decimal.Decimal) decimal.Decimal {
	switch option {
	case enums.PaymentOptionFull:
		return grand
	case enums.PaymentOptionDP:
		if requested.IsNegative() {
			return decimal.Zero
		}
		return decimal.Min(requested, grand)
	default:
		return decimal.Zero
	}
}

// Settlement is the outcome of a pickup or pay-only visit.
type Settlement struct {
	FinalTotal decimal.Decimal
	PaidAmount decimal.Decimal
	Status     enums.PaymentStatus
}

// Settle applies a final adjustment and an additional payment to the stored amounts.
// A settlement never goes back to unpaid.
func Settle(total, paid, adjustment, payment decimal.Decimal) Settlement {
	newPaid := paid.Add(payment)
	status := enums.PaymentStatusPartial
	if IsSettled(newPaid, total, adjustment) {
		status = enums.PaymentStatusPaid
	}
	return Settlement{
		FinalTotal: total.Sub(adjustment),
		PaidAmount: newPaid,
		Status:     status,
	}
}

// Remaining is what the customer still owes, never negative.
func Remaining(total, adjustment, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(adjustment).Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
