package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simkemas/simkemas-backend/pkg/enums"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestDerivePaymentStatus(t *testing.T) {
	cases := []struct {
		name             string
		stored           enums.PaymentStatus
		paid, total, adj int64
		want             enums.PaymentStatus
	}{
		{"exact", enums.PaymentStatusPaid, 100000, 100000, 0, enums.PaymentStatusPaid},
		{"within tolerance", enums.PaymentStatusPartial, 99900, 100000, 0, enums.PaymentStatusPaid},
		{"just outside tolerance", enums.PaymentStatusPartial, 99899, 100000, 0, enums.PaymentStatusPartial},
		{"adjustment closes the gap", enums.PaymentStatusPartial, 90000, 100000, 10000, enums.PaymentStatusPaid},
		{"nothing paid", enums.PaymentStatusUnpaid, 0, 100000, 0, enums.PaymentStatusUnpaid},
		{"partial kept at zero paid", enums.PaymentStatusPartial, 0, 100000, 0, enums.PaymentStatusPartial},
		{"stale paid with money down", enums.PaymentStatusPaid, 40000, 100000, 0, enums.PaymentStatusPartial},
		{"stale paid with nothing down", enums.PaymentStatusPaid, 0, 100000, 0, enums.PaymentStatusUnpaid},
		{"overpaid", enums.PaymentStatusPartial, 150000, 100000, 0, enums.PaymentStatusPaid},
		{"free order", enums.PaymentStatusUnpaid, 0, 0, 0, enums.PaymentStatusPaid},
		{"tiny total unpaid counts as paid", enums.PaymentStatusUnpaid, 0, 50, 0, enums.PaymentStatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DerivePaymentStatus(tc.stored, d(tc.paid), d(tc.total), d(tc.adj)))
		})
	}
}

func TestInitialStatus(t *testing.T) {
	grand := d(200000)
	assert.Equal(t, enums.PaymentStatusPaid, InitialStatus(enums.PaymentOptionFull, grand, grand))
	assert.Equal(t, enums.PaymentStatusPartial, InitialStatus(enums.PaymentOptionDP, d(80000), grand))
	assert.Equal(t, enums.PaymentStatusPartial, InitialStatus(enums.PaymentOptionDP, decimal.Zero, grand))
	assert.Equal(t, enums.PaymentStatusPaid, InitialStatus(enums.PaymentOptionDP, grand, grand))
	assert.Equal(t, enums.PaymentStatusUnpaid, InitialStatus(enums.PaymentOptionLater, decimal.Zero, grand))
	assert.Equal(t, enums.PaymentStatusPaid, InitialStatus(enums.PaymentOptionLater, decimal.Zero, decimal.Zero))
}

func TestTotalsFloorsAtZero(t *testing.T) {
	sub, grand := Totals([]LineInput{{Quantity: 2, Price: d(50000)}}, decimal.Zero)
	assert.True(t, sub.Equal(d(100000)))
	assert.True(t, grand.Equal(d(100000)))

	_, grand = Totals([]LineInput{{Quantity: 1, Price: d(1000)}}, d(5000))
	assert.True(t, grand.IsZero())
}

func TestInitialPayment(t *testing.T) {
	grand := d(200000)
	assert.True(t, InitialPayment(enums.PaymentOptionFull, d(5), grand).Equal(grand))
	assert.True(t, InitialPayment(enums.PaymentOptionDP, d(80000), grand).Equal(d(80000)))
	assert.True(t, InitialPayment(enums.PaymentOptionDP, d(250000), grand).Equal(grand), "dp clamps to grand total")
	assert.True(t, InitialPayment(enums.PaymentOptionDP, d(-1), grand).IsZero())
	assert.True(t, InitialPayment(enums.PaymentOptionLater, d(80000), grand).IsZero())
}

func TestSettlePickupScenario(t *testing.T) {
	s := Settle(d(100000), d(80000), d(10000), d(10000))
	assert.True(t, s.FinalTotal.Equal(d(90000)))
	assert.True(t, s.PaidAmount.Equal(d(90000)))
	assert.Equal(t, enums.PaymentStatusPaid, s.Status)

	s = Settle(d(100000), d(20000), decimal.Zero, d(10000))
	assert.Equal(t, enums.PaymentStatusPartial, s.Status)

	s = Settle(d(100000), decimal.Zero, decimal.Zero, decimal.Zero)
	assert.True(t, s.PaidAmount.IsZero())
	assert.Equal(t, enums.PaymentStatusPartial, s.Status, "a settlement never reverts to unpaid")
}

func TestRemaining(t *testing.T) {
	assert.True(t, Remaining(d(100000), d(10000), d(50000)).Equal(d(40000)))
	assert.True(t, Remaining(d(100000), decimal.Zero, d(120000)).IsZero())
}
