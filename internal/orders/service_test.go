package orders

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/pkg/codegen"
	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/dbtest"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
	"github.com/simkemas/simkemas-backend/pkg/pagination"
)

type fixture struct {
	client   *db.Client
	svc      Service
	logs     *bytes.Buffer
	customer *models.Customer
	product  *models.Product
}

func newFixture(t *testing.T, codes invoiceCoder) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	ledger, err := finance.NewLedger(finance.NewRepository(client.DB()), nil)
	require.NoError(t, err)
	if codes == nil {
		codes = codegen.Generator{}
	}
	logs := &bytes.Buffer{}
	svc, err := NewService(NewRepository(client.DB()), ledger, client, codes, nil, logger.New(logger.Options{Output: logs}))
	require.NoError(t, err)

	customer := dbtest.Customer(t, client, "Budi")
	return &fixture{
		client:   client,
		svc:      svc,
		logs:     logs,
		customer: customer,
		product:  dbtest.Product(t, client, customer.ID, "Keripik"),
	}
}

func (f *fixture) input(option enums.PaymentOption, quantity int, price int64) CreateInput {
	return CreateInput{
		CustomerID:    f.customer.ID,
		PaymentOption: option,
		Items:         []ItemInput{{ProductID: f.product.ID, Quantity: quantity, Price: decimal.NewFromInt(price), HasDesign: true}},
	}
}

func (f *fixture) transactions(t *testing.T) []models.Transaction {
	t.Helper()
	var rows []models.Transaction
	require.NoError(t, f.client.DB().Find(&rows).Error)
	return rows
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertMoney(t *testing.T, want int64, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, money(want).Equal(got), "expected %d, got %s", want, got)
}

func TestCreateFullOrderRecordsOneSale(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.input(enums.PaymentOptionFull, 2, 50000))
	require.NoError(t, err)
	assert.Regexp(t, `^INV/\d{8}/\d{4}$`, res.Code)

	view, err := f.svc.Get(ctx, res.OrderID)
	require.NoError(t, err)
	assertMoney(t, 100000, view.TotalAmount)
	assertMoney(t, 100000, view.PaidAmount)
	assertMoney(t, 0, view.RemainingAmount)
	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Equal(t, enums.ProductionStatusPendingDesign, view.ProductionStatus)
	assert.EqualValues(t, 1, view.Version)
	require.Len(t, view.Items, 1)
	assertMoney(t, 100000, view.Items[0].Subtotal)
	assert.Equal(t, "Keripik", view.Items[0].ProductName)
	require.NotNil(t, view.Customer)
	assert.Equal(t, "Budi", view.Customer.Name)

	txns := f.transactions(t)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.TransactionTypeIn, txns[0].Type)
	assert.Equal(t, finance.CategorySales, txns[0].Category)
	assertMoney(t, 100000, txns[0].Amount)
	assert.Equal(t, "INV "+res.Code+" - Budi - Pelunasan Awal", txns[0].Description)
	require.NotNil(t, txns[0].RelatedOrderID)
	assert.Equal(t, res.OrderID, *txns[0].RelatedOrderID)
}

func TestCreateDownPaymentIsPartial(t *testing.T) {
	f := newFixture(t, nil)
	in := f.input(enums.PaymentOptionDP, 4, 50000)
	in.PaidAmount = money(80000)

	res, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assertMoney(t, 200000, view.TotalAmount)
	assertMoney(t, 80000, view.PaidAmount)
	assertMoney(t, 120000, view.RemainingAmount)
	assert.Equal(t, enums.PaymentStatusPartial, view.PaymentStatus)

	txns := f.transactions(t)
	require.Len(t, txns, 1)
	assert.Contains(t, txns[0].Description, "Down Payment (DP)")
}

func TestCreateDownPaymentClampsToGrandTotal(t *testing.T) {
	f := newFixture(t, nil)
	in := f.input(enums.PaymentOptionDP, 1, 100000)
	in.Discount = money(10000)
	in.PaidAmount = money(150000)

	res, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assertMoney(t, 90000, view.TotalAmount)
	assertMoney(t, 90000, view.PaidAmount)
	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
}

func TestCreateLaterRecordsNoCash(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Create(context.Background(), f.input(enums.PaymentOptionLater, 1, 25000))
	require.NoError(t, err)

	view, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusUnpaid, view.PaymentStatus)
	assert.Empty(t, f.transactions(t))
}

func TestCreateDownPaymentWithNothingDownIsPartial(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.svc.Create(context.Background(), f.input(enums.PaymentOptionDP, 1, 100000))
	require.NoError(t, err)

	var stored models.Order
	require.NoError(t, f.client.DB().First(&stored, "id = ?", res.OrderID).Error)
	assert.Equal(t, enums.PaymentStatusPartial, stored.PaymentStatus)
	assertMoney(t, 0, stored.PaidAmount)

	view, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPartial, view.PaymentStatus)
	assert.Empty(t, f.transactions(t))
	assert.NotContains(t, f.logs.String(), "order.payment_status.drift")

	report, err := f.svc.Audit(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, report.Drifted, "partial with nothing down is not drift")
	assert.Zero(t, report.Fixed)
}

type failingCash struct{}

func (failingCash) Record(context.Context, *gorm.DB, finance.Entry) (*models.Transaction, error) {
	return nil, pkgerrors.New(pkgerrors.CodeDependency, "ledger unavailable")
}

func TestCreateLeavesNothingWhenCashEntryFails(t *testing.T) {
	f := newFixture(t, nil)
	svc, err := NewService(NewRepository(f.client.DB()), failingCash{}, f.client, codegen.Generator{}, nil, logger.New(logger.Options{Output: f.logs}))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), f.input(enums.PaymentOptionFull, 2, 50000))
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	var orderCount, itemCount int64
	require.NoError(t, f.client.DB().Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, f.client.DB().Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
	assert.Empty(t, f.transactions(t))
}

func TestCreateRejectsBeforeAnyWrite(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	cases := map[string]func(in *CreateInput){
		"no customer":    func(in *CreateInput) { in.CustomerID = uuid.Nil },
		"no items":       func(in *CreateInput) { in.Items = nil },
		"bad option":     func(in *CreateInput) { in.PaymentOption = "cicil" },
		"zero quantity":  func(in *CreateInput) { in.Items[0].Quantity = 0 },
		"negative price": func(in *CreateInput) { in.Items[0].Price = money(-1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := f.input(enums.PaymentOptionFull, 1, 1000)
			mutate(&in)
			_, err := f.svc.Create(ctx, in)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, f.client.DB().Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.transactions(t))
}

func TestCreateUnknownReferencesAreNotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	in := f.input(enums.PaymentOptionFull, 1, 1000)
	in.CustomerID = uuid.New()
	_, err := f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	in = f.input(enums.PaymentOptionFull, 1, 1000)
	in.Items = append(in.Items, ItemInput{ProductID: uuid.New(), Quantity: 1, Price: money(1)})
	_, err = f.svc.Create(ctx, in)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	var count int64
	require.NoError(t, f.client.DB().Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Empty(t, f.transactions(t))
}

func TestCreateRegeneratesTakenCode(t *testing.T) {
	seq := []int{0, 0, 1}
	gen := codegen.Generator{Intn: func(int) int {
		v := seq[0]
		seq = seq[1:]
		return v
	}}
	f := newFixture(t, gen)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.input(enums.PaymentOptionLater, 1, 1000))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.input(enums.PaymentOptionLater, 1, 1000))
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)
	assert.Regexp(t, `/1001$`, second.Code)
}

func TestGetTwiceIsStable(t *testing.T) {
	f := newFixture(t, nil)
	in := f.input(enums.PaymentOptionDP, 3, 12345)
	in.PaidAmount = money(5000)
	res, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	a, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	b, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, a.PaymentStatus, b.PaymentStatus)
	assert.True(t, a.RemainingAmount.Equal(b.RemainingAmount))
	assert.Equal(t, a.Version, b.Version)
}

func TestGetRecomputesDriftedStatus(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.svc.Create(context.Background(), f.input(enums.PaymentOptionFull, 1, 40000))
	require.NoError(t, err)
	require.NoError(t, f.client.DB().Model(&models.Order{}).
		Where("id = ?", res.OrderID).
		Update("payment_status", enums.PaymentStatusUnpaid).Error)

	view, err := f.svc.Get(context.Background(), res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusPaid, view.PaymentStatus)
	assert.Contains(t, f.logs.String(), "order.payment_status.drift")
}

func TestGetUnknownOrder(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateVersionedRejectsStaleVersion(t *testing.T) {
	f := newFixture(t, nil)
	res, err := f.svc.Create(context.Background(), f.input(enums.PaymentOptionLater, 1, 1000))
	require.NoError(t, err)
	repo := NewRepository(f.client.DB())
	ctx := context.Background()

	require.NoError(t, repo.UpdateVersioned(ctx, res.OrderID, 1, map[string]any{"note": "first"}))
	err = repo.UpdateVersioned(ctx, res.OrderID, 1, map[string]any{"note": "second"})
	assert.ErrorIs(t, err, ErrVersionConflict)

	order, err := repo.FindDetail(ctx, res.OrderID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, order.Version)
	require.NotNil(t, order.Note)
	assert.Equal(t, "first", *order.Note)
}

func TestListSearchesAndPages(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, f.input(enums.PaymentOptionLater, 1, 1000))
		require.NoError(t, err)
	}
	other := dbtest.Customer(t, f.client, "Siti")
	otherProduct := dbtest.Product(t, f.client, other.ID, "Kopi")
	_, err := f.svc.Create(ctx, CreateInput{
		CustomerID:    other.ID,
		PaymentOption: enums.PaymentOptionLater,
		Items:         []ItemInput{{ProductID: otherProduct.ID, Quantity: 1, Price: money(1)}},
	})
	require.NoError(t, err)

	found, err := f.svc.List(ctx, ListInput{Search: "siti"})
	require.NoError(t, err)
	require.Len(t, found.Orders, 1)
	assert.Equal(t, other.ID, found.Orders[0].CustomerID)

	first, err := f.svc.List(ctx, ListInput{Params: paramsOf(2, "")})
	require.NoError(t, err)
	require.Len(t, first.Orders, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := f.svc.List(ctx, ListInput{Params: paramsOf(2, first.NextCursor)})
	require.NoError(t, err)
	require.Len(t, second.Orders, 2)
	assert.Empty(t, second.NextCursor)

	seen := map[uuid.UUID]bool{}
	for _, o := range append(first.Orders, second.Orders...) {
		assert.False(t, seen[o.ID], "order %s listed twice", o.Code)
		seen[o.ID] = true
	}

	_, err = f.svc.List(ctx, ListInput{Params: paramsOf(2, "%%%")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestQueueOrdersByDeadlineNullsLast(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	soon := time.Now().UTC().Add(24 * time.Hour)
	later := soon.Add(48 * time.Hour)

	create := func(deadline *time.Time) uuid.UUID {
		in := f.input(enums.PaymentOptionLater, 1, 1000)
		in.Deadline = deadline
		res, err := f.svc.Create(ctx, in)
		require.NoError(t, err)
		return res.OrderID
	}
	none := create(nil)
	last := create(&later)
	first := create(&soon)
	done := create(&soon)
	require.NoError(t, f.client.DB().Model(&models.Order{}).
		Where("id = ?", done).
		Update("production_status", enums.ProductionStatusCompleted).Error)

	views, err := f.svc.Queue(ctx, QueueQuery{Statuses: enums.DesignQueueStatuses})
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, []uuid.UUID{first, last, none}, []uuid.UUID{views[0].ID, views[1].ID, views[2].ID})

	_, err = f.svc.Queue(ctx, QueueQuery{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAuditFindsAndFixesDrift(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	res, err := f.svc.Create(ctx, f.input(enums.PaymentOptionFull, 1, 40000))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input(enums.PaymentOptionLater, 1, 40000))
	require.NoError(t, err)
	require.NoError(t, f.client.DB().Model(&models.Order{}).
		Where("id = ?", res.OrderID).
		Update("payment_status", enums.PaymentStatusPartial).Error)

	report, err := f.svc.Audit(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	require.Len(t, report.Drifted, 1)
	assert.Equal(t, enums.PaymentStatusPaid, report.Drifted[0].Derived)
	assert.Zero(t, report.Fixed)

	report, err = f.svc.Audit(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fixed)

	report, err = f.svc.Audit(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifted)
}

func paramsOf(limit int, cursor string) pagination.Params {
	return pagination.Params{Limit: limit, Cursor: cursor}
}
