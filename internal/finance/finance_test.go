package finance

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/db"
	"github.com/simkemas/simkemas-backend/pkg/db/dbtest"
	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

func newFinance(t *testing.T) (*db.Client, Service, *Ledger) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ledger, err := NewLedger(repo, nil)
	require.NoError(t, err)
	svc, err := NewService(repo, ledger, client)
	require.NoError(t, err)
	return client, svc, ledger
}

func seedTxn(t *testing.T, client *db.Client, kind enums.TransactionType, amount int64, at time.Time) {
	t.Helper()
	require.NoError(t, client.DB().Create(&models.Transaction{
		Type:        kind,
		Category:    CategoryGeneral,
		Amount:      decimal.NewFromInt(amount),
		Description: "seed",
		CreatedAt:   at,
	}).Error)
}

func TestLedgerRecordValidates(t *testing.T) {
	client, _, ledger := newFinance(t)
	ctx := context.Background()

	_, err := ledger.Record(ctx, client.DB(), Entry{Type: enums.TransactionTypeIn, Amount: decimal.Zero, Description: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ledger.Record(ctx, client.DB(), Entry{Type: "refund", Amount: decimal.NewFromInt(1), Description: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	txn, err := ledger.Record(ctx, client.DB(), Entry{Type: enums.TransactionTypeOut, Amount: decimal.NewFromInt(5000), Description: "Beli tinta"})
	require.NoError(t, err)
	assert.Equal(t, CategoryGeneral, txn.Category)
}

func TestLedgerRecordRollsBackWithCaller(t *testing.T) {
	client, _, ledger := newFinance(t)
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := ledger.Record(ctx, tx, Entry{Type: enums.TransactionTypeIn, Amount: decimal.NewFromInt(10), Description: "x"}); err != nil {
			return err
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "later step failed")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, client.DB().Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReportSummarizesInclusiveRange(t *testing.T) {
	client, svc, _ := newFinance(t)
	day := func(d, h int) time.Time { return time.Date(2025, 3, d, h, 0, 0, 0, time.UTC) }

	seedTxn(t, client, enums.TransactionTypeIn, 100000, day(1, 9))
	seedTxn(t, client, enums.TransactionTypeOut, 30000, day(2, 23))
	seedTxn(t, client, enums.TransactionTypeIn, 50000, day(3, 8))

	report, err := svc.Report(context.Background(), ReportInput{Start: "2025-03-01", End: "2025-03-02"})
	require.NoError(t, err)
	require.Len(t, report.Transactions, 2)
	assert.Equal(t, enums.TransactionTypeOut, report.Transactions[0].Type, "newest first")
	assert.True(t, report.Summary.TotalIn.Equal(decimal.NewFromInt(100000)))
	assert.True(t, report.Summary.TotalOut.Equal(decimal.NewFromInt(30000)))
	assert.True(t, report.Summary.Balance.Equal(decimal.NewFromInt(70000)))

	all, err := svc.Report(context.Background(), ReportInput{})
	require.NoError(t, err)
	assert.Len(t, all.Transactions, 3)
	assert.True(t, all.Summary.Balance.Equal(decimal.NewFromInt(120000)))
}

func TestReportEmptyRangeReturnsEmptyList(t *testing.T) {
	_, svc, _ := newFinance(t)
	report, err := svc.Report(context.Background(), ReportInput{Start: "2020-01-01", End: "2020-01-31"})
	require.NoError(t, err)
	assert.NotNil(t, report.Transactions)
	assert.Empty(t, report.Transactions)
	assert.True(t, report.Summary.Balance.IsZero())
}

func TestParseRange(t *testing.T) {
	_, err := ParseRange("01-03-2025", "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseRange("2025-03-05", "2025-03-01")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	rng, err := ParseRange("2025-03-01", "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, rng.Until.Sub(rng.From))
}

func TestRecordManualDefaultsCategory(t *testing.T) {
	_, svc, _ := newFinance(t)
	uid := uuid.New()
	view, err := svc.RecordManual(context.Background(), ManualInput{
		Type:        enums.TransactionTypeOut,
		Amount:      decimal.NewFromInt(25000),
		Description: "Listrik",
		UserID:      uid,
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryGeneral, view.Category)
	require.NotNil(t, view.UserID)
	assert.Equal(t, uid, *view.UserID)
}

func TestExportWritesWorkbook(t *testing.T) {
	client, svc, _ := newFinance(t)
	seedTxn(t, client, enums.TransactionTypeIn, 100000, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), ReportInput{Start: "2025-03-01", End: "2025-03-31"}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exportSheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Tanggal", header)

	desc, err := f.GetCellValue(exportSheet, "D4")
	require.NoError(t, err)
	assert.Equal(t, "seed", desc)

	label, err := f.GetCellValue(exportSheet, "D6")
	require.NoError(t, err)
	assert.Equal(t, "Total", label)
}

func TestSalesDescription(t *testing.T) {
	assert.Equal(t, "INV INV/20250101/1234 - Budi - Pelunasan", SalesDescription("INV/20250101/1234", "Budi", "Pelunasan"))
	assert.Equal(t, "INV X - Pelanggan - Down Payment (DP)", SalesDescription("X", " ", "Down Payment (DP)"))
}
