package finance

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the cash book to staff.
type Service interface {
	Report(ctx context.Context, input ReportInput) (*Report, error)
	RecordManual(ctx context.Context, input ManualInput) (*TransactionView, error)
	Export(ctx context.Context, input ReportInput, w io.Writer) error
}

type service struct {
	repo   Repository
	ledger *Ledger
	tx     txRunner
}

// NewService builds the finance service.
func NewService(repo Repository, ledger *Ledger, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("cash ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, ledger: ledger, tx: tx}, nil
}

func (s *service) Report(ctx context.Context, input ReportInput) (*Report, error) {
	rng, err := ParseRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	totals, err := s.repo.Totals(ctx, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum transactions")
	}

	report := &Report{
		Transactions: make([]TransactionView, 0, len(rows)),
		Summary:      summarize(totals),
	}
	for _, row := range rows {
		report.Transactions = append(report.Transactions, toView(row))
	}
	return report, nil
}

func (s *service) RecordManual(ctx context.Context, input ManualInput) (*TransactionView, error) {
	entry := Entry{
		Type:        input.Type,
		Category:    input.Category,
		Amount:      input.Amount,
		Description: input.Description,
	}
	if input.UserID != uuid.Nil {
		uid := input.UserID
		entry.UserID = &uid
	}

	var view TransactionView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txn, err := s.ledger.Record(ctx, tx, entry)
		if err != nil {
			return err
		}
		view = toView(*txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) Export(ctx context.Context, input ReportInput, w io.Writer) error {
	report, err := s.Report(ctx, input)
	if err != nil {
		return err
	}
	return WriteWorkbook(w, input, report)
}

func summarize(totals map[enums.TransactionType]decimal.Decimal) Summary {
	in := totals[enums.TransactionTypeIn]
	out := totals[enums.TransactionTypeOut]
	return Summary{TotalIn: in, TotalOut: out, Balance: in.Sub(out)}
}

// ParseRange turns inclusive YYYY-MM-DD bounds into a half-open UTC window.
// Either bound may be empty.
func ParseRange(start, end string) (Range, error) {
	var rng Range
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, time.UTC)
		if err != nil {
			return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "start must be YYYY-MM-DD")
		}
		rng.From = t
	}
	if e := strings.TrimSpace(end); e != "" {
		t, err := time.ParseInLocation(dateLayout, e, time.UTC)
		if err != nil {
			return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "end must be YYYY-MM-DD")
		}
		rng.Until = t.AddDate(0, 0, 1)
	}
	if !rng.From.IsZero() && !rng.Until.IsZero() && !rng.From.Before(rng.Until) {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "start must not be after end")
	}
	return rng, nil
}
