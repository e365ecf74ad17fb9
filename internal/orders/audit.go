package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/simkemas/simkemas-backend/pkg/db/models"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
)

const auditBatchSize = 200

// Drift is an order whose stored payment_status disagrees with its amounts.
type Drift struct {
	OrderID uuid.UUID           `json:"order_id"`
	Code    string              `json:"code"`
	Version int64               `json:"version"`
	Stored  enums.PaymentStatus `json:"stored"`
	Derived enums.PaymentStatus `json:"derived"`
}

// AuditReport summarizes a payment_status sweep.
type AuditReport struct {
	Scanned int     `json:"scanned"`
	Drifted []Drift `json:"drifted"`
	Fixed   int     `json:"fixed"`
}

// Audit recomputes payment_status for every order. With fix set, drifted rows are
// rewritten through the versioned update so concurrent edits are not clobbered.
func (s *service) Audit(ctx context.Context, fix bool) (*AuditReport, error) {
	report := &AuditReport{Drifted: []Drift{}}
	err := s.repo.ScanAll(ctx, auditBatchSize, func(batch []models.Order) error {
		for _, o := range batch {
			report.Scanned++
			derived := DerivePaymentStatus(o.PaymentStatus, o.PaidAmount, o.TotalAmount, o.FinalAdjustment)
			if derived != o.PaymentStatus {
				report.Drifted = append(report.Drifted, Drift{
					OrderID: o.ID,
					Code:    o.Code,
					Version: o.Version,
					Stored:  o.PaymentStatus,
					Derived: derived,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan orders")
	}
	if !fix {
		return report, nil
	}

	var errs error
	for _, d := range report.Drifted {
		err := s.repo.UpdateVersioned(ctx, d.OrderID, d.Version, map[string]any{"payment_status": d.Derived})
		if err != nil {
			if errors.Is(err, ErrVersionConflict) {
				err = fmt.Errorf("order %s changed during audit: %w", d.Code, err)
			} else {
				err = fmt.Errorf("order %s: %w", d.Code, err)
			}
			errs = multierr.Append(errs, err)
			continue
		}
		report.Fixed++
	}
	if errs != nil {
		return report, pkgerrors.Wrap(pkgerrors.CodeConflict, errs, fmt.Sprintf("%d drifted orders were not fixed", len(multierr.Errors(errs))))
	}
	return report, nil
}
