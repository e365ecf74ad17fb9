package cron

import (
	"context"
	"fmt"

	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type auditor interface {
	Audit(ctx context.Context, fix bool) (*orders.AuditReport, error)
}

// PaymentAuditJob sweeps orders for a stored payment_status that no longer
// matches the amounts. Drift is logged per order; Fix rewrites it.
type PaymentAuditJob struct {
	orders auditor
	logg   *logger.Logger
	fix    bool
}

func NewPaymentAuditJob(svc auditor, logg *logger.Logger, fix bool) (*PaymentAuditJob, error) {
	if svc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &PaymentAuditJob{orders: svc, logg: logg, fix: fix}, nil
}

func (j *PaymentAuditJob) Name() string { return "payment_audit" }

func (j *PaymentAuditJob) Run(ctx context.Context) error {
	report, err := j.orders.Audit(ctx, j.fix)
	if err != nil {
		return err
	}
	if j.logg == nil {
		return nil
	}
	for _, d := range report.Drifted {
		driftCtx := j.logg.WithFields(ctx, map[string]any{
			"order_id": d.OrderID.String(),
			"code":     d.Code,
			"stored":   string(d.Stored),
			"derived":  string(d.Derived),
		})
		j.logg.Warn(driftCtx, "payment_audit.drift")
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"scanned": report.Scanned,
		"drifted": len(report.Drifted),
		"fixed":   report.Fixed,
	}), "payment_audit.done")
	return nil
}
