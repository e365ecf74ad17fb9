package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/finance"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type manualEntryRequest struct {
	Type        string          `json:"type" validate:"required,oneof=in out"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"required"`
	Category    string          `json:"category"`
}

func reportRange(r *http.Request) finance.ReportInput {
	q := r.URL.Query()
	return finance.ReportInput{Start: strings.TrimSpace(q.Get("start")), End: strings.TrimSpace(q.Get("end"))}
}

func FinanceReport(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Report(r.Context(), reportRange(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func FinanceManual(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body manualEntryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.RecordManual(r.Context(), finance.ManualInput{
			Type:        enums.TransactionType(body.Type),
			Amount:      body.Amount,
			Description: body.Description,
			Category:    body.Category,
			UserID:      actor.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, entry)
	}
}

// FinanceExport renders the report range as an xlsx download. The workbook is
// buffered so a rendering failure still produces an error envelope.
func FinanceExport(svc finance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := reportRange(r)
		var buf bytes.Buffer
		if err := svc.Export(r.Context(), in, &buf); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFile(w, xlsxContentType, exportName(in), buf.Bytes())
	}
}

func exportName(in finance.ReportInput) string {
	switch {
	case in.Start != "" && in.End != "":
		return fmt.Sprintf("keuangan_%s_%s.xlsx", in.Start, in.End)
	case in.Start != "":
		return fmt.Sprintf("keuangan_%s.xlsx", in.Start)
	default:
		return "keuangan.xlsx"
	}
}
