package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/pickup"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type pickupRequest struct {
	Adjustment      *decimal.Decimal `json:"adjustment"`
	PaymentAmount   *decimal.Decimal `json:"paymentAmount"`
	Note            *string          `json:"note"`
	ActionType      string           `json:"actionType" validate:"required,oneof=pickup_now pay_only"`
	ExpectedVersion *int64           `json:"expected_version"`
}

func PickupQueue(svc pickup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Queue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// PickupComplete settles the final bill. Only pickup_now hands the goods over.
func PickupComplete(svc pickup.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body pickupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := pickup.Input{
			OrderID:         id,
			Note:            body.Note,
			Action:          enums.PickupAction(strings.TrimSpace(body.ActionType)),
			ExpectedVersion: body.ExpectedVersion,
			ActorID:         actor.UserID,
		}
		if body.Adjustment != nil {
			input.Adjustment = *body.Adjustment
		}
		if body.PaymentAmount != nil {
			input.PaymentAmount = *body.PaymentAmount
		}

		order, err := svc.Complete(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
