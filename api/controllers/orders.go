package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/orders"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	pkgerrors "github.com/simkemas/simkemas-backend/pkg/errors"
	"github.com/simkemas/simkemas-backend/pkg/logger"
	"github.com/simkemas/simkemas-backend/pkg/pagination"
)

type orderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Variant   *string         `json:"variant"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
	Note      *string         `json:"note"`
	HasDesign bool            `json:"has_design"`
}

type createOrderRequest struct {
	CustomerID    uuid.UUID          `json:"customer_id" validate:"required"`
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentOption string             `json:"payment_option" validate:"required"`
	PaidAmount    *decimal.Decimal   `json:"paid_amount"`
	Discount      *decimal.Decimal   `json:"discount"`
	Note          *string            `json:"note"`
	Deadline      *string            `json:"deadline"`
}

var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*raw)); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "deadline must be YYYY-MM-DD or RFC3339").
		WithDetails(map[string]any{"deadline": *raw})
}

func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		deadline, err := parseDeadline(body.Deadline)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateInput{
			CustomerID:    body.CustomerID,
			PaymentOption: enums.PaymentOption(strings.TrimSpace(body.PaymentOption)),
			Note:          body.Note,
			Deadline:      deadline,
			CreatedBy:     actor.UserID,
		}
		if body.PaidAmount != nil {
			input.PaidAmount = *body.PaidAmount
		}
		if body.Discount != nil {
			input.Discount = *body.Discount
		}
		for _, item := range body.Items {
			input.Items = append(input.Items, orders.ItemInput{
				ProductID: item.ProductID,
				Variant:   item.Variant,
				Quantity:  item.Quantity,
				Price:     item.Price,
				Note:      item.Note,
				HasDesign: item.HasDesign,
			})
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, result)
	}
}

// OrdersList pages the order book, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), orders.ListInput{
			Search: validators.SanitizeString(r.URL.Query().Get("search"), 100),
			Params: pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func OrdersDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
