package controllers

import (
	"net/http"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/customers"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type customerRequest struct {
	Name    string  `json:"name" validate:"required,min=3"`
	Phone   string  `json:"phone" validate:"required,min=8"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address"`
}

func (c customerRequest) input() customers.Input {
	return customers.Input{Name: c.Name, Phone: c.Phone, Email: c.Email, Address: c.Address}
}

func CustomersList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := validators.ParseQueryBool(r, "deleted")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), customers.ListInput{
			Search:  validators.SanitizeString(r.URL.Query().Get("search"), 100),
			Deleted: deleted,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func CustomersCreate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body customerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Create(r.Context(), body.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, customer)
	}
}

func CustomersUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body customerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Update(r.Context(), id, body.input())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

func CustomersDelete(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.Delete, "deleted")
}

func CustomersRestore(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.Restore, "restored")
}
