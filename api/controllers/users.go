package controllers

import (
	"net/http"
	"strings"

	"github.com/simkemas/simkemas-backend/api/responses"
	"github.com/simkemas/simkemas-backend/api/validators"
	"github.com/simkemas/simkemas-backend/internal/users"
	"github.com/simkemas/simkemas-backend/pkg/enums"
	"github.com/simkemas/simkemas-backend/pkg/logger"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Username string `json:"username" validate:"required,min=4"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := validators.ParseQueryBool(r, "deleted")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), users.ListInput{
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

func UsersCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Create(r.Context(), users.CreateInput{
			Name:     body.Name,
			Username: body.Username,
			Email:    body.Email,
			Password: body.Password,
			Role:     enums.Role(strings.TrimSpace(body.Role)),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, user)
	}
}

func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body updateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Update(r.Context(), id, users.UpdateInput{
			Name:     body.Name,
			Email:    body.Email,
			Role:     enums.Role(strings.TrimSpace(body.Role)),
			Password: body.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func UsersDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.Delete, "deleted")
}

func UsersRestore(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.Restore, "restored")
}

func UsersDeletePermanent(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return idAction(logg, svc.DeletePermanent, "purged")
}
