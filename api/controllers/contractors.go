package controllers

import (
	"net/http"

	"github.com/bremray/bremray-backend/api/responses"
	"github.com/bremray/bremray-backend/api/validators"
	"github.com/bremray/bremray-backend/internal/contractors"
	"github.com/bremray/bremray-backend/pkg/logger"
)

// ContractorsCreate registers a contractor and returns its one-time access
// token.
func ContractorsCreate(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body contractors.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ContractorsIndex lists contractors without their access tokens.
func ContractorsIndex(svc contractors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
