package controllers

import (
	"net/http"

	"github.com/bremray/bremray-backend/api/responses"
	"github.com/bremray/bremray-backend/api/validators"
	"github.com/bremray/bremray-backend/internal/jobs"
	"github.com/bremray/bremray-backend/pkg/logger"
)

// JobsCreate creates a job, auto-creating its card where the workspace
// rules call for one.
func JobsCreate(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body jobs.CreateInput
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
