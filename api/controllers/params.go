package controllers

import (
	"net/http"

	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// urlUUID parses a UUID path parameter, mapping garbage to a validation
// error instead of a 404.
func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{name: "must be a valid uuid"})
	}
	return id, nil
}
