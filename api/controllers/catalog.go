package controllers

import (
	"net/http"

	"github.com/bremray/bremray-backend/api/middleware"
	"github.com/bremray/bremray-backend/api/responses"
	"github.com/bremray/bremray-backend/internal/catalog"
	"github.com/bremray/bremray-backend/pkg/enums"
	"github.com/bremray/bremray-backend/pkg/logger"
)

// MasterItemsIndex returns the active catalog grouped by category. Prices
// appear only for admin callers.
func MasterItemsIndex(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.MasterItemsByCategory(r.Context(), isAdmin(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

// TemplatesIndex returns the active templates with their default items.
func TemplatesIndex(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templates, err := svc.Templates(r.Context(), isAdmin(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, templates)
	}
}

func isAdmin(r *http.Request) bool {
	return middleware.RoleFromContext(r.Context()) == string(enums.UserRoleAdmin)
}
