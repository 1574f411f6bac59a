package httpapi

import (
	"net/http"

	"mindcare/internal/domain"

	"go.uber.org/zap"
)

// CatalogHandler serves the static catalogs: plans, timezones and form templates.
type CatalogHandler struct {
	logger *zap.Logger
}

func NewCatalogHandler(logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{logger: logger}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	switch r.URL.Path {
	case "/api/v1/plans":
		writeJSON(w, http.StatusOK, Ok(domain.Plans()))
	case "/api/v1/timezones":
		writeJSON(w, http.StatusOK, Ok(domain.Timezones()))
	case "/api/v1/form-templates":
		writeJSON(w, http.StatusOK, Ok(domain.FormSchemas()))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
