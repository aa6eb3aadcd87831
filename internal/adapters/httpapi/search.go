package httpapi

import (
	"net/http"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/httpjson"
	"github.com/go-chi/chi/v5"
)

type SearchHandler struct {
	search   *app.CatalogSearchService
	settings *app.SettingsService
}

func NewSearchHandler(search *app.CatalogSearchService, settings *app.SettingsService) *SearchHandler {
	return &SearchHandler{search: search, settings: settings}
}

func (h *SearchHandler) Routes(r chi.Router) {
	r.Get("/search", h.get)
}

// get répond à GET /api/search?q=…&provider=…; sans provider explicite on
// prend celui des settings.
func (h *SearchHandler) get(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	provider := r.URL.Query().Get("provider")
	if provider == "" && h.settings != nil {
		settings, err := h.settings.GetApp(r.Context())
		if err != nil {
			httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		provider = settings.APIProvider
	}

	results, err := h.search.Search(r.Context(), provider, query)
	if err != nil {
		writeAppError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, results)
}
