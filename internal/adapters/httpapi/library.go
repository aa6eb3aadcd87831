package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/httpjson"
	"github.com/go-chi/chi/v5"
)

type LibraryHandler struct {
	library *app.LibraryService
}

func NewLibraryHandler(library *app.LibraryService) *LibraryHandler {
	return &LibraryHandler{library: library}
}

// Routes reprend les chemins historiques du backend: add/update/delete sont
// des segments de chemin, pas des méthodes sur la même ressource.
func (h *LibraryHandler) Routes(r chi.Router) {
	r.Get("/manga", h.list)
	r.Get("/manga/{id}", h.get)
	r.Post("/manga/add", h.add)
	r.Put("/manga/update/{id}", h.update)
	r.Delete("/manga/delete/{id}", h.delete)
	r.Post("/bulk-import", h.bulkImport)
}

func (h *LibraryHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.library.List(r.Context())
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, entries)
}

func (h *LibraryHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entry, err := h.library.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			httpjson.WriteError(w, http.StatusNotFound, "manga not found")
			return
		}
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, entry)
}

func (h *LibraryHandler) add(w http.ResponseWriter, r *http.Request) {
	var draft app.EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	created, err := h.library.Add(r.Context(), draft)
	if err != nil {
		writeAppError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, created)
}

func (h *LibraryHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var patch app.EntryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := h.library.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			httpjson.WriteError(w, http.StatusNotFound, "manga not found")
			return
		}
		writeAppError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, updated)
}

func (h *LibraryHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.library.Delete(r.Context(), id); err != nil {
		if errors.Is(err, app.ErrNotFound) {
			httpjson.WriteError(w, http.StatusNotFound, "manga not found")
			return
		}
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LibraryHandler) bulkImport(w http.ResponseWriter, r *http.Request) {
	var drafts []app.EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&drafts); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	count, err := h.library.BulkImport(r.Context(), drafts)
	if err != nil {
		writeAppError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Successfully imported %d manga entries.", count),
	})
}

// writeAppError traduit une ValidationError en 400 avec le détail par champ,
// tout le reste en 500.
func writeAppError(w http.ResponseWriter, err error) {
	var verr *app.ValidationError
	if errors.As(err, &verr) {
		httpjson.Write(w, http.StatusBadRequest, map[string]any{
			"error":   "Invalid manga data.",
			"details": verr.Fields,
		})
		return
	}
	httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
}
