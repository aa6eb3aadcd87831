package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/httpjson"
	"github.com/go-chi/chi/v5"
)

type TransferHandler struct {
	transfer *app.TransferService
}

func NewTransferHandler(transfer *app.TransferService) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

func (h *TransferHandler) Routes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/import", h.importSnapshot)
}

func (h *TransferHandler) export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.transfer.Export(r.Context())
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="omni-reader-export.json"`)
	httpjson.Write(w, http.StatusOK, snap)
}

func (h *TransferHandler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap app.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.transfer.Import(r.Context(), snap); err != nil {
		writeAppError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Import completed."})
}
