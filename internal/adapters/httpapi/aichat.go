package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/httpjson"
	"github.com/go-chi/chi/v5"
)

type AIChatHandler struct {
	aichat *app.AIChatService
}

func NewAIChatHandler(aichat *app.AIChatService) *AIChatHandler {
	return &AIChatHandler{aichat: aichat}
}

func (h *AIChatHandler) Routes(r chi.Router) {
	r.Post("/ai-chat", h.chat)
}

func (h *AIChatHandler) chat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	reply, err := h.aichat.Chat(r.Context(), in.Message)
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			writeAppError(w, err)
		case errors.Is(err, app.ErrAIChatNotConfigured):
			httpjson.WriteError(w, http.StatusBadRequest, "AI API key is not configured.")
		default:
			httpjson.WriteError(w, http.StatusInternalServerError, "Failed to get response from AI service.")
		}
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"response": reply})
}
