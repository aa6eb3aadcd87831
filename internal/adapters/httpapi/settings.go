package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/httpjson"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	settings *app.SettingsService
	notifier ports.Notifier

	// Hooks pour réarmer planificateur et réconciliateur quand la config change.
	onApp           func(domain.AppSettings)
	onNotifications func(domain.NotificationSettings)
}

func NewSettingsHandler(settings *app.SettingsService, notifier ports.Notifier, onApp func(domain.AppSettings), onNotifications func(domain.NotificationSettings)) *SettingsHandler {
	return &SettingsHandler{settings: settings, notifier: notifier, onApp: onApp, onNotifications: onNotifications}
}

func (h *SettingsHandler) Routes(r chi.Router) {
	r.Get("/settings", h.getApp)
	r.Put("/settings", h.putApp)
	r.Get("/notifications", h.getNotifications)
	r.Put("/notifications", h.putNotifications)
	r.Post("/notifications/test", h.testNotification)
}

func (h *SettingsHandler) getApp(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetApp(r.Context())
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, settings)
}

func (h *SettingsHandler) putApp(w http.ResponseWriter, r *http.Request) {
	var in domain.AppSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := h.settings.PutApp(r.Context(), in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if h.onApp != nil {
		h.onApp(updated)
	}
	httpjson.Write(w, http.StatusOK, updated)
}

func (h *SettingsHandler) getNotifications(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetNotifications(r.Context())
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, settings)
}

func (h *SettingsHandler) putNotifications(w http.ResponseWriter, r *http.Request) {
	var in domain.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := h.settings.PutNotifications(r.Context(), in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if h.onNotifications != nil {
		h.onNotifications(updated)
	}
	httpjson.Write(w, http.StatusOK, updated)
}

// testNotification envoie une push de vérification pour que l'utilisateur
// valide son topic depuis l'écran de réglages.
func (h *SettingsHandler) testNotification(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		httpjson.WriteError(w, http.StatusInternalServerError, "Failed to send test notification.")
		return
	}
	if err := h.notifier.TestNotification(r.Context()); err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, "Failed to send test notification.")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "Test notification sent."})
}
