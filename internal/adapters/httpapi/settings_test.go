package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

func TestSettingsHandler_PutTriggersCallback(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPut, "/api/settings", []byte(`{
		"theme": "dark",
		"autoUpdateStatus": true,
		"autoUpdateFrequency": 12,
		"apiProvider": "anilist"
	}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	if len(f.appUpdates) != 1 {
		t.Fatalf("callback calls = %d", len(f.appUpdates))
	}
	got := f.appUpdates[0]
	if !got.AutoUpdateStatus || got.AutoUpdateFrequency != 12 || got.APIProvider != "anilist" {
		t.Fatalf("callback settings = %+v", got)
	}
	// Les champs omis retombent sur les défauts.
	if got.ItemsPerPage != 20 || got.DefaultView != "grid" {
		t.Fatalf("defaults not backfilled: %+v", got)
	}
}

func TestSettingsHandler_GetReturnsDefaults(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodGet, "/api/settings", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got domain.AppSettings
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.APIProvider != "jikan" || got.AutoUpdateFrequency != 24 {
		t.Fatalf("defaults = %+v", got)
	}
}

func TestSettingsHandler_PutNotifications(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPut, "/api/notifications", []byte(`{
		"enabled": true,
		"frequency": "weekly",
		"customDays": [3],
		"time": "09:00",
		"types": ["manga"]
	}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if len(f.notifUpdates) != 1 {
		t.Fatalf("callback calls = %d", len(f.notifUpdates))
	}
	if got := f.notifUpdates[0]; !got.Enabled || got.Time != "09:00" {
		t.Fatalf("callback settings = %+v", got)
	}

	// Persisté: relisible via GET.
	rr = doJSON(t, f.router, http.MethodGet, "/api/notifications", nil)
	var got domain.NotificationSettings
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Enabled || len(got.CustomDays) != 1 || got.CustomDays[0] != 3 {
		t.Fatalf("persisted = %+v", got)
	}
}

func TestSettingsHandler_TestNotification(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPost, "/api/notifications/test", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if f.notifier.testPushes != 1 {
		t.Fatalf("test pushes = %d", f.notifier.testPushes)
	}

	// Un envoi refusé remonte en 500 avec un message stable.
	f.notifier.fail = true
	rr = doJSON(t, f.router, http.MethodPost, "/api/notifications/test", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error != "Failed to send test notification." {
		t.Fatalf("error = %q", out.Error)
	}
}

func TestSettingsHandler_PutNotificationsInvalidTime(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPut, "/api/notifications", []byte(`{
		"enabled": true,
		"frequency": "weekly",
		"time": "25:99"
	}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if len(f.notifUpdates) != 0 {
		t.Fatal("callback must not run on validation failure")
	}
}
