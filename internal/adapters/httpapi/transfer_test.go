package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
)

func TestTransferHandler_ExportImportRoundTrip(t *testing.T) {
	source := newServerFixture(t)

	rr := doJSON(t, source.router, http.MethodPost, "/api/manga/add", []byte(`{
		"title": "Vinland Saga",
		"rating": 5,
		"status": "ongoing",
		"type": "manga",
		"currentChapter": 200,
		"favorite": true
	}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rr.Code)
	}
	rr = doJSON(t, source.router, http.MethodPut, "/api/settings", []byte(`{"theme": "dark", "apiProvider": "kitsu"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("put settings status = %d", rr.Code)
	}

	rr = doJSON(t, source.router, http.MethodGet, "/api/export", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d", rr.Code)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(rr.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Library) != 1 || snap.Settings == nil || snap.ExportDate.IsZero() {
		t.Fatalf("snapshot = %+v", snap)
	}

	// Import dans une instance vierge.
	target := newServerFixture(t)
	rr = doJSON(t, target.router, http.MethodPost, "/api/import", rr.Body.Bytes())
	if rr.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, target.router, http.MethodGet, "/api/manga", nil)
	var list []app.EntryDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Vinland Saga" || !list[0].Favorite {
		t.Fatalf("imported list = %+v", list)
	}
	// L'id d'origine survit à l'import.
	if list[0].ID != snap.Library[0].ID {
		t.Fatalf("id changed on import: %s -> %s", snap.Library[0].ID, list[0].ID)
	}

	rr = doJSON(t, target.router, http.MethodGet, "/api/settings", nil)
	var settings struct {
		Theme       string `json:"theme"`
		APIProvider string `json:"apiProvider"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings.Theme != "dark" || settings.APIProvider != "kitsu" {
		t.Fatalf("settings = %+v", settings)
	}
}

func TestTransferHandler_ImportReplacesExistingLibrary(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPost, "/api/manga/add", []byte(`{"title": "Old", "status": "ongoing", "type": "manga"}`))
	if rr.Code != http.StatusCreated {
		t.Fatalf("add status = %d", rr.Code)
	}

	rr = doJSON(t, f.router, http.MethodPost, "/api/import", []byte(`{
		"library": [{
			"id": "imported-1",
			"title": "New",
			"status": "ongoing",
			"type": "manga",
			"genres": [],
			"dateAdded": "2025-01-01T00:00:00Z",
			"lastUpdated": "2025-01-01T00:00:00Z"
		}],
		"exportDate": "2025-06-01T00:00:00Z"
	}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, f.router, http.MethodGet, "/api/manga", nil)
	var list []app.EntryDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "imported-1" {
		t.Fatalf("import should replace the whole library, got %+v", list)
	}
}

func TestTransferHandler_ImportRejectsEntryWithoutID(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPost, "/api/import", []byte(`{
		"library": [{"title": "New", "status": "ongoing", "type": "manga"}]
	}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}
