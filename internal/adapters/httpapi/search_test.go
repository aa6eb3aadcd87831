package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/app"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

type stubProvider struct {
	name  string
	calls int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Search(context.Context, string) ([]domain.Entry, error) {
	p.calls++
	return []domain.Entry{{Title: "Berserk", Status: domain.StatusOngoing, Type: domain.TypeManga}}, nil
}

func TestSearchHandler_ExplicitProvider(t *testing.T) {
	jikan := &stubProvider{name: "jikan"}
	kitsu := &stubProvider{name: "kitsu"}
	f := newServerFixture(t, jikan, kitsu)

	rr := doJSON(t, f.router, http.MethodGet, "/api/search?provider=kitsu&q=berserk", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if kitsu.calls != 1 || jikan.calls != 0 {
		t.Fatalf("calls: kitsu=%d jikan=%d", kitsu.calls, jikan.calls)
	}

	var results []app.EntryDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Berserk" {
		t.Fatalf("results = %+v", results)
	}
}

func TestSearchHandler_DefaultsToConfiguredProvider(t *testing.T) {
	jikan := &stubProvider{name: "jikan"}
	anilist := &stubProvider{name: "anilist"}
	f := newServerFixture(t, jikan, anilist)

	rr := doJSON(t, f.router, http.MethodPut, "/api/settings", []byte(`{"apiProvider": "anilist"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("put settings status = %d", rr.Code)
	}

	rr = doJSON(t, f.router, http.MethodGet, "/api/search?q=berserk", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if anilist.calls != 1 || jikan.calls != 0 {
		t.Fatalf("calls: anilist=%d jikan=%d", anilist.calls, jikan.calls)
	}
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	f := newServerFixture(t, &stubProvider{name: "jikan"})

	rr := doJSON(t, f.router, http.MethodGet, "/api/search", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}
