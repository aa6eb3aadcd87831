package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

func TestJikanProvider_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/manga" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "berserk" {
			t.Errorf("q = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"mal_id": 2,
			"title": "Berserk",
			"images": {"jpg": {"large_image_url": "https://cdn.example/berserk.jpg"}},
			"status": "Publishing",
			"type": "Manga",
			"chapters": 0,
			"volumes": 41,
			"score": 8.0,
			"synopsis": "Guts.",
			"genres": [{"name": "Action"}, {"name": "Horror"}]
		}]}`))
	}))
	t.Cleanup(srv.Close)

	p := NewJikanProvider().WithBaseURL(srv.URL)
	entries, err := p.Search(context.Background(), "berserk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d", len(entries))
	}
	e := entries[0]
	if e.MALID != 2 || e.Title != "Berserk" {
		t.Fatalf("identity: %+v", e)
	}
	// Score MAL 8/10 -> note 4/5.
	if e.Rating != 4 {
		t.Fatalf("rating = %d, want 4", e.Rating)
	}
	if e.Status != domain.StatusOngoing || e.Type != domain.TypeManga {
		t.Fatalf("mapping: status=%s type=%s", e.Status, e.Type)
	}
	if e.URL != "https://myanimelist.net/manga/2" {
		t.Fatalf("url = %s", e.URL)
	}
	if len(e.Genres) != 2 || e.Genres[0] != "Action" {
		t.Fatalf("genres = %v", e.Genres)
	}
}

func TestKitsuProvider_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"id": "47",
			"attributes": {
				"canonicalTitle": "Solo Leveling",
				"posterImage": {"large": "https://cdn.example/solo.jpg"},
				"status": "current",
				"mangaType": "manhwa",
				"chapterCount": 179,
				"volumeCount": 0,
				"averageRating": "73.0",
				"synopsis": "Hunters."
			}
		}]}`))
	}))
	t.Cleanup(srv.Close)

	p := NewKitsuProvider().WithBaseURL(srv.URL)
	entries, err := p.Search(context.Background(), "solo leveling")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d", len(entries))
	}
	e := entries[0]
	// Score Kitsu 73/100 -> note 4/5, "current" -> ongoing.
	if e.Rating != 4 {
		t.Fatalf("rating = %d, want 4", e.Rating)
	}
	if e.Status != domain.StatusOngoing || e.Type != domain.TypeManhwa {
		t.Fatalf("mapping: status=%s type=%s", e.Status, e.Type)
	}
	if e.URL != "https://kitsu.io/manga/47" {
		t.Fatalf("url = %s", e.URL)
	}
}

func TestKitsuProvider_NullRating(t *testing.T) {
	if got := parseKitsuRating(""); got != 0 {
		t.Fatalf("empty rating = %v", got)
	}
	if got := parseKitsuRating("not-a-number"); got != 0 {
		t.Fatalf("garbage rating = %v", got)
	}
}

func TestAniListProvider_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"Page":{"media":[{
			"id": 30002,
			"title": {"romaji": "Berserk", "english": "", "native": "ベルセルク"},
			"coverImage": {"large": "https://cdn.example/berserk.jpg"},
			"genres": ["Action"],
			"status": "RELEASING",
			"format": "MANGA",
			"chapters": 0,
			"volumes": 41,
			"averageScore": 93,
			"description": "Guts."
		}]}}}`))
	}))
	t.Cleanup(srv.Close)

	p := NewAniListProvider().WithEndpoint(srv.URL)
	entries, err := p.Search(context.Background(), "berserk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d", len(entries))
	}
	e := entries[0]
	// english vide -> romaji.
	if e.Title != "Berserk" {
		t.Fatalf("title = %s", e.Title)
	}
	if e.Rating != 5 {
		t.Fatalf("rating = %d, want 5", e.Rating)
	}
	if e.Status != domain.StatusOngoing {
		t.Fatalf("status = %s", e.Status)
	}
	if e.URL != "https://anilist.co/manga/30002" {
		t.Fatalf("url = %s", e.URL)
	}
}

func TestAniListProvider_GraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	}))
	t.Cleanup(srv.Close)

	p := NewAniListProvider().WithEndpoint(srv.URL)
	if _, err := p.Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error from graphql errors array")
	}
}

func TestCustomProvider_Search(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"title": "Vagabond",
			"status": "on hold",
			"type": "manga",
			"rating": 9
		}, {
			"title": ""
		}]`))
	}))
	t.Cleanup(srv.Close)

	getter := func(context.Context) (domain.AppSettings, error) {
		s := domain.DefaultAppSettings()
		s.CustomAPIURL = srv.URL
		s.CustomAPIKey = "secret"
		return s, nil
	}

	p := NewCustomProvider(getter)
	entries, err := p.Search(context.Background(), "vagabond")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d", len(entries))
	}
	if entries[0].Status != domain.StatusHold {
		t.Fatalf("status = %s", entries[0].Status)
	}
	// Note hors bornes écrêtée, titre manquant remplacé.
	if entries[0].Rating != 5 {
		t.Fatalf("rating = %d, want 5", entries[0].Rating)
	}
	if entries[1].Title != "Unknown Title" {
		t.Fatalf("title = %q", entries[1].Title)
	}
}

func TestCustomProvider_NotConfigured(t *testing.T) {
	getter := func(context.Context) (domain.AppSettings, error) {
		return domain.DefaultAppSettings(), nil
	}
	p := NewCustomProvider(getter)
	if _, err := p.Search(context.Background(), "x"); err != ErrCustomNotConfigured {
		t.Fatalf("err = %v, want ErrCustomNotConfigured", err)
	}
}

func TestRoundedScale(t *testing.T) {
	cases := []struct {
		score, divisor float64
		want           int
	}{
		{8, 2, 4},
		{73, 20, 4},
		{10, 2, 5},
		{0, 2, 0},
		{-3, 2, 0},
		{4.9, 2, 2},
	}
	for _, c := range cases {
		if got := roundedScale(c.score, c.divisor); got != c.want {
			t.Errorf("roundedScale(%v, %v) = %d, want %d", c.score, c.divisor, got, c.want)
		}
	}
}
