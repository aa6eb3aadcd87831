package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

var ErrCustomNotConfigured = errors.New("custom api base url not configured")

// CustomProvider interroge un endpoint fourni par l'utilisateur. La base URL
// et la clé sont lues dans les settings à chaque recherche, pour suivre les
// changements à chaud.
type CustomProvider struct {
	settings func(ctx context.Context) (domain.AppSettings, error)
	client   *http.Client
}

func NewCustomProvider(settingsGetter func(ctx context.Context) (domain.AppSettings, error)) *CustomProvider {
	return &CustomProvider{settings: settingsGetter, client: newHTTPClient()}
}

func (p *CustomProvider) Name() string { return "custom" }

// customItem est volontairement permissif: le mapping est une convention,
// les APIs custom ne garantissent rien.
type customItem struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Genres         []string `json:"genres"`
	CoverImage     string   `json:"coverImage"`
	CoverImageURL  string   `json:"coverImageUrl"`
	Status         string   `json:"status"`
	Type           string   `json:"type"`
	CurrentChapter int      `json:"currentChapter"`
	TotalChapters  int      `json:"totalChapters"`
	CurrentVolume  int      `json:"currentVolume"`
	TotalVolumes   int      `json:"totalVolumes"`
	Rating         int      `json:"rating"`
	URL            string   `json:"url"`
	Favorite       bool     `json:"favorite"`
	Notes          string   `json:"notes"`
}

func (p *CustomProvider) Search(ctx context.Context, query string) ([]domain.Entry, error) {
	settings, err := p.settings(ctx)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSpace(settings.CustomAPIURL)
	if base == "" {
		return nil, ErrCustomNotConfigured
	}

	headers := map[string]string{}
	if key := strings.TrimSpace(settings.CustomAPIKey); key != "" {
		headers["Authorization"] = "Bearer " + key
	}

	u := fmt.Sprintf("%s?q=%s", base, url.QueryEscape(query))
	var items []customItem
	if err := getJSON(ctx, p.client, u, headers, &items); err != nil {
		return nil, err
	}

	out := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		cover := item.CoverImage
		if cover == "" {
			cover = item.CoverImageURL
		}
		out = append(out, domain.Entry{
			Title:          orUnknown(item.Title),
			CoverImage:     cover,
			Rating:         clampRating(item.Rating),
			Genres:         item.Genres,
			Status:         mapCustomStatus(item.Status),
			Type:           mapCustomType(item.Type),
			CurrentChapter: item.CurrentChapter,
			TotalChapters:  item.TotalChapters,
			CurrentVolume:  item.CurrentVolume,
			TotalVolumes:   item.TotalVolumes,
			URL:            item.URL,
			Favorite:       item.Favorite,
			Notes:          item.Notes,
		})
	}
	return out, nil
}

func orUnknown(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Unknown Title"
	}
	return title
}

func clampRating(r int) int {
	if r < 0 {
		return 0
	}
	if r > 5 {
		return 5
	}
	return r
}

func mapCustomStatus(status string) domain.Status {
	switch strings.ToLower(status) {
	case "finished", "complete", "completed":
		return domain.StatusCompleted
	case "publishing", "ongoing", "current":
		return domain.StatusOngoing
	case "hiatus", "on hiatus":
		return domain.StatusHiatus
	case "hold", "on hold", "cancelled":
		return domain.StatusHold
	default:
		return domain.StatusOngoing
	}
}

func mapCustomType(t string) domain.Type {
	switch strings.ToLower(t) {
	case "manhwa":
		return domain.TypeManhwa
	case "manhua":
		return domain.TypeManhua
	default:
		return domain.TypeManga
	}
}
