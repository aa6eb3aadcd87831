package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

const defaultKitsuBaseURL = "https://kitsu.io/api/edge"

type KitsuProvider struct {
	baseURL string
	client  *http.Client
}

func NewKitsuProvider() *KitsuProvider {
	return &KitsuProvider{baseURL: defaultKitsuBaseURL, client: newHTTPClient()}
}

func (p *KitsuProvider) WithBaseURL(base string) *KitsuProvider {
	if strings.TrimSpace(base) != "" {
		p.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return p
}

func (p *KitsuProvider) Name() string { return "kitsu" }

type kitsuItem struct {
	ID         string `json:"id"`
	Attributes struct {
		CanonicalTitle string `json:"canonicalTitle"`
		Categories     []struct {
			Attributes struct {
				Title string `json:"title"`
			} `json:"attributes"`
		} `json:"categories"`
		PosterImage struct {
			Large string `json:"large"`
		} `json:"posterImage"`
		Status       string `json:"status"`
		MangaType    string `json:"mangaType"`
		ChapterCount int    `json:"chapterCount"`
		VolumeCount  int    `json:"volumeCount"`
		// Kitsu renvoie la note moyenne comme chaîne ("82.53"), parfois null.
		AverageRating string `json:"averageRating"`
		Synopsis      string `json:"synopsis"`
	} `json:"attributes"`
}

type kitsuSearchResponse struct {
	Data []kitsuItem `json:"data"`
}

func (p *KitsuProvider) Search(ctx context.Context, query string) ([]domain.Entry, error) {
	u := fmt.Sprintf("%s/manga?filter[text]=%s&page[limit]=10", p.baseURL, url.QueryEscape(query))
	var resp kitsuSearchResponse
	if err := getJSON(ctx, p.client, u, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Entry, 0, len(resp.Data))
	for _, item := range resp.Data {
		genres := make([]string, 0, len(item.Attributes.Categories))
		for _, c := range item.Attributes.Categories {
			genres = append(genres, c.Attributes.Title)
		}
		out = append(out, domain.Entry{
			Title:         item.Attributes.CanonicalTitle,
			CoverImage:    item.Attributes.PosterImage.Large,
			Rating:        roundedScale(parseKitsuRating(item.Attributes.AverageRating), 20), // score Kitsu sur 100
			Genres:        genres,
			Status:        mapKitsuStatus(item.Attributes.Status),
			Type:          mapKitsuType(item.Attributes.MangaType),
			TotalChapters: item.Attributes.ChapterCount,
			TotalVolumes:  item.Attributes.VolumeCount,
			URL:           fmt.Sprintf("https://kitsu.io/manga/%s", item.ID),
			Notes:         item.Attributes.Synopsis,
		})
	}
	return out, nil
}

func parseKitsuRating(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

func mapKitsuStatus(status string) domain.Status {
	switch strings.ToLower(status) {
	case "finished", "complete":
		return domain.StatusCompleted
	case "current", "publishing", "ongoing":
		return domain.StatusOngoing
	case "hiatus":
		return domain.StatusHiatus
	default:
		return domain.StatusOngoing
	}
}

func mapKitsuType(t string) domain.Type {
	switch strings.ToLower(t) {
	case "manhwa":
		return domain.TypeManhwa
	case "manhua":
		return domain.TypeManhua
	default:
		return domain.TypeManga
	}
}
