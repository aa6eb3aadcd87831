package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

const defaultJikanBaseURL = "https://api.jikan.moe/v4"

type JikanProvider struct {
	baseURL string
	client  *http.Client
}

func NewJikanProvider() *JikanProvider {
	return &JikanProvider{baseURL: defaultJikanBaseURL, client: newHTTPClient()}
}

func (p *JikanProvider) WithBaseURL(base string) *JikanProvider {
	if strings.TrimSpace(base) != "" {
		p.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return p
}

func (p *JikanProvider) Name() string { return "jikan" }

type jikanItem struct {
	MALID  int    `json:"mal_id"`
	Title  string `json:"title"`
	Images struct {
		JPG struct {
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
	Status   string  `json:"status"`
	Type     string  `json:"type"`
	Chapters int     `json:"chapters"`
	Volumes  int     `json:"volumes"`
	Score    float64 `json:"score"`
	Synopsis string  `json:"synopsis"`
	Genres   []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type jikanSearchResponse struct {
	Data []jikanItem `json:"data"`
}

func (p *JikanProvider) Search(ctx context.Context, query string) ([]domain.Entry, error) {
	u := fmt.Sprintf("%s/manga?q=%s&sfw", p.baseURL, url.QueryEscape(query))
	var resp jikanSearchResponse
	if err := getJSON(ctx, p.client, u, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]domain.Entry, 0, len(resp.Data))
	for _, item := range resp.Data {
		genres := make([]string, 0, len(item.Genres))
		for _, g := range item.Genres {
			genres = append(genres, g.Name)
		}
		out = append(out, domain.Entry{
			MALID:         item.MALID,
			Title:         item.Title,
			CoverImage:    item.Images.JPG.LargeImageURL,
			Rating:        roundedScale(item.Score, 2), // note MAL sur 10
			Genres:        genres,
			Status:        mapJikanStatus(item.Status),
			Type:          mapJikanType(item.Type),
			TotalChapters: item.Chapters,
			TotalVolumes:  item.Volumes,
			URL:           fmt.Sprintf("https://myanimelist.net/manga/%d", item.MALID),
			Notes:         item.Synopsis,
		})
	}
	return out, nil
}

func mapJikanStatus(status string) domain.Status {
	switch strings.ToLower(status) {
	case "finished", "complete":
		return domain.StatusCompleted
	case "publishing", "ongoing":
		return domain.StatusOngoing
	case "on hiatus", "hiatus":
		return domain.StatusHiatus
	default:
		return domain.StatusOngoing
	}
}

func mapJikanType(t string) domain.Type {
	switch strings.ToLower(t) {
	case "manhwa":
		return domain.TypeManhwa
	case "manhua":
		return domain.TypeManhua
	default:
		return domain.TypeManga
	}
}
