package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

const defaultAniListEndpoint = "https://graphql.anilist.co"

type AniListProvider struct {
	endpoint string
	client   *http.Client
}

func NewAniListProvider() *AniListProvider {
	return &AniListProvider{endpoint: defaultAniListEndpoint, client: newHTTPClient()}
}

func (p *AniListProvider) WithEndpoint(endpoint string) *AniListProvider {
	if strings.TrimSpace(endpoint) != "" {
		p.endpoint = strings.TrimSpace(endpoint)
	}
	return p
}

func (p *AniListProvider) Name() string { return "anilist" }

type aniListGraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type aniListGraphQLError struct {
	Message string `json:"message"`
}

type aniListMedia struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
		Native  string `json:"native"`
	} `json:"title"`
	CoverImage struct {
		Large string `json:"large"`
	} `json:"coverImage"`
	Genres       []string `json:"genres"`
	Status       string   `json:"status"`
	Format       string   `json:"format"`
	Chapters     int      `json:"chapters"`
	Volumes      int      `json:"volumes"`
	AverageScore float64  `json:"averageScore"`
	Description  string   `json:"description"`
}

type aniListSearchResponse struct {
	Data struct {
		Page struct {
			Media []aniListMedia `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []aniListGraphQLError `json:"errors,omitempty"`
}

const aniListSearchQuery = `query($search:String){
	Page(perPage: 10){
		media(search:$search, type: MANGA){
			id
			title{ romaji english native }
			coverImage{ large }
			genres status format chapters volumes averageScore
			description(asHtml: false)
		}
	}
}`

func (p *AniListProvider) Search(ctx context.Context, query string) ([]domain.Entry, error) {
	body, err := json.Marshal(aniListGraphQLRequest{
		Query:     aniListSearchQuery,
		Variables: map[string]any{"search": query},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, errors.New("anilist http error: " + resp.Status)
	}

	var out aniListSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, errors.New(out.Errors[0].Message)
	}

	entries := make([]domain.Entry, 0, len(out.Data.Page.Media))
	for _, item := range out.Data.Page.Media {
		title := item.Title.English
		if title == "" {
			title = item.Title.Romaji
		}
		if title == "" {
			title = item.Title.Native
		}
		if title == "" {
			title = "Unknown Title"
		}
		entries = append(entries, domain.Entry{
			Title:         title,
			CoverImage:    item.CoverImage.Large,
			Rating:        roundedScale(item.AverageScore, 20), // score AniList sur 100
			Genres:        item.Genres,
			Status:        mapAniListStatus(item.Status),
			Type:          mapAniListType(item.Format),
			TotalChapters: item.Chapters,
			TotalVolumes:  item.Volumes,
			URL:           fmt.Sprintf("https://anilist.co/manga/%d", item.ID),
			Notes:         item.Description,
		})
	}
	return entries, nil
}

func mapAniListStatus(status string) domain.Status {
	switch strings.ToLower(status) {
	case "finished", "complete":
		return domain.StatusCompleted
	case "releasing", "ongoing":
		return domain.StatusOngoing
	case "hiatus":
		return domain.StatusHiatus
	case "cancelled":
		return domain.StatusHold
	default:
		return domain.StatusOngoing
	}
}

func mapAniListType(format string) domain.Type {
	switch strings.ToLower(format) {
	case "manhwa":
		return domain.TypeManhwa
	case "manhua":
		return domain.TypeManhua
	default:
		return domain.TypeManga
	}
}
