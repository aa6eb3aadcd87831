package app

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
	"github.com/rs/xid"
)

type LibraryService struct {
	repo ports.LibraryRepository
	bus  ports.EventBus

	// now est remplaçable dans les tests.
	now func() time.Time
}

func NewLibraryService(repo ports.LibraryRepository, bus ports.EventBus) *LibraryService {
	return &LibraryService{repo: repo, bus: bus, now: time.Now}
}

// EntryDTO est la forme wire d'une entrée, alignée sur le format d'export.
type EntryDTO struct {
	ID    string `json:"id"`
	MALID int    `json:"malId,omitempty"`

	Title      string   `json:"title"`
	CoverImage string   `json:"coverImage,omitempty"`
	Rating     int      `json:"rating"`
	Genres     []string `json:"genres"`
	Status     string   `json:"status"`
	Type       string   `json:"type"`

	CurrentChapter int `json:"currentChapter"`
	TotalChapters  int `json:"totalChapters,omitempty"`
	CurrentVolume  int `json:"currentVolume,omitempty"`
	TotalVolumes   int `json:"totalVolumes,omitempty"`

	URL      string `json:"url,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Favorite bool   `json:"favorite"`

	DateAdded   time.Time `json:"dateAdded"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// EntryPatch est une mise à jour partielle: seuls les champs non-nil
// sont fusionnés sur l'entrée existante.
type EntryPatch struct {
	MALID          *int      `json:"malId"`
	Title          *string   `json:"title"`
	CoverImage     *string   `json:"coverImage"`
	Rating         *int      `json:"rating"`
	Genres         *[]string `json:"genres"`
	Status         *string   `json:"status"`
	Type           *string   `json:"type"`
	CurrentChapter *int      `json:"currentChapter"`
	TotalChapters  *int      `json:"totalChapters"`
	CurrentVolume  *int      `json:"currentVolume"`
	TotalVolumes   *int      `json:"totalVolumes"`
	URL            *string   `json:"url"`
	Notes          *string   `json:"notes"`
	Favorite       *bool     `json:"favorite"`
}

func ToEntryDTO(e domain.Entry) EntryDTO {
	genres := e.Genres
	if genres == nil {
		genres = []string{}
	}
	return EntryDTO{
		ID:             e.ID,
		MALID:          e.MALID,
		Title:          e.Title,
		CoverImage:     e.CoverImage,
		Rating:         e.Rating,
		Genres:         genres,
		Status:         string(e.Status),
		Type:           string(e.Type),
		CurrentChapter: e.CurrentChapter,
		TotalChapters:  e.TotalChapters,
		CurrentVolume:  e.CurrentVolume,
		TotalVolumes:   e.TotalVolumes,
		URL:            e.URL,
		Notes:          e.Notes,
		Favorite:       e.Favorite,
		DateAdded:      e.DateAdded,
		LastUpdated:    e.LastUpdated,
	}
}

func fromEntryDTO(d EntryDTO) domain.Entry {
	return domain.Entry{
		ID:             d.ID,
		MALID:          d.MALID,
		Title:          d.Title,
		CoverImage:     d.CoverImage,
		Rating:         d.Rating,
		Genres:         d.Genres,
		Status:         domain.Status(d.Status),
		Type:           domain.Type(d.Type),
		CurrentChapter: d.CurrentChapter,
		TotalChapters:  d.TotalChapters,
		CurrentVolume:  d.CurrentVolume,
		TotalVolumes:   d.TotalVolumes,
		URL:            d.URL,
		Notes:          d.Notes,
		Favorite:       d.Favorite,
		DateAdded:      d.DateAdded,
		LastUpdated:    d.LastUpdated,
	}
}

func validateDraft(d EntryDTO) error {
	verr := &ValidationError{}
	if d.Title == "" {
		verr.add("title", "required")
	}
	if d.Rating < 0 || d.Rating > 5 {
		verr.add("rating", "must be between 0 and 5")
	}
	if !domain.Status(d.Status).Valid() {
		verr.add("status", "must be one of ongoing, completed, hold, hiatus")
	}
	if !domain.Type(d.Type).Valid() {
		verr.add("type", "must be one of manga, manhwa, manhua")
	}
	if d.CurrentChapter < 0 {
		verr.add("currentChapter", "must not be negative")
	}
	if d.TotalChapters < 0 {
		verr.add("totalChapters", "must not be negative")
	}
	if d.CurrentVolume < 0 {
		verr.add("currentVolume", "must not be negative")
	}
	if d.TotalVolumes < 0 {
		verr.add("totalVolumes", "must not be negative")
	}
	return verr.orNil()
}

func (s *LibraryService) List(ctx context.Context) ([]EntryDTO, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryDTO(e))
	}
	return out, nil
}

func (s *LibraryService) Get(ctx context.Context, id string) (EntryDTO, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return EntryDTO{}, err
	}
	return ToEntryDTO(e), nil
}

// Add assigne l'id et les deux timestamps; le brouillon n'en fournit jamais.
func (s *LibraryService) Add(ctx context.Context, draft EntryDTO) (EntryDTO, error) {
	if err := validateDraft(draft); err != nil {
		return EntryDTO{}, err
	}
	now := s.now().UTC()
	e := fromEntryDTO(draft)
	e.ID = xid.New().String()
	e.DateAdded = now
	e.LastUpdated = now

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return EntryDTO{}, err
	}
	s.publish("library.added", ToEntryDTO(created))
	return ToEntryDTO(created), nil
}

func (s *LibraryService) Update(ctx context.Context, id string, patch EntryPatch) (EntryDTO, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return EntryDTO{}, err
	}
	applyPatch(&existing, patch)
	existing.LastUpdated = s.now().UTC()

	if err := validateDraft(ToEntryDTO(existing)); err != nil {
		return EntryDTO{}, err
	}
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return EntryDTO{}, err
	}
	s.publish("library.updated", ToEntryDTO(updated))
	return ToEntryDTO(updated), nil
}

func (s *LibraryService) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if err == nil {
		s.publish("library.deleted", map[string]any{"id": id})
	}
	return err
}

// BulkImport valide tout le lot avant d'écrire quoi que ce soit, puis ajoute
// chaque entrée avec un id et des timestamps neufs.
func (s *LibraryService) BulkImport(ctx context.Context, drafts []EntryDTO) (int, error) {
	for i, d := range drafts {
		if err := validateDraft(d); err != nil {
			verr := &ValidationError{}
			verr.add("entries", "entry "+strconv.Itoa(i)+": "+err.Error())
			return 0, verr
		}
	}
	count := 0
	for _, d := range drafts {
		now := s.now().UTC()
		e := fromEntryDTO(d)
		e.ID = xid.New().String()
		e.DateAdded = now
		e.LastUpdated = now
		if _, err := s.repo.Create(ctx, e); err != nil {
			return count, err
		}
		count++
	}
	if count > 0 {
		s.publish("library.imported", map[string]any{"count": count})
	}
	return count, nil
}

func applyPatch(e *domain.Entry, p EntryPatch) {
	if p.MALID != nil {
		e.MALID = *p.MALID
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.CoverImage != nil {
		e.CoverImage = *p.CoverImage
	}
	if p.Rating != nil {
		e.Rating = *p.Rating
	}
	if p.Genres != nil {
		e.Genres = *p.Genres
	}
	if p.Status != nil {
		e.Status = domain.Status(*p.Status)
	}
	if p.Type != nil {
		e.Type = domain.Type(*p.Type)
	}
	if p.CurrentChapter != nil {
		e.CurrentChapter = *p.CurrentChapter
	}
	if p.TotalChapters != nil {
		e.TotalChapters = *p.TotalChapters
	}
	if p.CurrentVolume != nil {
		e.CurrentVolume = *p.CurrentVolume
	}
	if p.TotalVolumes != nil {
		e.TotalVolumes = *p.TotalVolumes
	}
	if p.URL != nil {
		e.URL = *p.URL
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.Favorite != nil {
		e.Favorite = *p.Favorite
	}
}

func (s *LibraryService) publish(topic string, v any) {
	if s.bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}
