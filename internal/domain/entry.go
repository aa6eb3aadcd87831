package domain

import "time"

type Type string

const (
	TypeManga  Type = "manga"
	TypeManhwa Type = "manhwa"
	TypeManhua Type = "manhua"
)

func Types() []Type {
	return []Type{TypeManga, TypeManhwa, TypeManhua}
}

func (t Type) Valid() bool {
	switch t {
	case TypeManga, TypeManhwa, TypeManhua:
		return true
	}
	return false
}

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusHold      Status = "hold"
	StatusHiatus    Status = "hiatus"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOngoing, StatusCompleted, StatusHold, StatusHiatus:
		return true
	}
	return false
}

// Entry est un titre suivi dans la bibliothèque.
type Entry struct {
	ID    string
	MALID int

	Title      string
	CoverImage string
	Rating     int
	Genres     []string
	Status     Status
	Type       Type

	CurrentChapter int
	TotalChapters  int
	CurrentVolume  int
	TotalVolumes   int

	URL      string
	Notes    string
	Favorite bool

	DateAdded   time.Time
	LastUpdated time.Time
}

// ShouldComplete dit si le reconciler doit passer l'entrée en "completed":
// total connu, progression au bout, et pas déjà complétée.
func (e Entry) ShouldComplete() bool {
	return e.TotalChapters > 0 && e.CurrentChapter >= e.TotalChapters && e.Status != StatusCompleted
}

// RelevantForReminder applique le filtre de pertinence des rappels:
// type autorisé + ongoing + (favori si demandé).
func (e Entry) RelevantForReminder(s NotificationSettings) bool {
	if e.Status != StatusOngoing {
		return false
	}
	if s.OnlyFavorites && !e.Favorite {
		return false
	}
	for _, t := range s.Types {
		if t == e.Type {
			return true
		}
	}
	return false
}
