package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

type LibraryRepository interface {
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	Get(ctx context.Context, id string) (domain.Entry, error)
	List(ctx context.Context) ([]domain.Entry, error)
	Update(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	Delete(ctx context.Context, id string) error
	// Replace écrase toute la collection (import).
	Replace(ctx context.Context, entries []domain.Entry) error
	// MarkCompleted passe les entrées données en "completed" sans toucher
	// lastUpdated, en une seule transaction. Renvoie le nombre de lignes
	// effectivement modifiées.
	MarkCompleted(ctx context.Context, ids []string) (int, error)
}
