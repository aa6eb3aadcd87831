package ports

import (
	"context"
	"time"
)

// DefaultCacheMaxAge est la fenêtre de fraîcheur du cache de recherche.
const DefaultCacheMaxAge = 1440 * time.Minute

// SearchCache mémorise les résultats de recherche catalogue, clé = provider+query.
// Une entrée plus vieille que maxAge est traitée comme absente et supprimée
// à la lecture.
type SearchCache interface {
	Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}
