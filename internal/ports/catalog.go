package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

// CatalogProvider est un connecteur de recherche externe. Search renvoie des
// brouillons d'entrées (sans id ni timestamps persistés). Les échecs réseau
// remontent en erreur; le service appelant les dégrade en liste vide + log.
type CatalogProvider interface {
	Name() string
	Search(ctx context.Context, query string) ([]domain.Entry, error)
}
