package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
	"github.com/rs/zerolog"
)

// CatalogSearchService fait la recherche catalogue au travers d'un registre
// explicite de providers. Le cache est consulté avant tout appel réseau et
// ré-écrit après chaque recherche réussie; un échec provider dégrade en
// liste vide, jamais en erreur pour l'appelant.
type CatalogSearchService struct {
	logger    zerolog.Logger
	cache     ports.SearchCache
	providers map[string]ports.CatalogProvider

	MaxAge time.Duration
}

func NewCatalogSearchService(logger zerolog.Logger, cache ports.SearchCache, providers ...ports.CatalogProvider) *CatalogSearchService {
	reg := make(map[string]ports.CatalogProvider, len(providers))
	for _, p := range providers {
		reg[p.Name()] = p
	}
	return &CatalogSearchService{
		logger:    logger,
		cache:     cache,
		providers: reg,
		MaxAge:    ports.DefaultCacheMaxAge,
	}
}

func (s *CatalogSearchService) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

func (s *CatalogSearchService) Search(ctx context.Context, providerName, query string) ([]EntryDTO, error) {
	query = strings.TrimSpace(query)
	verr := &ValidationError{}
	if query == "" {
		verr.add("q", "required")
	}
	provider, ok := s.providers[providerName]
	if !ok {
		verr.add("provider", "unknown provider "+providerName)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	cacheKey := providerName + "-search-" + query
	if s.cache != nil {
		payload, hit, err := s.cache.Get(ctx, cacheKey, s.MaxAge)
		if err != nil {
			s.logger.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
		} else if hit {
			var cached []EntryDTO
			if err := json.Unmarshal(payload, &cached); err == nil {
				s.logger.Debug().Str("provider", providerName).Str("query", query).Msg("catalog cache hit")
				return cached, nil
			}
			// Payload illisible: on repart sur le réseau.
		}
	}

	results, err := provider.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", providerName).Str("query", query).Msg("catalog search failed")
		return []EntryDTO{}, nil
	}

	out := make([]EntryDTO, 0, len(results))
	for _, e := range results {
		out = append(out, ToEntryDTO(e))
	}

	if s.cache != nil {
		if b, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, cacheKey, b); err != nil {
				s.logger.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
			}
		}
	}
	return out, nil
}
