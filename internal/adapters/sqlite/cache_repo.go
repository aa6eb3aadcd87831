package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// CacheRepository mémorise les résultats de recherche catalogue.
// Expiration paresseuse: une entrée périmée est supprimée à la lecture,
// jamais balayée en tâche de fond.
type CacheRepository struct {
	db *sql.DB

	// Now est injectable pour les tests de fraîcheur.
	Now func() time.Time
}

func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db, Now: time.Now}
}

func (r *CacheRepository) Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error) {
	var payload []byte
	var createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT payload_json, created_at FROM search_cache WHERE key = ?`, key).
		Scan(&payload, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		// Timestamp illisible: l'entrée est inexploitable, on la purge.
		_, _ = r.db.ExecContext(ctx, `DELETE FROM search_cache WHERE key = ?`, key)
		return nil, false, nil
	}

	if r.Now().Sub(created) >= maxAge {
		_, _ = r.db.ExecContext(ctx, `DELETE FROM search_cache WHERE key = ?`, key)
		return nil, false, nil
	}
	return payload, true, nil
}

func (r *CacheRepository) Set(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_cache(key, payload_json, created_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload_json = excluded.payload_json, created_at = excluded.created_at
	`, key, payload, r.Now().UTC().Format(time.RFC3339Nano))
	return err
}
