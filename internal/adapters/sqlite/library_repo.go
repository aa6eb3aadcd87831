package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
)

type LibraryRepository struct {
	db *sql.DB
}

func NewLibraryRepository(db *sql.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

const entryColumns = `id, mal_id, title, cover_image, rating, genres_json, status, type,
	current_chapter, total_chapters, current_volume, total_volumes,
	url, notes, favorite, date_added, last_updated`

func (r *LibraryRepository) Create(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	genres, err := json.Marshal(emptyIfNil(e.Genres))
	if err != nil {
		return domain.Entry{}, err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO entries(`+entryColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID, e.MALID, e.Title, e.CoverImage, e.Rating, string(genres), string(e.Status), string(e.Type),
		e.CurrentChapter, e.TotalChapters, e.CurrentVolume, e.TotalVolumes,
		e.URL, e.Notes, boolToInt(e.Favorite),
		e.DateAdded.UTC().Format(time.RFC3339Nano), e.LastUpdated.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return domain.Entry{}, ports.ErrConflict
		}
		return domain.Entry{}, err
	}
	return r.Get(ctx, e.ID)
}

func (r *LibraryRepository) Get(ctx context.Context, id string) (domain.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, ports.ErrNotFound
		}
		return domain.Entry{}, err
	}
	return e, nil
}

func (r *LibraryRepository) List(ctx context.Context) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY date_added ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *LibraryRepository) Update(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	genres, err := json.Marshal(emptyIfNil(e.Genres))
	if err != nil {
		return domain.Entry{}, err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE entries
		SET mal_id = ?, title = ?, cover_image = ?, rating = ?, genres_json = ?,
			status = ?, type = ?,
			current_chapter = ?, total_chapters = ?, current_volume = ?, total_volumes = ?,
			url = ?, notes = ?, favorite = ?,
			last_updated = ?
		WHERE id = ?
	`,
		e.MALID, e.Title, e.CoverImage, e.Rating, string(genres),
		string(e.Status), string(e.Type),
		e.CurrentChapter, e.TotalChapters, e.CurrentVolume, e.TotalVolumes,
		e.URL, e.Notes, boolToInt(e.Favorite),
		e.LastUpdated.UTC().Format(time.RFC3339Nano),
		e.ID,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.Entry{}, ports.ErrNotFound
	}
	return r.Get(ctx, e.ID)
}

func (r *LibraryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *LibraryRepository) Replace(ctx context.Context, entries []domain.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, e := range entries {
		genres, err := json.Marshal(emptyIfNil(e.Genres))
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entries(`+entryColumns+`)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			e.ID, e.MALID, e.Title, e.CoverImage, e.Rating, string(genres), string(e.Status), string(e.Type),
			e.CurrentChapter, e.TotalChapters, e.CurrentVolume, e.TotalVolumes,
			e.URL, e.Notes, boolToInt(e.Favorite),
			e.DateAdded.UTC().Format(time.RFC3339Nano), e.LastUpdated.UTC().Format(time.RFC3339Nano),
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *LibraryRepository) MarkCompleted(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		// last_updated volontairement intact: le flip auto ne compte pas
		// comme une édition utilisateur.
		res, err := tx.ExecContext(ctx, `
			UPDATE entries SET status = ?
			WHERE id = ? AND status != ?
		`, string(domain.StatusCompleted), id, string(domain.StatusCompleted))
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		n, _ := res.RowsAffected()
		total += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var e domain.Entry
	var genres string
	var favorite int
	var added, updated string
	err := row.Scan(
		&e.ID, &e.MALID, &e.Title, &e.CoverImage, &e.Rating, &genres, &e.Status, &e.Type,
		&e.CurrentChapter, &e.TotalChapters, &e.CurrentVolume, &e.TotalVolumes,
		&e.URL, &e.Notes, &favorite, &added, &updated,
	)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Favorite = favorite != 0
	if err := json.Unmarshal([]byte(genres), &e.Genres); err != nil {
		// Colonne corrompue: on dégrade en liste vide plutôt que d'échouer.
		e.Genres = []string{}
	}
	if t, err := time.Parse(time.RFC3339Nano, added); err == nil {
		e.DateAdded = t
	}
	if t, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		e.LastUpdated = t
	}
	return e, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
