package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/rs/zerolog"
)

const (
	appSettingsKey          = "app"
	notificationSettingsKey = "notifications"
	nextReminderKey         = "next-reminder"
)

type SettingsRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSettingsRepository(db *sql.DB, logger zerolog.Logger) *SettingsRepository {
	return &SettingsRepository{db: db, logger: logger}
}

func (r *SettingsRepository) GetApp(ctx context.Context) (domain.AppSettings, error) {
	var b []byte
	err := r.db.QueryRowContext(ctx, `SELECT value_json FROM settings WHERE key = ?`, appSettingsKey).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Pas encore initialisé → valeurs par défaut.
			return domain.DefaultAppSettings(), nil
		}
		return domain.AppSettings{}, err
	}
	var s domain.AppSettings
	if err := json.Unmarshal(b, &s); err != nil {
		// Ligne corrompue: on repart des défauts plutôt que d'échouer.
		r.logger.Warn().Err(err).Str("key", appSettingsKey).Msg("corrupt settings row, falling back to defaults")
		return domain.DefaultAppSettings(), nil
	}
	return s, nil
}

func (r *SettingsRepository) PutApp(ctx context.Context, s domain.AppSettings) (domain.AppSettings, error) {
	if err := r.putKey(ctx, appSettingsKey, s); err != nil {
		return domain.AppSettings{}, err
	}
	return r.GetApp(ctx)
}

func (r *SettingsRepository) GetNotifications(ctx context.Context) (domain.NotificationSettings, error) {
	var b []byte
	err := r.db.QueryRowContext(ctx, `SELECT value_json FROM settings WHERE key = ?`, notificationSettingsKey).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultNotificationSettings(), nil
		}
		return domain.NotificationSettings{}, err
	}
	var s domain.NotificationSettings
	if err := json.Unmarshal(b, &s); err != nil {
		r.logger.Warn().Err(err).Str("key", notificationSettingsKey).Msg("corrupt settings row, falling back to defaults")
		return domain.DefaultNotificationSettings(), nil
	}
	return s, nil
}

func (r *SettingsRepository) PutNotifications(ctx context.Context, s domain.NotificationSettings) (domain.NotificationSettings, error) {
	if err := r.putKey(ctx, notificationSettingsKey, s); err != nil {
		return domain.NotificationSettings{}, err
	}
	return r.GetNotifications(ctx)
}

func (r *SettingsRepository) GetNextReminder(ctx context.Context) (time.Time, bool, error) {
	var b []byte
	err := r.db.QueryRowContext(ctx, `SELECT value_json FROM settings WHERE key = ?`, nextReminderKey).Scan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		r.logger.Warn().Err(err).Str("key", nextReminderKey).Msg("corrupt reminder marker, ignoring")
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", nextReminderKey).Msg("corrupt reminder marker, ignoring")
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (r *SettingsRepository) PutNextReminder(ctx context.Context, t time.Time) error {
	return r.putKey(ctx, nextReminderKey, t.Format(time.RFC3339))
}

func (r *SettingsRepository) ClearNextReminder(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, nextReminderKey)
	return err
}

func (r *SettingsRepository) putKey(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings(key, value_json, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, key, b, time.Now().UTC().Format(time.RFC3339))
	return err
}
