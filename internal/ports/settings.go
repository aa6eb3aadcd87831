package ports

import (
	"context"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
)

type SettingsRepository interface {
	GetApp(ctx context.Context) (domain.AppSettings, error)
	PutApp(ctx context.Context, s domain.AppSettings) (domain.AppSettings, error)
	GetNotifications(ctx context.Context) (domain.NotificationSettings, error)
	PutNotifications(ctx context.Context, s domain.NotificationSettings) (domain.NotificationSettings, error)

	// Marqueur de debug du prochain rappel planifié.
	GetNextReminder(ctx context.Context) (time.Time, bool, error)
	PutNextReminder(ctx context.Context, t time.Time) error
	ClearNextReminder(ctx context.Context) error
}
