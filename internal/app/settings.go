package app

import (
	"context"
	"encoding/json"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
)

type SettingsService struct {
	repo ports.SettingsRepository
	bus  ports.EventBus
}

func NewSettingsService(repo ports.SettingsRepository, bus ports.EventBus) *SettingsService {
	return &SettingsService{repo: repo, bus: bus}
}

func (s *SettingsService) GetApp(ctx context.Context) (domain.AppSettings, error) {
	return s.repo.GetApp(ctx)
}

func (s *SettingsService) PutApp(ctx context.Context, settings domain.AppSettings) (domain.AppSettings, error) {
	// Validation légère: tout champ vide retombe sur le défaut.
	def := domain.DefaultAppSettings()
	if settings.Theme == "" {
		settings.Theme = def.Theme
	}
	if settings.DefaultView == "" {
		settings.DefaultView = def.DefaultView
	}
	if settings.ItemsPerPage <= 0 {
		settings.ItemsPerPage = def.ItemsPerPage
	}
	if settings.CustomTheme == "" {
		settings.CustomTheme = def.CustomTheme
	}
	if settings.AutoUpdateFrequency <= 0 {
		settings.AutoUpdateFrequency = def.AutoUpdateFrequency
	}
	switch settings.APIProvider {
	case "jikan", "kitsu", "anilist", "custom":
	default:
		settings.APIProvider = def.APIProvider
	}
	if settings.AIProvider == "" {
		settings.AIProvider = def.AIProvider
	}
	if settings.AIModel == "" {
		settings.AIModel = def.AIModel
	}

	updated, err := s.repo.PutApp(ctx, settings)
	if err != nil {
		return domain.AppSettings{}, err
	}
	s.publish("settings.updated", updated)
	return updated, nil
}

func (s *SettingsService) GetNotifications(ctx context.Context) (domain.NotificationSettings, error) {
	return s.repo.GetNotifications(ctx)
}

func (s *SettingsService) PutNotifications(ctx context.Context, settings domain.NotificationSettings) (domain.NotificationSettings, error) {
	verr := &ValidationError{}
	if !settings.Frequency.Valid() {
		verr.add("frequency", "must be one of daily, weekly, monthly")
	}
	if _, _, err := ParseClock(settings.Time); err != nil {
		verr.add("time", "must be HH:MM")
	}
	for _, d := range settings.CustomDays {
		if d < 0 || d > 6 {
			verr.add("customDays", "weekday indices must be 0-6")
			break
		}
	}
	if len(settings.Types) == 0 {
		settings.Types = domain.Types()
	}
	for _, t := range settings.Types {
		if !t.Valid() {
			verr.add("types", "unknown type "+string(t))
			break
		}
	}
	if err := verr.orNil(); err != nil {
		return domain.NotificationSettings{}, err
	}

	updated, err := s.repo.PutNotifications(ctx, settings)
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	s.publish("notifications.updated", updated)
	return updated, nil
}

func (s *SettingsService) publish(topic string, v any) {
	if s.bus == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}
