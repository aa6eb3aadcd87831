package app

import (
	"context"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
	"github.com/rs/zerolog"
)

// Snapshot est le document d'export/import complet:
// { library, notifications, settings, exportDate }.
type Snapshot struct {
	Library       []EntryDTO                  `json:"library"`
	Notifications *domain.NotificationSettings `json:"notifications,omitempty"`
	Settings      *domain.AppSettings          `json:"settings,omitempty"`
	ExportDate    time.Time                    `json:"exportDate"`
}

// TransferService fait l'export et l'import en bloc de tout l'état persisté.
type TransferService struct {
	logger   zerolog.Logger
	library  ports.LibraryRepository
	settings ports.SettingsRepository

	now func() time.Time
}

func NewTransferService(logger zerolog.Logger, library ports.LibraryRepository, settings ports.SettingsRepository) *TransferService {
	return &TransferService{logger: logger, library: library, settings: settings, now: time.Now}
}

func (s *TransferService) Export(ctx context.Context) (Snapshot, error) {
	entries, err := s.library.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	notif, err := s.settings.GetNotifications(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	app, err := s.settings.GetApp(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	library := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		library = append(library, ToEntryDTO(e))
	}
	return Snapshot{
		Library:       library,
		Notifications: &notif,
		Settings:      &app,
		ExportDate:    s.now().UTC(),
	}, nil
}

// Import remplace en bloc chaque section présente dans le snapshot. Les
// sections s'écrivent l'une après l'autre: si une écriture tardive échoue,
// les précédentes restent en place (comportement historique, pas
// d'atomicité inter-sections).
func (s *TransferService) Import(ctx context.Context, snap Snapshot) error {
	if snap.Library != nil {
		entries := make([]domain.Entry, 0, len(snap.Library))
		for _, d := range snap.Library {
			if err := validateDraft(d); err != nil {
				return err
			}
			if d.ID == "" {
				verr := &ValidationError{}
				verr.add("library", "imported entries must carry their id")
				return verr
			}
			entries = append(entries, fromEntryDTO(d))
		}
		if err := s.library.Replace(ctx, entries); err != nil {
			return err
		}
		s.logger.Info().Int("entries", len(entries)).Msg("library imported")
	}
	if snap.Notifications != nil {
		if _, err := s.settings.PutNotifications(ctx, *snap.Notifications); err != nil {
			return err
		}
	}
	if snap.Settings != nil {
		if _, err := s.settings.PutApp(ctx, *snap.Settings); err != nil {
			return err
		}
	}
	return nil
}
