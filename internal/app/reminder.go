package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
	"github.com/rs/zerolog"
)

// ReminderScheduler possède l'unique timer de rappel. Arm recalcule la
// prochaine échéance depuis les settings et la bibliothèque, annule
// l'éventuel timer en attente, puis en arme au plus un. Au déclenchement,
// la notification part avec le compte calculé à la planification, puis le
// scheduler se ré-arme.
type ReminderScheduler struct {
	logger   zerolog.Logger
	library  ports.LibraryRepository
	settings ports.SettingsRepository
	notifier ports.Notifier

	mu    sync.Mutex
	timer *time.Timer

	// now est remplaçable dans les tests.
	now func() time.Time
}

func NewReminderScheduler(logger zerolog.Logger, library ports.LibraryRepository, settings ports.SettingsRepository, notifier ports.Notifier) *ReminderScheduler {
	return &ReminderScheduler{
		logger:   logger,
		library:  library,
		settings: settings,
		notifier: notifier,
		now:      time.Now,
	}
}

// Arm (re)planifie le prochain rappel. Renvoie l'instant armé et false si
// rien n'a été armé (désactivé, aucune entrée pertinente, ou settings
// invalides).
func (s *ReminderScheduler) Arm(ctx context.Context) (time.Time, bool, error) {
	// Le verrou couvre toute la séquence stop → calcul → armement: deux
	// Arm concurrents ne peuvent pas laisser deux timers en vie.
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.settings.GetNotifications(ctx)
	if err != nil {
		return time.Time{}, false, err
	}

	s.stopTimerLocked()

	if !settings.Enabled {
		if err := s.settings.ClearNextReminder(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear reminder marker")
		}
		return time.Time{}, false, nil
	}

	count, err := s.relevantCount(ctx, settings)
	if err != nil {
		return time.Time{}, false, err
	}
	if count == 0 {
		// Rien à rappeler: pas de timer, pas de marqueur.
		if err := s.settings.ClearNextReminder(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clear reminder marker")
		}
		s.logger.Debug().Msg("no relevant entries, reminder not armed")
		return time.Time{}, false, nil
	}

	now := s.now()
	fireAt, err := NextFireTime(now, settings)
	if err != nil {
		return time.Time{}, false, err
	}

	s.timer = time.AfterFunc(fireAt.Sub(now), func() { s.fire(count) })

	if err := s.settings.PutNextReminder(ctx, fireAt); err != nil {
		s.logger.Warn().Err(err).Msg("failed to persist reminder marker")
	}
	s.logger.Info().Time("fire_at", fireAt).Int("relevant", count).Msg("reminder armed")
	return fireAt, true, nil
}

// Cancel annule le timer en attente et efface le marqueur persisté.
func (s *ReminderScheduler) Cancel(ctx context.Context) {
	s.stopTimer()
	if err := s.settings.ClearNextReminder(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear reminder marker")
	}
}

func (s *ReminderScheduler) stopTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
}

// stopTimerLocked suppose s.mu tenu.
func (s *ReminderScheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *ReminderScheduler) fire(count int) {
	ctx := context.Background()
	// Le refus de notification dégrade en no-op loggué, il ne bloque
	// jamais le cycle suivant.
	if err := s.notifier.NotifyReminder(ctx, count); err != nil {
		s.logger.Warn().Err(err).Msg("reminder notification failed")
	}
	if _, _, err := s.Arm(ctx); err != nil {
		s.logger.Error().Err(err).Msg("reminder rearm failed")
	}
}

func (s *ReminderScheduler) relevantCount(ctx context.Context, settings domain.NotificationSettings) (int, error) {
	entries, err := s.library.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, e := range entries {
		if e.RelevantForReminder(settings) {
			count++
		}
	}
	return count, nil
}

// NextFireTime calcule la prochaine échéance de rappel.
//
// Candidat: aujourd'hui à settings.Time (horloge locale de now); s'il n'est
// pas strictement dans le futur, +1 jour. Puis par fréquence:
//   - daily: candidat tel quel;
//   - weekly: plus proche instant tombant sur un des jours configurés
//     (dimanche par défaut), décalage calculé depuis le jour du candidat;
//   - monthly: +1 mois calendaire, débordement de fin de mois non normalisé.
func NextFireTime(now time.Time, settings domain.NotificationSettings) (time.Time, error) {
	hours, minutes, err := ParseClock(settings.Time)
	if err != nil {
		return time.Time{}, err
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	switch settings.Frequency {
	case domain.FrequencyWeekly:
		days := settings.CustomDays
		if len(days) == 0 {
			days = []int{0} // dimanche
		}
		candidateDay := int(next.Weekday())
		var earliest time.Time
		for _, target := range days {
			delta := (target - candidateDay + 7) % 7
			candidate := next.AddDate(0, 0, delta)
			if earliest.IsZero() || candidate.Before(earliest) {
				earliest = candidate
			}
		}
		next = earliest
	case domain.FrequencyMonthly:
		next = next.AddDate(0, 1, 0)
	}

	return next, nil
}

// ParseClock lit un "HH:MM" 24h.
func ParseClock(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, errors.New("invalid time, expected HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, errors.New("invalid hour")
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, errors.New("invalid minute")
	}
	return h, m, nil
}
