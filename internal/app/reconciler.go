package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/Guilhem-Bonnet/Omni-Reader/internal/domain"
	"github.com/Guilhem-Bonnet/Omni-Reader/internal/ports"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StatusReconciler aligne le statut sur la progression: une entrée dont le
// chapitre courant atteint le total connu passe en "completed", sans autre
// modification. Un sweep tourne au démarrage puis à intervalle fixe.
type StatusReconciler struct {
	logger   zerolog.Logger
	library  ports.LibraryRepository
	notifier ports.Notifier

	mu   sync.Mutex
	cron *cron.Cron
}

func NewStatusReconciler(logger zerolog.Logger, library ports.LibraryRepository, notifier ports.Notifier) *StatusReconciler {
	return &StatusReconciler{logger: logger, library: library, notifier: notifier}
}

// Sweep fait une passe complète. Zéro changement ⇒ zéro écriture; le rejouer
// sur des données stables est donc un no-op.
func (r *StatusReconciler) Sweep(ctx context.Context) (int, error) {
	entries, err := r.library.List(ctx)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0)
	titles := make([]string, 0)
	for _, e := range entries {
		if e.ShouldComplete() {
			ids = append(ids, e.ID)
			titles = append(titles, e.Title)
		}
	}
	if len(ids) == 0 {
		r.logger.Debug().Msg("status sweep: nothing to update")
		return 0, nil
	}

	updated, err := r.library.MarkCompleted(ctx, ids)
	if err != nil {
		return 0, err
	}
	r.logger.Info().Int("updated", updated).Msg("status sweep: entries auto-completed")

	for _, title := range titles {
		if err := r.notifier.NotifyCompletion(ctx, title); err != nil {
			r.logger.Warn().Err(err).Str("title", title).Msg("completion notification failed")
		}
	}
	return updated, nil
}

// Rearm (re)programme le sweep périodique: l'ancien cron est arrêté avant
// d'en créer un autre, il n'y a jamais qu'un seul timer actif. enabled=false
// arrête tout. Un sweep immédiat est lancé à chaque (ré)armement.
func (r *StatusReconciler) Rearm(ctx context.Context, enabled bool, frequencyHours int) error {
	// Verrou tenu du stop jusqu'à l'installation: un Rearm concurrent ne
	// peut pas glisser un second cron entre les deux.
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		r.cron.Stop()
		r.cron = nil
	}

	if !enabled {
		r.logger.Info().Msg("status reconciler stopped")
		return nil
	}
	if frequencyHours <= 0 {
		frequencyHours = domain.DefaultAppSettings().AutoUpdateFrequency
	}

	go func() {
		if _, err := r.Sweep(ctx); err != nil {
			r.logger.Error().Err(err).Msg("initial status sweep failed")
		}
	}()

	c := cron.New()
	_, err := c.AddFunc(fmt.Sprintf("@every %dh", frequencyHours), func() {
		if _, err := r.Sweep(context.Background()); err != nil {
			r.logger.Error().Err(err).Msg("status sweep failed")
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	r.cron = c

	r.logger.Info().Int("frequency_hours", frequencyHours).Msg("status reconciler armed")
	return nil
}

// Stop arrête le cron en cours, s'il y en a un.
func (r *StatusReconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		r.cron.Stop()
		r.cron = nil
	}
}
